package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType is the severity tag of a notification.
type NotificationType string

const (
	NotificationInfo    NotificationType = "INFO"
	NotificationWarning NotificationType = "WARNING"
	NotificationSuccess NotificationType = "SUCCESS"
	NotificationError   NotificationType = "ERROR"
	NotificationLog     NotificationType = "LOG"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationWarning, NotificationSuccess, NotificationError, NotificationLog:
		return true
	}
	return false
}

// Notification is created as a side effect of ledger mutations, it never
// mutates ledger state itself.
type Notification struct {
	DefaultModel
	User    User      `json:"-"`
	UserID  uuid.UUID `gorm:"index"`
	Message string
	Type    NotificationType
	Viewed  bool
}

func (n *Notification) BeforeSave(_ *gorm.DB) error {
	n.Message = strings.TrimSpace(n.Message)

	if n.Type == "" {
		n.Type = NotificationInfo
	}

	if !n.Type.Valid() {
		return ErrNotificationTypeInvalid
	}

	return nil
}

// Returns all notifications on this instance for export
func (Notification) Export() (json.RawMessage, error) {
	var notifications []Notification
	err := DB.Unscoped().Where(&Notification{}).Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&notifications)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
