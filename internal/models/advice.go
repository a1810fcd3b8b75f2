package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Advice is generated commentary for a budget, produced by the advice
// provider during the weekly and final statistics jobs.
type Advice struct {
	DefaultModel
	User     User      `json:"-"`
	UserID   uuid.UUID `gorm:"index"`
	Budget   *Budget    `json:"-"`
	BudgetID *uuid.UUID `gorm:"index"`
	Name     string
	Message  string
	Viewed   bool
}

func (a *Advice) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)

	if a.Name == "" {
		a.Name = "advice"
	}

	return nil
}

// Returns all advice entries on this instance for export
func (Advice) Export() (json.RawMessage, error) {
	var advice []Advice
	err := DB.Unscoped().Where(&Advice{}).Find(&advice).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&advice)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
