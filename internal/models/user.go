package models

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"
)

// AccountKind distinguishes individual accounts from enterprise accounts.
// Income entries, employees and payroll are only available to enterprise
// accounts.
type AccountKind string

const (
	AccountKindIndividual AccountKind = "individual"
	AccountKindEnterprise AccountKind = "enterprise"
)

func (k AccountKind) Valid() bool {
	return k == AccountKindIndividual || k == AccountKindEnterprise
}

// User represents the owner of all other resources.
//
// Authentication happens outside of this backend, the router resolves the
// authenticated identity to a User for every request.
type User struct {
	DefaultModel
	Name        string
	Email       string      `gorm:"uniqueIndex"`
	AccountKind AccountKind `json:"accountKind"`
}

// CheckEnterprise gates enterprise-only operations on the account kind.
func (u User) CheckEnterprise() error {
	switch u.AccountKind {
	case AccountKindEnterprise:
		return nil
	case AccountKindIndividual:
		return ErrEnterpriseOnly
	default:
		return ErrUnknownAccountKind
	}
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)

	if u.AccountKind == "" {
		u.AccountKind = AccountKindIndividual
	}

	if !u.AccountKind.Valid() {
		return ErrUnknownAccountKind
	}

	return nil
}

// Returns all users on this instance for export
func (User) Export() (json.RawMessage, error) {
	var users []User
	err := DB.Unscoped().Where(&User{}).Find(&users).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&users)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
