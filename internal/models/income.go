package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Income is a credit to a budget. Only enterprise accounts can record
// income, the ledger enforces the gate.
type Income struct {
	DefaultModel
	User     User      `json:"-"`
	UserID   uuid.UUID
	Budget   Budget    `json:"-"`
	BudgetID uuid.UUID
	Name     string
	Note     string
	Amount   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (i *Income) BeforeSave(_ *gorm.DB) error {
	i.Name = strings.TrimSpace(i.Name)
	i.Note = strings.TrimSpace(i.Note)

	return nil
}

func (i *Income) BeforeCreate(tx *gorm.DB) error {
	_ = i.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Income)
	return i.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources
func (i *Income) checkIntegrity(tx *gorm.DB, toSave Income) error {
	return tx.First(&Budget{}, toSave.BudgetID).Error
}

// Returns all income entries on this instance for export
func (Income) Export() (json.RawMessage, error) {
	var incomes []Income
	err := DB.Unscoped().Where(&Income{}).Find(&incomes).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&incomes)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
