package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category is a sub-allocation of a budget. Its balance is authoritative
// state maintained by the ledger, not a view over the expense rows.
type Category struct {
	DefaultModel
	User           User      `json:"-"`
	UserID         uuid.UUID
	Budget         Budget    `json:"-"`
	BudgetID       uuid.UUID `gorm:"uniqueIndex:category_name_budget_id"`
	Name           string    `gorm:"uniqueIndex:category_name_budget_id"`
	Note           string
	Balance        decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	InitialBalance decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Category)
	return c.checkIntegrity(tx, *toSave)
}

func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("BudgetID") {
		toSave := tx.Statement.Dest.(Category)
		return c.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (c *Category) checkIntegrity(tx *gorm.DB, toSave Category) error {
	return tx.First(&Budget{}, toSave.BudgetID).Error
}

// RemainingPercentage returns the remaining balance as a percentage of the
// initial allocation. Categories without an allocation report 100%.
func (c Category) RemainingPercentage() decimal.Decimal {
	if !c.InitialBalance.IsPositive() {
		return decimal.NewFromInt(100)
	}

	return c.Balance.Div(c.InitialBalance).Mul(decimal.NewFromInt(100))
}

// Expenses returns all expenses of this category.
func (c Category) Expenses(db *gorm.DB) ([]Expense, error) {
	var expenses []Expense
	err := db.Where(Expense{CategoryID: &c.ID}).Find(&expenses).Error
	return expenses, err
}

// Returns all categories on this instance for export
func (Category) Export() (json.RawMessage, error) {
	var categories []Category
	err := DB.Unscoped().Where(&Category{}).Find(&categories).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&categories)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
