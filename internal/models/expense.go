package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseKind distinguishes ordinary expenses from the mirrored expense
// rows the payroll processor creates for salary payments.
type ExpenseKind string

const (
	ExpenseKindStandard ExpenseKind = "expense"
	ExpenseKindSalary   ExpenseKind = "salary"
)

// Expense is a debit against a budget, optionally scoped to one of the
// budget's categories.
type Expense struct {
	DefaultModel
	User       User      `json:"-"`
	UserID     uuid.UUID
	Budget     Budget    `json:"-"`
	BudgetID   uuid.UUID
	Category   *Category  `json:"-"`
	CategoryID *uuid.UUID `gorm:"index"`
	Name       string
	Note       string
	Amount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Kind       ExpenseKind
}

func (e *Expense) BeforeSave(_ *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Note = strings.TrimSpace(e.Note)

	if e.Kind == "" {
		e.Kind = ExpenseKindStandard
	}

	return nil
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Expense)
	return e.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources
func (e *Expense) checkIntegrity(tx *gorm.DB, toSave Expense) error {
	err := tx.First(&Budget{}, toSave.BudgetID).Error
	if err != nil {
		return err
	}

	if toSave.CategoryID != nil {
		var category Category
		err = tx.First(&category, *toSave.CategoryID).Error
		if err != nil {
			return err
		}

		if category.BudgetID != toSave.BudgetID {
			return ErrCategoryNotInBudget
		}
	}

	return nil
}

// Returns all expenses on this instance for export
func (Expense) Export() (json.RawMessage, error) {
	var expenses []Expense
	err := DB.Unscoped().Where(&Expense{}).Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&expenses)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
