package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is the top level spending envelope. All amounts a user spends,
// allocates to categories, receives as income or pays out as salaries are
// mirrored in its Balance.
type Budget struct {
	DefaultModel
	User            User      `json:"-"`
	UserID          uuid.UUID `gorm:"uniqueIndex:budget_name_user_id"`
	Name            string    `gorm:"uniqueIndex:budget_name_user_id"`
	Note            string
	Balance         decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	InitialBalance  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	EndDate         *time.Time
	FixedTerm       bool
	Active          bool
	FinalReportDone bool
}

func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Note = strings.TrimSpace(b.Note)

	if b.EndDate != nil {
		d := b.EndDate.In(time.UTC)
		b.EndDate = &d
	}

	return nil
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Budget)
	return b.checkIntegrity(tx, *toSave)
}

func (b *Budget) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("UserID") {
		toSave := tx.Statement.Dest.(Budget)
		return b.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (b *Budget) checkIntegrity(tx *gorm.DB, toSave Budget) error {
	return tx.First(&User{}, toSave.UserID).Error
}

// UsedAmount returns how much of the initial balance has been consumed.
func (b Budget) UsedAmount() decimal.Decimal {
	return b.InitialBalance.Sub(b.Balance)
}

// RemainingPercentage returns the remaining balance as a percentage of the
// initial balance. Budgets without an initial balance report 100%.
func (b Budget) RemainingPercentage() decimal.Decimal {
	if !b.InitialBalance.IsPositive() {
		return decimal.NewFromInt(100)
	}

	return b.Balance.Div(b.InitialBalance).Mul(decimal.NewFromInt(100))
}

// DaysUntilEnd returns the number of days until the end date. The second
// return value is false when no end date is set. Negative values mean the
// budget ended in the past.
func (b Budget) DaysUntilEnd(now time.Time) (int, bool) {
	if b.EndDate == nil {
		return 0, false
	}

	end := time.Date(b.EndDate.Year(), b.EndDate.Month(), b.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(today).Hours() / 24), true
}

// Expired reports whether a set end date lies in the past.
func (b Budget) Expired(now time.Time) bool {
	days, ok := b.DaysUntilEnd(now)
	return ok && days < 0
}

// Categories returns all categories of this budget.
func (b Budget) Categories(db *gorm.DB) ([]Category, error) {
	var categories []Category
	err := db.Where(&Category{BudgetID: b.ID}).Find(&categories).Error
	return categories, err
}

// Expenses returns all expenses booked against this budget, both
// categorized and direct ones.
func (b Budget) Expenses(db *gorm.DB) ([]Expense, error) {
	var expenses []Expense
	err := db.Where(&Expense{BudgetID: b.ID}).Find(&expenses).Error
	return expenses, err
}

// TotalExpenses sums all expenses of the budget, optionally bounded to a
// time window. Zero times are ignored.
func (b Budget) TotalExpenses(db *gorm.DB, from, until time.Time) (decimal.Decimal, error) {
	return sumAmounts(db, &Expense{BudgetID: b.ID}, from, until)
}

// TotalIncome sums all income entries of the budget.
func (b Budget) TotalIncome(db *gorm.DB, from, until time.Time) (decimal.Decimal, error) {
	return sumAmounts(db, &Income{BudgetID: b.ID}, from, until)
}

// TotalPayments sums all employee payments booked against the budget.
func (b Budget) TotalPayments(db *gorm.DB, from, until time.Time) (decimal.Decimal, error) {
	return sumAmounts(db, &Payment{BudgetID: b.ID}, from, until)
}

func sumAmounts(db *gorm.DB, condition any, from, until time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	q := db.Model(condition).Where(condition)
	if !from.IsZero() {
		q = q.Where("datetime(created_at) >= datetime(?)", from)
	}
	if !until.IsZero() {
		q = q.Where("datetime(created_at) <= datetime(?)", until)
	}

	err := q.Select("SUM(amount)").Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}

// Returns all budgets on this instance for export
func (Budget) Export() (json.RawMessage, error) {
	var budgets []Budget
	err := DB.Unscoped().Where(&Budget{}).Find(&budgets).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&budgets)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
