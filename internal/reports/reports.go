// Package reports computes read-only summaries over the ledger state.
package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/optibudget/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// alertThreshold is the remaining percentage below which a budget counts
// as "in alert" in the global report.
var alertThreshold = decimal.NewFromInt(10)

// Service computes reports.
type Service struct {
	db *gorm.DB
}

// New returns a Service.
func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// BudgetSummary is the per-budget overview.
type BudgetSummary struct {
	Budget          models.Budget   `json:"budget"`
	InitialAmount   decimal.Decimal `json:"initialAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	UsedAmount      decimal.Decimal `json:"usedAmount"`
	UsedPercentage  decimal.Decimal `json:"usedPercentage"`
	CategoryCount   int             `json:"categoryCount"`
	ExpenseCount    int             `json:"expenseCount"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
}

// Summary computes the overview for one budget.
func (s *Service) Summary(ctx context.Context, user models.User, budgetID uuid.UUID) (BudgetSummary, error) {
	db := s.db.WithContext(ctx)

	var budget models.Budget
	err := db.First(&budget, "id = ? AND user_id = ?", budgetID, user.ID).Error
	if err != nil {
		return BudgetSummary{}, err
	}

	categories, err := budget.Categories(db)
	if err != nil {
		return BudgetSummary{}, err
	}

	expenses, err := budget.Expenses(db)
	if err != nil {
		return BudgetSummary{}, err
	}

	totalExpenses, err := budget.TotalExpenses(db, time.Time{}, time.Time{})
	if err != nil {
		return BudgetSummary{}, err
	}

	used := budget.UsedAmount()
	usedPercentage := decimal.Zero
	if budget.InitialBalance.IsPositive() {
		usedPercentage = used.Div(budget.InitialBalance).Mul(decimal.NewFromInt(100))
	}

	return BudgetSummary{
		Budget:          budget,
		InitialAmount:   budget.InitialBalance,
		RemainingAmount: budget.Balance,
		UsedAmount:      used,
		UsedPercentage:  usedPercentage,
		CategoryCount:   len(categories),
		ExpenseCount:    len(expenses),
		TotalExpenses:   totalExpenses,
	}, nil
}

// GlobalReport aggregates over all budgets of a user.
type GlobalReport struct {
	BudgetCount      int              `json:"budgetCount"`
	TotalInitial     decimal.Decimal  `json:"totalInitial"`
	TotalCurrent     decimal.Decimal  `json:"totalCurrent"`
	TotalExpenses    decimal.Decimal  `json:"totalExpenses"`
	TotalPayments    decimal.Decimal  `json:"totalPayments"`
	TotalIncome      *decimal.Decimal `json:"totalIncome,omitempty"`
	BudgetsInAlert   []string         `json:"budgetsInAlert"`
	ExhaustedBudgets []string         `json:"exhaustedBudgets"`
}

// Global computes the financial report over all budgets of the user.
// Income totals are only included for enterprise accounts.
func (s *Service) Global(ctx context.Context, user models.User) (GlobalReport, error) {
	db := s.db.WithContext(ctx)

	var budgets []models.Budget
	err := db.Where(&models.Budget{UserID: user.ID}).Find(&budgets).Error
	if err != nil {
		return GlobalReport{}, err
	}

	report := GlobalReport{
		BudgetCount:      len(budgets),
		BudgetsInAlert:   []string{},
		ExhaustedBudgets: []string{},
	}

	income := decimal.Zero
	for _, budget := range budgets {
		report.TotalInitial = report.TotalInitial.Add(budget.InitialBalance)
		report.TotalCurrent = report.TotalCurrent.Add(budget.Balance)

		expenses, err := budget.TotalExpenses(db, time.Time{}, time.Time{})
		if err != nil {
			return GlobalReport{}, err
		}
		report.TotalExpenses = report.TotalExpenses.Add(expenses)

		payments, err := budget.TotalPayments(db, time.Time{}, time.Time{})
		if err != nil {
			return GlobalReport{}, err
		}
		report.TotalPayments = report.TotalPayments.Add(payments)

		if user.AccountKind == models.AccountKindEnterprise {
			budgetIncome, err := budget.TotalIncome(db, time.Time{}, time.Time{})
			if err != nil {
				return GlobalReport{}, err
			}
			income = income.Add(budgetIncome)
		}

		if !budget.Balance.IsPositive() {
			report.ExhaustedBudgets = append(report.ExhaustedBudgets, budget.Name)
		} else if budget.RemainingPercentage().LessThan(alertThreshold) {
			report.BudgetsInAlert = append(report.BudgetsInAlert, budget.Name)
		}
	}

	if user.AccountKind == models.AccountKindEnterprise {
		report.TotalIncome = &income
	}

	return report, nil
}
