package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/optibudget/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// endDateMargin is the minimum distance of a fixed term budget's end date
// from its creation.
const endDateMargin = 3 * 24 * time.Hour

func validateEndDate(endDate *time.Time, fixedTerm bool, now time.Time) error {
	if !fixedTerm || endDate == nil {
		return nil
	}

	if endDate.Before(now.Add(endDateMargin)) {
		return models.ErrEndDateTooClose
	}

	return nil
}

// CreateBudget creates a budget. The balance starts at the initial balance.
func (l *Ledger) CreateBudget(ctx context.Context, user models.User, create models.Budget) (models.Budget, error) {
	if create.InitialBalance.IsNegative() {
		return models.Budget{}, models.ErrAmountNegative
	}

	if err := validateEndDate(create.EndDate, create.FixedTerm, time.Now()); err != nil {
		return models.Budget{}, err
	}

	create.UserID = user.ID
	create.Balance = create.InitialBalance
	create.Active = true
	create.FinalReportDone = false

	err := l.db.WithContext(ctx).Create(&create).Error
	if err != nil {
		return models.Budget{}, err
	}

	l.emit(ctx, Event{Action: ActionCreated, Entity: "budget", User: user, Budget: create})
	return create, nil
}

// BudgetUpdate carries the fields a client can change on a budget. Nil
// pointers leave the current value untouched.
type BudgetUpdate struct {
	Name           *string
	Note           *string
	InitialBalance *decimal.Decimal
	EndDate        *time.Time
	FixedTerm      *bool
	Active         *bool
}

// UpdateBudget applies an authoritative edit.
//
// Changing the initial balance is destructive: all child resources and
// advice of the budget are removed and the balance is reset to the
// submitted amount. Metadata-only edits leave children and balance alone.
func (l *Ledger) UpdateBudget(ctx context.Context, user models.User, id uuid.UUID, update BudgetUpdate) (models.Budget, error) {
	var budget models.Budget

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		budget, err = budgetOf(tx, user, id)
		if err != nil {
			return err
		}

		if update.Name != nil {
			budget.Name = *update.Name
		}
		if update.Note != nil {
			budget.Note = *update.Note
		}
		if update.EndDate != nil {
			budget.EndDate = update.EndDate
		}
		if update.FixedTerm != nil {
			budget.FixedTerm = *update.FixedTerm
		}
		if update.Active != nil {
			budget.Active = *update.Active
		}

		if err := validateEndDate(budget.EndDate, budget.FixedTerm, time.Now()); err != nil {
			return err
		}

		if update.InitialBalance != nil && !update.InitialBalance.Equal(budget.InitialBalance) {
			if update.InitialBalance.IsNegative() {
				return models.ErrAmountNegative
			}

			if err := deleteChildren(tx, budget); err != nil {
				return err
			}

			if err := tx.Where(&models.Advice{BudgetID: &budget.ID}).Delete(&models.Advice{}).Error; err != nil {
				return err
			}

			budget.InitialBalance = *update.InitialBalance
			budget.Balance = *update.InitialBalance
		}

		return tx.Save(&budget).Error
	})
	if err != nil {
		return models.Budget{}, err
	}

	l.emit(ctx, Event{Action: ActionUpdated, Entity: "budget", User: user, Budget: budget})
	return budget, nil
}

// ResetBudget restores the balance to the initial balance and removes all
// child resources.
func (l *Ledger) ResetBudget(ctx context.Context, user models.User, id uuid.UUID) (models.Budget, error) {
	var budget models.Budget

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		budget, err = budgetOf(tx, user, id)
		if err != nil {
			return err
		}

		if err := deleteChildren(tx, budget); err != nil {
			return err
		}

		budget.Balance = budget.InitialBalance
		return tx.Save(&budget).Error
	})
	if err != nil {
		return models.Budget{}, err
	}

	l.emit(ctx, Event{Action: ActionReset, Entity: "budget", User: user, Budget: budget})
	return budget, nil
}

// DeleteBudget removes the budget and all its child resources and advice.
func (l *Ledger) DeleteBudget(ctx context.Context, user models.User, id uuid.UUID) error {
	var budget models.Budget

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		budget, err = budgetOf(tx, user, id)
		if err != nil {
			return err
		}

		if err := deleteChildren(tx, budget); err != nil {
			return err
		}

		if err := tx.Where(&models.Advice{BudgetID: &budget.ID}).Delete(&models.Advice{}).Error; err != nil {
			return err
		}

		return tx.Delete(&budget).Error
	})
	if err != nil {
		return err
	}

	l.emit(ctx, Event{Action: ActionDeleted, Entity: "budget", User: user, Budget: budget})
	return nil
}

func deleteChildren(tx *gorm.DB, budget models.Budget) error {
	if err := tx.Where(&models.Expense{BudgetID: budget.ID}).Delete(&models.Expense{}).Error; err != nil {
		return err
	}

	if err := tx.Where(&models.Income{BudgetID: budget.ID}).Delete(&models.Income{}).Error; err != nil {
		return err
	}

	if err := tx.Where(&models.Payment{BudgetID: budget.ID}).Delete(&models.Payment{}).Error; err != nil {
		return err
	}

	return tx.Where(&models.Category{BudgetID: budget.ID}).Delete(&models.Category{}).Error
}
