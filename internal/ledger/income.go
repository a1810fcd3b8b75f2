package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/optibudget/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateIncome books a credit to a budget. Enterprise accounts only.
func (l *Ledger) CreateIncome(ctx context.Context, user models.User, create models.Income) (models.Income, error) {
	if err := user.CheckEnterprise(); err != nil {
		return models.Income{}, err
	}

	var budget models.Budget

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		budget, err = budgetOf(tx, user, create.BudgetID)
		if err != nil {
			return err
		}

		if !budget.Active {
			return models.ErrBudgetInactive
		}

		if create.Amount.IsNegative() {
			return models.ErrAmountNegative
		}

		create.UserID = user.ID

		if err := tx.Create(&create).Error; err != nil {
			return err
		}

		budget.Balance = budget.Balance.Add(create.Amount)
		return tx.Save(&budget).Error
	})
	if err != nil {
		return models.Income{}, err
	}

	l.emit(ctx, Event{Action: ActionCreated, Entity: "income", User: user, Budget: budget, Income: &create})
	return create, nil
}

// IncomeUpdate carries the fields a client can change on an income entry.
type IncomeUpdate struct {
	Name   *string
	Note   *string
	Amount *decimal.Decimal
}

// UpdateIncome applies the signed difference of an amount change to the
// budget balance.
func (l *Ledger) UpdateIncome(ctx context.Context, user models.User, id uuid.UUID, update IncomeUpdate) (models.Income, error) {
	if err := user.CheckEnterprise(); err != nil {
		return models.Income{}, err
	}

	var (
		budget models.Budget
		income models.Income
	)

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&income, "id = ? AND user_id = ?", id, user.ID).Error
		if err != nil {
			return err
		}

		budget, err = budgetOf(tx, user, income.BudgetID)
		if err != nil {
			return err
		}

		if !budget.Active {
			return models.ErrBudgetInactive
		}

		if update.Name != nil {
			income.Name = *update.Name
		}
		if update.Note != nil {
			income.Note = *update.Note
		}

		if update.Amount != nil {
			if update.Amount.IsNegative() {
				return models.ErrAmountNegative
			}

			diff := update.Amount.Sub(income.Amount)
			income.Amount = *update.Amount
			budget.Balance = budget.Balance.Add(diff)

			if err := tx.Save(&budget).Error; err != nil {
				return err
			}
		}

		return tx.Save(&income).Error
	})
	if err != nil {
		return models.Income{}, err
	}

	l.emit(ctx, Event{Action: ActionUpdated, Entity: "income", User: user, Budget: budget, Income: &income})
	return income, nil
}

// DeleteIncome removes the income entry and takes its amount back out of
// the budget balance.
func (l *Ledger) DeleteIncome(ctx context.Context, user models.User, id uuid.UUID) error {
	if err := user.CheckEnterprise(); err != nil {
		return err
	}

	var (
		budget models.Budget
		income models.Income
	)

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&income, "id = ? AND user_id = ?", id, user.ID).Error
		if err != nil {
			return err
		}

		budget, err = budgetOf(tx, user, income.BudgetID)
		if err != nil {
			return err
		}

		if err := tx.Delete(&income).Error; err != nil {
			return err
		}

		budget.Balance = budget.Balance.Sub(income.Amount)
		return tx.Save(&budget).Error
	})
	if err != nil {
		return err
	}

	l.emit(ctx, Event{Action: ActionDeleted, Entity: "income", User: user, Budget: budget, Income: &income})
	return nil
}
