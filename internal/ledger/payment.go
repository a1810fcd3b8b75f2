package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/optibudget/backend/internal/models"
	"gorm.io/gorm"
)

// CreatePayment books a single payment to an employee against a budget.
// Enterprise accounts only. Batch payroll runs go through the payroll
// package instead, which books the budget deduction once per batch.
func (l *Ledger) CreatePayment(ctx context.Context, user models.User, create models.Payment) (models.Payment, error) {
	if err := user.CheckEnterprise(); err != nil {
		return models.Payment{}, err
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

		if create.Amount.GreaterThan(budget.Balance) {
			return models.ErrAmountExceedsBudget
		}

		create.UserID = user.ID

		if err := tx.Create(&create).Error; err != nil {
			return err
		}

		budget.Balance = budget.Balance.Sub(create.Amount)
		return tx.Save(&budget).Error
	})
	if err != nil {
		return models.Payment{}, err
	}

	l.emit(ctx, Event{Action: ActionCreated, Entity: "payment", User: user, Budget: budget, Payment: &create})
	return create, nil
}

// DeletePayment removes a payment and restores its amount to the budget.
func (l *Ledger) DeletePayment(ctx context.Context, user models.User, id uuid.UUID) error {
	if err := user.CheckEnterprise(); err != nil {
		return err
	}

	var (
		budget  models.Budget
		payment models.Payment
	)

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&payment, "id = ? AND user_id = ?", id, user.ID).Error
		if err != nil {
			return err
		}

		budget, err = budgetOf(tx, user, payment.BudgetID)
		if err != nil {
			return err
		}

		if err := tx.Delete(&payment).Error; err != nil {
			return err
		}

		budget.Balance = budget.Balance.Add(payment.Amount)
		return tx.Save(&budget).Error
	})
	if err != nil {
		return err
	}

	l.emit(ctx, Event{Action: ActionDeleted, Entity: "payment", User: user, Budget: budget, Payment: &payment})
	return nil
}
