package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/optibudget/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateExpense books a debit against a budget.
//
// Categorized expenses are checked against the category balance and reduce
// both the category and the budget. Uncategorized expenses are checked
// against the budget balance.
func (l *Ledger) CreateExpense(ctx context.Context, user models.User, create models.Expense) (models.Expense, error) {
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

		if create.CategoryID != nil {
			var category models.Category
			err := tx.First(&category, "id = ? AND user_id = ?", *create.CategoryID, user.ID).Error
			if err != nil {
				return err
			}

			if create.Amount.GreaterThan(category.Balance) {
				return models.ErrAmountExceedsCategory
			}

			category.Balance = category.Balance.Sub(create.Amount)
			if err := tx.Save(&category).Error; err != nil {
				return err
			}
		} else if create.Amount.GreaterThan(budget.Balance) {
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
		return models.Expense{}, err
	}

	l.emit(ctx, Event{Action: ActionCreated, Entity: "expense", User: user, Budget: budget, Expense: &create})
	return create, nil
}

// ExpenseUpdate carries the fields a client can change on an expense. The
// HasCategoryID flag distinguishes "leave unchanged" from "set to nil".
type ExpenseUpdate struct {
	Name          *string
	Note          *string
	Amount        *decimal.Decimal
	CategoryID    *uuid.UUID
	HasCategoryID bool
}

// UpdateExpense rebooks an expense. The old amount is restored to the old
// category and the budget, then the new amount is booked with the same
// checks as a creation.
func (l *Ledger) UpdateExpense(ctx context.Context, user models.User, id uuid.UUID, update ExpenseUpdate) (models.Expense, error) {
	var (
		budget  models.Budget
		expense models.Expense
	)

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&expense, "id = ? AND user_id = ?", id, user.ID).Error
		if err != nil {
			return err
		}

		budget, err = budgetOf(tx, user, expense.BudgetID)
		if err != nil {
			return err
		}

		if !budget.Active {
			return models.ErrBudgetInactive
		}

		// Mirrored salary rows are booked through their payment and
		// must not be rebooked on their own.
		if expense.Kind == models.ExpenseKindSalary && (update.Amount != nil || update.HasCategoryID) {
			return models.ErrSalaryExpenseImmutable
		}

		// Restore the old booking
		if expense.CategoryID != nil {
			var category models.Category
			if err := tx.First(&category, "id = ?", *expense.CategoryID).Error; err != nil {
				return err
			}

			category.Balance = category.Balance.Add(expense.Amount)
			if err := tx.Save(&category).Error; err != nil {
				return err
			}
		}
		budget.Balance = budget.Balance.Add(expense.Amount)

		if update.Name != nil {
			expense.Name = *update.Name
		}
		if update.Note != nil {
			expense.Note = *update.Note
		}
		if update.Amount != nil {
			expense.Amount = *update.Amount
		}
		if update.HasCategoryID {
			expense.CategoryID = update.CategoryID
		}

		if expense.Amount.IsNegative() {
			return models.ErrAmountNegative
		}

		// Book the new state
		if expense.CategoryID != nil {
			var category models.Category
			err := tx.First(&category, "id = ? AND user_id = ?", *expense.CategoryID, user.ID).Error
			if err != nil {
				return err
			}

			if category.BudgetID != expense.BudgetID {
				return models.ErrCategoryNotInBudget
			}

			if expense.Amount.GreaterThan(category.Balance) {
				return models.ErrAmountExceedsCategory
			}

			category.Balance = category.Balance.Sub(expense.Amount)
			if err := tx.Save(&category).Error; err != nil {
				return err
			}
		} else if expense.Amount.GreaterThan(budget.Balance) {
			return models.ErrAmountExceedsBudget
		}

		budget.Balance = budget.Balance.Sub(expense.Amount)

		if err := tx.Save(&budget).Error; err != nil {
			return err
		}

		return tx.Save(&expense).Error
	})
	if err != nil {
		return models.Expense{}, err
	}

	l.emit(ctx, Event{Action: ActionUpdated, Entity: "expense", User: user, Budget: budget, Expense: &expense})
	return expense, nil
}

// DeleteExpense removes the expense and restores its amount to the
// category it was booked against and to the budget. Mirrored salary
// expenses restore nothing, their payment carries the budget debit.
func (l *Ledger) DeleteExpense(ctx context.Context, user models.User, id uuid.UUID) error {
	var (
		budget  models.Budget
		expense models.Expense
	)

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&expense, "id = ? AND user_id = ?", id, user.ID).Error
		if err != nil {
			return err
		}

		budget, err = budgetOf(tx, user, expense.BudgetID)
		if err != nil {
			return err
		}

		if expense.CategoryID != nil {
			var category models.Category
			if err := tx.First(&category, "id = ?", *expense.CategoryID).Error; err != nil {
				return err
			}

			category.Balance = category.Balance.Add(expense.Amount)
			if err := tx.Save(&category).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&expense).Error; err != nil {
			return err
		}

		if expense.Kind == models.ExpenseKindSalary {
			return nil
		}

		budget.Balance = budget.Balance.Add(expense.Amount)
		return tx.Save(&budget).Error
	})
	if err != nil {
		return err
	}

	l.emit(ctx, Event{Action: ActionDeleted, Entity: "expense", User: user, Budget: budget, Expense: &expense})
	return nil
}
