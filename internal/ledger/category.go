package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/optibudget/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateCategory allocates a part of the budget's balance to a new
// category. The budget balance decreases by the initial balance.
func (l *Ledger) CreateCategory(ctx context.Context, user models.User, create models.Category) (models.Category, error) {
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

		if create.InitialBalance.IsNegative() {
			return models.ErrAmountNegative
		}

		if create.InitialBalance.GreaterThan(budget.Balance) {
			return models.ErrAmountExceedsBudget
		}

		create.UserID = user.ID
		create.Balance = create.InitialBalance

		if err := tx.Create(&create).Error; err != nil {
			return err
		}

		budget.Balance = budget.Balance.Sub(create.InitialBalance)
		return tx.Save(&budget).Error
	})
	if err != nil {
		return models.Category{}, err
	}

	l.emit(ctx, Event{Action: ActionCreated, Entity: "category", User: user, Budget: budget, Category: &create})
	return create, nil
}

// CategoryUpdate carries the fields a client can change on a category.
type CategoryUpdate struct {
	Name           *string
	Note           *string
	InitialBalance *decimal.Decimal
}

// UpdateCategory applies the signed difference of an allocation change.
// Growing the allocation takes the difference from the budget, shrinking
// it gives the difference back. The spent part of the allocation is
// preserved.
func (l *Ledger) UpdateCategory(ctx context.Context, user models.User, id uuid.UUID, update CategoryUpdate) (models.Category, error) {
	var (
		budget   models.Budget
		category models.Category
	)

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&category, "id = ? AND user_id = ?", id, user.ID).Error
		if err != nil {
			return err
		}

		budget, err = budgetOf(tx, user, category.BudgetID)
		if err != nil {
			return err
		}

		if !budget.Active {
			return models.ErrBudgetInactive
		}

		if update.Name != nil {
			category.Name = *update.Name
		}
		if update.Note != nil {
			category.Note = *update.Note
		}

		if update.InitialBalance != nil {
			if update.InitialBalance.IsNegative() {
				return models.ErrAmountNegative
			}

			diff := update.InitialBalance.Sub(category.InitialBalance)
			if diff.GreaterThan(budget.Balance) {
				return models.ErrAmountExceedsBudget
			}

			if category.Balance.Add(diff).IsNegative() {
				return models.ErrAmountExceedsCategory
			}

			category.InitialBalance = *update.InitialBalance
			category.Balance = category.Balance.Add(diff)
			budget.Balance = budget.Balance.Sub(diff)

			if err := tx.Save(&budget).Error; err != nil {
				return err
			}
		}

		return tx.Save(&category).Error
	})
	if err != nil {
		return models.Category{}, err
	}

	l.emit(ctx, Event{Action: ActionUpdated, Entity: "category", User: user, Budget: budget, Category: &category})
	return category, nil
}

// DeleteCategory removes the category and its expenses. The budget gets
// the full initial allocation back, regardless of how much of it was
// spent. The deleted expenses do not restore anything on top of that.
func (l *Ledger) DeleteCategory(ctx context.Context, user models.User, id uuid.UUID) error {
	var (
		budget   models.Budget
		category models.Category
	)

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&category, "id = ? AND user_id = ?", id, user.ID).Error
		if err != nil {
			return err
		}

		budget, err = budgetOf(tx, user, category.BudgetID)
		if err != nil {
			return err
		}

		if err := tx.Where(models.Expense{CategoryID: &category.ID}).Delete(&models.Expense{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&category).Error; err != nil {
			return err
		}

		budget.Balance = budget.Balance.Add(category.InitialBalance)
		return tx.Save(&budget).Error
	})
	if err != nil {
		return err
	}

	l.emit(ctx, Event{Action: ActionDeleted, Entity: "category", User: user, Budget: budget, Category: &category})
	return nil
}
