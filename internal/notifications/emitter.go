// Package notifications turns committed ledger mutations into user facing
// notifications.
package notifications

import (
	"context"
	"time"

	"github.com/optibudget/backend/internal/ledger"
	"github.com/optibudget/backend/internal/metrics"
	"github.com/optibudget/backend/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/gorm"
)

// DedupWindow is the time span within which an identical notification for
// the same user is suppressed.
const DedupWindow = 5 * time.Minute

// Budget level thresholds, in percent of the initial balance.
var (
	thresholdCritical = decimal.NewFromInt(5)
	thresholdVeryLow  = decimal.NewFromInt(10)
	thresholdLow      = decimal.NewFromInt(20)

	categoryThresholdCritical = decimal.NewFromInt(5)
	categoryThresholdLow      = decimal.NewFromInt(15)
)

// Emitter observes the ledger and writes notifications.
type Emitter struct {
	db      *gorm.DB
	printer *message.Printer
}

// NewEmitter returns an Emitter writing to the given database.
func NewEmitter(db *gorm.DB) *Emitter {
	return &Emitter{
		db:      db,
		printer: message.NewPrinter(language.English),
	}
}

// Emit stores a notification unless an identical one for the same user
// was stored within the deduplication window.
func (e *Emitter) Emit(ctx context.Context, user models.User, text string, notificationType models.NotificationType) error {
	cutoff := time.Now().In(time.UTC).Add(-DedupWindow)

	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND message = ? AND type = ?", user.ID, text, notificationType).
		Where("datetime(created_at) >= datetime(?)", cutoff).
		Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	notification := models.Notification{
		UserID:  user.ID,
		Message: text,
		Type:    notificationType,
	}

	err = e.db.WithContext(ctx).Create(&notification).Error
	if err != nil {
		return err
	}

	metrics.NotificationsEmitted.WithLabelValues(string(notificationType)).Inc()
	return nil
}

// emit logs instead of failing, a notification must never fail the
// mutation it describes.
func (e *Emitter) emit(ctx context.Context, user models.User, text string, notificationType models.NotificationType) {
	if err := e.Emit(ctx, user, text, notificationType); err != nil {
		log.Error().Err(err).Str("user", user.ID.String()).Msg("storing notification failed")
	}
}

// HandleEvent implements ledger.Hook.
func (e *Emitter) HandleEvent(ctx context.Context, event ledger.Event) {
	switch event.Entity {
	case "budget":
		e.handleBudget(ctx, event)
	case "category":
		e.handleCategory(ctx, event)
	case "expense":
		e.handleExpense(ctx, event)
	case "income":
		e.handleIncome(ctx, event)
	case "payment":
		e.handlePayment(ctx, event)
	}

	if event.Action != ledger.ActionDeleted || event.Entity != "budget" {
		e.checkBudget(ctx, event.User, event.Budget)
	}
}

func (e *Emitter) handleBudget(ctx context.Context, event ledger.Event) {
	budget := event.Budget

	switch event.Action {
	case ledger.ActionCreated:
		e.emit(ctx, event.User, e.printer.Sprintf("Budget %q created with an amount of %.2f", budget.Name, budget.InitialBalance.InexactFloat64()), models.NotificationSuccess)
	case ledger.ActionReset:
		e.emit(ctx, event.User, e.printer.Sprintf("Budget %q was reset to its initial amount of %.2f", budget.Name, budget.InitialBalance.InexactFloat64()), models.NotificationInfo)
	case ledger.ActionDeleted:
		e.emit(ctx, event.User, e.printer.Sprintf("Budget %q was deleted", budget.Name), models.NotificationLog)
	}
}

func (e *Emitter) handleCategory(ctx context.Context, event ledger.Event) {
	category := event.Category
	if category == nil {
		return
	}

	switch event.Action {
	case ledger.ActionCreated:
		e.emit(ctx, event.User, e.printer.Sprintf("Category %q allocated %.2f from budget %q", category.Name, category.InitialBalance.InexactFloat64(), event.Budget.Name), models.NotificationLog)
	case ledger.ActionDeleted:
		e.emit(ctx, event.User, e.printer.Sprintf("Category %q deleted, %.2f returned to budget %q", category.Name, category.InitialBalance.InexactFloat64(), event.Budget.Name), models.NotificationLog)
	}
}

func (e *Emitter) handleExpense(ctx context.Context, event ledger.Event) {
	expense := event.Expense
	if expense == nil {
		return
	}

	switch event.Action {
	case ledger.ActionCreated:
		e.emit(ctx, event.User, e.printer.Sprintf("Expense %q of %.2f booked against budget %q", expense.Name, expense.Amount.InexactFloat64(), event.Budget.Name), models.NotificationLog)

		if expense.CategoryID != nil {
			e.checkCategory(ctx, event.User, *expense)
		}
	case ledger.ActionDeleted:
		e.emit(ctx, event.User, e.printer.Sprintf("Expense %q deleted, %.2f restored to budget %q", expense.Name, expense.Amount.InexactFloat64(), event.Budget.Name), models.NotificationLog)
	}
}

func (e *Emitter) handleIncome(ctx context.Context, event ledger.Event) {
	income := event.Income
	if income == nil {
		return
	}

	switch event.Action {
	case ledger.ActionCreated:
		e.emit(ctx, event.User, e.printer.Sprintf("Income %q of %.2f added to budget %q", income.Name, income.Amount.InexactFloat64(), event.Budget.Name), models.NotificationLog)
	case ledger.ActionDeleted:
		e.emit(ctx, event.User, e.printer.Sprintf("Income %q deleted, %.2f removed from budget %q", income.Name, income.Amount.InexactFloat64(), event.Budget.Name), models.NotificationLog)
	}
}

func (e *Emitter) handlePayment(ctx context.Context, event ledger.Event) {
	payment := event.Payment
	if payment == nil {
		return
	}

	switch event.Action {
	case ledger.ActionCreated:
		e.emit(ctx, event.User, e.printer.Sprintf("Payment of %.2f booked against budget %q", payment.Amount.InexactFloat64(), event.Budget.Name), models.NotificationLog)
	case ledger.ActionDeleted:
		e.emit(ctx, event.User, e.printer.Sprintf("Payment of %.2f deleted, amount restored to budget %q", payment.Amount.InexactFloat64(), event.Budget.Name), models.NotificationLog)
	}
}

// checkBudget emits level and expiry notifications for the current budget
// state. It runs after every mutation that touches the budget.
func (e *Emitter) checkBudget(ctx context.Context, user models.User, budget models.Budget) {
	remaining := budget.RemainingPercentage()

	switch {
	case remaining.LessThanOrEqual(thresholdCritical):
		e.emit(ctx, user, e.printer.Sprintf("Budget %q is at a critical level, %.1f%% remaining", budget.Name, remaining.InexactFloat64()), models.NotificationError)
	case remaining.LessThanOrEqual(thresholdVeryLow):
		e.emit(ctx, user, e.printer.Sprintf("Budget %q is very low, %.1f%% remaining", budget.Name, remaining.InexactFloat64()), models.NotificationWarning)
	case remaining.LessThanOrEqual(thresholdLow):
		e.emit(ctx, user, e.printer.Sprintf("Budget %q is low, %.1f%% remaining", budget.Name, remaining.InexactFloat64()), models.NotificationWarning)
	}

	days, ok := budget.DaysUntilEnd(time.Now().In(time.UTC))
	if !ok {
		return
	}

	switch {
	case days < 0:
		e.emit(ctx, user, e.printer.Sprintf("Budget %q expired %d days ago", budget.Name, -days), models.NotificationLog)
	case days == 0:
		e.emit(ctx, user, e.printer.Sprintf("Budget %q ends today", budget.Name), models.NotificationLog)
	case days == 1:
		e.emit(ctx, user, e.printer.Sprintf("Budget %q ends tomorrow", budget.Name), models.NotificationLog)
	case days <= 7:
		e.emit(ctx, user, e.printer.Sprintf("Budget %q ends in %d days", budget.Name, days), models.NotificationLog)
	}
}

func (e *Emitter) checkCategory(ctx context.Context, user models.User, expense models.Expense) {
	var category models.Category
	err := e.db.WithContext(ctx).First(&category, "id = ?", *expense.CategoryID).Error
	if err != nil {
		log.Error().Err(err).Msg("loading category for level check failed")
		return
	}

	remaining := category.RemainingPercentage()

	switch {
	case remaining.LessThanOrEqual(categoryThresholdCritical):
		e.emit(ctx, user, e.printer.Sprintf("Category %q is at a critical level, %.1f%% remaining", category.Name, remaining.InexactFloat64()), models.NotificationLog)
	case remaining.LessThanOrEqual(categoryThresholdLow):
		e.emit(ctx, user, e.printer.Sprintf("Category %q is low, %.1f%% remaining", category.Name, remaining.InexactFloat64()), models.NotificationLog)
	}
}

// PurgeViewed deletes viewed notifications older than the retention
// window and returns how many were removed.
func (e *Emitter) PurgeViewed(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().In(time.UTC).Add(-retention)

	result := e.db.WithContext(ctx).
		Where("viewed = ?", true).
		Where("datetime(created_at) < datetime(?)", cutoff).
		Delete(&models.Notification{})

	return result.RowsAffected, result.Error
}
