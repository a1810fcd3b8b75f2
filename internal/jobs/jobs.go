// Package jobs implements the periodic maintenance tasks: expiring
// budgets, generating advice reports and purging old notifications.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/optibudget/backend/internal/advice"
	"github.com/optibudget/backend/internal/models"
	"github.com/optibudget/backend/internal/notifications"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/gorm"
)

var decimalHundred = decimal.NewFromInt(100)

// Service bundles the periodic jobs. Every job is idempotent and can be
// invoked directly or from the scheduler. Failures of a single budget are
// logged and do not stop the loop.
type Service struct {
	db        *gorm.DB
	emitter   *notifications.Emitter
	advisor   *advice.Service
	printer   *message.Printer
	retention time.Duration
}

// New returns a Service. The retention window applies to viewed
// notifications in PurgeOldNotifications.
func New(db *gorm.DB, emitter *notifications.Emitter, advisor *advice.Service, retention time.Duration) *Service {
	return &Service{
		db:        db,
		emitter:   emitter,
		advisor:   advisor,
		printer:   message.NewPrinter(language.English),
		retention: retention,
	}
}

// MarkExpiredBudgets deactivates active budgets whose end date lies in
// the past and notifies their owners.
func (s *Service) MarkExpiredBudgets(ctx context.Context) (int, string, error) {
	now := time.Now().In(time.UTC)

	var budgets []models.Budget
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Where("end_date IS NOT NULL").
		Where("datetime(end_date) < datetime(?)", now).
		Find(&budgets).Error
	if err != nil {
		return 0, "", err
	}

	count := 0
	for _, budget := range budgets {
		if !budget.Expired(now) {
			continue
		}

		budget.Active = false
		if err := s.db.WithContext(ctx).Save(&budget).Error; err != nil {
			log.Error().Err(err).Str("budget", budget.ID.String()).Msg("deactivating expired budget failed")
			continue
		}

		user, err := s.userOf(ctx, budget)
		if err == nil {
			text := s.printer.Sprintf("Budget %q has expired and was deactivated", budget.Name)
			_ = s.emitter.Emit(ctx, user, text, models.NotificationWarning)
		}

		count++
	}

	return count, fmt.Sprintf("deactivated %d expired budgets", count), nil
}

// GenerateWeeklyStatistics creates a weekly advice report for every
// open-ended active budget.
func (s *Service) GenerateWeeklyStatistics(ctx context.Context) (int, string, error) {
	var budgets []models.Budget
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Where("fixed_term = ?", false).
		Find(&budgets).Error
	if err != nil {
		return 0, "", err
	}

	count := 0
	for _, budget := range budgets {
		recent, err := s.hasRecentReport(ctx, budget, "weekly report", 7*24*time.Hour)
		if err != nil {
			log.Error().Err(err).Str("budget", budget.ID.String()).Msg("checking for recent report failed")
			continue
		}

		if recent {
			continue
		}

		user, err := s.userOf(ctx, budget)
		if err != nil {
			log.Error().Err(err).Str("budget", budget.ID.String()).Msg("loading budget owner failed")
			continue
		}

		prompt, err := s.weeklyPrompt(ctx, user, budget)
		if err != nil {
			log.Error().Err(err).Str("budget", budget.ID.String()).Msg("building weekly prompt failed")
			continue
		}

		_, err = s.advisor.GenerateAndStore(ctx, user, &budget.ID, "weekly report", prompt)
		if err != nil {
			log.Error().Err(err).Str("budget", budget.ID.String()).Msg("storing weekly advice failed")
			continue
		}

		count++
	}

	return count, fmt.Sprintf("generated %d weekly reports", count), nil
}

// GenerateFinalStatistics creates the final advice report for expired
// fixed term budgets that do not have one yet and marks them done.
func (s *Service) GenerateFinalStatistics(ctx context.Context) (int, string, error) {
	now := time.Now().In(time.UTC)

	var budgets []models.Budget
	err := s.db.WithContext(ctx).
		Where("fixed_term = ?", true).
		Where("final_report_done = ?", false).
		Where("end_date IS NOT NULL").
		Where("datetime(end_date) < datetime(?)", now).
		Find(&budgets).Error
	if err != nil {
		return 0, "", err
	}

	count := 0
	for _, budget := range budgets {
		if !budget.Expired(now) {
			continue
		}

		user, err := s.userOf(ctx, budget)
		if err != nil {
			log.Error().Err(err).Str("budget", budget.ID.String()).Msg("loading budget owner failed")
			continue
		}

		prompt, err := s.finalPrompt(ctx, user, budget)
		if err != nil {
			log.Error().Err(err).Str("budget", budget.ID.String()).Msg("building final prompt failed")
			continue
		}

		_, err = s.advisor.GenerateAndStore(ctx, user, &budget.ID, "final report", prompt)
		if err != nil {
			log.Error().Err(err).Str("budget", budget.ID.String()).Msg("storing final advice failed")
			continue
		}

		budget.FinalReportDone = true
		if err := s.db.WithContext(ctx).Save(&budget).Error; err != nil {
			log.Error().Err(err).Str("budget", budget.ID.String()).Msg("marking final report done failed")
			continue
		}

		count++
	}

	return count, fmt.Sprintf("generated %d final reports", count), nil
}

// PurgeOldNotifications removes viewed notifications older than the
// retention window.
func (s *Service) PurgeOldNotifications(ctx context.Context) (int, string, error) {
	removed, err := s.emitter.PurgeViewed(ctx, s.retention)
	if err != nil {
		return 0, "", err
	}

	return int(removed), fmt.Sprintf("purged %d viewed notifications", removed), nil
}

// hasRecentReport reports whether advice with the given name was stored
// for the budget within the window. It keeps the report jobs idempotent
// when the scheduler runs more often than the report cadence.
func (s *Service) hasRecentReport(ctx context.Context, budget models.Budget, name string, window time.Duration) (bool, error) {
	cutoff := time.Now().In(time.UTC).Add(-window)

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Advice{}).
		Where("budget_id = ? AND name = ?", budget.ID, name).
		Where("datetime(created_at) >= datetime(?)", cutoff).
		Count(&count).Error

	return count > 0, err
}

func (s *Service) userOf(ctx context.Context, budget models.Budget) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", budget.UserID).Error
	return user, err
}

func accountDescription(user models.User) string {
	if user.AccountKind == models.AccountKindEnterprise {
		return "an enterprise"
	}

	return "an individual"
}

func (s *Service) weeklyPrompt(ctx context.Context, user models.User, budget models.Budget) (string, error) {
	now := time.Now().In(time.UTC)
	weekAgo := now.AddDate(0, 0, -7)

	db := s.db.WithContext(ctx)
	expenses, err := budget.TotalExpenses(db, weekAgo, now)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a budgeting assistant for %s account. ", accountDescription(user))
	fmt.Fprintf(&b, "Write a short weekly report with practical advice for the budget %q. ", budget.Name)
	fmt.Fprintf(&b, "Initial amount: %s. Current balance: %s. Used: %s (%s%%). ",
		budget.InitialBalance.StringFixed(2), budget.Balance.StringFixed(2),
		budget.UsedAmount().StringFixed(2), decimalPercent(budget))
	fmt.Fprintf(&b, "Expenses in the last 7 days: %s.", expenses.StringFixed(2))

	if user.AccountKind == models.AccountKindEnterprise {
		income, err := budget.TotalIncome(db, weekAgo, now)
		if err != nil {
			return "", err
		}

		payments, err := budget.TotalPayments(db, weekAgo, now)
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&b, " Income in the last 7 days: %s. Salary payments in the last 7 days: %s.",
			income.StringFixed(2), payments.StringFixed(2))
	}

	return b.String(), nil
}

func (s *Service) finalPrompt(ctx context.Context, user models.User, budget models.Budget) (string, error) {
	db := s.db.WithContext(ctx)

	expenses, err := budget.TotalExpenses(db, time.Time{}, time.Time{})
	if err != nil {
		return "", err
	}

	categories, err := budget.Categories(db)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a budgeting assistant for %s account. ", accountDescription(user))
	fmt.Fprintf(&b, "The fixed term budget %q has ended. Write a final report with lessons for the next budget. ", budget.Name)
	fmt.Fprintf(&b, "Initial amount: %s. Final balance: %s. Total expenses: %s. Categories: %d.",
		budget.InitialBalance.StringFixed(2), budget.Balance.StringFixed(2),
		expenses.StringFixed(2), len(categories))

	return b.String(), nil
}

func decimalPercent(budget models.Budget) string {
	used := budget.UsedAmount()
	if !budget.InitialBalance.IsPositive() {
		return "0.0"
	}

	return used.Div(budget.InitialBalance).Mul(decimalHundred).StringFixed(1)
}
