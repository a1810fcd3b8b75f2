// Package advice generates personalized budgeting advice texts.
package advice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/optibudget/backend/internal/metrics"
	"github.com/optibudget/backend/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FallbackText is stored when the provider cannot deliver a text. Advice
// generation never fails because of the provider.
const FallbackText = "Personalized advice is not available right now. Review your recent expenses, keep your category allocations realistic and avoid spending from budgets that are already low."

// Provider generates an advice text for a prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, prompt string) (string, error)

func (f ProviderFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Service stores advice generated by a provider.
type Service struct {
	db       *gorm.DB
	provider Provider
	timeout  time.Duration
}

// NewService returns a Service.
//
// The timeout bounds every provider call. Provider calls happen outside
// of any database transaction.
func NewService(db *gorm.DB, provider Provider, timeout time.Duration) *Service {
	return &Service{db: db, provider: provider, timeout: timeout}
}

// Generate asks the provider for a text. Provider failures and empty
// responses are logged and replaced with the fallback text.
func (s *Service) Generate(ctx context.Context, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("advice provider failed, using fallback text")
		metrics.AdviceGenerations.WithLabelValues("fallback").Inc()
		return FallbackText
	}

	text = strings.TrimSpace(text)
	if text == "" {
		metrics.AdviceGenerations.WithLabelValues("fallback").Inc()
		return FallbackText
	}

	metrics.AdviceGenerations.WithLabelValues("provider").Inc()
	return text
}

// GenerateAndStore generates a text and stores it as advice for the user.
func (s *Service) GenerateAndStore(ctx context.Context, user models.User, budgetID *uuid.UUID, name, prompt string) (models.Advice, error) {
	text := s.Generate(ctx, prompt)

	created := models.Advice{
		UserID:   user.ID,
		BudgetID: budgetID,
		Name:     name,
		Message:  text,
	}

	err := s.db.WithContext(ctx).Create(&created).Error
	if err != nil {
		return models.Advice{}, err
	}

	return created, nil
}
