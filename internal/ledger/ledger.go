// Package ledger implements all validated mutations of budgets and their
// child resources.
//
// Every operation runs in a single database transaction that persists the
// resource and propagates the balance delta to its ancestors. Observers
// registered as hooks are invoked synchronously after the transaction has
// committed, with the post-commit state of the affected budget.
package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/optibudget/backend/internal/metrics"
	"github.com/optibudget/backend/internal/models"
	"gorm.io/gorm"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	ActionReset   Action = "reset"
)

// Event describes a committed ledger mutation. Budget always holds the
// state of the affected budget after the transaction. Exactly one of the
// child pointers is set for child mutations, none for budget mutations.
type Event struct {
	Action   Action
	Entity   string
	User     models.User
	Budget   models.Budget
	Category *models.Category
	Expense  *models.Expense
	Income   *models.Income
	Payment  *models.Payment
}

// Hook is an observer of committed ledger mutations.
//
// Hooks run synchronously on the calling goroutine and must not assume an
// open transaction. Errors inside a hook must not fail the mutation, so
// the interface does not return one.
type Hook interface {
	HandleEvent(ctx context.Context, event Event)
}

// Ledger executes validated mutations against the database.
type Ledger struct {
	db    *gorm.DB
	hooks []Hook
}

// New returns a Ledger using the given database handle.
func New(db *gorm.DB, hooks ...Hook) *Ledger {
	return &Ledger{db: db, hooks: hooks}
}

// AddHook registers an additional observer.
func (l *Ledger) AddHook(hook Hook) {
	l.hooks = append(l.hooks, hook)
}

func (l *Ledger) emit(ctx context.Context, event Event) {
	metrics.LedgerMutations.WithLabelValues(event.Entity, string(event.Action)).Inc()

	for _, hook := range l.hooks {
		hook.HandleEvent(ctx, event)
	}
}

// budgetOf loads a budget owned by the user inside the transaction.
//
// Row locking clauses are not used since SQLite does not support them.
// Serialization is guaranteed by the single database connection, see
// models.Connect.
func budgetOf(tx *gorm.DB, user models.User, id uuid.UUID) (models.Budget, error) {
	var budget models.Budget
	err := tx.First(&budget, "id = ? AND user_id = ?", id, user.ID).Error
	return budget, err
}
