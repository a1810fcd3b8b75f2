// Package payroll processes salary batches against a budget.
package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/optibudget/backend/internal/metrics"
	"github.com/optibudget/backend/internal/models"
	"github.com/optibudget/backend/internal/notifications"
	"github.com/optibudget/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/gorm"
)

// Processor runs payroll batches.
type Processor struct {
	db      *gorm.DB
	emitter *notifications.Emitter
	printer *message.Printer
}

// New returns a Processor. The emitter may be nil, then no notifications
// are sent after a batch.
func New(db *gorm.DB, emitter *notifications.Emitter) *Processor {
	return &Processor{
		db:      db,
		emitter: emitter,
		printer: message.NewPrinter(language.English),
	}
}

// Options narrows a payroll batch.
//
// When Period is set, employees that already received a salary payment
// inside that calendar month are skipped, making the batch idempotent per
// period. When EmployeeTypes is non-empty, only employees of those types
// are paid.
type Options struct {
	Period        types.Month
	EmployeeTypes []models.EmployeeType
}

// EmployeePayment is the outcome for one paid employee.
type EmployeePayment struct {
	Employee models.Employee `json:"employee"`
	Payment  models.Payment  `json:"payment"`
	Expense  models.Expense  `json:"expense"`
}

// Result describes a processed batch.
type Result struct {
	Budget        models.Budget     `json:"budget"`
	BalanceBefore decimal.Decimal   `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal   `json:"balanceAfter"`
	Total         decimal.Decimal   `json:"total"`
	Payments      []EmployeePayment `json:"payments"`
	Skipped       int               `json:"skipped"`
}

// PreviewItem is the resolution for one employee without any writes.
type PreviewItem struct {
	Employee    models.Employee `json:"employee"`
	Amount      decimal.Decimal `json:"amount"`
	AlreadyPaid bool            `json:"alreadyPaid"`
}

// Preview describes what a batch would do.
type Preview struct {
	Budget        models.Budget   `json:"budget"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	Total         decimal.Decimal `json:"total"`
	Sufficient    bool            `json:"sufficient"`
	Items         []PreviewItem   `json:"items"`
}

// PayAll pays all matching active employees from the budget.
//
// Each employee receives the base salary configured for their type on
// the salary scale. Bonus, allowance and advance figures only appear in
// the scale report totals.
//
// All payments and their mirrored salary expenses are created in one
// transaction and the accumulated total is deducted from the budget
// balance exactly once at the end. The mirrored expense rows do not
// propagate on their own. The budget may end up in deficit, which is
// reported as a warning notification after the batch.
func (p *Processor) PayAll(ctx context.Context, user models.User, budgetID uuid.UUID, opts Options) (Result, error) {
	if err := user.CheckEnterprise(); err != nil {
		return Result{}, err
	}

	var result Result

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		budget, scale, employees, err := p.resolve(tx, user, budgetID, opts)
		if err != nil {
			return err
		}

		result.BalanceBefore = budget.Balance
		now := time.Now().In(time.UTC)
		total := decimal.Zero

		for _, employee := range employees {
			amount := scale.BandFor(employee.Type).Salary
			if !amount.IsPositive() {
				result.Skipped++
				continue
			}

			if !opts.Period.IsZero() {
				paid, err := p.alreadyPaid(tx, user, employee, opts.Period)
				if err != nil {
					return err
				}

				if paid {
					result.Skipped++
					continue
				}
			}

			payment := models.Payment{
				UserID:     user.ID,
				BudgetID:   budget.ID,
				EmployeeID: employee.ID,
				Amount:     amount,
				Kind:       models.PaymentKindSalary,
				Note:       p.printer.Sprintf("Salary for %s", employee.FullName()),
				PaidAt:     now,
			}

			if err := tx.Create(&payment).Error; err != nil {
				return err
			}

			expense := models.Expense{
				UserID:   user.ID,
				BudgetID: budget.ID,
				Name:     p.printer.Sprintf("Salary %s", employee.FullName()),
				Amount:   amount,
				Kind:     models.ExpenseKindSalary,
			}

			if err := tx.Create(&expense).Error; err != nil {
				return err
			}

			total = total.Add(amount)
			result.Payments = append(result.Payments, EmployeePayment{
				Employee: employee,
				Payment:  payment,
				Expense:  expense,
			})
		}

		// A batch where every employee was skipped is a no-op, not an
		// error. Running the same period twice must not deduct twice.
		if len(result.Payments) == 0 {
			result.Budget = budget
			result.BalanceAfter = budget.Balance
			result.Total = decimal.Zero
			return nil
		}

		budget.Balance = budget.Balance.Sub(total)
		if err := tx.Save(&budget).Error; err != nil {
			return err
		}

		result.Budget = budget
		result.BalanceAfter = budget.Balance
		result.Total = total
		return nil
	})
	if err != nil {
		metrics.PayrollRuns.WithLabelValues("error").Inc()
		return Result{}, err
	}

	metrics.PayrollRuns.WithLabelValues("success").Inc()
	p.notify(ctx, user, result)

	return result, nil
}

// Run preview resolution without writing anything.
func (p *Processor) PreviewAll(ctx context.Context, user models.User, budgetID uuid.UUID, opts Options) (Preview, error) {
	if err := user.CheckEnterprise(); err != nil {
		return Preview{}, err
	}

	var preview Preview

	db := p.db.WithContext(ctx)
	budget, scale, employees, err := p.resolve(db, user, budgetID, opts)
	if err != nil {
		return Preview{}, err
	}

	preview.Budget = budget
	preview.BalanceBefore = budget.Balance
	total := decimal.Zero

	for _, employee := range employees {
		amount := scale.BandFor(employee.Type).Salary
		if !amount.IsPositive() {
			continue
		}

		item := PreviewItem{Employee: employee, Amount: amount}

		if !opts.Period.IsZero() {
			item.AlreadyPaid, err = p.alreadyPaid(db, user, employee, opts.Period)
			if err != nil {
				return Preview{}, err
			}
		}

		if !item.AlreadyPaid {
			total = total.Add(amount)
		}

		preview.Items = append(preview.Items, item)
	}

	preview.Total = total
	preview.Sufficient = total.LessThanOrEqual(budget.Balance)
	return preview, nil
}

// resolve loads the budget, the salary scale and the matching active
// employees. It is shared between PayAll and PreviewAll.
func (p *Processor) resolve(db *gorm.DB, user models.User, budgetID uuid.UUID, opts Options) (models.Budget, models.SalaryScale, []models.Employee, error) {
	var budget models.Budget
	err := db.First(&budget, "id = ? AND user_id = ?", budgetID, user.ID).Error
	if err != nil {
		return models.Budget{}, models.SalaryScale{}, nil, err
	}

	if !budget.Active {
		return models.Budget{}, models.SalaryScale{}, nil, models.ErrBudgetInactive
	}

	var scale models.SalaryScale
	err = db.First(&scale, "user_id = ?", user.ID).Error
	if err != nil {
		return models.Budget{}, models.SalaryScale{}, nil, err
	}

	query := db.Where("user_id = ? AND status = ?", user.ID, models.EmployeeStatusActive)
	if len(opts.EmployeeTypes) > 0 {
		query = query.Where("type IN ?", opts.EmployeeTypes)
	}

	var employees []models.Employee
	err = query.Find(&employees).Error
	if err != nil {
		return models.Budget{}, models.SalaryScale{}, nil, err
	}

	if len(employees) == 0 {
		return models.Budget{}, models.SalaryScale{}, nil, fmt.Errorf("%w active employee matching your query", models.ErrResourceNotFound)
	}

	return budget, scale, employees, nil
}

// alreadyPaid reports whether the employee received a salary payment
// within the calendar month.
func (p *Processor) alreadyPaid(db *gorm.DB, user models.User, employee models.Employee, period types.Month) (bool, error) {
	start, end := period.Bounds()

	var count int64
	err := db.Model(&models.Payment{}).
		Where("user_id = ? AND employee_id = ? AND kind = ?", user.ID, employee.ID, models.PaymentKindSalary).
		Where("datetime(paid_at) >= datetime(?) AND datetime(paid_at) < datetime(?)", start, end).
		Count(&count).Error

	return count > 0, err
}

func (p *Processor) notify(ctx context.Context, user models.User, result Result) {
	if p.emitter == nil {
		return
	}

	if result.BalanceAfter.IsNegative() {
		text := p.printer.Sprintf("Budget %q is in deficit after payroll, balance is %.2f", result.Budget.Name, result.BalanceAfter.InexactFloat64())
		_ = p.emitter.Emit(ctx, user, text, models.NotificationWarning)
	}

	text := p.printer.Sprintf("Payroll processed: %d employees paid, %.2f deducted from budget %q", len(result.Payments), result.Total.InexactFloat64(), result.Budget.Name)
	_ = p.emitter.Emit(ctx, user, text, models.NotificationSuccess)
}
