package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentKindSalary is the only payment kind. The field exists so that
// other payment kinds can be added without a schema change.
const PaymentKindSalary = "salary"

// Payment is a payroll debit against a budget for one employee.
type Payment struct {
	DefaultModel
	User       User      `json:"-"`
	UserID     uuid.UUID
	Budget     Budget    `json:"-"`
	BudgetID   uuid.UUID
	Employee   Employee  `json:"-"`
	EmployeeID uuid.UUID `gorm:"index"`
	Amount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Kind       string
	Note       string
	PaidAt     time.Time
}

func (p *Payment) BeforeSave(_ *gorm.DB) error {
	if p.Kind == "" {
		p.Kind = PaymentKindSalary
	}

	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now().In(time.UTC)
	} else {
		p.PaidAt = p.PaidAt.In(time.UTC)
	}

	return nil
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	_ = p.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Payment)
	return p.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources
func (p *Payment) checkIntegrity(tx *gorm.DB, toSave Payment) error {
	err := tx.First(&Budget{}, toSave.BudgetID).Error
	if err != nil {
		return err
	}

	return tx.First(&Employee{}, toSave.EmployeeID).Error
}

// AfterFind sets the payment timestamp to UTC.
func (p *Payment) AfterFind(_ *gorm.DB) error {
	p.PaidAt = p.PaidAt.In(time.UTC)
	return nil
}

// Returns all payments on this instance for export
func (Payment) Export() (json.RawMessage, error) {
	var payments []Payment
	err := DB.Unscoped().Where(&Payment{}).Find(&payments).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&payments)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
