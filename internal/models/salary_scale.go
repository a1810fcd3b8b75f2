package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalaryPeriod is the reference period for the period-normalized salary
// figures of a SalaryScale.
type SalaryPeriod string

const (
	SalaryPeriodHourly  SalaryPeriod = "hourly"
	SalaryPeriodDaily   SalaryPeriod = "daily"
	SalaryPeriodWeekly  SalaryPeriod = "weekly"
	SalaryPeriodMonthly SalaryPeriod = "monthly"
)

func (p SalaryPeriod) Valid() bool {
	switch p {
	case SalaryPeriodHourly, SalaryPeriodDaily, SalaryPeriodWeekly, SalaryPeriodMonthly:
		return true
	}
	return false
}

// Fixed conversion ratios between salary periods: a month counts 30 days
// and 4.33 weeks, a week 7 days, a day 8 working hours.
var (
	weeksPerMonth = decimal.NewFromFloat(4.33)
	daysPerMonth  = decimal.NewFromInt(30)
	daysPerWeek   = decimal.NewFromInt(7)
	hoursPerDay   = decimal.NewFromInt(8)
)

// SalaryBand is the salary/bonus/allowance/advance quadruple configured
// per employee type.
type SalaryBand struct {
	Salary    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Bonus     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Allowance decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Advance   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

// Total returns the net amount for the band: salary plus bonus plus
// allowance, minus the advance already paid out.
func (b SalaryBand) Total() decimal.Decimal {
	return b.Salary.Add(b.Bonus).Add(b.Allowance).Sub(b.Advance)
}

// SalaryScale is the per-user singleton holding one salary band per
// employee type plus period-normalized reference figures.
type SalaryScale struct {
	DefaultModel
	User   User      `json:"-"`
	UserID uuid.UUID `gorm:"uniqueIndex:salary_scale_user_id"`

	Direction  SalaryBand `gorm:"embedded;embeddedPrefix:direction_"`
	Executive  SalaryBand `gorm:"embedded;embeddedPrefix:executive_"`
	Staff      SalaryBand `gorm:"embedded;embeddedPrefix:staff_"`
	Worker     SalaryBand `gorm:"embedded;embeddedPrefix:worker_"`
	Consultant SalaryBand `gorm:"embedded;embeddedPrefix:consultant_"`
	Intern     SalaryBand `gorm:"embedded;embeddedPrefix:intern_"`
	Temporary  SalaryBand `gorm:"embedded;embeddedPrefix:temporary_"`
	Other      SalaryBand `gorm:"embedded;embeddedPrefix:other_"`

	Hourly  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Daily   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Weekly  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Monthly decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (s *SalaryScale) BeforeCreate(tx *gorm.DB) error {
	_ = s.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*SalaryScale)
	return tx.First(&User{}, toSave.UserID).Error
}

// BandFor returns the salary band configured for an employee type.
func (s SalaryScale) BandFor(t EmployeeType) SalaryBand {
	switch t {
	case EmployeeTypeDirection:
		return s.Direction
	case EmployeeTypeExecutive:
		return s.Executive
	case EmployeeTypeStaff:
		return s.Staff
	case EmployeeTypeWorker:
		return s.Worker
	case EmployeeTypeConsultant:
		return s.Consultant
	case EmployeeTypeIntern:
		return s.Intern
	case EmployeeTypeTemporary:
		return s.Temporary
	default:
		return s.Other
	}
}

// TotalMonthly sums the net band totals over all employee types.
func (s SalaryScale) TotalMonthly() decimal.Decimal {
	total := decimal.Zero
	for _, t := range EmployeeTypes {
		total = total.Add(s.BandFor(t).Total())
	}
	return total
}

// UpdateFromPeriod sets all four period-normalized figures from a single
// reference figure. The conversion table is fixed: monthly/weekly 4.33,
// monthly/daily 30, week 7 days, day 8 hours.
func (s *SalaryScale) UpdateFromPeriod(period SalaryPeriod, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrAmountNegative
	}

	switch period {
	case SalaryPeriodMonthly:
		s.Monthly = amount
		s.Weekly = amount.Div(weeksPerMonth)
		s.Daily = amount.Div(daysPerMonth)
		s.Hourly = amount.Div(daysPerMonth.Mul(hoursPerDay))
	case SalaryPeriodWeekly:
		s.Weekly = amount
		s.Monthly = amount.Mul(weeksPerMonth)
		s.Daily = amount.Div(daysPerWeek)
		s.Hourly = amount.Div(daysPerWeek.Mul(hoursPerDay))
	case SalaryPeriodDaily:
		s.Daily = amount
		s.Monthly = amount.Mul(daysPerMonth)
		s.Weekly = amount.Mul(daysPerWeek)
		s.Hourly = amount.Div(hoursPerDay)
	case SalaryPeriodHourly:
		s.Hourly = amount
		s.Daily = amount.Mul(hoursPerDay)
		s.Weekly = amount.Mul(hoursPerDay).Mul(daysPerWeek)
		s.Monthly = amount.Mul(hoursPerDay).Mul(daysPerMonth)
	default:
		return ErrSalaryPeriodInvalid
	}

	return nil
}

// Returns all salary scales on this instance for export
func (SalaryScale) Export() (json.RawMessage, error) {
	var scales []SalaryScale
	err := DB.Unscoped().Where(&SalaryScale{}).Find(&scales).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&scales)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
