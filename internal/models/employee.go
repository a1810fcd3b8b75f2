package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeType determines which salary band of the owner's SalaryScale
// applies to an employee.
type EmployeeType string

const (
	EmployeeTypeDirection  EmployeeType = "direction"
	EmployeeTypeExecutive  EmployeeType = "executive"
	EmployeeTypeStaff      EmployeeType = "staff"
	EmployeeTypeWorker     EmployeeType = "worker"
	EmployeeTypeConsultant EmployeeType = "consultant"
	EmployeeTypeIntern     EmployeeType = "intern"
	EmployeeTypeTemporary  EmployeeType = "temporary"
	EmployeeTypeOther      EmployeeType = "other"
)

// EmployeeTypes lists all valid employee types.
var EmployeeTypes = []EmployeeType{
	EmployeeTypeDirection,
	EmployeeTypeExecutive,
	EmployeeTypeStaff,
	EmployeeTypeWorker,
	EmployeeTypeConsultant,
	EmployeeTypeIntern,
	EmployeeTypeTemporary,
	EmployeeTypeOther,
}

func (t EmployeeType) Valid() bool {
	for _, known := range EmployeeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// EmployeeStatus is the employment state. Only active employees are
// considered by the payroll batch processor.
type EmployeeStatus string

const (
	EmployeeStatusActive       EmployeeStatus = "active"
	EmployeeStatusOnLeave      EmployeeStatus = "on_leave"
	EmployeeStatusRetired      EmployeeStatus = "retired"
	EmployeeStatusTerminated   EmployeeStatus = "terminated"
	EmployeeStatusResigned     EmployeeStatus = "resigned"
	EmployeeStatusOutOfService EmployeeStatus = "out_of_service"
)

var employeeStatuses = []EmployeeStatus{
	EmployeeStatusActive,
	EmployeeStatusOnLeave,
	EmployeeStatusRetired,
	EmployeeStatusTerminated,
	EmployeeStatusResigned,
	EmployeeStatusOutOfService,
}

func (s EmployeeStatus) Valid() bool {
	for _, known := range employeeStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Employee belongs to an enterprise account owner.
type Employee struct {
	DefaultModel
	User      User      `json:"-"`
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Position  string
	Type      EmployeeType
	Status    EmployeeStatus
	HiredAt   *time.Time
}

func (e *Employee) BeforeSave(_ *gorm.DB) error {
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	e.Email = strings.TrimSpace(e.Email)
	e.Phone = strings.TrimSpace(e.Phone)
	e.Position = strings.TrimSpace(e.Position)

	if e.Type == "" {
		e.Type = EmployeeTypeOther
	}
	if e.Status == "" {
		e.Status = EmployeeStatusActive
	}

	if !e.Type.Valid() {
		return ErrEmployeeTypeInvalid
	}
	if !e.Status.Valid() {
		return ErrEmployeeStatusInvalid
	}

	return nil
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Employee)
	return tx.First(&User{}, toSave.UserID).Error
}

// FullName returns the display name used in notifications and payroll
// summaries.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Returns all employees on this instance for export
func (Employee) Export() (json.RawMessage, error) {
	var employees []Employee
	err := DB.Unscoped().Where(&Employee{}).Find(&employees).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&employees)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
