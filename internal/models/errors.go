package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Uniqueness violations translated from database errors, see database.go.
var (
	ErrBudgetNameNotUnique   = errors.New("the budget name must be unique for the user")
	ErrCategoryNameNotUnique = errors.New("the category name must be unique for the budget")
	ErrSalaryScaleNotUnique  = errors.New("there can only be one salary scale per user")
)

// Validation and state errors for ledger operations.
var (
	ErrAmountNegative          = errors.New("amounts must not be negative")
	ErrAmountExceedsBudget     = errors.New("the amount exceeds the available balance of the budget")
	ErrAmountExceedsCategory   = errors.New("the amount exceeds the available balance of the category")
	ErrBudgetInactive          = errors.New("the budget is not active")
	ErrEnterpriseOnly          = errors.New("this operation is only available for enterprise accounts")
	ErrUnknownAccountKind      = errors.New("the account kind is unknown")
	ErrSalaryPeriodInvalid     = errors.New("the salary period is invalid")
	ErrEmployeeTypeInvalid     = errors.New("the employee type is invalid")
	ErrEmployeeStatusInvalid   = errors.New("the employee status is invalid")
	ErrCategoryNotInBudget     = errors.New("the category does not belong to the budget")
	ErrSalaryExpenseImmutable  = errors.New("salary expenses are managed by payroll and cannot be rebooked")
	ErrEndDateTooClose         = errors.New("the end date must be more than three days in the future")
	ErrNotificationTypeInvalid = errors.New("the notification type is invalid")
)
