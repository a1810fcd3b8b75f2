package v1

import (
	"errors"
	"net/http"

	"github.com/optibudget/backend/internal/models"
	"gorm.io/gorm"
)

type httpError struct {
	Error string `json:"error" example:"there is no budget matching your query"`
}

// status returns the appropriate HTTP status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrBudgetInactive) || errors.Is(err, models.ErrEnterpriseOnly) {
		return http.StatusForbidden
	}

	return http.StatusBadRequest
}
