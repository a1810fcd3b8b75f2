// Package v1 implements the v1 HTTP API.
package v1

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/optibudget/backend/internal/advice"
	"github.com/optibudget/backend/internal/ledger"
	"github.com/optibudget/backend/internal/models"
	"github.com/optibudget/backend/internal/payroll"
	"github.com/optibudget/backend/internal/reports"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Controller holds the services the v1 API dispatches to.
type Controller struct {
	DB      *gorm.DB
	Ledger  *ledger.Ledger
	Payroll *payroll.Processor
	Advisor *advice.Service
	Reports *reports.Service
}

const userContextKey = "optibudget:user"

// ResolveUser is the middleware resolving the X-User-ID header to a user.
// All /v1 resources except /users require it.
func (co Controller) ResolveUser(c *gin.Context) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, httpError{
			Error: "the X-User-ID header must be set",
		})
		return
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, httpError{
			Error: "the X-User-ID header is not a valid UUID",
		})
		return
	}

	var user models.User
	err = co.DB.First(&user, "id = ?", id).Error
	if err != nil {
		c.AbortWithStatusJSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Set(userContextKey, user)
	c.Next()
}

func currentUser(c *gin.Context) models.User {
	return c.MustGet(userContextKey).(models.User)
}

// RegisterRoutes registers all v1 resources with the RouterGroup.
func (co Controller) RegisterRoutes(v1 *gin.RouterGroup) {
	co.RegisterUserRoutes(v1.Group("/users"))

	authed := v1.Group("")
	authed.Use(co.ResolveUser)

	co.RegisterBudgetRoutes(authed.Group("/budgets"))
	co.RegisterCategoryRoutes(authed.Group("/categories"))
	co.RegisterExpenseRoutes(authed.Group("/expenses"))
	co.RegisterIncomeRoutes(authed.Group("/incomes"))
	co.RegisterEmployeeRoutes(authed.Group("/employees"))
	co.RegisterPaymentRoutes(authed.Group("/payments"))
	co.RegisterSalaryScaleRoutes(authed.Group("/salary-scale"))
	co.RegisterNotificationRoutes(authed.Group("/notifications"))
	co.RegisterAdviceRoutes(authed.Group("/advice"))
	co.RegisterReportRoutes(authed.Group("/reports"))
}
