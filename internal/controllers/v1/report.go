package v1

import (
	"net/http"

	"github.com/optibudget/backend/internal/httputil"
	"github.com/optibudget/backend/internal/reports"
	"github.com/gin-gonic/gin"
)

// RegisterReportRoutes registers the routes for reports with the
// RouterGroup that is passed.
func (co Controller) RegisterReportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/global", co.OptionsGlobalReport)
	r.GET("/global", co.GetGlobalReport)
}

type GlobalReportResponse struct {
	Data  *reports.GlobalReport `json:"data"`
	Error *string               `json:"error" example:"an error occurred on the server during your request"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reports
// @Success		204
// @Router			/v1/reports/global [options]
func (co Controller) OptionsGlobalReport(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get global report
// @Description	Returns aggregates over all budgets of the account. Income totals are only included for enterprise accounts.
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	GlobalReportResponse
// @Failure		500	{object}	GlobalReportResponse
// @Router			/v1/reports/global [get]
func (co Controller) GetGlobalReport(c *gin.Context) {
	report, err := co.Reports.Global(c.Request.Context(), currentUser(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GlobalReportResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, GlobalReportResponse{Data: &report})
}
