package v1

import (
	"errors"
	"net/http"

	"github.com/optibudget/backend/internal/httputil"
	"github.com/optibudget/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterSalaryScaleRoutes registers the routes for the salary scale
// with the RouterGroup that is passed.
//
// The salary scale is a per-user singleton, so the resource has no ID
// in the URL.
func (co Controller) RegisterSalaryScaleRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", co.OptionsSalaryScale)
	r.GET("", co.GetSalaryScale)
	r.PUT("", co.UpdateSalaryScale)
	r.POST("/calculate", co.CalculateSalaryScale)
}

// SalaryScaleEditable represents all user configurable parameters
type SalaryScaleEditable struct {
	Direction  models.SalaryBand `json:"direction"`  // Band for the direction type
	Executive  models.SalaryBand `json:"executive"`  // Band for the executive type
	Staff      models.SalaryBand `json:"staff"`      // Band for the staff type
	Worker     models.SalaryBand `json:"worker"`     // Band for the worker type
	Consultant models.SalaryBand `json:"consultant"` // Band for the consultant type
	Intern     models.SalaryBand `json:"intern"`     // Band for the intern type
	Temporary  models.SalaryBand `json:"temporary"`  // Band for the temporary type
	Other      models.SalaryBand `json:"other"`      // Band for every other type

	Hourly  decimal.Decimal `json:"hourly" example:"12.50"`    // Reference hourly figure
	Daily   decimal.Decimal `json:"daily" example:"100.00"`    // Reference daily figure
	Weekly  decimal.Decimal `json:"weekly" example:"692.84"`   // Reference weekly figure
	Monthly decimal.Decimal `json:"monthly" example:"3000.00"` // Reference monthly figure
}

func (editable SalaryScaleEditable) apply(scale *models.SalaryScale) {
	scale.Direction = editable.Direction
	scale.Executive = editable.Executive
	scale.Staff = editable.Staff
	scale.Worker = editable.Worker
	scale.Consultant = editable.Consultant
	scale.Intern = editable.Intern
	scale.Temporary = editable.Temporary
	scale.Other = editable.Other
	scale.Hourly = editable.Hourly
	scale.Daily = editable.Daily
	scale.Weekly = editable.Weekly
	scale.Monthly = editable.Monthly
}

type SalaryScale struct {
	models.DefaultModel
	SalaryScaleEditable
	TotalMonthly decimal.Decimal `json:"totalMonthly" example:"19250.00"` // Net band totals summed over all employee types
}

func newSalaryScale(model models.SalaryScale) SalaryScale {
	return SalaryScale{
		DefaultModel: model.DefaultModel,
		SalaryScaleEditable: SalaryScaleEditable{
			Direction:  model.Direction,
			Executive:  model.Executive,
			Staff:      model.Staff,
			Worker:     model.Worker,
			Consultant: model.Consultant,
			Intern:     model.Intern,
			Temporary:  model.Temporary,
			Other:      model.Other,
			Hourly:     model.Hourly,
			Daily:      model.Daily,
			Weekly:     model.Weekly,
			Monthly:    model.Monthly,
		},
		TotalMonthly: model.TotalMonthly(),
	}
}

type SalaryScaleResponse struct {
	Data  *SalaryScale `json:"data"`
	Error *string      `json:"error" example:"the account must be an enterprise account for this operation"`
}

// SalaryCalculation sets all four period-normalized figures from a
// single reference figure.
type SalaryCalculation struct {
	Period models.SalaryPeriod `json:"period" example:"monthly"`  // One of "hourly", "daily", "weekly", "monthly"
	Amount decimal.Decimal     `json:"amount" example:"3000.00"` // The reference figure for that period
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			SalaryScale
// @Success		204
// @Router			/v1/salary-scale [options]
func (co Controller) OptionsSalaryScale(c *gin.Context) {
	httputil.OptionsGetPut(c)
}

// scaleOf loads the singleton scale for the user, creating an empty one
// on first access.
func (co Controller) scaleOf(user models.User) (models.SalaryScale, error) {
	var scale models.SalaryScale
	err := co.DB.First(&scale, "user_id = ?", user.ID).Error
	if err == nil {
		return scale, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, models.ErrResourceNotFound) {
		return models.SalaryScale{}, err
	}

	scale = models.SalaryScale{UserID: user.ID}
	err = co.DB.Create(&scale).Error
	return scale, err
}

// @Summary		Get salary scale
// @Description	Returns the salary scale of the account. An empty scale is created on first access.
// @Tags			SalaryScale
// @Produce		json
// @Success		200	{object}	SalaryScaleResponse
// @Failure		403	{object}	SalaryScaleResponse
// @Failure		500	{object}	SalaryScaleResponse
// @Router			/v1/salary-scale [get]
func (co Controller) GetSalaryScale(c *gin.Context) {
	user := currentUser(c)
	if err := user.CheckEnterprise(); err != nil {
		e := err.Error()
		c.JSON(status(err), SalaryScaleResponse{Error: &e})
		return
	}

	scale, err := co.scaleOf(user)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SalaryScaleResponse{Error: &e})
		return
	}

	data := newSalaryScale(scale)
	c.JSON(http.StatusOK, SalaryScaleResponse{Data: &data})
}

// @Summary		Update salary scale
// @Description	Replaces the salary scale of the account
// @Tags			SalaryScale
// @Accept			json
// @Produce		json
// @Success		200			{object}	SalaryScaleResponse
// @Failure		400			{object}	SalaryScaleResponse
// @Failure		403			{object}	SalaryScaleResponse
// @Failure		500			{object}	SalaryScaleResponse
// @Param			salaryScale	body		SalaryScaleEditable	true	"SalaryScale"
// @Router			/v1/salary-scale [put]
func (co Controller) UpdateSalaryScale(c *gin.Context) {
	user := currentUser(c)
	if err := user.CheckEnterprise(); err != nil {
		e := err.Error()
		c.JSON(status(err), SalaryScaleResponse{Error: &e})
		return
	}

	var editable SalaryScaleEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SalaryScaleResponse{Error: &e})
		return
	}

	scale, err := co.scaleOf(user)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SalaryScaleResponse{Error: &e})
		return
	}

	editable.apply(&scale)

	err = co.DB.Save(&scale).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SalaryScaleResponse{Error: &e})
		return
	}

	data := newSalaryScale(scale)
	c.JSON(http.StatusOK, SalaryScaleResponse{Data: &data})
}

// @Summary		Calculate salary scale
// @Description	Derives all four period-normalized figures from a single reference figure and stores them
// @Tags			SalaryScale
// @Accept			json
// @Produce		json
// @Success		200			{object}	SalaryScaleResponse
// @Failure		400			{object}	SalaryScaleResponse
// @Failure		403			{object}	SalaryScaleResponse
// @Failure		500			{object}	SalaryScaleResponse
// @Param			calculation	body		SalaryCalculation	true	"Calculation"
// @Router			/v1/salary-scale/calculate [post]
func (co Controller) CalculateSalaryScale(c *gin.Context) {
	user := currentUser(c)
	if err := user.CheckEnterprise(); err != nil {
		e := err.Error()
		c.JSON(status(err), SalaryScaleResponse{Error: &e})
		return
	}

	var calculation SalaryCalculation
	err := httputil.BindData(c, &calculation)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SalaryScaleResponse{Error: &e})
		return
	}

	scale, err := co.scaleOf(user)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SalaryScaleResponse{Error: &e})
		return
	}

	err = scale.UpdateFromPeriod(calculation.Period, calculation.Amount)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SalaryScaleResponse{Error: &e})
		return
	}

	err = co.DB.Save(&scale).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SalaryScaleResponse{Error: &e})
		return
	}

	data := newSalaryScale(scale)
	c.JSON(http.StatusOK, SalaryScaleResponse{Data: &data})
}
