package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/optibudget/backend/internal/httputil"
	"github.com/optibudget/backend/internal/models"
	"github.com/optibudget/backend/internal/payroll"
	"github.com/optibudget/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterPaymentRoutes registers the routes for payments and the
// payroll batch endpoints with the RouterGroup that is passed.
func (co Controller) RegisterPaymentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsPaymentList)
		r.GET("", co.GetPayments)
		r.POST("", co.CreatePayment)
	}

	// Payroll batch processing
	{
		r.OPTIONS("/payroll", co.OptionsPayroll)
		r.POST("/payroll", co.RunPayroll)
		r.POST("/payroll/preview", co.PreviewPayroll)
	}

	// Payment with ID
	{
		r.OPTIONS("/:id", co.OptionsPaymentDetail)
		r.GET("/:id", co.GetPayment)
		r.DELETE("/:id", co.DeletePayment)
	}
}

// PaymentEditable represents all user configurable parameters
type PaymentEditable struct {
	BudgetID   uuid.UUID       `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`   // ID of the budget the payment is deducted from
	EmployeeID uuid.UUID       `json:"employeeId" example:"bcb2f6b8-7a0f-4f67-8a27-a88f8705a1b3"` // ID of the employee receiving the payment
	Amount     decimal.Decimal `json:"amount" example:"2500.00" default:"0"`                      // The amount paid
	Note       string          `json:"note" example:"Salary advance" default:""`                  // Notes about the payment
	PaidAt     *time.Time      `json:"paidAt" example:"2024-05-31T12:00:00Z"`                     // When the payment was made. Defaults to now.
}

func (editable PaymentEditable) model() models.Payment {
	payment := models.Payment{
		BudgetID:   editable.BudgetID,
		EmployeeID: editable.EmployeeID,
		Amount:     editable.Amount,
		Note:       editable.Note,
	}

	if editable.PaidAt != nil {
		payment.PaidAt = *editable.PaidAt
	}

	return payment
}

type PaymentLinks struct {
	Self     string `json:"self" example:"https://example.com/v1/payments/a6e28cf6-85cb-4a40-a2a1-b7c0c152b5f6"`       // The payment itself
	Budget   string `json:"budget" example:"https://example.com/v1/budgets/52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`      // The budget the payment is deducted from
	Employee string `json:"employee" example:"https://example.com/v1/employees/bcb2f6b8-7a0f-4f67-8a27-a88f8705a1b3"` // The employee receiving the payment
}

type Payment struct {
	models.DefaultModel
	PaymentEditable
	Kind  string       `json:"kind" example:"salary"` // Kind of the payment
	Links PaymentLinks `json:"links"`
}

func newPayment(c *gin.Context, model models.Payment) Payment {
	url := httputil.RequestPathV1(c)
	paidAt := model.PaidAt

	return Payment{
		DefaultModel: model.DefaultModel,
		PaymentEditable: PaymentEditable{
			BudgetID:   model.BudgetID,
			EmployeeID: model.EmployeeID,
			Amount:     model.Amount,
			Note:       model.Note,
			PaidAt:     &paidAt,
		},
		Kind: model.Kind,
		Links: PaymentLinks{
			Self:     fmt.Sprintf("%s/payments/%s", url, model.ID),
			Budget:   fmt.Sprintf("%s/budgets/%s", url, model.BudgetID),
			Employee: fmt.Sprintf("%s/employees/%s", url, model.EmployeeID),
		},
	}
}

type PaymentResponse struct {
	Data  *Payment `json:"data"`
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type PaymentListResponse struct {
	Data       []Payment   `json:"data"`
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"`
	Pagination *Pagination `json:"pagination"`
}

type PaymentQueryFilter struct {
	BudgetID   string `form:"budget"`                     // By ID of the budget
	EmployeeID string `form:"employee"`                   // By ID of the employee
	Offset     uint   `form:"offset" filterField:"false"` // The offset of the first Payment returned. Defaults to 0.
	Limit      int    `form:"limit" filterField:"false"`  // Maximum number of Payments to return. Defaults to 50.
}

func (f PaymentQueryFilter) model() (models.Payment, error) {
	budgetID, err := httputil.UUIDFromString(f.BudgetID)
	if err != nil {
		return models.Payment{}, err
	}

	employeeID, err := httputil.UUIDFromString(f.EmployeeID)
	if err != nil {
		return models.Payment{}, err
	}

	return models.Payment{
		BudgetID:   budgetID,
		EmployeeID: employeeID,
	}, nil
}

// PayrollRequest describes one payroll batch run.
type PayrollRequest struct {
	BudgetID      uuid.UUID             `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // ID of the budget salaries are paid from
	Period        string                `json:"period" example:"2024-05"`                                // Calendar month in YYYY-MM format. Defaults to the current month.
	EmployeeTypes []models.EmployeeType `json:"employeeTypes" example:"staff,worker"`                    // Restrict the batch to these employee types. Defaults to all.
}

func (r PayrollRequest) options() (payroll.Options, error) {
	period := types.MonthOf(time.Now())
	if r.Period != "" {
		var err error
		period, err = types.ParseMonth(r.Period)
		if err != nil {
			return payroll.Options{}, err
		}
	}

	return payroll.Options{
		Period:        period,
		EmployeeTypes: r.EmployeeTypes,
	}, nil
}

type PayrollResponse struct {
	Data  *payroll.Result `json:"data"`
	Error *string         `json:"error" example:"the account must be an enterprise account for this operation"`
}

type PayrollPreviewResponse struct {
	Data  *payroll.Preview `json:"data"`
	Error *string          `json:"error" example:"the account must be an enterprise account for this operation"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Router			/v1/payments [options]
func (co Controller) OptionsPaymentList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Router			/v1/payments/payroll [options]
func (co Controller) OptionsPayroll(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payments
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payments/{id} [options]
func (co Controller) OptionsPaymentDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.First(&models.Payment{}, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetDelete(c)
}

// @Summary		Create payment
// @Description	Creates a single payment for an employee and deducts it from the budget
// @Tags			Payments
// @Produce		json
// @Success		201		{object}	PaymentResponse
// @Failure		400		{object}	PaymentResponse
// @Failure		403		{object}	PaymentResponse
// @Failure		404		{object}	PaymentResponse
// @Failure		500		{object}	PaymentResponse
// @Param			payment	body		PaymentEditable	true	"Payment"
// @Router			/v1/payments [post]
func (co Controller) CreatePayment(c *gin.Context) {
	var editable PaymentEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	payment, err := co.Ledger.CreatePayment(c.Request.Context(), currentUser(c), editable.model())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	data := newPayment(c, payment)
	c.JSON(http.StatusCreated, PaymentResponse{Data: &data})
}

// @Summary		Run payroll
// @Description	Pays all matching active employees from the budget in one batch. Running the same period again is a no-op.
// @Tags			Payments
// @Accept			json
// @Produce		json
// @Success		201		{object}	PayrollResponse
// @Failure		400		{object}	PayrollResponse
// @Failure		403		{object}	PayrollResponse
// @Failure		404		{object}	PayrollResponse
// @Failure		500		{object}	PayrollResponse
// @Param			payroll	body		PayrollRequest	true	"Payroll batch"
// @Router			/v1/payments/payroll [post]
func (co Controller) RunPayroll(c *gin.Context) {
	var request PayrollRequest

	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayrollResponse{Error: &e})
		return
	}

	opts, err := request.options()
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PayrollResponse{Error: &e})
		return
	}

	result, err := co.Payroll.PayAll(c.Request.Context(), currentUser(c), request.BudgetID, opts)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayrollResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, PayrollResponse{Data: &result})
}

// @Summary		Preview payroll
// @Description	Resolves a payroll batch without creating payments or touching balances
// @Tags			Payments
// @Accept			json
// @Produce		json
// @Success		200		{object}	PayrollPreviewResponse
// @Failure		400		{object}	PayrollPreviewResponse
// @Failure		403		{object}	PayrollPreviewResponse
// @Failure		404		{object}	PayrollPreviewResponse
// @Failure		500		{object}	PayrollPreviewResponse
// @Param			payroll	body		PayrollRequest	true	"Payroll batch"
// @Router			/v1/payments/payroll/preview [post]
func (co Controller) PreviewPayroll(c *gin.Context) {
	var request PayrollRequest

	err := httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayrollPreviewResponse{Error: &e})
		return
	}

	opts, err := request.options()
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, PayrollPreviewResponse{Error: &e})
		return
	}

	preview, err := co.Payroll.PreviewAll(c.Request.Context(), currentUser(c), request.BudgetID, opts)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayrollPreviewResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, PayrollPreviewResponse{Data: &preview})
}

// @Summary		Get payments
// @Description	Returns a list of payments
// @Tags			Payments
// @Produce		json
// @Success		200	{object}	PaymentListResponse
// @Failure		400	{object}	PaymentListResponse
// @Failure		500	{object}	PaymentListResponse
// @Router			/v1/payments [get]
// @Param			budget		query	string	false	"Filter by budget ID"
// @Param			employee	query	string	false	"Filter by employee ID"
// @Param			offset		query	uint	false	"The offset of the first Payment returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Payments to return. Defaults to 50."
func (co Controller) GetPayments(c *gin.Context) {
	var filter PaymentQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where, err := filter.model()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentListResponse{Error: &e})
		return
	}

	q := co.DB.
		Order("datetime(paid_at) DESC").
		Where("user_id = ?", currentUser(c).ID).
		Where(where, queryFields...)

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var payments []models.Payment
	err = q.Find(&payments).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentListResponse{Error: &e})
		return
	}

	data := make([]Payment, 0)
	for _, payment := range payments {
		data = append(data, newPayment(c, payment))
	}

	c.JSON(http.StatusOK, PaymentListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get payment
// @Description	Returns a specific payment
// @Tags			Payments
// @Produce		json
// @Success		200	{object}	PaymentResponse
// @Failure		400	{object}	PaymentResponse
// @Failure		404	{object}	PaymentResponse
// @Failure		500	{object}	PaymentResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payments/{id} [get]
func (co Controller) GetPayment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	var payment models.Payment
	err = co.DB.First(&payment, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PaymentResponse{Error: &e})
		return
	}

	data := newPayment(c, payment)
	c.JSON(http.StatusOK, PaymentResponse{Data: &data})
}

// @Summary		Delete payment
// @Description	Deletes a payment and restores the amount to the budget
// @Tags			Payments
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payments/{id} [delete]
func (co Controller) DeletePayment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.Ledger.DeletePayment(c.Request.Context(), currentUser(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
