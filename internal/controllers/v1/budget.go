package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/optibudget/backend/internal/httputil"
	"github.com/optibudget/backend/internal/ledger"
	"github.com/optibudget/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterBudgetRoutes registers the routes for budgets with
// the RouterGroup that is passed.
func (co Controller) RegisterBudgetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsBudgetList)
		r.GET("", co.GetBudgets)
		r.POST("", co.CreateBudget)
	}

	// Budget with ID
	{
		r.OPTIONS("/:id", co.OptionsBudgetDetail)
		r.GET("/:id", co.GetBudget)
		r.PATCH("/:id", co.UpdateBudget)
		r.DELETE("/:id", co.DeleteBudget)
		r.POST("/:id/reset", co.ResetBudget)
		r.GET("/:id/summary", co.GetBudgetSummary)
	}
}

// BudgetEditable represents all user configurable parameters
type BudgetEditable struct {
	Name           string          `json:"name" example:"Groceries 2026" default:""`            // Name of the budget
	Note           string          `json:"note" example:"Monthly food budget" default:""`       // Notes about the budget
	InitialBalance decimal.Decimal `json:"initialBalance" example:"1000.00" default:"0"`        // The amount the budget starts with
	EndDate        *time.Time      `json:"endDate" example:"2026-12-31T00:00:00Z" default:"''"` // When the budget ends
	FixedTerm      bool            `json:"fixedTerm" example:"true" default:"false"`            // Does the budget end on a fixed date?
	Active         bool            `json:"active" example:"true" default:"true"`                // Is the budget active?
}

func (editable BudgetEditable) model() models.Budget {
	return models.Budget{
		Name:           editable.Name,
		Note:           editable.Note,
		InitialBalance: editable.InitialBalance,
		EndDate:        editable.EndDate,
		FixedTerm:      editable.FixedTerm,
		Active:         editable.Active,
	}
}

type BudgetLinks struct {
	Self       string `json:"self" example:"https://example.com/v1/budgets/3b1ea324-d438-4419-882a-2fc91d71772f"`                // The budget itself
	Categories string `json:"categories" example:"https://example.com/v1/categories?budget=3b1ea324-d438-4419-882a-2fc91d71772f"` // Categories of this budget
	Expenses   string `json:"expenses" example:"https://example.com/v1/expenses?budget=3b1ea324-d438-4419-882a-2fc91d71772f"`     // Expenses of this budget
	Summary    string `json:"summary" example:"https://example.com/v1/budgets/3b1ea324-d438-4419-882a-2fc91d71772f/summary"`      // Summary for this budget
}

type Budget struct {
	models.DefaultModel
	BudgetEditable
	Balance decimal.Decimal `json:"balance" example:"750.00"` // The current balance, maintained by the ledger
	Links   BudgetLinks     `json:"links"`
}

func newBudget(c *gin.Context, model models.Budget) Budget {
	url := httputil.RequestPathV1(c)

	return Budget{
		DefaultModel: model.DefaultModel,
		BudgetEditable: BudgetEditable{
			Name:           model.Name,
			Note:           model.Note,
			InitialBalance: model.InitialBalance,
			EndDate:        model.EndDate,
			FixedTerm:      model.FixedTerm,
			Active:         model.Active,
		},
		Balance: model.Balance,
		Links: BudgetLinks{
			Self:       fmt.Sprintf("%s/budgets/%s", url, model.ID),
			Categories: fmt.Sprintf("%s/categories?budget=%s", url, model.ID),
			Expenses:   fmt.Sprintf("%s/expenses?budget=%s", url, model.ID),
			Summary:    fmt.Sprintf("%s/budgets/%s/summary", url, model.ID),
		},
	}
}

type BudgetResponse struct {
	Data  *Budget `json:"data"`
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type BudgetListResponse struct {
	Data       []Budget    `json:"data"`
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"`
	Pagination *Pagination `json:"pagination"`
}

type BudgetQueryFilter struct {
	Name      string `form:"name" filterField:"false"`   // By name
	Note      string `form:"note" filterField:"false"`   // By note
	Search    string `form:"search" filterField:"false"` // By string in name or note
	Active    bool   `form:"active"`                     // Is the budget active?
	FixedTerm bool   `form:"fixedTerm"`                  // Does the budget end on a fixed date?
	Offset    uint   `form:"offset" filterField:"false"` // The offset of the first Budget returned. Defaults to 0.
	Limit     int    `form:"limit" filterField:"false"`  // Maximum number of Budgets to return. Defaults to 50.
}

func (f BudgetQueryFilter) model() models.Budget {
	return models.Budget{
		Active:    f.Active,
		FixedTerm: f.FixedTerm,
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets [options]
func (co Controller) OptionsBudgetList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [options]
func (co Controller) OptionsBudgetDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.First(&models.Budget{}, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create budget
// @Description	Creates a new budget. The balance starts at the initial balance.
// @Tags			Budgets
// @Produce		json
// @Success		201		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		500		{object}	BudgetResponse
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/budgets [post]
func (co Controller) CreateBudget(c *gin.Context) {
	var editable BudgetEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	budget, err := co.Ledger.CreateBudget(c.Request.Context(), currentUser(c), editable.model())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	data := newBudget(c, budget)
	c.JSON(http.StatusCreated, BudgetResponse{Data: &data})
}

// @Summary		Get budgets
// @Description	Returns a list of budgets
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetListResponse
// @Failure		400	{object}	BudgetListResponse
// @Failure		500	{object}	BudgetListResponse
// @Router			/v1/budgets [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			active		query	bool	false	"Is the budget active?"
// @Param			fixedTerm	query	bool	false	"Does the budget end on a fixed date?"
// @Param			offset		query	uint	false	"The offset of the first Budget returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Budgets to return. Defaults to 50."
func (co Controller) GetBudgets(c *gin.Context) {
	var filter BudgetQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := co.DB.
		Order("name ASC").
		Where("user_id = ?", currentUser(c).ID).
		Where(filter.model(), queryFields...)

	q = stringFilters(co.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var budgets []models.Budget
	err := q.Find(&budgets).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetListResponse{Error: &e})
		return
	}

	data := make([]Budget, 0)
	for _, budget := range budgets {
		data = append(data, newBudget(c, budget))
	}

	c.JSON(http.StatusOK, BudgetListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get budget
// @Description	Returns a specific budget
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetResponse
// @Failure		400	{object}	BudgetResponse
// @Failure		404	{object}	BudgetResponse
// @Failure		500	{object}	BudgetResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [get]
func (co Controller) GetBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	var budget models.Budget
	err = co.DB.First(&budget, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	data := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}

// @Summary		Update budget
// @Description	Updates an existing budget. Changing the initial balance removes all child resources and resets the balance.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		404		{object}	BudgetResponse
// @Failure		500		{object}	BudgetResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/budgets/{id} [patch]
func (co Controller) UpdateBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	var editable BudgetEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	var update ledger.BudgetUpdate
	if fieldSet(updateFields, "Name") {
		update.Name = &editable.Name
	}
	if fieldSet(updateFields, "Note") {
		update.Note = &editable.Note
	}
	if fieldSet(updateFields, "InitialBalance") {
		update.InitialBalance = &editable.InitialBalance
	}
	if fieldSet(updateFields, "EndDate") {
		update.EndDate = editable.EndDate
	}
	if fieldSet(updateFields, "FixedTerm") {
		update.FixedTerm = &editable.FixedTerm
	}
	if fieldSet(updateFields, "Active") {
		update.Active = &editable.Active
	}

	budget, err := co.Ledger.UpdateBudget(c.Request.Context(), currentUser(c), uri.ID.UUID, update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	data := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}

// @Summary		Delete budget
// @Description	Deletes a budget with all its child resources
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [delete]
func (co Controller) DeleteBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.Ledger.DeleteBudget(c.Request.Context(), currentUser(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Reset budget
// @Description	Restores the balance to the initial balance and removes all child resources
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetResponse
// @Failure		400	{object}	BudgetResponse
// @Failure		404	{object}	BudgetResponse
// @Failure		500	{object}	BudgetResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/reset [post]
func (co Controller) ResetBudget(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	budget, err := co.Ledger.ResetBudget(c.Request.Context(), currentUser(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	data := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}

type BudgetSummaryResponse struct {
	Data  *BudgetSummary `json:"data"`
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type BudgetSummary struct {
	Budget          Budget          `json:"budget"`
	InitialAmount   decimal.Decimal `json:"initialAmount" example:"1000.00"`
	RemainingAmount decimal.Decimal `json:"remainingAmount" example:"750.00"`
	UsedAmount      decimal.Decimal `json:"usedAmount" example:"250.00"`
	UsedPercentage  decimal.Decimal `json:"usedPercentage" example:"25.00"`
	CategoryCount   int             `json:"categoryCount" example:"4"`
	ExpenseCount    int             `json:"expenseCount" example:"17"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses" example:"230.00"`
}

// @Summary		Budget summary
// @Description	Returns the usage summary for a budget
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetSummaryResponse
// @Failure		400	{object}	BudgetSummaryResponse
// @Failure		404	{object}	BudgetSummaryResponse
// @Failure		500	{object}	BudgetSummaryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/summary [get]
func (co Controller) GetBudgetSummary(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetSummaryResponse{Error: &e})
		return
	}

	summary, err := co.Reports.Summary(c.Request.Context(), currentUser(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetSummaryResponse{Error: &e})
		return
	}

	data := BudgetSummary{
		Budget:          newBudget(c, summary.Budget),
		InitialAmount:   summary.InitialAmount,
		RemainingAmount: summary.RemainingAmount,
		UsedAmount:      summary.UsedAmount,
		UsedPercentage:  summary.UsedPercentage,
		CategoryCount:   summary.CategoryCount,
		ExpenseCount:    summary.ExpenseCount,
		TotalExpenses:   summary.TotalExpenses,
	}

	c.JSON(http.StatusOK, BudgetSummaryResponse{Data: &data})
}
