package v1

import (
	"fmt"
	"net/http"

	"github.com/optibudget/backend/internal/httputil"
	"github.com/optibudget/backend/internal/ledger"
	"github.com/optibudget/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterExpenseRoutes registers the routes for expenses with
// the RouterGroup that is passed.
func (co Controller) RegisterExpenseRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsExpenseList)
		r.GET("", co.GetExpenses)
		r.POST("", co.CreateExpense)
	}

	// Expense with ID
	{
		r.OPTIONS("/:id", co.OptionsExpenseDetail)
		r.GET("/:id", co.GetExpense)
		r.PATCH("/:id", co.UpdateExpense)
		r.DELETE("/:id", co.DeleteExpense)
	}
}

// ExpenseEditable represents all user configurable parameters
type ExpenseEditable struct {
	BudgetID   uuid.UUID       `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`                      // ID of the budget the expense is booked against
	CategoryID *uuid.UUID      `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`                    // Optional ID of a category within the budget
	Name       string          `json:"name" example:"Groceries" default:""`                                          // Name of the expense
	Note       string          `json:"note" example:"Weekly shopping at the supermarket" default:""`                 // Notes about the expense
	Amount     decimal.Decimal `json:"amount" example:"27.12" default:"0" minimum:"0.00000001" multipleOf:"0.00000001"` // The amount of the expense
}

func (editable ExpenseEditable) model() models.Expense {
	return models.Expense{
		BudgetID:   editable.BudgetID,
		CategoryID: editable.CategoryID,
		Name:       editable.Name,
		Note:       editable.Note,
		Amount:     editable.Amount,
	}
}

type ExpenseLinks struct {
	Self   string `json:"self" example:"https://example.com/v1/expenses/d430d7c3-d14c-4712-9336-ee56965a6673"`  // The expense itself
	Budget string `json:"budget" example:"https://example.com/v1/budgets/52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // The budget the expense is booked against
}

type Expense struct {
	models.DefaultModel
	ExpenseEditable
	Kind  models.ExpenseKind `json:"kind" example:"expense"` // Either "expense" or "salary" for payroll mirror rows
	Links ExpenseLinks       `json:"links"`
}

func newExpense(c *gin.Context, model models.Expense) Expense {
	url := httputil.RequestPathV1(c)

	return Expense{
		DefaultModel: model.DefaultModel,
		ExpenseEditable: ExpenseEditable{
			BudgetID:   model.BudgetID,
			CategoryID: model.CategoryID,
			Name:       model.Name,
			Note:       model.Note,
			Amount:     model.Amount,
		},
		Kind: model.Kind,
		Links: ExpenseLinks{
			Self:   fmt.Sprintf("%s/expenses/%s", url, model.ID),
			Budget: fmt.Sprintf("%s/budgets/%s", url, model.BudgetID),
		},
	}
}

type ExpenseResponse struct {
	Data  *Expense `json:"data"`
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type ExpenseListResponse struct {
	Data       []Expense   `json:"data"`
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"`
	Pagination *Pagination `json:"pagination"`
}

type ExpenseQueryFilter struct {
	BudgetID   string `form:"budget"`                     // By ID of the budget
	CategoryID string `form:"category"`                   // By ID of the category
	Kind       string `form:"kind"`                       // By kind ("expense" or "salary")
	Name       string `form:"name" filterField:"false"`   // By name
	Note       string `form:"note" filterField:"false"`   // By note
	Search     string `form:"search" filterField:"false"` // By string in name or note
	Offset     uint   `form:"offset" filterField:"false"` // The offset of the first Expense returned. Defaults to 0.
	Limit      int    `form:"limit" filterField:"false"`  // Maximum number of Expenses to return. Defaults to 50.
}

func (f ExpenseQueryFilter) model() (models.Expense, error) {
	budgetID, err := httputil.UUIDFromString(f.BudgetID)
	if err != nil {
		return models.Expense{}, err
	}

	categoryID, err := httputil.UUIDFromString(f.CategoryID)
	if err != nil {
		return models.Expense{}, err
	}

	expense := models.Expense{
		BudgetID: budgetID,
		Kind:     models.ExpenseKind(f.Kind),
	}

	if categoryID != uuid.Nil {
		expense.CategoryID = &categoryID
	}

	return expense, nil
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Router			/v1/expenses [options]
func (co Controller) OptionsExpenseList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [options]
func (co Controller) OptionsExpenseDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.First(&models.Expense{}, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create expense
// @Description	Creates a new expense. The amount is deducted from the budget and, if set, the category.
// @Tags			Expenses
// @Produce		json
// @Success		201		{object}	ExpenseResponse
// @Failure		400		{object}	ExpenseResponse
// @Failure		403		{object}	ExpenseResponse
// @Failure		404		{object}	ExpenseResponse
// @Failure		500		{object}	ExpenseResponse
// @Param			expense	body		ExpenseEditable	true	"Expense"
// @Router			/v1/expenses [post]
func (co Controller) CreateExpense(c *gin.Context) {
	var editable ExpenseEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	expense, err := co.Ledger.CreateExpense(c.Request.Context(), currentUser(c), editable.model())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	data := newExpense(c, expense)
	c.JSON(http.StatusCreated, ExpenseResponse{Data: &data})
}

// @Summary		Get expenses
// @Description	Returns a list of expenses
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseListResponse
// @Failure		400	{object}	ExpenseListResponse
// @Failure		500	{object}	ExpenseListResponse
// @Router			/v1/expenses [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			budget		query	string	false	"Filter by budget ID"
// @Param			category	query	string	false	"Filter by category ID"
// @Param			kind		query	string	false	"Filter by kind"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			offset		query	uint	false	"The offset of the first Expense returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Expenses to return. Defaults to 50."
func (co Controller) GetExpenses(c *gin.Context) {
	var filter ExpenseQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where, err := filter.model()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{Error: &e})
		return
	}

	q := co.DB.
		Order("created_at DESC").
		Where("user_id = ?", currentUser(c).ID).
		Where(where, queryFields...)

	q = stringFilters(co.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var expenses []models.Expense
	err = q.Find(&expenses).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{Error: &e})
		return
	}

	data := make([]Expense, 0)
	for _, expense := range expenses {
		data = append(data, newExpense(c, expense))
	}

	c.JSON(http.StatusOK, ExpenseListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get expense
// @Description	Returns a specific expense
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseResponse
// @Failure		400	{object}	ExpenseResponse
// @Failure		404	{object}	ExpenseResponse
// @Failure		500	{object}	ExpenseResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [get]
func (co Controller) GetExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	var expense models.Expense
	err = co.DB.First(&expense, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	data := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &data})
}

// @Summary		Update expense
// @Description	Updates an existing expense. The old amount is restored, then the new state is booked.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		200		{object}	ExpenseResponse
// @Failure		400		{object}	ExpenseResponse
// @Failure		404		{object}	ExpenseResponse
// @Failure		500		{object}	ExpenseResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			expense	body		ExpenseEditable	true	"Expense"
// @Router			/v1/expenses/{id} [patch]
func (co Controller) UpdateExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ExpenseEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	var editable ExpenseEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	var update ledger.ExpenseUpdate
	if fieldSet(updateFields, "Name") {
		update.Name = &editable.Name
	}
	if fieldSet(updateFields, "Note") {
		update.Note = &editable.Note
	}
	if fieldSet(updateFields, "Amount") {
		update.Amount = &editable.Amount
	}
	if fieldSet(updateFields, "CategoryID") {
		update.CategoryID = editable.CategoryID
		update.HasCategoryID = true
	}

	expense, err := co.Ledger.UpdateExpense(c.Request.Context(), currentUser(c), uri.ID.UUID, update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	data := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &data})
}

// @Summary		Delete expense
// @Description	Deletes an expense and restores the amount to the budget and category
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [delete]
func (co Controller) DeleteExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.Ledger.DeleteExpense(c.Request.Context(), currentUser(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
