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

// RegisterIncomeRoutes registers the routes for incomes with
// the RouterGroup that is passed.
func (co Controller) RegisterIncomeRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsIncomeList)
		r.GET("", co.GetIncomes)
		r.POST("", co.CreateIncome)
	}

	// Income with ID
	{
		r.OPTIONS("/:id", co.OptionsIncomeDetail)
		r.GET("/:id", co.GetIncome)
		r.PATCH("/:id", co.UpdateIncome)
		r.DELETE("/:id", co.DeleteIncome)
	}
}

// IncomeEditable represents all user configurable parameters
type IncomeEditable struct {
	BudgetID uuid.UUID       `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // ID of the budget the income is credited to
	Name     string          `json:"name" example:"Invoice 2024-017" default:""`              // Name of the income
	Note     string          `json:"note" example:"Consulting for ACME Corp" default:""`      // Notes about the income
	Amount   decimal.Decimal `json:"amount" example:"1500.00" default:"0"`                    // The amount credited to the budget
}

func (editable IncomeEditable) model() models.Income {
	return models.Income{
		BudgetID: editable.BudgetID,
		Name:     editable.Name,
		Note:     editable.Note,
		Amount:   editable.Amount,
	}
}

type IncomeLinks struct {
	Self   string `json:"self" example:"https://example.com/v1/incomes/7e7ac4df-ecc9-4b4d-a10a-b6dcca2fn589"`   // The income itself
	Budget string `json:"budget" example:"https://example.com/v1/budgets/52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // The budget the income is credited to
}

type Income struct {
	models.DefaultModel
	IncomeEditable
	Links IncomeLinks `json:"links"`
}

func newIncome(c *gin.Context, model models.Income) Income {
	url := httputil.RequestPathV1(c)

	return Income{
		DefaultModel: model.DefaultModel,
		IncomeEditable: IncomeEditable{
			BudgetID: model.BudgetID,
			Name:     model.Name,
			Note:     model.Note,
			Amount:   model.Amount,
		},
		Links: IncomeLinks{
			Self:   fmt.Sprintf("%s/incomes/%s", url, model.ID),
			Budget: fmt.Sprintf("%s/budgets/%s", url, model.BudgetID),
		},
	}
}

type IncomeResponse struct {
	Data  *Income `json:"data"`
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type IncomeListResponse struct {
	Data       []Income    `json:"data"`
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"`
	Pagination *Pagination `json:"pagination"`
}

type IncomeQueryFilter struct {
	BudgetID string `form:"budget"`                     // By ID of the budget
	Name     string `form:"name" filterField:"false"`   // By name
	Note     string `form:"note" filterField:"false"`   // By note
	Search   string `form:"search" filterField:"false"` // By string in name or note
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first Income returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of Incomes to return. Defaults to 50.
}

func (f IncomeQueryFilter) model() (models.Income, error) {
	budgetID, err := httputil.UUIDFromString(f.BudgetID)
	if err != nil {
		return models.Income{}, err
	}

	return models.Income{
		BudgetID: budgetID,
	}, nil
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Incomes
// @Success		204
// @Router			/v1/incomes [options]
func (co Controller) OptionsIncomeList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Incomes
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/incomes/{id} [options]
func (co Controller) OptionsIncomeDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.First(&models.Income{}, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create income
// @Description	Creates a new income for an enterprise account and credits the budget.
// @Tags			Incomes
// @Produce		json
// @Success		201		{object}	IncomeResponse
// @Failure		400		{object}	IncomeResponse
// @Failure		403		{object}	IncomeResponse
// @Failure		404		{object}	IncomeResponse
// @Failure		500		{object}	IncomeResponse
// @Param			income	body		IncomeEditable	true	"Income"
// @Router			/v1/incomes [post]
func (co Controller) CreateIncome(c *gin.Context) {
	var editable IncomeEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{Error: &e})
		return
	}

	income, err := co.Ledger.CreateIncome(c.Request.Context(), currentUser(c), editable.model())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{Error: &e})
		return
	}

	data := newIncome(c, income)
	c.JSON(http.StatusCreated, IncomeResponse{Data: &data})
}

// @Summary		Get incomes
// @Description	Returns a list of incomes
// @Tags			Incomes
// @Produce		json
// @Success		200	{object}	IncomeListResponse
// @Failure		400	{object}	IncomeListResponse
// @Failure		500	{object}	IncomeListResponse
// @Router			/v1/incomes [get]
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			budget	query	string	false	"Filter by budget ID"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			offset	query	uint	false	"The offset of the first Income returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Incomes to return. Defaults to 50."
func (co Controller) GetIncomes(c *gin.Context) {
	var filter IncomeQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where, err := filter.model()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeListResponse{Error: &e})
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

	var incomes []models.Income
	err = q.Find(&incomes).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeListResponse{Error: &e})
		return
	}

	data := make([]Income, 0)
	for _, income := range incomes {
		data = append(data, newIncome(c, income))
	}

	c.JSON(http.StatusOK, IncomeListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get income
// @Description	Returns a specific income
// @Tags			Incomes
// @Produce		json
// @Success		200	{object}	IncomeResponse
// @Failure		400	{object}	IncomeResponse
// @Failure		404	{object}	IncomeResponse
// @Failure		500	{object}	IncomeResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/incomes/{id} [get]
func (co Controller) GetIncome(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{Error: &e})
		return
	}

	var income models.Income
	err = co.DB.First(&income, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{Error: &e})
		return
	}

	data := newIncome(c, income)
	c.JSON(http.StatusOK, IncomeResponse{Data: &data})
}

// @Summary		Update income
// @Description	Updates an existing income. Amount changes apply the signed difference to the budget.
// @Tags			Incomes
// @Accept			json
// @Produce		json
// @Success		200		{object}	IncomeResponse
// @Failure		400		{object}	IncomeResponse
// @Failure		404		{object}	IncomeResponse
// @Failure		500		{object}	IncomeResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			income	body		IncomeEditable	true	"Income"
// @Router			/v1/incomes/{id} [patch]
func (co Controller) UpdateIncome(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, IncomeEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{Error: &e})
		return
	}

	var editable IncomeEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{Error: &e})
		return
	}

	var update ledger.IncomeUpdate
	if fieldSet(updateFields, "Name") {
		update.Name = &editable.Name
	}
	if fieldSet(updateFields, "Note") {
		update.Note = &editable.Note
	}
	if fieldSet(updateFields, "Amount") {
		update.Amount = &editable.Amount
	}

	income, err := co.Ledger.UpdateIncome(c.Request.Context(), currentUser(c), uri.ID.UUID, update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), IncomeResponse{Error: &e})
		return
	}

	data := newIncome(c, income)
	c.JSON(http.StatusOK, IncomeResponse{Data: &data})
}

// @Summary		Delete income
// @Description	Deletes an income and removes the credited amount from the budget
// @Tags			Incomes
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/incomes/{id} [delete]
func (co Controller) DeleteIncome(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.Ledger.DeleteIncome(c.Request.Context(), currentUser(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
