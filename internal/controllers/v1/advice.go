package v1

import (
	"fmt"
	"net/http"

	"github.com/optibudget/backend/internal/httputil"
	"github.com/optibudget/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// RegisterAdviceRoutes registers the routes for advice with the
// RouterGroup that is passed.
func (co Controller) RegisterAdviceRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsAdviceList)
		r.GET("", co.GetAdviceList)
		r.GET("/recent", co.GetRecentAdvice)
	}

	// Advice with ID
	{
		r.OPTIONS("/:id", co.OptionsAdviceDetail)
		r.GET("/:id", co.GetAdvice)
		r.POST("/:id/read", co.ReadAdvice)
		r.DELETE("/:id", co.DeleteAdvice)
	}
}

type AdviceLinks struct {
	Self   string `json:"self" example:"https://example.com/v1/advice/5b8dcbcd-fa33-4be5-bd6c-46a8fdcbbc1f"`    // The advice itself
	Budget string `json:"budget" example:"https://example.com/v1/budgets/52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // The budget the advice refers to, if any
}

type Advice struct {
	models.DefaultModel
	BudgetID *uuid.UUID  `json:"budgetId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // ID of the budget the advice refers to, if any
	Name     string      `json:"name" example:"weekly report"`                            // Name of the advice
	Message  string      `json:"message" example:"Spending is on track for this week."`   // The advice text
	Viewed   bool        `json:"viewed" example:"false"`                                  // Has the advice been read?
	Links    AdviceLinks `json:"links"`
}

func newAdvice(c *gin.Context, model models.Advice) Advice {
	url := httputil.RequestPathV1(c)

	links := AdviceLinks{
		Self: fmt.Sprintf("%s/advice/%s", url, model.ID),
	}
	if model.BudgetID != nil {
		links.Budget = fmt.Sprintf("%s/budgets/%s", url, *model.BudgetID)
	}

	return Advice{
		DefaultModel: model.DefaultModel,
		BudgetID:     model.BudgetID,
		Name:         model.Name,
		Message:      model.Message,
		Viewed:       model.Viewed,
		Links:        links,
	}
}

type AdviceResponse struct {
	Data  *Advice `json:"data"`
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type AdviceListResponse struct {
	Data       []Advice    `json:"data"`
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"`
	Pagination *Pagination `json:"pagination"`
}

type AdviceQueryFilter struct {
	BudgetID string `form:"budget"`                     // By ID of the budget
	Name     string `form:"name" filterField:"false"`   // By name
	Viewed   bool   `form:"viewed"`                     // Has the advice been read?
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first Advice returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of Advice entries to return. Defaults to 50.
}

func (f AdviceQueryFilter) model() (models.Advice, error) {
	budgetID, err := httputil.UUIDFromString(f.BudgetID)
	if err != nil {
		return models.Advice{}, err
	}

	advice := models.Advice{
		Viewed: f.Viewed,
	}

	if budgetID != uuid.Nil {
		advice.BudgetID = &budgetID
	}

	return advice, nil
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Advice
// @Success		204
// @Router			/v1/advice [options]
func (co Controller) OptionsAdviceList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Advice
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/advice/{id} [options]
func (co Controller) OptionsAdviceDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.First(&models.Advice{}, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetDelete(c)
}

// @Summary		Get advice
// @Description	Returns a list of advice entries, newest first
// @Tags			Advice
// @Produce		json
// @Success		200	{object}	AdviceListResponse
// @Failure		400	{object}	AdviceListResponse
// @Failure		500	{object}	AdviceListResponse
// @Router			/v1/advice [get]
// @Param			budget	query	string	false	"Filter by budget ID"
// @Param			name	query	string	false	"Filter by name"
// @Param			viewed	query	bool	false	"Filter by read state"
// @Param			offset	query	uint	false	"The offset of the first Advice returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Advice entries to return. Defaults to 50."
func (co Controller) GetAdviceList(c *gin.Context) {
	var filter AdviceQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where, err := filter.model()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AdviceListResponse{Error: &e})
		return
	}

	q := co.DB.
		Order("datetime(created_at) DESC").
		Where("user_id = ?", currentUser(c).ID).
		Where(where, queryFields...)

	if slices.Contains(setFields, "Name") && filter.Name != "" {
		q = q.Where("name LIKE ?", fmt.Sprintf("%%%s%%", filter.Name))
	}

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var entries []models.Advice
	err = q.Find(&entries).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AdviceListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AdviceListResponse{Error: &e})
		return
	}

	data := make([]Advice, 0)
	for _, entry := range entries {
		data = append(data, newAdvice(c, entry))
	}

	c.JSON(http.StatusOK, AdviceListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get recent advice
// @Description	Returns the most recent advice entry of the account
// @Tags			Advice
// @Produce		json
// @Success		200	{object}	AdviceResponse
// @Failure		404	{object}	AdviceResponse
// @Failure		500	{object}	AdviceResponse
// @Router			/v1/advice/recent [get]
func (co Controller) GetRecentAdvice(c *gin.Context) {
	var entry models.Advice
	err := co.DB.
		Order("datetime(created_at) DESC").
		First(&entry, "user_id = ?", currentUser(c).ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AdviceResponse{Error: &e})
		return
	}

	data := newAdvice(c, entry)
	c.JSON(http.StatusOK, AdviceResponse{Data: &data})
}

// @Summary		Get advice entry
// @Description	Returns a specific advice entry
// @Tags			Advice
// @Produce		json
// @Success		200	{object}	AdviceResponse
// @Failure		400	{object}	AdviceResponse
// @Failure		404	{object}	AdviceResponse
// @Failure		500	{object}	AdviceResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/advice/{id} [get]
func (co Controller) GetAdvice(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AdviceResponse{Error: &e})
		return
	}

	var entry models.Advice
	err = co.DB.First(&entry, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AdviceResponse{Error: &e})
		return
	}

	data := newAdvice(c, entry)
	c.JSON(http.StatusOK, AdviceResponse{Data: &data})
}

// @Summary		Mark advice as read
// @Description	Marks an advice entry as read
// @Tags			Advice
// @Produce		json
// @Success		200	{object}	AdviceResponse
// @Failure		400	{object}	AdviceResponse
// @Failure		404	{object}	AdviceResponse
// @Failure		500	{object}	AdviceResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/advice/{id}/read [post]
func (co Controller) ReadAdvice(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AdviceResponse{Error: &e})
		return
	}

	var entry models.Advice
	err = co.DB.First(&entry, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AdviceResponse{Error: &e})
		return
	}

	err = co.DB.Model(&entry).Update("viewed", true).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AdviceResponse{Error: &e})
		return
	}

	data := newAdvice(c, entry)
	c.JSON(http.StatusOK, AdviceResponse{Data: &data})
}

// @Summary		Delete advice
// @Description	Deletes an advice entry
// @Tags			Advice
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/advice/{id} [delete]
func (co Controller) DeleteAdvice(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var entry models.Advice
	err = co.DB.First(&entry, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.Delete(&entry).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
