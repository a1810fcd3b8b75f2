package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/optibudget/backend/internal/httputil"
	"github.com/optibudget/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterEmployeeRoutes registers the routes for employees with
// the RouterGroup that is passed.
func (co Controller) RegisterEmployeeRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsEmployeeList)
		r.GET("", co.GetEmployees)
		r.POST("", co.CreateEmployee)
	}

	// Employee with ID
	{
		r.OPTIONS("/:id", co.OptionsEmployeeDetail)
		r.GET("/:id", co.GetEmployee)
		r.PATCH("/:id", co.UpdateEmployee)
		r.DELETE("/:id", co.DeleteEmployee)
	}
}

// EmployeeEditable represents all user configurable parameters
type EmployeeEditable struct {
	FirstName string                `json:"firstName" example:"Ada" default:""`              // First name
	LastName  string                `json:"lastName" example:"Lovelace" default:""`          // Last name
	Email     string                `json:"email" example:"ada@example.com" default:""`      // Contact email address
	Phone     string                `json:"phone" example:"+44 20 7946 0958" default:""`     // Contact phone number
	Position  string                `json:"position" example:"Head of Analytics" default:""` // Job position
	Type      models.EmployeeType   `json:"type" example:"executive" default:"other"`        // Which salary band applies
	Status    models.EmployeeStatus `json:"status" example:"active" default:"active"`        // Employment state
	HiredAt   *time.Time            `json:"hiredAt" example:"2022-03-17T00:00:00Z"`          // Date of hire
}

func (editable EmployeeEditable) model() models.Employee {
	return models.Employee{
		FirstName: editable.FirstName,
		LastName:  editable.LastName,
		Email:     editable.Email,
		Phone:     editable.Phone,
		Position:  editable.Position,
		Type:      editable.Type,
		Status:    editable.Status,
		HiredAt:   editable.HiredAt,
	}
}

type EmployeeLinks struct {
	Self     string `json:"self" example:"https://example.com/v1/employees/bcb2f6b8-7a0f-4f67-8a27-a88f8705a1b3"`               // The employee itself
	Payments string `json:"payments" example:"https://example.com/v1/payments?employee=bcb2f6b8-7a0f-4f67-8a27-a88f8705a1b3"` // Payments made to this employee
}

type Employee struct {
	models.DefaultModel
	EmployeeEditable
	Links EmployeeLinks `json:"links"`
}

func newEmployee(c *gin.Context, model models.Employee) Employee {
	url := httputil.RequestPathV1(c)

	return Employee{
		DefaultModel: model.DefaultModel,
		EmployeeEditable: EmployeeEditable{
			FirstName: model.FirstName,
			LastName:  model.LastName,
			Email:     model.Email,
			Phone:     model.Phone,
			Position:  model.Position,
			Type:      model.Type,
			Status:    model.Status,
			HiredAt:   model.HiredAt,
		},
		Links: EmployeeLinks{
			Self:     fmt.Sprintf("%s/employees/%s", url, model.ID),
			Payments: fmt.Sprintf("%s/payments?employee=%s", url, model.ID),
		},
	}
}

type EmployeeResponse struct {
	Data  *Employee `json:"data"`
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type EmployeeListResponse struct {
	Data       []Employee  `json:"data"`
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"`
	Pagination *Pagination `json:"pagination"`
}

type EmployeeQueryFilter struct {
	Type   string `form:"type"`                       // By employee type
	Status string `form:"status"`                     // By employment state
	Search string `form:"search" filterField:"false"` // By string in first name, last name or position
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first Employee returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of Employees to return. Defaults to 50.
}

func (f EmployeeQueryFilter) model() models.Employee {
	return models.Employee{
		Type:   models.EmployeeType(f.Type),
		Status: models.EmployeeStatus(f.Status),
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Employees
// @Success		204
// @Router			/v1/employees [options]
func (co Controller) OptionsEmployeeList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Employees
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/employees/{id} [options]
func (co Controller) OptionsEmployeeDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.First(&models.Employee{}, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create employee
// @Description	Creates a new employee for an enterprise account
// @Tags			Employees
// @Produce		json
// @Success		201			{object}	EmployeeResponse
// @Failure		400			{object}	EmployeeResponse
// @Failure		403			{object}	EmployeeResponse
// @Failure		500			{object}	EmployeeResponse
// @Param			employee	body		EmployeeEditable	true	"Employee"
// @Router			/v1/employees [post]
func (co Controller) CreateEmployee(c *gin.Context) {
	user := currentUser(c)
	if err := user.CheckEnterprise(); err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	var editable EmployeeEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	employee := editable.model()
	employee.UserID = user.ID

	err = co.DB.Create(&employee).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	data := newEmployee(c, employee)
	c.JSON(http.StatusCreated, EmployeeResponse{Data: &data})
}

// @Summary		Get employees
// @Description	Returns a list of employees
// @Tags			Employees
// @Produce		json
// @Success		200	{object}	EmployeeListResponse
// @Failure		400	{object}	EmployeeListResponse
// @Failure		500	{object}	EmployeeListResponse
// @Router			/v1/employees [get]
// @Param			type	query	string	false	"Filter by employee type"
// @Param			status	query	string	false	"Filter by employment state"
// @Param			search	query	string	false	"Search for this text in first name, last name and position"
// @Param			offset	query	uint	false	"The offset of the first Employee returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Employees to return. Defaults to 50."
func (co Controller) GetEmployees(c *gin.Context) {
	var filter EmployeeQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := co.DB.
		Order("last_name ASC, first_name ASC").
		Where("user_id = ?", currentUser(c).ID).
		Where(filter.model(), queryFields...)

	if slices.Contains(setFields, "Search") && filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		q = q.Where(
			co.DB.Where("first_name LIKE ?", like).
				Or("last_name LIKE ?", like).
				Or("position LIKE ?", like),
		)
	}

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var employees []models.Employee
	err := q.Find(&employees).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeListResponse{Error: &e})
		return
	}

	data := make([]Employee, 0)
	for _, employee := range employees {
		data = append(data, newEmployee(c, employee))
	}

	c.JSON(http.StatusOK, EmployeeListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get employee
// @Description	Returns a specific employee
// @Tags			Employees
// @Produce		json
// @Success		200	{object}	EmployeeResponse
// @Failure		400	{object}	EmployeeResponse
// @Failure		404	{object}	EmployeeResponse
// @Failure		500	{object}	EmployeeResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/employees/{id} [get]
func (co Controller) GetEmployee(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	var employee models.Employee
	err = co.DB.First(&employee, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	data := newEmployee(c, employee)
	c.JSON(http.StatusOK, EmployeeResponse{Data: &data})
}

// @Summary		Update employee
// @Description	Updates an existing employee
// @Tags			Employees
// @Accept			json
// @Produce		json
// @Success		200			{object}	EmployeeResponse
// @Failure		400			{object}	EmployeeResponse
// @Failure		404			{object}	EmployeeResponse
// @Failure		500			{object}	EmployeeResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			employee	body		EmployeeEditable	true	"Employee"
// @Router			/v1/employees/{id} [patch]
func (co Controller) UpdateEmployee(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	var employee models.Employee
	err = co.DB.First(&employee, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, EmployeeEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	var editable EmployeeEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	err = co.DB.Model(&employee).Select("", updateFields...).Updates(editable.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EmployeeResponse{Error: &e})
		return
	}

	data := newEmployee(c, employee)
	c.JSON(http.StatusOK, EmployeeResponse{Data: &data})
}

// @Summary		Delete employee
// @Description	Deletes an employee. Past payments are kept.
// @Tags			Employees
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/employees/{id} [delete]
func (co Controller) DeleteEmployee(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var employee models.Employee
	err = co.DB.First(&employee, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.Delete(&employee).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
