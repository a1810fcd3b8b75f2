package v1

import (
	"net/http"

	"github.com/optibudget/backend/internal/httputil"
	"github.com/optibudget/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers the routes for users with
// the RouterGroup that is passed.
func (co Controller) RegisterUserRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", co.OptionsUserList)
		r.POST("", co.CreateUser)
	}

	{
		r.OPTIONS("/:id", co.OptionsUserDetail)
		r.GET("/:id", co.GetUser)
	}
}

// UserEditable represents all user configurable parameters
type UserEditable struct {
	Name        string             `json:"name" example:"Jane Doe" default:""`
	Email       string             `json:"email" example:"jane@example.com"`
	AccountKind models.AccountKind `json:"accountKind" example:"individual" default:"individual"` // "individual" or "enterprise"
}

func (editable UserEditable) model() models.User {
	return models.User{
		Name:        editable.Name,
		Email:       editable.Email,
		AccountKind: editable.AccountKind,
	}
}

type User struct {
	models.DefaultModel
	UserEditable
}

func newUser(model models.User) User {
	return User{
		DefaultModel: model.DefaultModel,
		UserEditable: UserEditable{
			Name:        model.Name,
			Email:       model.Email,
			AccountKind: model.AccountKind,
		},
	}
}

type UserResponse struct {
	Data  *User   `json:"data"`
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Users
// @Success		204
// @Router			/v1/users [options]
func (co Controller) OptionsUserList(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Users
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id} [options]
func (co Controller) OptionsUserDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.First(&models.User{}, uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Create user
// @Description	Creates a new user
// @Tags			Users
// @Produce		json
// @Success		201		{object}	UserResponse
// @Failure		400		{object}	UserResponse
// @Failure		500		{object}	UserResponse
// @Param			user	body		UserEditable	true	"User"
// @Router			/v1/users [post]
func (co Controller) CreateUser(c *gin.Context) {
	var editable UserEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	user := editable.model()
	err = co.DB.Create(&user).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	data := newUser(user)
	c.JSON(http.StatusCreated, UserResponse{Data: &data})
}

// @Summary		Get user
// @Description	Returns a specific user
// @Tags			Users
// @Produce		json
// @Success		200	{object}	UserResponse
// @Failure		400	{object}	UserResponse
// @Failure		404	{object}	UserResponse
// @Failure		500	{object}	UserResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id} [get]
func (co Controller) GetUser(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	var user models.User
	err = co.DB.First(&user, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	data := newUser(user)
	c.JSON(http.StatusOK, UserResponse{Data: &data})
}
