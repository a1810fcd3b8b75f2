package v1

import (
	"fmt"
	"net/http"

	"github.com/optibudget/backend/internal/httputil"
	"github.com/optibudget/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterNotificationRoutes registers the routes for notifications
// with the RouterGroup that is passed.
func (co Controller) RegisterNotificationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsNotificationList)
		r.GET("", co.GetNotifications)
		r.GET("/unread", co.GetUnreadNotifications)
		r.POST("/read-all", co.ReadAllNotifications)
	}

	// Notification with ID
	{
		r.OPTIONS("/:id", co.OptionsNotificationDetail)
		r.GET("/:id", co.GetNotification)
		r.POST("/:id/read", co.ReadNotification)
		r.DELETE("/:id", co.DeleteNotification)
	}
}

type NotificationLinks struct {
	Self string `json:"self" example:"https://example.com/v1/notifications/f23f6b82-b1b1-4c0e-9d57-b1d3a1c6e3f2"` // The notification itself
}

type Notification struct {
	models.DefaultModel
	Message string                  `json:"message" example:"Budget \"Household\" is exhausted"` // The notification text
	Type    models.NotificationType `json:"type" example:"WARNING"`                              // Severity of the notification
	Viewed  bool                    `json:"viewed" example:"false"`                              // Has the notification been read?
	Links   NotificationLinks       `json:"links"`
}

func newNotification(c *gin.Context, model models.Notification) Notification {
	url := httputil.RequestPathV1(c)

	return Notification{
		DefaultModel: model.DefaultModel,
		Message:      model.Message,
		Type:         model.Type,
		Viewed:       model.Viewed,
		Links: NotificationLinks{
			Self: fmt.Sprintf("%s/notifications/%s", url, model.ID),
		},
	}
}

type NotificationResponse struct {
	Data  *Notification `json:"data"`
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type NotificationListResponse struct {
	Data       []Notification `json:"data"`
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"`
	Pagination *Pagination    `json:"pagination"`
}

type NotificationQueryFilter struct {
	Type   string `form:"type"`                       // By severity
	Viewed bool   `form:"viewed"`                     // Has the notification been read?
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first Notification returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of Notifications to return. Defaults to 50.
}

func (f NotificationQueryFilter) model() models.Notification {
	return models.Notification{
		Type:   models.NotificationType(f.Type),
		Viewed: f.Viewed,
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Notifications
// @Success		204
// @Router			/v1/notifications [options]
func (co Controller) OptionsNotificationList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Notifications
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/notifications/{id} [options]
func (co Controller) OptionsNotificationDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.First(&models.Notification{}, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetDelete(c)
}

// @Summary		Get notifications
// @Description	Returns a list of notifications, newest first
// @Tags			Notifications
// @Produce		json
// @Success		200	{object}	NotificationListResponse
// @Failure		400	{object}	NotificationListResponse
// @Failure		500	{object}	NotificationListResponse
// @Router			/v1/notifications [get]
// @Param			type	query	string	false	"Filter by severity"
// @Param			viewed	query	bool	false	"Filter by read state"
// @Param			offset	query	uint	false	"The offset of the first Notification returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Notifications to return. Defaults to 50."
func (co Controller) GetNotifications(c *gin.Context) {
	var filter NotificationQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := co.DB.
		Order("datetime(created_at) DESC").
		Where("user_id = ?", currentUser(c).ID).
		Where(filter.model(), queryFields...)

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var notifications []models.Notification
	err := q.Find(&notifications).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationListResponse{Error: &e})
		return
	}

	data := make([]Notification, 0)
	for _, notification := range notifications {
		data = append(data, newNotification(c, notification))
	}

	c.JSON(http.StatusOK, NotificationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get unread notifications
// @Description	Returns all unread notifications, newest first
// @Tags			Notifications
// @Produce		json
// @Success		200	{object}	NotificationListResponse
// @Failure		500	{object}	NotificationListResponse
// @Router			/v1/notifications/unread [get]
func (co Controller) GetUnreadNotifications(c *gin.Context) {
	var notifications []models.Notification
	err := co.DB.
		Order("datetime(created_at) DESC").
		Where("user_id = ? AND viewed = ?", currentUser(c).ID, false).
		Find(&notifications).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationListResponse{Error: &e})
		return
	}

	data := make([]Notification, 0)
	for _, notification := range notifications {
		data = append(data, newNotification(c, notification))
	}

	c.JSON(http.StatusOK, NotificationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count: len(data),
			Total: int64(len(data)),
			Limit: len(data),
		},
	})
}

// @Summary		Get notification
// @Description	Returns a specific notification
// @Tags			Notifications
// @Produce		json
// @Success		200	{object}	NotificationResponse
// @Failure		400	{object}	NotificationResponse
// @Failure		404	{object}	NotificationResponse
// @Failure		500	{object}	NotificationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/notifications/{id} [get]
func (co Controller) GetNotification(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &e})
		return
	}

	var notification models.Notification
	err = co.DB.First(&notification, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &e})
		return
	}

	data := newNotification(c, notification)
	c.JSON(http.StatusOK, NotificationResponse{Data: &data})
}

// @Summary		Mark notification as read
// @Description	Marks a notification as read
// @Tags			Notifications
// @Produce		json
// @Success		200	{object}	NotificationResponse
// @Failure		400	{object}	NotificationResponse
// @Failure		404	{object}	NotificationResponse
// @Failure		500	{object}	NotificationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/notifications/{id}/read [post]
func (co Controller) ReadNotification(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &e})
		return
	}

	var notification models.Notification
	err = co.DB.First(&notification, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &e})
		return
	}

	err = co.DB.Model(&notification).Update("viewed", true).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), NotificationResponse{Error: &e})
		return
	}

	data := newNotification(c, notification)
	c.JSON(http.StatusOK, NotificationResponse{Data: &data})
}

// @Summary		Mark all notifications as read
// @Description	Marks all unread notifications of the account as read
// @Tags			Notifications
// @Success		204
// @Failure		500	{object}	httpError
// @Router			/v1/notifications/read-all [post]
func (co Controller) ReadAllNotifications(c *gin.Context) {
	err := co.DB.Model(&models.Notification{}).
		Where("user_id = ? AND viewed = ?", currentUser(c).ID, false).
		Update("viewed", true).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Delete notification
// @Description	Deletes a notification
// @Tags			Notifications
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/notifications/{id} [delete]
func (co Controller) DeleteNotification(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var notification models.Notification
	err = co.DB.First(&notification, "id = ? AND user_id = ?", uri.ID.UUID, currentUser(c).ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = co.DB.Delete(&notification).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
