package controllers

import (
	"net/http"

	"storefront/libs"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	service *services.NotificationService
	log     *libs.Logger
}

func NewNotificationController(service *services.NotificationService, log *libs.Logger) *NotificationController {
	return &NotificationController{service: service, log: log}
}

// @Summary Notify customers
// @Description Queues an email to every customer and returns without waiting for delivery.
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.NotifyCustomersRequest true "Message"
// @Success 202 {object} models.Response{data=models.NotifyCustomersTask}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /store/notifications/customers [post]
func (ctrl *NotificationController) NotifyCustomers(c *gin.Context) {
	var req models.NotifyCustomersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ctrl.log, bindingError(err))
		return
	}
	var requestedBy int
	if id := identity(c); id != nil {
		requestedBy = id.UserID
	}
	task, err := ctrl.service.NotifyCustomers(c.Request.Context(), requestedBy, req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusAccepted, models.Response{Success: true, Message: "Notification queued", Data: task})
}
