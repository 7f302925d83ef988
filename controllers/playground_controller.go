package controllers

import (
	"net/http"

	"storefront/libs"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type PlaygroundController struct {
	service *services.PlaygroundService
	log     *libs.Logger
}

func NewPlaygroundController(service *services.PlaygroundService, log *libs.Logger) *PlaygroundController {
	return &PlaygroundController{service: service, log: log}
}

// @Summary Say hello
// @Description Sends a greeting email. Invalid addresses are logged and ignored.
// @Tags Playground
// @Accept json
// @Produce json
// @Param body body models.HelloRequest false "Name"
// @Success 200 {object} models.Response
// @Router /playground/hello [post]
func (ctrl *PlaygroundController) Hello(c *gin.Context) {
	var req models.HelloRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, ctrl.log, bindingError(err))
			return
		}
	}
	greeting, err := ctrl.service.Hello(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: greeting})
}

// @Summary Slow endpoint
// @Description Proxies a slow upstream call; the body is cached.
// @Tags Playground
// @Produce json
// @Success 200 {object} object
// @Failure 502 {object} models.ErrorResponse
// @Router /playground/slow-endpoint [get]
func (ctrl *PlaygroundController) SlowEndpoint(c *gin.Context) {
	body, cached, err := ctrl.service.SlowEndpoint(c.Request.Context())
	if err != nil {
		ctrl.log.Warn("slow endpoint upstream failed", "error", err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Success: false, Message: "Upstream request failed"})
		return
	}
	if cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.Data(http.StatusOK, "application/json", body)
}
