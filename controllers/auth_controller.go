package controllers

import (
	"net/http"

	"storefront/libs"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	service *services.AuthService
	log     *libs.Logger
}

func NewAuthController(service *services.AuthService, log *libs.Logger) *AuthController {
	return &AuthController{service: service, log: log}
}

// @Summary Register
// @Description Register a new customer account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "Register"
// @Success 201 {object} models.Response{data=models.LoginResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ctrl.log, bindingError(err))
		return
	}
	resp, err := ctrl.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, models.Response{Success: true, Message: "Registration successful", Data: resp})
}

// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Login"
// @Success 200 {object} models.Response{data=models.LoginResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ctrl.log, bindingError(err))
		return
	}
	resp, err := ctrl.service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Login successful", Data: resp})
}

// @Summary Get profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=models.User}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/profile [get]
func (ctrl *AuthController) Profile(c *gin.Context) {
	id := identity(c)
	if id == nil {
		respondError(c, ctrl.log, models.Unauthorized("Authentication credentials were not provided"))
		return
	}
	user, err := ctrl.service.Profile(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Profile retrieved", Data: user})
}
