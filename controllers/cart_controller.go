package controllers

import (
	"net/http"

	"storefront/libs"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

// CartController serves anonymous carts. The cart id in the path is the only
// credential needed to read or change a cart.
type CartController struct {
	service *services.CartService
	log     *libs.Logger
}

func NewCartController(service *services.CartService, log *libs.Logger) *CartController {
	return &CartController{service: service, log: log}
}

// @Summary Create cart
// @Tags Carts
// @Produce json
// @Success 201 {object} models.Response{data=models.CartResponse}
// @Router /store/carts [post]
func (ctrl *CartController) Create(c *gin.Context) {
	cart, err := ctrl.service.Create(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, models.Response{Success: true, Message: "Cart created", Data: models.NewCartResponse(*cart)})
}

// @Summary Get cart
// @Tags Carts
// @Produce json
// @Param cart_id path string true "Cart ID"
// @Success 200 {object} models.Response{data=models.CartResponse}
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{cart_id} [get]
func (ctrl *CartController) Get(c *gin.Context) {
	cart, err := ctrl.service.Get(c.Request.Context(), c.Param("cart_id"))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Cart retrieved", Data: models.NewCartResponse(*cart)})
}

// @Summary Delete cart
// @Tags Carts
// @Param cart_id path string true "Cart ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{cart_id} [delete]
func (ctrl *CartController) Delete(c *gin.Context) {
	if err := ctrl.service.Delete(c.Request.Context(), c.Param("cart_id")); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List cart items
// @Tags Carts
// @Produce json
// @Param cart_id path string true "Cart ID"
// @Success 200 {object} models.Response{data=[]models.CartItemResponse}
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{cart_id}/items [get]
func (ctrl *CartController) ListItems(c *gin.Context) {
	items, err := ctrl.service.ListItems(c.Request.Context(), c.Param("cart_id"))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	data := make([]models.CartItemResponse, 0, len(items))
	for _, item := range items {
		data = append(data, models.NewCartItemResponse(item))
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Cart items retrieved", Data: data})
}

// @Summary Add item to cart
// @Description Adding a product already in the cart increases its quantity.
// @Tags Carts
// @Accept json
// @Produce json
// @Param cart_id path string true "Cart ID"
// @Param body body models.AddCartItemRequest true "Item"
// @Success 201 {object} models.Response{data=models.CartItemResponse}
// @Success 200 {object} models.Response{data=models.CartItemResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{cart_id}/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ctrl.log, bindingError(err))
		return
	}
	item, created, err := ctrl.service.AddItem(c.Request.Context(), c.Param("cart_id"), req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	status, message := http.StatusOK, "Cart item quantity updated"
	if created {
		status, message = http.StatusCreated, "Cart item added"
	}
	c.JSON(status, models.Response{Success: true, Message: message, Data: models.NewCartItemResponse(*item)})
}

// @Summary Get cart item
// @Tags Carts
// @Produce json
// @Param cart_id path string true "Cart ID"
// @Param id path int true "Item ID"
// @Success 200 {object} models.Response{data=models.CartItemResponse}
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{cart_id}/items/{id} [get]
func (ctrl *CartController) GetItem(c *gin.Context) {
	itemID, err := pathID(c, "id", "Cart item")
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	item, err := ctrl.service.GetItem(c.Request.Context(), c.Param("cart_id"), itemID)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Cart item retrieved", Data: models.NewCartItemResponse(*item)})
}

// @Summary Update cart item quantity
// @Tags Carts
// @Accept json
// @Produce json
// @Param cart_id path string true "Cart ID"
// @Param id path int true "Item ID"
// @Param body body models.UpdateCartItemRequest true "Quantity"
// @Success 200 {object} models.Response{data=models.CartItemResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{cart_id}/items/{id} [patch]
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	itemID, err := pathID(c, "id", "Cart item")
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ctrl.log, bindingError(err))
		return
	}
	item, err := ctrl.service.UpdateItem(c.Request.Context(), c.Param("cart_id"), itemID, req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Cart item updated", Data: models.NewCartItemResponse(*item)})
}

// @Summary Remove cart item
// @Tags Carts
// @Param cart_id path string true "Cart ID"
// @Param id path int true "Item ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /store/carts/{cart_id}/items/{id} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	itemID, err := pathID(c, "id", "Cart item")
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	if err := ctrl.service.RemoveItem(c.Request.Context(), c.Param("cart_id"), itemID); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
