package controllers

import (
	"net/http"

	"storefront/libs"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type CollectionController struct {
	service *services.CollectionService
	log     *libs.Logger
}

func NewCollectionController(service *services.CollectionService, log *libs.Logger) *CollectionController {
	return &CollectionController{service: service, log: log}
}

// @Summary List collections
// @Tags Collections
// @Produce json
// @Success 200 {object} models.Response{data=[]models.CollectionResponse}
// @Router /store/collections [get]
func (ctrl *CollectionController) List(c *gin.Context) {
	collections, err := ctrl.service.List(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	data := make([]models.CollectionResponse, 0, len(collections))
	for _, col := range collections {
		data = append(data, models.NewCollectionResponse(col))
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Collections retrieved", Data: data})
}

// @Summary Get collection
// @Tags Collections
// @Produce json
// @Param id path int true "Collection ID"
// @Success 200 {object} models.Response{data=models.CollectionResponse}
// @Failure 404 {object} models.ErrorResponse
// @Router /store/collections/{id} [get]
func (ctrl *CollectionController) Get(c *gin.Context) {
	id, err := pathID(c, "id", "Collection")
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	col, err := ctrl.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Collection retrieved", Data: models.NewCollectionResponse(*col)})
}

// @Summary Create collection
// @Tags Collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "{\"title\": \"...\"}"
// @Success 201 {object} models.Response{data=models.CollectionResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /store/collections [post]
func (ctrl *CollectionController) Create(c *gin.Context) {
	payload, err := bindPayload(c)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	col, err := ctrl.service.Create(c.Request.Context(), payload)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, models.Response{Success: true, Message: "Collection created", Data: models.NewCollectionResponse(*col)})
}

// @Summary Update collection
// @Description PUT replaces the collection, PATCH changes only the supplied fields.
// @Tags Collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Collection ID"
// @Param body body object true "{\"title\": \"...\"}"
// @Success 200 {object} models.Response{data=models.CollectionResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /store/collections/{id} [put]
// @Router /store/collections/{id} [patch]
func (ctrl *CollectionController) Update(c *gin.Context) {
	id, err := pathID(c, "id", "Collection")
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	payload, err := bindPayload(c)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	partial := c.Request.Method == http.MethodPatch
	col, err := ctrl.service.Update(c.Request.Context(), id, payload, partial)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Collection updated", Data: models.NewCollectionResponse(*col)})
}

// @Summary Delete collection
// @Description Collections that still include products cannot be deleted.
// @Tags Collections
// @Security BearerAuth
// @Param id path int true "Collection ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /store/collections/{id} [delete]
func (ctrl *CollectionController) Delete(c *gin.Context) {
	id, err := pathID(c, "id", "Collection")
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
