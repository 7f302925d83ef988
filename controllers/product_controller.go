package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"storefront/libs"
	"storefront/models"
	"storefront/services"
	"storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductController struct {
	products  *services.ProductService
	images    *services.ImageService
	taxFactor decimal.Decimal
	log       *libs.Logger
}

func NewProductController(products *services.ProductService, images *services.ImageService, taxFactor decimal.Decimal, log *libs.Logger) *ProductController {
	return &ProductController{products: products, images: images, taxFactor: taxFactor, log: log}
}

func requestBaseURL(c *gin.Context) string {
	scheme := "https"
	if c.Request.TLS == nil && c.GetHeader("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, c.Request.URL.Path)
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.FieldInvalid(name, "Enter a number.")
	}
	if n > models.MaxIntValue || n < models.MinIntValue {
		return 0, models.FieldInvalid(name, fmt.Sprintf("Ensure this value is between %d and %d.", models.MinIntValue, models.MaxIntValue))
	}
	return n, nil
}

func (ctrl *ProductController) filter(c *gin.Context) (models.ProductFilter, error) {
	var f models.ProductFilter
	var err error
	if f.CollectionID, err = queryInt(c, "collection_id", 0); err != nil {
		return f, err
	}
	if f.Page, err = queryInt(c, "page", 1); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(c, "limit", utils.DefaultPageLimit); err != nil {
		return f, err
	}
	f.Search = strings.TrimSpace(c.Query("search"))
	f.Ordering = models.ProductOrdering(strings.TrimSpace(c.Query("ordering")))
	return f, nil
}

// @Summary List products
// @Description Paginated product list with filtering, search and ordering
// @Tags Products
// @Produce json
// @Param collection_id query int false "Filter by collection"
// @Param search query string false "Search title and description"
// @Param ordering query string false "Ordering" Enums(unit_price, -unit_price, last_update, -last_update)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.HATEOASResponse{data=[]models.ProductResponse}
// @Failure 400 {object} models.ErrorResponse
// @Router /store/products [get]
func (ctrl *ProductController) List(c *gin.Context) {
	filter, err := ctrl.filter(c)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	page, err := ctrl.products.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	data := make([]models.ProductResponse, 0, len(page.Products))
	for _, p := range page.Products {
		data = append(data, models.NewProductResponse(p, ctrl.taxFactor))
	}

	totalPages := utils.TotalPages(page.TotalItems, page.Limit)
	c.JSON(http.StatusOK, models.HATEOASResponse{
		Success: true,
		Message: "Products retrieved",
		Data:    data,
		Meta: models.PaginationMeta{
			Page:       page.Page,
			Limit:      page.Limit,
			TotalItems: page.TotalItems,
			TotalPages: totalPages,
		},
		Links: utils.BuildLinks(requestBaseURL(c), c.Request.URL.Query(), page.Page, page.Limit, totalPages),
	})
}

// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response{data=models.ProductResponse}
// @Failure 404 {object} models.ErrorResponse
// @Router /store/products/{id} [get]
func (ctrl *ProductController) Get(c *gin.Context) {
	id, err := pathID(c, "id", "Product")
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	p, err := ctrl.products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Product retrieved", Data: models.NewProductResponse(*p, ctrl.taxFactor)})
}

// @Summary Create product
// @Description Accepts title, slug, description, unit_price, inventory and collection. All violations are reported together.
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "Product fields"
// @Success 201 {object} models.Response{data=models.ProductResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /store/products [post]
func (ctrl *ProductController) Create(c *gin.Context) {
	payload, err := bindPayload(c)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	p, err := ctrl.products.Create(c.Request.Context(), payload)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, models.Response{Success: true, Message: "Product created", Data: models.NewProductResponse(*p, ctrl.taxFactor)})
}

// @Summary Update product
// @Description PUT requires every field, PATCH validates and changes only the supplied ones.
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param body body object true "Product fields"
// @Success 200 {object} models.Response{data=models.ProductResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /store/products/{id} [put]
// @Router /store/products/{id} [patch]
func (ctrl *ProductController) Update(c *gin.Context) {
	id, err := pathID(c, "id", "Product")
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	payload, err := bindPayload(c)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	p, err := ctrl.products.Update(c.Request.Context(), id, payload, c.Request.Method == http.MethodPatch)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Product updated", Data: models.NewProductResponse(*p, ctrl.taxFactor)})
}

// @Summary Delete product
// @Tags Products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /store/products/{id} [delete]
func (ctrl *ProductController) Delete(c *gin.Context) {
	id, err := pathID(c, "id", "Product")
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	if err := ctrl.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List product images
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response{data=[]models.ProductImageResponse}
// @Failure 404 {object} models.ErrorResponse
// @Router /store/products/{id}/images [get]
func (ctrl *ProductController) ListImages(c *gin.Context) {
	id, err := pathID(c, "id", "Product")
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	images, err := ctrl.images.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	data := make([]models.ProductImageResponse, 0, len(images))
	for _, img := range images {
		data = append(data, models.ProductImageResponse{ID: img.ID, Image: img.URL})
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Images retrieved", Data: data})
}

// @Summary Upload product image
// @Tags Products
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param image formData file true "Image file (jpg, jpeg, png, gif, webp)"
// @Success 201 {object} models.Response{data=models.ProductImageResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /store/products/{id}/images [post]
func (ctrl *ProductController) UploadImage(c *gin.Context) {
	id, err := pathID(c, "id", "Product")
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, ctrl.log, models.FieldInvalid("image", "No file was submitted."))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	defer file.Close()

	img, err := ctrl.images.Upload(c.Request.Context(), id, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Image uploaded",
		Data:    models.ProductImageResponse{ID: img.ID, Image: img.URL},
	})
}

// @Summary Delete product image
// @Tags Products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param image_id path int true "Image ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /store/products/{id}/images/{image_id} [delete]
func (ctrl *ProductController) DeleteImage(c *gin.Context) {
	id, err := pathID(c, "id", "Product")
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	imageID, err := pathID(c, "image_id", "Image")
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	if err := ctrl.images.Delete(c.Request.Context(), id, imageID); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
