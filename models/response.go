package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type PaginationLinks struct {
	Self string `json:"self"`
	Next string `json:"next,omitempty"`
	Prev string `json:"prev,omitempty"`
}

type HATEOASResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    interface{}     `json:"data"`
	Meta    PaginationMeta  `json:"meta"`
	Links   PaginationLinks `json:"links"`
}

type CollectionResponse struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	ProductsCount int    `json:"products_count"`
}

func NewCollectionResponse(c Collection) CollectionResponse {
	return CollectionResponse{ID: c.ID, Title: c.Title, ProductsCount: c.ProductsCount}
}

type ProductImageResponse struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
}

type ProductResponse struct {
	ID           int                    `json:"id"`
	Title        string                 `json:"title"`
	Slug         string                 `json:"slug"`
	Description  string                 `json:"description"`
	UnitPrice    string                 `json:"unit_price"`
	Inventory    int                    `json:"inventory"`
	Collection   int                    `json:"collection"`
	PriceWithTax string                 `json:"price_with_tax"`
	Images       []ProductImageResponse `json:"images"`
}

func PriceWithTax(unitPrice, taxFactor decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(taxFactor).Round(PricePlaces)
}

func NewProductResponse(p Product, taxFactor decimal.Decimal) ProductResponse {
	images := make([]ProductImageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ProductImageResponse{ID: img.ID, Image: img.URL})
	}
	return ProductResponse{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		Description:  p.Description,
		UnitPrice:    p.UnitPrice.StringFixed(PricePlaces),
		Inventory:    p.Inventory,
		Collection:   p.CollectionID,
		PriceWithTax: PriceWithTax(p.UnitPrice, taxFactor).StringFixed(PricePlaces),
		Images:       images,
	}
}

type SimpleProductResponse struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	UnitPrice string `json:"unit_price"`
}

type CartItemResponse struct {
	ID         int                   `json:"id"`
	Product    SimpleProductResponse `json:"product"`
	Quantity   int                   `json:"quantity"`
	TotalPrice string                `json:"total_price"`
}

func NewCartItemResponse(item CartItem) CartItemResponse {
	resp := CartItemResponse{
		ID:         item.ID,
		Product:    SimpleProductResponse{ID: item.ProductID},
		Quantity:   item.Quantity,
		TotalPrice: item.TotalPrice().StringFixed(PricePlaces),
	}
	if item.Product != nil {
		resp.Product.Title = item.Product.Title
		resp.Product.UnitPrice = item.Product.UnitPrice.StringFixed(PricePlaces)
	}
	return resp
}

type CartResponse struct {
	ID         uuid.UUID          `json:"id"`
	CreatedAt  time.Time          `json:"created_at"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice string             `json:"total_price"`
}

func NewCartResponse(c Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, NewCartItemResponse(item))
	}
	return CartResponse{
		ID:         c.ID,
		CreatedAt:  c.CreatedAt,
		Items:      items,
		TotalPrice: c.TotalPrice().StringFixed(PricePlaces),
	}
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
