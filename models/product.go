package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TitleMaxLength = 255
	// unit_price is stored as NUMERIC(6, 2)
	PricePlaces = 2
	// ids, inventory and quantities are INTEGER columns
	MaxIntValue = math.MaxInt32
	MinIntValue = math.MinInt32
)

var MaxUnitPrice = decimal.RequireFromString("9999.99")

type Collection struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	ProductsCount int    `json:"products_count"`
}

type Product struct {
	ID           int             `json:"id"`
	Title        string          `json:"title"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Inventory    int             `json:"inventory"`
	CollectionID int             `json:"collection"`
	LastUpdate   time.Time       `json:"last_update"`
	Images       []ProductImage  `json:"images"`
}

type ProductImage struct {
	ID         int       `json:"id"`
	ProductID  int       `json:"product_id"`
	URL        string    `json:"url"`
	StorageKey string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

type ProductOrdering string

const (
	OrderByPriceAsc       ProductOrdering = "unit_price"
	OrderByPriceDesc      ProductOrdering = "-unit_price"
	OrderByLastUpdateAsc  ProductOrdering = "last_update"
	OrderByLastUpdateDesc ProductOrdering = "-last_update"
)

func (o ProductOrdering) Valid() bool {
	switch o {
	case "", OrderByPriceAsc, OrderByPriceDesc, OrderByLastUpdateAsc, OrderByLastUpdateDesc:
		return true
	}
	return false
}

type ProductFilter struct {
	CollectionID int
	Search       string
	Ordering     ProductOrdering
	Page         int
	Limit        int
}

// Offset saturates at MaxIntValue instead of overflowing on absurd page numbers.
func (f ProductFilter) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	if f.Page-1 > MaxIntValue/f.Limit {
		return MaxIntValue
	}
	return (f.Page - 1) * f.Limit
}
