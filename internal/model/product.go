package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPageSize is the number of products shown per catalogue page.
const DefaultPageSize = 12

// Product represents a purchasable item in the catalogue.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Image       string          `json:"image,omitempty" db:"image"`
	IsActive    bool            `json:"isActive" db:"is_active"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// ProductPage is one page of the active catalogue.
type ProductPage struct {
	Items       []Product `json:"items"`
	Page        int       `json:"page"`
	PageSize    int       `json:"pageSize"`
	TotalItems  int       `json:"totalItems"`
	TotalPages  int       `json:"totalPages"`
	HasNext     bool      `json:"hasNext"`
	HasPrevious bool      `json:"hasPrevious"`
}

// NewProductPage builds page metadata around items for the given totals.
func NewProductPage(items []Product, page, pageSize, totalItems int) *ProductPage {
	if items == nil {
		items = []Product{}
	}
	totalPages := PageCount(totalItems, pageSize)
	return &ProductPage{
		Items:       items,
		Page:        page,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// PageCount returns the number of pages needed for totalItems.
// An empty catalogue still has a single (empty) page.
func PageCount(totalItems, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 1
	}
	return (totalItems + pageSize - 1) / pageSize
}

// ClampPage normalises a requested page number into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
