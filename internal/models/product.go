package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID        uuid.UUID `json:"id"`
	SellerID  uuid.UUID `json:"seller_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	UnitPrice float64   `json:"unit_price"`
	// Percentage, 0-100. Derived from the business category at creation time.
	VATRate   float64   `json:"vat_rate"`
	Stock     int       `json:"stock"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	Name     string  `json:"name" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Price    float64 `json:"price" validate:"required,gte=0"`
	Stock    int     `json:"stock" validate:"required,gte=0"`
}

type UpdateProductRequest struct {
	Name     *string  `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock    *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsActive *bool    `json:"is_active,omitempty"`
}

// VAT rate bands by business category, as registered with the authority.
var BusinessCategoryRates = map[string]float64{
	"Shop/Retail Store":             16,
	"SME (Small/Medium Enterprise)": 3,
	"Service Provider":              5,
	"Small Business":                5,
	"Restaurant/Food Service":       16,
	"Manufacturing":                 16,
	"Technology/IT Services":        5,
	"Healthcare Services":           5,
	"Other":                         16,
}

const DefaultVATRate = 16

// VATRateForCategory falls back to the standard rate for unknown categories.
func VATRateForCategory(category string) float64 {
	if rate, ok := BusinessCategoryRates[category]; ok {
		return rate
	}

	return DefaultVATRate
}
