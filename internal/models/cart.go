package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is a single product entry in a seller's cart. VATAmount and
// TotalPrice are derived and recomputed on every quantity change; VAT is
// reported separately and never folded into TotalPrice.
type CartLine struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	VATRate     float64   `json:"vat_rate"`
	VATAmount   float64   `json:"vat_amount"`
	TotalPrice  float64   `json:"total_price"`
}

// Recalculate refreshes the derived fields from quantity, price and rate.
func (l *CartLine) Recalculate() {
	l.VATAmount = l.UnitPrice * float64(l.Quantity) * l.VATRate / 100
	l.TotalPrice = l.UnitPrice * float64(l.Quantity)
}

// Cart keeps lines in insertion order so the encoded payload lists items the
// way the seller rang them up.
type Cart struct {
	SellerID  uuid.UUID  `json:"seller_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartTotals struct {
	Subtotal float64 `json:"subtotal"`
	VAT      float64 `json:"vat"`
	Total    float64 `json:"total"`
}

// Totals recomputes from the current lines on every call; nothing is cached.
func (c *Cart) Totals() CartTotals {
	var t CartTotals

	for _, line := range c.Lines {
		t.Subtotal += line.TotalPrice
		t.VAT += line.VATAmount
	}

	t.Total = t.Subtotal + t.VAT

	return t
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateCartQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	// Zero or negative removes the line.
	Quantity int `json:"quantity"`
}
