package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// PayloadItem is one line of the wire artifact. The per-item VAT amount is
// informational; decoders recompute it from rate, price and quantity.
type PayloadItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	VATRate     float64 `json:"vat_rate"`
	VATAmount   float64 `json:"vat_amount"`
}

// TransactionPayload is the exact JSON shape carried inside the QR symbol.
// The three totals are decimal strings, each rounded to 2 dp independently at
// serialization time. Immutable once encoded.
type TransactionPayload struct {
	Code      string        `json:"code"`
	Items     []PayloadItem `json:"items"`
	Subtotal  string        `json:"subtotal"`
	VATAmount string        `json:"vat_amount"`
	Total     string        `json:"total"`
	Timestamp string        `json:"timestamp"`
}

type DecodedItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	VAT      float64 `json:"vat"`
}

// DecodedTransaction is the buyer-side view driving settlement. Per-item VAT
// is always recomputed by the decoder; the totals are the embedded ones.
type DecodedTransaction struct {
	ID         string        `json:"id"`
	SellerName string        `json:"seller_name"`
	Items      []DecodedItem `json:"items"`
	Subtotal   float64       `json:"subtotal"`
	TotalVAT   float64       `json:"total_vat"`
	Total      float64       `json:"total"`
}

// Transaction is the persistent record behind a generated code.
type Transaction struct {
	ID            uuid.UUID         `json:"id"`
	Code          string            `json:"code"`
	SellerID      uuid.UUID         `json:"seller_id"`
	BuyerID       *uuid.UUID        `json:"buyer_id,omitempty"`
	Items         []PayloadItem     `json:"items"`
	Subtotal      float64           `json:"subtotal"`
	VATAmount     float64           `json:"vat_amount"`
	Total         float64           `json:"total"`
	Status        TransactionStatus `json:"status"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	PaidAt        *time.Time        `json:"paid_at,omitempty"`
}

// GenerateTransactionResponse carries the payload plus the rendered symbol.
type GenerateTransactionResponse struct {
	Payload TransactionPayload `json:"payload"`
	// Base64-encoded PNG, ready for a data URL.
	QRImage string `json:"qr_image"`
}

type DecodeRequest struct {
	// Raw text recovered from a scanned symbol or typed by the buyer.
	RawText string `json:"raw_text" validate:"required"`
}

type ResolveCodeRequest struct {
	Code string `json:"code" validate:"required"`
}
