package models

import (
	"time"

	"github.com/google/uuid"
)

type FraudReportStatus string

const (
	FraudPending       FraudReportStatus = "pending"
	FraudInvestigating FraudReportStatus = "investigating"
	FraudResolved      FraudReportStatus = "resolved"
)

type FraudReport struct {
	ID                 uuid.UUID         `json:"id"`
	BuyerID            uuid.UUID         `json:"buyer_id"`
	SellerName         string            `json:"seller_name"`
	Description        string            `json:"description"`
	TransactionDetails string            `json:"transaction_details,omitempty"`
	Status             FraudReportStatus `json:"status"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

type CreateFraudReportRequest struct {
	SellerName         string `json:"seller_name" validate:"required"`
	Description        string `json:"description" validate:"required"`
	TransactionDetails string `json:"transaction_details"`
}

type UpdateFraudReportStatusRequest struct {
	Status FraudReportStatus `json:"status" validate:"required,oneof=pending investigating resolved"`
}
