package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/hivetax/hivetax-platform/internal/api/middleware"
	"github.com/hivetax/hivetax-platform/internal/models"
	service "github.com/hivetax/hivetax-platform/internal/services"
	"github.com/hivetax/hivetax-platform/internal/utils/response"
)

type TransactionHandler struct {
	txService service.TransactionService
	validator *validator.Validate
}

func NewTransactionHandler(txService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		validator: validator.New(),
	}
}

// Generate turns the seller's current cart into an immutable payload and QR
// symbol. The cart is gone once this succeeds.
func (h *TransactionHandler) Generate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		resp, err := h.txService.GenerateTransaction(r.Context(), claims.UserID)
		if err != nil {
			response.Error(w, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Transaction generated",
			slog.String("code", resp.Payload.Code),
			slog.String("total", resp.Payload.Total))

		response.Success(w, http.StatusCreated, resp)
	}
}

// Decode accepts whatever the buyer captured, raw payload JSON or a typed
// code, and routes it. This endpoint never fails on unknown codes.
func (h *TransactionHandler) Decode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.DecodeRequest
		if !decodeAndValidate(w, r, h.validator, &req) {
			return
		}

		decoded, err := h.txService.Decode(r.Context(), req.RawText)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, decoded)
	}
}

// ResolveCode is the strict manual-entry path: a bare transaction code only.
func (h *TransactionHandler) ResolveCode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.ResolveCodeRequest
		if !decodeAndValidate(w, r, h.validator, &req) {
			return
		}

		decoded, err := h.txService.ResolveCode(r.Context(), req.Code)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, decoded)
	}
}
