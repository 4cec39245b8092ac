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

type SettlementHandler struct {
	settlementService service.SettlementService
	validator         *validator.Validate
}

func NewSettlementHandler(settlementService service.SettlementService) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
		validator:         validator.New(),
	}
}

func (h *SettlementHandler) Settle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		var req models.SettleRequest
		if !decodeAndValidate(w, r, h.validator, &req) {
			return
		}

		resp, fieldErrs, err := h.settlementService.Settle(r.Context(), claims, &req)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Settlement failed",
				slog.String("code", req.Code),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		// Form-level problems come back as per-field messages, not a failure.
		if len(fieldErrs) > 0 {
			response.FieldErrors(w, fieldErrs)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Transaction settled",
			slog.String("code", resp.Code),
			slog.String("reference", resp.Reference))

		response.Success(w, http.StatusOK, resp)
	}
}

// PaymentOptions serves the static form metadata: available networks with
// their prefixes and the bank list.
func (h *SettlementHandler) PaymentOptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, map[string]any{
			"methods":  []models.PaymentMethod{models.MethodMobileMoney, models.MethodBankTransfer, models.MethodCard, models.MethodWallet},
			"networks": models.MobileNetworks,
			"banks":    models.ZambiaBanks,
		})
	}
}
