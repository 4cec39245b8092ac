package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/api/middleware"
	apperrors "github.com/hivetax/hivetax-platform/internal/errors"
	"github.com/hivetax/hivetax-platform/internal/models"
	service "github.com/hivetax/hivetax-platform/internal/services"
	"github.com/hivetax/hivetax-platform/internal/utils/response"
)

type FraudHandler struct {
	fraudService service.FraudService
	validator    *validator.Validate
}

func NewFraudHandler(fraudService service.FraudService) *FraudHandler {
	return &FraudHandler{
		fraudService: fraudService,
		validator:    validator.New(),
	}
}

func (h *FraudHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		var req models.CreateFraudReportRequest
		if !decodeAndValidate(w, r, h.validator, &req) {
			return
		}

		report, err := h.fraudService.CreateReport(r.Context(), claims.UserID, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Fraud report submitted",
			slog.String("reportId", report.ID.String()))

		response.Success(w, http.StatusCreated, report)
	}
}

func (h *FraudHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, size := parsePagination(r)

		status := models.FraudReportStatus(r.URL.Query().Get("status"))

		reports, total, err := h.fraudService.ListReports(r.Context(), status, page, size)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.NewPaginatedResponse(reports, total, page, size))
	}
}

func (h *FraudHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, apperrors.BadRequestError("Invalid report ID"))
			return
		}

		var req models.UpdateFraudReportStatusRequest
		if !decodeAndValidate(w, r, h.validator, &req) {
			return
		}

		report, err := h.fraudService.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, report)
	}
}
