package handlers

import (
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/hivetax/hivetax-platform/internal/errors"
	service "github.com/hivetax/hivetax-platform/internal/services"
	"github.com/hivetax/hivetax-platform/internal/utils/response"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// reportMonth reads ?month=2025-03, defaulting to the current month.
func reportMonth(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return time.Now().UTC(), nil
	}

	return time.Parse("2006-01", raw)
}

// writeReport sends the statement as a plain-text download.
func writeReport(w http.ResponseWriter, filename, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, body)
}

func (h *ReportHandler) BuyerMonthly() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		month, err := reportMonth(r)
		if err != nil {
			response.Error(w, apperrors.BadRequestError("Month must be formatted YYYY-MM"))
			return
		}

		report, err := h.reportService.BuyerMonthlyReport(r.Context(), claims.UserID, month)
		if err != nil {
			response.Error(w, err)
			return
		}

		writeReport(w, fmt.Sprintf("hivetax-buyer-report-%s.txt", month.Format("2006-01")), report)
	}
}

func (h *ReportHandler) SellerSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := claimsFromContext(w, r)
		if !ok {
			return
		}

		month, err := reportMonth(r)
		if err != nil {
			response.Error(w, apperrors.BadRequestError("Month must be formatted YYYY-MM"))
			return
		}

		report, err := h.reportService.SellerTaxSummary(r.Context(), claims.UserID, month)
		if err != nil {
			response.Error(w, err)
			return
		}

		writeReport(w, fmt.Sprintf("hivetax-seller-summary-%s.txt", month.Format("2006-01")), report)
	}
}

func (h *ReportHandler) Compliance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		month, err := reportMonth(r)
		if err != nil {
			response.Error(w, apperrors.BadRequestError("Month must be formatted YYYY-MM"))
			return
		}

		report, err := h.reportService.ComplianceSummary(r.Context(), month)
		if err != nil {
			response.Error(w, err)
			return
		}

		writeReport(w, fmt.Sprintf("zra-compliance-%s.txt", month.Format("2006-01")), report)
	}
}
