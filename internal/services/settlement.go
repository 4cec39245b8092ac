package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/hivetax/hivetax-platform/internal/errors"
	"github.com/hivetax/hivetax-platform/internal/metrics"
	"github.com/hivetax/hivetax-platform/internal/models"
	repository "github.com/hivetax/hivetax-platform/internal/repositories"
)

type SettlementService interface {
	// Settle validates the attempt and, when clean, submits it through the
	// configured provider. Field errors are returned separately from hard
	// failures: they block submit but are local and recoverable.
	Settle(ctx context.Context, buyer *models.Claims, req *models.SettleRequest) (*models.SettleResponse, models.FieldErrors, error)
}

type settlementService struct {
	txRepo   repository.TransactionRepository
	provider SettlementProvider
	notifier NotificationService
}

func NewSettlementService(txRepo repository.TransactionRepository, provider SettlementProvider, notifier NotificationService) SettlementService {
	return &settlementService{txRepo: txRepo, provider: provider, notifier: notifier}
}

// Settle implements SettlementService.
func (s *settlementService) Settle(ctx context.Context, buyer *models.Claims, req *models.SettleRequest) (*models.SettleResponse, models.FieldErrors, error) {

	flow := NewSettlementFlow()

	if err := flow.SelectMethod(req.Attempt.Method); err != nil {
		return nil, nil, errors.BadRequestError("Invalid payment method selection").WithError(err)
	}

	fieldErrs, err := flow.Validate(&req.Attempt)
	if err != nil {
		return nil, nil, errors.BadRequestError("Invalid payment attempt").WithError(err)
	}

	if len(fieldErrs) > 0 {
		metrics.SettlementsTotal.WithLabelValues(string(req.Attempt.Method), "invalid").Inc()

		return nil, fieldErrs, nil
	}

	// Typed legacy codes without a stored counterpart settle against the
	// fallback transaction; there is nothing to mark completed for those.
	var amount float64

	record, err := s.txRepo.GetTransactionByCode(ctx, req.Code)
	if err != nil {
		record = nil
		amount = fallbackTransaction(req.Code).Total
	} else {
		if record.Status == models.TransactionCompleted {
			return nil, nil, errors.DuplicateEntryError("Transaction is already settled")
		}

		amount = record.Total
	}

	if err := flow.BeginSubmit(); err != nil {
		return nil, nil, errors.InternalError("Settlement flow rejected submit").WithError(err)
	}

	start := time.Now()

	result, err := s.provider.Settle(ctx, req.Code, amount, &req.Attempt)

	metrics.SettlementDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		flow.Fail()
		metrics.SettlementsTotal.WithLabelValues(string(req.Attempt.Method), "failure").Inc()

		return nil, nil, errors.ThirdPartyError("Payment could not be processed").WithError(err)
	}

	flow.Complete()

	paidAt := time.Now()

	if record != nil {
		if err := s.txRepo.MarkCompleted(ctx, req.Code, buyer.UserID, string(req.Attempt.Method), paidAt); err != nil {
			// The provider already took the money; surface the settlement
			// anyway and leave reconciliation to the record's status.
			slog.Error("Failed to mark transaction completed",
				slog.String("code", req.Code),
				slog.String("error", err.Error()))
		}
	}

	metrics.SettlementsTotal.WithLabelValues(string(req.Attempt.Method), "success").Inc()

	// Receipt delivery is fire-and-forget; settlement does not wait on email.
	if s.notifier != nil && buyer.Email != "" {
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := s.notifier.SendReceipt(sendCtx, buyer.Email, req.Code, amount, req.Attempt.Method, paidAt); err != nil {
				slog.Warn("Failed to deliver receipt email",
					slog.String("code", req.Code),
					slog.String("error", err.Error()))
			}
		}()
	}

	return &models.SettleResponse{
		Code:      req.Code,
		Status:    models.TransactionCompleted,
		Reference: result.Reference,
		Message:   result.Message,
		PaidAt:    paidAt,
	}, nil, nil
}
