package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hivetax/hivetax-platform/internal/errors"
	"github.com/hivetax/hivetax-platform/internal/models"
	"github.com/hivetax/hivetax-platform/pkg/sendgrid"
)

type NotificationService interface {
	SendReceipt(ctx context.Context, to string, code string, amount float64, method models.PaymentMethod, paidAt time.Time) error
}

type notificationService struct {
	email sendgrid.EmailService
}

func NewNotificationService(email sendgrid.EmailService) NotificationService {
	return &notificationService{email: email}
}

// SendReceipt implements NotificationService.
func (s *notificationService) SendReceipt(ctx context.Context, to string, code string, amount float64, method models.PaymentMethod, paidAt time.Time) error {

	body := fmt.Sprintf(`HIVE.TAX PAYMENT RECEIPT
========================
Transaction Code: %s
Amount Paid: ZMW %.2f
Payment Method: %s
Paid At: %s

Thank you for supporting fair tax compliance!
`, code, amount, method, paidAt.Format(time.RFC1123))

	receipt := &sendgrid.ReceiptEmail{
		To:      to,
		Subject: fmt.Sprintf("Hive.Tax receipt for %s", code),
		Body:    body,
	}

	if err := s.email.SendReceipt(ctx, receipt); err != nil {
		return errors.ThirdPartyError("Failed to send receipt email").WithError(err)
	}

	return nil
}
