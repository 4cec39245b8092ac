package sendgrid

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ReceiptEmail is the payment confirmation sent to the buyer after
// settlement.
type ReceiptEmail struct {
	To      string
	Subject string
	Body    string
}

type EmailService interface {
	SendReceipt(ctx context.Context, receipt *ReceiptEmail) error
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey string, fromEmail string, fromName string) EmailService {
	return &emailService{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
}

// SendReceipt implements EmailService.
func (e *emailService) SendReceipt(ctx context.Context, receipt *ReceiptEmail) error {

	from := mail.NewEmail(e.fromName, e.fromEmail)
	to := mail.NewEmail("", receipt.To)

	message := mail.NewV3Mail()
	message.SetFrom(from)

	personalization := mail.NewPersonalization()
	personalization.AddTos(to)
	personalization.Subject = receipt.Subject
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", receipt.Body))

	response, err := e.client.SendWithContext(ctx, message)

	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send receipt email, status code: %d", response.StatusCode)
	}

	return nil
}
