package service_test

import (
	"testing"

	"github.com/hivetax/hivetax-platform/internal/models"
	service "github.com/hivetax/hivetax-platform/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestValidatePaymentAttempt_MobileMoney(t *testing.T) {
	t.Run("Valid MTN Number", func(t *testing.T) {
		errs := service.ValidatePaymentAttempt(&models.PaymentAttempt{
			Method: models.MethodMobileMoney,
			MobileMoney: &models.MobileMoneyDetails{
				Network:     "MTN Mobile Money",
				PhoneNumber: "0971234567",
			},
		})

		assert.Empty(t, errs)
	})

	t.Run("Spaces In Number Are Ignored", func(t *testing.T) {
		errs := service.ValidatePaymentAttempt(&models.PaymentAttempt{
			Method: models.MethodMobileMoney,
			MobileMoney: &models.MobileMoneyDetails{
				Network:     "Airtel Money",
				PhoneNumber: "097 123 4567",
			},
		})

		assert.Empty(t, errs)
	})

	t.Run("Bad Prefix Rejected", func(t *testing.T) {
		errs := service.ValidatePaymentAttempt(&models.PaymentAttempt{
			Method: models.MethodMobileMoney,
			MobileMoney: &models.MobileMoneyDetails{
				Network:     "MTN Mobile Money",
				PhoneNumber: "0121234567",
			},
		})

		assert.Equal(t, "Please enter a valid Zambian phone number", errs["phone_number"])
	})

	t.Run("Wrong Length Rejected", func(t *testing.T) {
		errs := service.ValidatePaymentAttempt(&models.PaymentAttempt{
			Method: models.MethodMobileMoney,
			MobileMoney: &models.MobileMoneyDetails{
				Network:     "MTN Mobile Money",
				PhoneNumber: "09712345",
			},
		})

		assert.Contains(t, errs, "phone_number")
	})

	t.Run("Missing Details Struct", func(t *testing.T) {
		errs := service.ValidatePaymentAttempt(&models.PaymentAttempt{Method: models.MethodMobileMoney})

		assert.Equal(t, models.FieldErrors{"mobile_money": "Mobile money details are required"}, errs)
	})
}

func TestValidatePaymentAttempt_Card(t *testing.T) {
	t.Run("Valid Card", func(t *testing.T) {
		errs := service.ValidatePaymentAttempt(&models.PaymentAttempt{
			Method: models.MethodCard,
			Card: &models.CardDetails{
				CardNumber:     "4111 1111 1111 1111",
				ExpiryDate:     "12/27",
				CVV:            "123",
				CardholderName: "B. Mwansa",
			},
		})

		assert.Empty(t, errs)
	})

	t.Run("Partially Filled Form Flags Only Missing Fields", func(t *testing.T) {
		errs := service.ValidatePaymentAttempt(&models.PaymentAttempt{
			Method: models.MethodCard,
			Card: &models.CardDetails{
				CardNumber: "4111 1111 1111 1111",
				ExpiryDate: "13/27",
				CVV:        "12",
			},
		})

		assert.NotContains(t, errs, "card_number")
		assert.Equal(t, "Expiry date must be MM/YY", errs["expiry_date"])
		assert.Equal(t, "CVV must be 3 digits", errs["cvv"])
		assert.Equal(t, "Cardholder name is required", errs["cardholder_name"])
	})

	t.Run("Short Card Number Rejected", func(t *testing.T) {
		errs := service.ValidatePaymentAttempt(&models.PaymentAttempt{
			Method: models.MethodCard,
			Card: &models.CardDetails{
				CardNumber:     "4111",
				ExpiryDate:     "12/27",
				CVV:            "123",
				CardholderName: "B. Mwansa",
			},
		})

		assert.Equal(t, "Please enter a valid 16-digit card number", errs["card_number"])
	})
}

func TestValidatePaymentAttempt_BankTransfer(t *testing.T) {
	t.Run("Valid Transfer", func(t *testing.T) {
		errs := service.ValidatePaymentAttempt(&models.PaymentAttempt{
			Method: models.MethodBankTransfer,
			BankTransfer: &models.BankTransferDetails{
				Bank:          "Zanaco Bank",
				AccountNumber: "0123456789",
				AccountHolder: "B. Mwansa",
			},
		})

		assert.Empty(t, errs)
	})

	t.Run("Unknown Bank Rejected", func(t *testing.T) {
		errs := service.ValidatePaymentAttempt(&models.PaymentAttempt{
			Method: models.MethodBankTransfer,
			BankTransfer: &models.BankTransferDetails{
				Bank:          "Bank of Nowhere",
				AccountNumber: "0123456789",
				AccountHolder: "B. Mwansa",
			},
		})

		assert.Equal(t, "Unknown bank", errs["bank"])
	})
}

func TestValidatePaymentAttempt_Wallet(t *testing.T) {
	t.Run("Provider Required", func(t *testing.T) {
		errs := service.ValidatePaymentAttempt(&models.PaymentAttempt{
			Method: models.MethodWallet,
			Wallet: &models.WalletDetails{},
		})

		assert.Contains(t, errs, "provider")
	})

	t.Run("Valid Wallet", func(t *testing.T) {
		errs := service.ValidatePaymentAttempt(&models.PaymentAttempt{
			Method: models.MethodWallet,
			Wallet: &models.WalletDetails{Provider: "Hive Wallet"},
		})

		assert.Empty(t, errs)
	})
}

func TestValidatePaymentAttempt_UnknownMethod(t *testing.T) {
	errs := service.ValidatePaymentAttempt(&models.PaymentAttempt{Method: "cheque"})

	assert.Contains(t, errs, "method")
}
