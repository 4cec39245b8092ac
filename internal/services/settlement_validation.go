package service

import (
	"regexp"
	"slices"
	"strings"

	"github.com/hivetax/hivetax-platform/internal/models"
)

var (
	// Local mobile numbers: 10 digits, one of the fixed network prefixes.
	phonePattern = regexp.MustCompile(`^(097|096|095|077|076)\d{7}$`)
	cardPattern  = regexp.MustCompile(`^\d{16}$`)
	cvvPattern   = regexp.MustCompile(`^\d{3}$`)
	// Expiry is entered as MM/YY.
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
)

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// ValidatePaymentAttempt applies the method-specific rules and returns the
// problems keyed by field name. An empty map means the attempt may be
// submitted.
func ValidatePaymentAttempt(attempt *models.PaymentAttempt) models.FieldErrors {

	errs := models.FieldErrors{}

	switch attempt.Method {
	case models.MethodMobileMoney:
		details := attempt.MobileMoney
		if details == nil {
			errs["mobile_money"] = "Mobile money details are required"

			return errs
		}

		if details.Network == "" {
			errs["network"] = "Please select a network"
		} else if !knownNetwork(details.Network) {
			errs["network"] = "Unknown mobile network"
		}

		if details.PhoneNumber == "" {
			errs["phone_number"] = "Phone number is required"
		} else if !phonePattern.MatchString(stripSpaces(details.PhoneNumber)) {
			errs["phone_number"] = "Please enter a valid Zambian phone number"
		}

	case models.MethodBankTransfer:
		details := attempt.BankTransfer
		if details == nil {
			errs["bank_transfer"] = "Bank transfer details are required"

			return errs
		}

		if details.Bank == "" {
			errs["bank"] = "Please select a bank"
		} else if !slices.Contains(models.ZambiaBanks, details.Bank) {
			errs["bank"] = "Unknown bank"
		}

		if details.AccountNumber == "" {
			errs["account_number"] = "Account number is required"
		}

		if details.AccountHolder == "" {
			errs["account_holder"] = "Account holder name is required"
		}

	case models.MethodCard:
		details := attempt.Card
		if details == nil {
			errs["card"] = "Card details are required"

			return errs
		}

		if details.CardNumber == "" {
			errs["card_number"] = "Card number is required"
		} else if !cardPattern.MatchString(stripSpaces(details.CardNumber)) {
			errs["card_number"] = "Please enter a valid 16-digit card number"
		}

		if details.ExpiryDate == "" {
			errs["expiry_date"] = "Expiry date is required"
		} else if !expiryPattern.MatchString(details.ExpiryDate) {
			errs["expiry_date"] = "Expiry date must be MM/YY"
		}

		if details.CVV == "" {
			errs["cvv"] = "CVV is required"
		} else if !cvvPattern.MatchString(details.CVV) {
			errs["cvv"] = "CVV must be 3 digits"
		}

		if details.CardholderName == "" {
			errs["cardholder_name"] = "Cardholder name is required"
		}

	case models.MethodWallet:
		details := attempt.Wallet
		if details == nil {
			errs["wallet"] = "Wallet details are required"

			return errs
		}

		if details.Provider == "" {
			errs["provider"] = "Please choose a wallet provider"
		}

	default:
		errs["method"] = "Unknown payment method"
	}

	return errs
}

func knownNetwork(name string) bool {
	for _, network := range models.MobileNetworks {
		if network.Name == name {
			return true
		}
	}

	return false
}
