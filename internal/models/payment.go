package models

import "time"

type PaymentMethod string

const (
	MethodMobileMoney  PaymentMethod = "mobile_money"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCard         PaymentMethod = "card"
	MethodWallet       PaymentMethod = "wallet"
)

// PaymentAttempt is a tagged union: exactly the details struct matching
// Method is set, the rest stay nil. One state object covering every method's
// fields at once is what this replaces.
type PaymentAttempt struct {
	Method       PaymentMethod        `json:"method" validate:"required,oneof=mobile_money bank_transfer card wallet"`
	MobileMoney  *MobileMoneyDetails  `json:"mobile_money,omitempty"`
	BankTransfer *BankTransferDetails `json:"bank_transfer,omitempty"`
	Card         *CardDetails         `json:"card,omitempty"`
	Wallet       *WalletDetails       `json:"wallet,omitempty"`
}

type MobileMoneyDetails struct {
	Network     string `json:"network"`
	PhoneNumber string `json:"phone_number"`
}

type BankTransferDetails struct {
	Bank          string `json:"bank"`
	AccountNumber string `json:"account_number"`
	AccountHolder string `json:"account_holder"`
}

type CardDetails struct {
	CardNumber     string `json:"card_number"`
	ExpiryDate     string `json:"expiry_date"` // MM/YY
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholder_name"`
}

type WalletDetails struct {
	Provider string `json:"provider"`
}

// FieldErrors maps form field name to a human-readable problem. Empty means
// the attempt is valid.
type FieldErrors map[string]string

type SettleRequest struct {
	Code    string         `json:"code" validate:"required"`
	Attempt PaymentAttempt `json:"attempt" validate:"required"`
}

type SettleResponse struct {
	Code      string            `json:"code"`
	Status    TransactionStatus `json:"status"`
	Reference string            `json:"reference,omitempty"`
	Message   string            `json:"message"`
	PaidAt    time.Time         `json:"paid_at"`
}

// Mobile networks and their number prefixes as displayed on the payment form.
var MobileNetworks = []struct {
	Name   string
	Prefix string
}{
	{"MTN Mobile Money", "097"},
	{"Airtel Money", "097/096/077"},
	{"Zamtel Kwacha", "095/076"},
}

var ZambiaBanks = []string{
	"Zanaco Bank",
	"First National Bank (FNB)",
	"Stanbic Bank",
	"Standard Chartered Bank",
	"Absa Bank Zambia",
	"Citibank Zambia",
	"Atlas Mara Bank",
	"Indo Zambia Bank",
	"Access Bank Zambia",
	"United Bank for Africa (UBA)",
	"Bank of China Zambia",
}
