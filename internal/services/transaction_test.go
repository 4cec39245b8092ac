package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/config"
	appErrors "github.com/hivetax/hivetax-platform/internal/errors"
	"github.com/hivetax/hivetax-platform/internal/models"
	"github.com/hivetax/hivetax-platform/internal/repositories/mocks"
	service "github.com/hivetax/hivetax-platform/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeEncoder records the content it was asked to render.
type fakeEncoder struct {
	lastContent string
	err         error
}

func (f *fakeEncoder) Encode(content string, size int) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.lastContent = content

	return []byte("png-bytes"), nil
}

func testQRConfig() config.QRConfig {
	return config.QRConfig{ImageSize: 256, MaxPayloadBytes: 2300}
}

func scenarioCart(sellerID uuid.UUID) *models.Cart {
	oil := models.CartLine{ProductID: uuid.New(), ProductName: "Cooking Oil 2L", Quantity: 1, UnitPrice: 45.00, VATRate: 16}
	oil.Recalculate()

	sugar := models.CartLine{ProductID: uuid.New(), ProductName: "Sugar 1kg", Quantity: 2, UnitPrice: 25.00, VATRate: 16}
	sugar.Recalculate()

	return &models.Cart{SellerID: sellerID, Lines: []models.CartLine{oil, sugar}}
}

func TestGenerateTransaction(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()

	t.Run("Success - Encodes Cart And Destroys It", func(t *testing.T) {
		mockCartRepo := new(mocks.CartRepository)
		mockTxRepo := new(mocks.TransactionRepository)
		encoder := &fakeEncoder{}

		txService := service.NewTransactionService(mockCartRepo, mockTxRepo, new(mocks.UserRepository), encoder, testQRConfig())

		mockCartRepo.On("GetCart", ctx, sellerID).Return(scenarioCart(sellerID), nil).Once()
		mockTxRepo.On("CreateTransaction", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil).Once()
		mockCartRepo.On("DeleteCart", ctx, sellerID).Return(nil).Once()

		resp, err := txService.GenerateTransaction(ctx, sellerID)

		require.NoError(t, err)
		assert.Regexp(t, `^HTX-\d+`, resp.Payload.Code)
		assert.Equal(t, "95.00", resp.Payload.Subtotal)
		assert.Equal(t, "15.20", resp.Payload.VATAmount)
		assert.Equal(t, "110.20", resp.Payload.Total)
		assert.Len(t, resp.Payload.Items, 2)
		assert.NotEmpty(t, resp.QRImage)

		// The rendered content is the payload JSON itself.
		var embedded models.TransactionPayload
		require.NoError(t, json.Unmarshal([]byte(encoder.lastContent), &embedded))
		assert.Equal(t, resp.Payload.Code, embedded.Code)

		mockCartRepo.AssertExpectations(t)
		mockTxRepo.AssertExpectations(t)
	})

	t.Run("Failure - Empty Cart", func(t *testing.T) {
		mockCartRepo := new(mocks.CartRepository)
		txService := service.NewTransactionService(mockCartRepo, new(mocks.TransactionRepository), new(mocks.UserRepository), &fakeEncoder{}, testQRConfig())

		mockCartRepo.On("GetCart", ctx, sellerID).Return(&models.Cart{SellerID: sellerID}, nil).Once()

		resp, err := txService.GenerateTransaction(ctx, sellerID)

		assert.Nil(t, resp)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeEncoding, appErr.Code)
	})

	t.Run("Failure - Payload Too Large Leaves Cart Intact", func(t *testing.T) {
		mockCartRepo := new(mocks.CartRepository)
		mockTxRepo := new(mocks.TransactionRepository)
		txService := service.NewTransactionService(mockCartRepo, mockTxRepo, new(mocks.UserRepository), &fakeEncoder{},
			config.QRConfig{ImageSize: 256, MaxPayloadBytes: 10})

		mockCartRepo.On("GetCart", ctx, sellerID).Return(scenarioCart(sellerID), nil).Once()

		resp, err := txService.GenerateTransaction(ctx, sellerID)

		assert.Nil(t, resp)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeEncoding, appErr.Code)

		// No transaction written, no cart deletion attempted.
		mockTxRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
		mockCartRepo.AssertNotCalled(t, "DeleteCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Render Error Leaves Cart Intact", func(t *testing.T) {
		mockCartRepo := new(mocks.CartRepository)
		mockTxRepo := new(mocks.TransactionRepository)
		txService := service.NewTransactionService(mockCartRepo, mockTxRepo, new(mocks.UserRepository),
			&fakeEncoder{err: errors.New("content too long")}, testQRConfig())

		mockCartRepo.On("GetCart", ctx, sellerID).Return(scenarioCart(sellerID), nil).Once()

		resp, err := txService.GenerateTransaction(ctx, sellerID)

		assert.Nil(t, resp)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeEncoding, appErr.Code)
		mockCartRepo.AssertNotCalled(t, "DeleteCart", mock.Anything, mock.Anything)
	})

	t.Run("Codes Are Unique Across Consecutive Calls", func(t *testing.T) {
		mockCartRepo := new(mocks.CartRepository)
		mockTxRepo := new(mocks.TransactionRepository)
		txService := service.NewTransactionService(mockCartRepo, mockTxRepo, new(mocks.UserRepository), &fakeEncoder{}, testQRConfig())

		mockCartRepo.On("GetCart", ctx, sellerID).Return(scenarioCart(sellerID), nil).Twice()
		mockTxRepo.On("CreateTransaction", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil).Twice()
		mockCartRepo.On("DeleteCart", ctx, sellerID).Return(nil).Twice()

		first, err := txService.GenerateTransaction(ctx, sellerID)
		require.NoError(t, err)

		second, err := txService.GenerateTransaction(ctx, sellerID)
		require.NoError(t, err)

		assert.NotEqual(t, first.Payload.Code, second.Payload.Code)
	})
}

func TestDecodePayload(t *testing.T) {
	txService := service.NewTransactionService(new(mocks.CartRepository), new(mocks.TransactionRepository), new(mocks.UserRepository), &fakeEncoder{}, testQRConfig())

	validPayload := func() models.TransactionPayload {
		return models.TransactionPayload{
			Code: "HTX-1735689600000",
			Items: []models.PayloadItem{
				{ProductID: uuid.NewString(), ProductName: "Cooking Oil 2L", Quantity: 1, UnitPrice: 45.00, VATRate: 16, VATAmount: 7.20},
				{ProductID: uuid.NewString(), ProductName: "Sugar 1kg", Quantity: 2, UnitPrice: 25.00, VATRate: 16, VATAmount: 8.00},
			},
			Subtotal:  "95.00",
			VATAmount: "15.20",
			Total:     "110.20",
			Timestamp: "2025-01-01T00:00:00Z",
		}
	}

	t.Run("Success - Recomputes Per-Item VAT", func(t *testing.T) {
		payload := validPayload()
		// A tampered per-item figure is ignored; the decoder recomputes.
		payload.Items[0].VATAmount = 999

		raw, _ := json.Marshal(payload)

		decoded, err := txService.DecodePayload(string(raw))

		require.NoError(t, err)
		assert.Equal(t, "HTX-1735689600000", decoded.ID)
		assert.Len(t, decoded.Items, 2)
		assert.InDelta(t, 7.20, decoded.Items[0].VAT, 0.001)
		assert.InDelta(t, 8.00, decoded.Items[1].VAT, 0.001)
		assert.InDelta(t, 95.00, decoded.Subtotal, 0.001)
		assert.InDelta(t, 15.20, decoded.TotalVAT, 0.001)
		assert.InDelta(t, 110.20, decoded.Total, 0.001)
	})

	t.Run("Failure - Not JSON", func(t *testing.T) {
		decoded, err := txService.DecodePayload("HTX-123456")

		assert.Nil(t, decoded)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
	})

	t.Run("Failure - Missing Code", func(t *testing.T) {
		payload := validPayload()
		payload.Code = ""
		raw, _ := json.Marshal(payload)

		_, err := txService.DecodePayload(string(raw))
		assert.Error(t, err)
	})

	t.Run("Failure - No Items", func(t *testing.T) {
		payload := validPayload()
		payload.Items = nil
		raw, _ := json.Marshal(payload)

		_, err := txService.DecodePayload(string(raw))
		assert.Error(t, err)
	})

	t.Run("Failure - Malformed Total", func(t *testing.T) {
		payload := validPayload()
		payload.Total = "a lot"
		raw, _ := json.Marshal(payload)

		_, err := txService.DecodePayload(string(raw))
		assert.Error(t, err)
	})
}

func TestResolveCode(t *testing.T) {
	ctx := context.Background()

	t.Run("Known Code Resolves From Store", func(t *testing.T) {
		mockTxRepo := new(mocks.TransactionRepository)
		mockUserRepo := new(mocks.UserRepository)
		txService := service.NewTransactionService(new(mocks.CartRepository), mockTxRepo, mockUserRepo, &fakeEncoder{}, testQRConfig())

		sellerID := uuid.New()
		record := &models.Transaction{
			Code:     "HTX-1735689600000",
			SellerID: sellerID,
			Items: []models.PayloadItem{
				{ProductName: "Cooking Oil 2L", Quantity: 1, UnitPrice: 45.00, VATRate: 16},
			},
			Subtotal:  45.00,
			VATAmount: 7.20,
			Total:     52.20,
			Status:    models.TransactionPending,
		}

		mockTxRepo.On("GetTransactionByCode", ctx, record.Code).Return(record, nil).Once()
		mockUserRepo.On("GetUserByID", ctx, sellerID).Return(&models.User{ID: sellerID, Name: "Kabwe Traders"}, nil).Once()

		decoded, err := txService.ResolveCode(ctx, record.Code)

		require.NoError(t, err)
		assert.Equal(t, "Kabwe Traders", decoded.SellerName)
		assert.InDelta(t, 52.20, decoded.Total, 0.001)
	})

	t.Run("Unknown Code Falls Back To Example Transaction", func(t *testing.T) {
		mockTxRepo := new(mocks.TransactionRepository)
		txService := service.NewTransactionService(new(mocks.CartRepository), mockTxRepo, new(mocks.UserRepository), &fakeEncoder{}, testQRConfig())

		mockTxRepo.On("GetTransactionByCode", ctx, "HTX-000").Return(nil, errors.New("no rows")).Once()

		decoded, err := txService.ResolveCode(ctx, "HTX-000")

		require.NoError(t, err)
		assert.Equal(t, "HTX-000", decoded.ID)
		assert.Equal(t, "ABC Groceries", decoded.SellerName)
		assert.NotEmpty(t, decoded.Items)
		assert.InDelta(t, 110.20, decoded.Total, 0.001)
	})
}

func TestDecodeRouting(t *testing.T) {
	ctx := context.Background()

	t.Run("Payload Marker Routes To Strict Decoding", func(t *testing.T) {
		txService := service.NewTransactionService(new(mocks.CartRepository), new(mocks.TransactionRepository), new(mocks.UserRepository), &fakeEncoder{}, testQRConfig())

		payload := models.TransactionPayload{
			Code:      "HTX-42",
			Items:     []models.PayloadItem{{ProductName: "Bread", Quantity: 1, UnitPrice: 10, VATRate: 16}},
			Subtotal:  "10.00",
			VATAmount: "1.60",
			Total:     "11.60",
			Timestamp: "2025-01-01T00:00:00Z",
		}
		raw, _ := json.Marshal(payload)

		decoded, err := txService.Decode(ctx, "  "+string(raw)+"  ")

		require.NoError(t, err)
		assert.Equal(t, "HTX-42", decoded.ID)
	})

	t.Run("Plain Text Routes To Code Resolution", func(t *testing.T) {
		mockTxRepo := new(mocks.TransactionRepository)
		txService := service.NewTransactionService(new(mocks.CartRepository), mockTxRepo, new(mocks.UserRepository), &fakeEncoder{}, testQRConfig())

		mockTxRepo.On("GetTransactionByCode", ctx, "not json at all").Return(nil, errors.New("no rows")).Once()

		decoded, err := txService.Decode(ctx, "not json at all")

		// The combined path never fails; unknown input settles on the fallback.
		require.NoError(t, err)
		assert.NotEmpty(t, decoded.Items)
	})

	t.Run("Broken Payload Falls Through To Code Resolution", func(t *testing.T) {
		mockTxRepo := new(mocks.TransactionRepository)
		txService := service.NewTransactionService(new(mocks.CartRepository), mockTxRepo, new(mocks.UserRepository), &fakeEncoder{}, testQRConfig())

		mockTxRepo.On("GetTransactionByCode", ctx, `{"code":""}`).Return(nil, errors.New("no rows")).Once()

		decoded, err := txService.Decode(ctx, `{"code":""}`)

		require.NoError(t, err)
		assert.Equal(t, "ABC Groceries", decoded.SellerName)
	})
}
