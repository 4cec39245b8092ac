package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/hivetax/hivetax-platform/internal/config"
	"github.com/hivetax/hivetax-platform/internal/models"
	service "github.com/hivetax/hivetax-platform/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripesdk "github.com/stripe/stripe-go/v81"
)

type fakeStripeClient struct {
	created   int64
	confirmed string
	err       error
}

func (f *fakeStripeClient) CreatePaymentIntent(amount int64, currency string, description string) (*stripesdk.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.created = amount

	return &stripesdk.PaymentIntent{ID: "pi_test_123"}, nil
}

func (f *fakeStripeClient) ConfirmPaymentIntent(paymentIntentID string) (*stripesdk.PaymentIntent, error) {
	f.confirmed = paymentIntentID

	return &stripesdk.PaymentIntent{ID: paymentIntentID, Status: stripesdk.PaymentIntentStatusSucceeded}, nil
}

func TestSimulatedProvider(t *testing.T) {
	t.Run("Succeeds After Delay", func(t *testing.T) {
		provider := service.NewSettlementProvider(config.Settlement{Provider: "simulated", SimulatedDelay: 10 * time.Millisecond}, nil)

		result, err := provider.Settle(context.Background(), "HTX-1", 110.20, validMobileMoneyAttempt())

		require.NoError(t, err)
		assert.Contains(t, result.Reference, "SIM-")
		assert.Contains(t, result.Message, "ZMW 110.20")
		assert.Contains(t, result.Message, string(models.MethodMobileMoney))
	})

	t.Run("Honors Cancellation", func(t *testing.T) {
		provider := service.NewSettlementProvider(config.Settlement{Provider: "simulated", SimulatedDelay: 5 * time.Second}, nil)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		result, err := provider.Settle(ctx, "HTX-1", 110.20, validMobileMoneyAttempt())

		assert.Nil(t, result)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestStripeProvider(t *testing.T) {
	t.Run("Card Payments Go Through Stripe In Ngwee", func(t *testing.T) {
		client := &fakeStripeClient{}
		provider := service.NewSettlementProvider(config.Settlement{Provider: "stripe", SimulatedDelay: time.Millisecond}, client)

		attempt := &models.PaymentAttempt{
			Method: models.MethodCard,
			Card: &models.CardDetails{
				CardNumber:     "4111111111111111",
				ExpiryDate:     "12/27",
				CVV:            "123",
				CardholderName: "B. Mwansa",
			},
		}

		result, err := provider.Settle(context.Background(), "HTX-1", 110.20, attempt)

		require.NoError(t, err)
		assert.Equal(t, int64(11020), client.created)
		assert.Equal(t, "pi_test_123", client.confirmed)
		assert.Equal(t, "pi_test_123", result.Reference)
	})

	t.Run("Non-Card Methods Fall Back To Simulation", func(t *testing.T) {
		client := &fakeStripeClient{}
		provider := service.NewSettlementProvider(config.Settlement{Provider: "stripe", SimulatedDelay: time.Millisecond}, client)

		result, err := provider.Settle(context.Background(), "HTX-1", 110.20, validMobileMoneyAttempt())

		require.NoError(t, err)
		assert.Zero(t, client.created)
		assert.Contains(t, result.Reference, "SIM-")
	})
}
