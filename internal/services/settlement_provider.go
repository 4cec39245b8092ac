package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/config"
	"github.com/hivetax/hivetax-platform/internal/models"
	"github.com/hivetax/hivetax-platform/pkg/stripe"
)

type ProviderResult struct {
	Reference string
	Message   string
}

// SettlementProvider is the pluggable gateway behind submit. The simulated
// provider stands in for a real integration; swapping one in does not touch
// the pipeline logic.
type SettlementProvider interface {
	Settle(ctx context.Context, code string, amount float64, attempt *models.PaymentAttempt) (*ProviderResult, error)
}

// NewSettlementProvider picks the provider from config. Stripe handles card
// payments only; everything else still goes through the simulated path.
func NewSettlementProvider(cfg config.Settlement, stripeClient stripe.Client) SettlementProvider {
	simulated := &simulatedProvider{delay: cfg.SimulatedDelay}

	if cfg.Provider == "stripe" && stripeClient != nil {
		return &stripeProvider{client: stripeClient, fallback: simulated}
	}

	return simulated
}

// simulatedProvider always succeeds after a fixed delay, honoring
// cancellation.
type simulatedProvider struct {
	delay time.Duration
}

func (p *simulatedProvider) Settle(ctx context.Context, code string, amount float64, attempt *models.PaymentAttempt) (*ProviderResult, error) {

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return &ProviderResult{
		Reference: "SIM-" + uuid.NewString(),
		Message:   fmt.Sprintf("Payment of ZMW %.2f processed successfully via %s. Receipt sent to your account.", amount, attempt.Method),
	}, nil
}

type stripeProvider struct {
	client   stripe.Client
	fallback SettlementProvider
}

func (p *stripeProvider) Settle(ctx context.Context, code string, amount float64, attempt *models.PaymentAttempt) (*ProviderResult, error) {

	if attempt.Method != models.MethodCard {
		return p.fallback.Settle(ctx, code, amount, attempt)
	}

	// ZMW amounts go to Stripe in ngwee.
	intent, err := p.client.CreatePaymentIntent(int64(math.Round(amount*100)), "zmw", "Hive.Tax transaction "+code)
	if err != nil {
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}

	confirmed, err := p.client.ConfirmPaymentIntent(intent.ID)
	if err != nil {
		return nil, fmt.Errorf("confirming payment intent: %w", err)
	}

	return &ProviderResult{
		Reference: confirmed.ID,
		Message:   fmt.Sprintf("Payment of ZMW %.2f processed successfully via card. Receipt sent to your account.", amount),
	}, nil
}
