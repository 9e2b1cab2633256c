// Package payment funds gift wallets from external cards via Stripe.
// A successful charge is recorded as a ledger deposit referencing the
// Stripe charge ID.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"giftwise/internal/models"
	"giftwise/internal/services/ledger"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
)

var (
	ErrInvalidAmount = errors.New("top-up amount must be greater than zero")
	ErrMissingToken  = errors.New("payment token is required")
	ErrChargeFailed  = errors.New("card charge failed")
)

// Service funds wallets from external payment sources.
type Service interface {
	// TopUp charges the card token and deposits the amount into the
	// user's gift wallet.
	TopUp(ctx context.Context, userID uint, amount float64, currency, token string) (*models.Transaction, error)
}

// Charger executes a card charge and returns the processor's charge ID.
type Charger interface {
	Charge(ctx context.Context, amountCents int64, currency, token, description string) (string, error)
}

type service struct {
	ledger  ledger.Service
	charger Charger
}

// NewService creates a payment service.
func NewService(ledgerSvc ledger.Service, charger Charger) Service {
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if charger == nil {
		panic("charger is required")
	}
	return &service{
		ledger:  ledgerSvc,
		charger: charger,
	}
}

func (s *service) TopUp(ctx context.Context, userID uint, amount float64, currency, token string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if token == "" {
		return nil, ErrMissingToken
	}
	if currency == "" {
		currency = "usd"
	}

	cents := int64(math.Round(amount * 100))
	chargeID, err := s.charger.Charge(ctx, cents, currency, token,
		fmt.Sprintf("Giftwise wallet top-up for user %d", userID))
	if err != nil {
		log.Printf("Card charge failed for user %d: %v", userID, err)
		return nil, fmt.Errorf("%w: %v", ErrChargeFailed, err)
	}

	tx, err := s.ledger.Deposit(ctx, userID, amount, chargeID)
	if err != nil {
		// The card was charged but the wallet was not credited. This
		// needs an operator; keep the charge ID in the log.
		log.Printf("CRITICAL: charge %s succeeded but deposit failed for user %d: %v",
			chargeID, userID, err)
		return nil, fmt.Errorf("charge succeeded but wallet credit failed (charge %s): %w", chargeID, err)
	}
	return tx, nil
}

// StripeCharger charges cards through the Stripe API.
type StripeCharger struct{}

// NewStripeCharger sets the global Stripe key and returns a charger.
func NewStripeCharger(secretKey string) *StripeCharger {
	stripe.Key = secretKey
	return &StripeCharger{}
}

func (c *StripeCharger) Charge(ctx context.Context, amountCents int64, currency, token, description string) (string, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}
	params.Context = ctx
	if err := params.SetSource(token); err != nil {
		return "", fmt.Errorf("invalid payment source: %w", err)
	}

	ch, err := charge.New(params)
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}
