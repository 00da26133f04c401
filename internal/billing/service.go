package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"

	"curriculum-backend/internal/accounts"
	"curriculum-backend/internal/shared/telemetry"
)

// Service creates checkout sessions and applies completed purchases.
type Service struct {
	Accounts *accounts.Service
	Repo     Repo

	stripeClient *client.API
	successURL   string
	cancelURL    string
}

func NewService(accountsSvc *accounts.Service, repo Repo, stripeKey, successURL, cancelURL string) *Service {
	svc := &Service{
		Accounts:   accountsSvc,
		Repo:       repo,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
	if stripeKey != "" {
		api := &client.API{}
		api.Init(stripeKey, nil)
		svc.stripeClient = api
	}
	return svc
}

// CreateCheckoutSession opens a Stripe checkout session for a credit pack.
// The account id and credit count ride in session metadata so the webhook
// can apply the grant without any extra lookup.
func (s *Service) CreateCheckoutSession(ctx context.Context, account accounts.Account, priceID string, credits int) (string, error) {
	if priceID == "" || credits <= 0 {
		return "", ErrInvalidInput
	}
	if s.stripeClient == nil {
		return "", fmt.Errorf("stripe is not configured")
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	}
	params.Context = ctx
	if account.Email != "" {
		params.CustomerEmail = stripe.String(account.Email)
	}
	params.AddMetadata("userId", account.ID)
	params.AddMetadata("credits", fmt.Sprintf("%d", credits))

	session, err := s.stripeClient.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return session.URL, nil
}

// ApplyCompletedSession grants the purchased credits and records the
// transaction. The transaction row is written first: its unique session id
// is the idempotency barrier, so a redelivered webhook finds the row and
// never grants twice.
func (s *Service) ApplyCompletedSession(ctx context.Context, accountID, sessionID string, credits int, amountCents int64) error {
	if accountID == "" || sessionID == "" || credits <= 0 {
		return ErrInvalidInput
	}

	tx := Transaction{
		ID:              uuid.NewString(),
		AccountID:       accountID,
		StripeSessionID: sessionID,
		AmountCents:     amountCents,
		Credits:         credits,
		Status:          StatusCompleted,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Repo.Record(ctx, tx); err != nil {
		if errors.Is(err, ErrDuplicateSession) {
			telemetry.Info("checkout session already applied", map[string]any{
				"accountId": accountID,
				"sessionId": sessionID,
			})
			return nil
		}
		return err
	}

	if err := s.Accounts.Grant(ctx, accountID, credits); err != nil {
		return fmt.Errorf("grant credits for session %s: %w", sessionID, err)
	}

	telemetry.Info("credits granted", map[string]any{
		"accountId": accountID,
		"sessionId": sessionID,
		"credits":   credits,
	})
	return nil
}

// Transactions lists the account's purchase history.
func (s *Service) Transactions(ctx context.Context, accountID string, limit, offset int) ([]Transaction, error) {
	return s.Repo.ListByAccount(ctx, accountID, limit, offset)
}
