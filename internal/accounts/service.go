package accounts

import (
	"context"

	"curriculum-backend/internal/shared/metrics"
	"curriculum-backend/internal/shared/telemetry"
)

// Service manages accounts and guards the credit ledger.
type Service struct {
	repo Repo
}

// NewService constructs a Service over the given repo.
func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// Ensure upserts the account identity, granting initialCredits on first login.
func (s *Service) Ensure(ctx context.Context, account Account, initialCredits int) (Account, error) {
	return s.repo.Ensure(ctx, account, initialCredits)
}

// Get returns the account by ID.
func (s *Service) Get(ctx context.Context, accountID string) (Account, error) {
	return s.repo.GetByID(ctx, accountID)
}

// Charge debits cost credits from the account. The check and the decrement
// are one atomic operation; on failure the balance is untouched.
func (s *Service) Charge(ctx context.Context, accountID string, cost int) error {
	if err := s.repo.Debit(ctx, accountID, cost); err != nil {
		return err
	}
	metrics.AddCreditsDebited(uint64(cost))
	return nil
}

// Refund returns cost credits to the account after a charge whose work never
// produced output. Refund failures are logged, not propagated: the caller is
// already on an error path and the original error is the one that matters.
func (s *Service) Refund(ctx context.Context, accountID string, cost int) {
	if err := s.repo.Credit(ctx, accountID, cost); err != nil {
		telemetry.Error("credits.refund_failed", map[string]any{
			"account_id": accountID,
			"credits":    cost,
			"error":      err.Error(),
		})
	}
}

// Grant adds purchased credits to the account.
func (s *Service) Grant(ctx context.Context, accountID string, n int) error {
	if err := s.repo.Credit(ctx, accountID, n); err != nil {
		return err
	}
	metrics.AddCreditsGranted(uint64(n))
	return nil
}
