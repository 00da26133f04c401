package accounts

import "context"

// Repo defines persistence operations for accounts and their balances.
//
// Debit must be a single conditional update: the balance check and the
// decrement happen atomically, and a debit that would push the balance
// negative fails with ErrInsufficientCredits and no side effect.
type Repo interface {
	Ensure(ctx context.Context, account Account, initialCredits int) (Account, error)
	GetByID(ctx context.Context, accountID string) (Account, error)
	Debit(ctx context.Context, accountID string, n int) error
	Credit(ctx context.Context, accountID string, n int) error
}
