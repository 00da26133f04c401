package billing

import "context"

// Repo persists purchase transactions.
type Repo interface {
	// Record inserts the transaction. It returns ErrDuplicateSession when a
	// row for the same Stripe session id already exists.
	Record(ctx context.Context, tx Transaction) error
	// ListByAccount returns the account's transactions, newest first.
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]Transaction, error)
}
