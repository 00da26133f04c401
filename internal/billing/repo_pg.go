package billing

import (
	"context"
	"database/sql"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Record inserts the transaction. The unique index on stripe_session_id
// makes the insert a no-op on webhook redelivery; zero affected rows maps
// to ErrDuplicateSession.
func (r *PGRepo) Record(ctx context.Context, tx Transaction) error {
	const query = `
INSERT INTO transactions (id, account_id, stripe_session_id, amount_cents, credits, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (stripe_session_id) DO NOTHING`
	res, err := r.DB.ExecContext(ctx, query,
		tx.ID,
		tx.AccountID,
		tx.StripeSessionID,
		tx.AmountCents,
		tx.Credits,
		tx.Status,
	)
	if err != nil {
		return fmt.Errorf("record transaction %s: %w", tx.StripeSessionID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record transaction %s: %w", tx.StripeSessionID, err)
	}
	if affected == 0 {
		return ErrDuplicateSession
	}
	return nil
}

// ListByAccount returns the account's transactions, newest first.
func (r *PGRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, account_id, stripe_session_id, amount_cents, credits, status, created_at
FROM transactions
WHERE account_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions for %s: %w", accountID, err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.AccountID,
			&tx.StripeSessionID,
			&tx.AmountCents,
			&tx.Credits,
			&tx.Status,
			&tx.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
