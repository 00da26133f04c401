package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Ensure upserts the account identity. The initial credit grant applies only
// when the row is first inserted; later logins never touch the balance.
func (r *PGRepo) Ensure(ctx context.Context, account Account, initialCredits int) (Account, error) {
	const query = `
INSERT INTO accounts (id, email, full_name, picture_url, credits, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  picture_url = EXCLUDED.picture_url,
  updated_at = now()
RETURNING id, email, full_name, picture_url, credits, created_at, updated_at`

	if initialCredits < 0 {
		initialCredits = 0
	}

	row := r.DB.QueryRowContext(ctx, query,
		account.ID,
		account.Email,
		nullableString(account.FullName),
		nullableString(account.PictureURL),
		initialCredits,
	)
	return scanAccount(row)
}

// GetByID fetches an account by ID.
func (r *PGRepo) GetByID(ctx context.Context, accountID string) (Account, error) {
	const query = `
SELECT id, email, full_name, picture_url, credits, created_at, updated_at
FROM accounts
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, accountID)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	return account, nil
}

// Debit decrements the balance by n in a single conditional update.
func (r *PGRepo) Debit(ctx context.Context, accountID string, n int) error {
	if n <= 0 {
		return nil
	}
	const query = `
UPDATE accounts
SET credits = credits - $2, updated_at = now()
WHERE id = $1 AND credits >= $2`
	res, err := r.DB.ExecContext(ctx, query, accountID, n)
	if err != nil {
		return fmt.Errorf("debit account %s: %w", accountID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit account %s: %w", accountID, err)
	}
	if affected > 0 {
		return nil
	}

	// Zero rows: either the account is missing or the balance is short.
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists); err != nil {
		return fmt.Errorf("debit account %s: %w", accountID, err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInsufficientCredits
}

// Credit increments the balance by n.
func (r *PGRepo) Credit(ctx context.Context, accountID string, n int) error {
	if n <= 0 {
		return nil
	}
	const query = `
UPDATE accounts
SET credits = credits + $2, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, accountID, n)
	if err != nil {
		return fmt.Errorf("credit account %s: %w", accountID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("credit account %s: %w", accountID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccount(row *sql.Row) (Account, error) {
	var account Account
	var fullName sql.NullString
	var pictureURL sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&account.ID,
		&account.Email,
		&fullName,
		&pictureURL,
		&account.Credits,
		&account.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return Account{}, err
	}
	if fullName.Valid {
		account.FullName = fullName.String
	}
	if pictureURL.Valid {
		account.PictureURL = pictureURL.String
	}
	if updatedAt.Valid {
		account.UpdatedAt = updatedAt.Time
	} else {
		account.UpdatedAt = time.Now().UTC()
	}
	return account, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
