package accounts

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for dev and tests.
type MemoryRepo struct {
	mu   sync.Mutex
	data map[string]Account
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Account)}
}

func (r *MemoryRepo) Ensure(ctx context.Context, account Account, initialCredits int) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	if initialCredits < 0 {
		initialCredits = 0
	}
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[account.ID]
	if !ok {
		account.Credits = initialCredits
		account.CreatedAt = now
		account.UpdatedAt = now
		r.data[account.ID] = account
		return account, nil
	}
	existing.Email = account.Email
	existing.FullName = account.FullName
	existing.PictureURL = account.PictureURL
	existing.UpdatedAt = now
	r.data[account.ID] = existing
	return existing, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, accountID string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.data[accountID]
	if !ok {
		return Account{}, ErrNotFound
	}
	return account, nil
}

// Debit checks and decrements under a single lock hold, mirroring the
// conditional update the PG repo issues.
func (r *MemoryRepo) Debit(ctx context.Context, accountID string, n int) error {
	if n <= 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.data[accountID]
	if !ok {
		return ErrNotFound
	}
	if account.Credits < n {
		return ErrInsufficientCredits
	}
	account.Credits -= n
	account.UpdatedAt = time.Now().UTC()
	r.data[accountID] = account
	return nil
}

func (r *MemoryRepo) Credit(ctx context.Context, accountID string, n int) error {
	if n <= 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.data[accountID]
	if !ok {
		return ErrNotFound
	}
	account.Credits += n
	account.UpdatedAt = time.Now().UTC()
	r.data[accountID] = account
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
