package billing

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu        sync.RWMutex
	bySession map[string]Transaction
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{bySession: make(map[string]Transaction)}
}

func (r *MemoryRepo) Record(_ context.Context, tx Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySession[tx.StripeSessionID]; ok {
		return ErrDuplicateSession
	}
	r.bySession[tx.StripeSessionID] = tx
	return nil
}

func (r *MemoryRepo) ListByAccount(_ context.Context, accountID string, limit, offset int) ([]Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	var all []Transaction
	for _, tx := range r.bySession {
		if tx.AccountID == accountID {
			all = append(all, tx)
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

var _ Repo = (*MemoryRepo)(nil)
