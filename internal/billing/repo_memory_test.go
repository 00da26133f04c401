package billing

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryRepoRejectsDuplicateSession(t *testing.T) {
	repo := NewMemoryRepo()

	tx := Transaction{
		ID:              "tx-1",
		AccountID:       "user-1",
		StripeSessionID: "cs_1",
		AmountCents:     999,
		Credits:         50,
		Status:          StatusCompleted,
		CreatedAt:       time.Now().UTC(),
	}
	if err := repo.Record(context.Background(), tx); err != nil {
		t.Fatalf("record: %v", err)
	}

	tx.ID = "tx-2"
	err := repo.Record(context.Background(), tx)
	if !errors.Is(err, ErrDuplicateSession) {
		t.Fatalf("expected ErrDuplicateSession, got %v", err)
	}

	txs, err := repo.ListByAccount(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != "tx-1" {
		t.Fatalf("expected only the first record, got %+v", txs)
	}
}

func TestMemoryRepoListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	base := time.Now().UTC()

	for i := 0; i < 3; i++ {
		tx := Transaction{
			ID:              string(rune('a' + i)),
			AccountID:       "user-1",
			StripeSessionID: string(rune('x' + i)),
			Credits:         10,
			Status:          StatusCompleted,
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Record(context.Background(), tx); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	txs, err := repo.ListByAccount(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}
	for i := 1; i < len(txs); i++ {
		if txs[i].CreatedAt.After(txs[i-1].CreatedAt) {
			t.Fatalf("expected newest-first ordering")
		}
	}
}
