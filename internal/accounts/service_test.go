package accounts

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func seedAccount(t *testing.T, repo *MemoryRepo, credits int) {
	t.Helper()
	if _, err := repo.Ensure(context.Background(), Account{ID: "user-1", Email: "u@example.com"}, credits); err != nil {
		t.Fatalf("ensure: %v", err)
	}
}

func balance(t *testing.T, repo *MemoryRepo) int {
	t.Helper()
	account, err := repo.GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	return account.Credits
}

func TestChargeDebitsExactly(t *testing.T) {
	repo := NewMemoryRepo()
	seedAccount(t, repo, 5)
	svc := NewService(repo)

	if err := svc.Charge(context.Background(), "user-1", 1); err != nil {
		t.Fatalf("charge: %v", err)
	}
	if got := balance(t, repo); got != 4 {
		t.Fatalf("expected 4 credits, got %d", got)
	}
}

func TestChargeInsufficientLeavesBalance(t *testing.T) {
	repo := NewMemoryRepo()
	seedAccount(t, repo, 0)
	svc := NewService(repo)

	err := svc.Charge(context.Background(), "user-1", 1)
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	if got := balance(t, repo); got != 0 {
		t.Fatalf("expected balance untouched, got %d", got)
	}
}

func TestChargeUnknownAccount(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if err := svc.Charge(context.Background(), "ghost", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRefundRestoresBalance(t *testing.T) {
	repo := NewMemoryRepo()
	seedAccount(t, repo, 5)
	svc := NewService(repo)

	if err := svc.Charge(context.Background(), "user-1", 1); err != nil {
		t.Fatalf("charge: %v", err)
	}
	svc.Refund(context.Background(), "user-1", 1)

	if got := balance(t, repo); got != 5 {
		t.Fatalf("expected 5 credits after refund, got %d", got)
	}
}

func TestEnsureGrantsInitialCreditsOnlyOnce(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	first, err := svc.Ensure(context.Background(), Account{ID: "user-1", Email: "u@example.com"}, 5)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if first.Credits != 5 {
		t.Fatalf("expected 5 starter credits, got %d", first.Credits)
	}

	if err := svc.Charge(context.Background(), "user-1", 2); err != nil {
		t.Fatalf("charge: %v", err)
	}

	again, err := svc.Ensure(context.Background(), Account{ID: "user-1", Email: "new@example.com"}, 5)
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if again.Credits != 3 {
		t.Fatalf("re-login must not re-grant credits; got %d", again.Credits)
	}
	if again.Email != "new@example.com" {
		t.Fatalf("expected identity refresh on re-login, got %q", again.Email)
	}
}

func TestConcurrentChargesNeverOverdraw(t *testing.T) {
	repo := NewMemoryRepo()
	seedAccount(t, repo, 5)
	svc := NewService(repo)

	const workers = 20
	var wg sync.WaitGroup
	succeeded := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Charge(context.Background(), "user-1", 1); err == nil {
				succeeded <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(succeeded)

	wins := 0
	for range succeeded {
		wins++
	}
	if wins != 5 {
		t.Fatalf("expected exactly 5 successful charges, got %d", wins)
	}
	if got := balance(t, repo); got != 0 {
		t.Fatalf("expected 0 credits, got %d", got)
	}
}
