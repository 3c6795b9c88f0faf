package ledger

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/akylbek/payment-system/payment-gateway/internal/models"
	"github.com/akylbek/payment-system/payment-gateway/internal/result"
)

func pendingRecord(id string) models.PaymentRecord {
	return models.PaymentRecord{
		ID:           id,
		Status:       models.StatusPending,
		CardLastFour: "4242",
		ExpiryMonth:  6,
		ExpiryYear:   2027,
		Currency:     "USD",
		Amount:       100,
	}
}

func TestAddAndGet(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	if res := l.Add(ctx, pendingRecord("pay_1")); res.IsFailure() {
		t.Fatalf("add failed: %v", res.Err())
	}

	got := l.Get(ctx, "pay_1")
	if got.IsFailure() {
		t.Fatalf("get failed: %v", got.Err())
	}
	if got.Data().CardLastFour != "4242" || got.Data().Status != models.StatusPending {
		t.Fatalf("unexpected record: %+v", got.Data())
	}
}

func TestDuplicateAddFailsAndSizeUnchanged(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	if res := l.Add(ctx, pendingRecord("pay_1")); res.IsFailure() {
		t.Fatalf("first add failed: %v", res.Err())
	}
	second := l.Add(ctx, pendingRecord("pay_1"))
	if second.IsSuccess() {
		t.Fatalf("expected duplicate add to fail")
	}
	if second.Err().Kind != result.Conflict {
		t.Fatalf("expected Conflict, got %s", second.Err().Kind)
	}

	count, err := l.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record after duplicate add, got %d", count)
	}
}

func TestGetUnknownIsNotFound(t *testing.T) {
	l := NewMemoryLedger()

	res := l.Get(context.Background(), "pay_missing")
	if res.IsSuccess() {
		t.Fatalf("expected failure for unknown id")
	}
	if res.Err().Kind != result.NotFound {
		t.Fatalf("expected NotFound, got %s", res.Err().Kind)
	}
}

func TestUpdateStatus(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	l.Add(ctx, pendingRecord("pay_1"))

	updated := l.UpdateStatus(ctx, "pay_1", models.StatusAuthorized)
	if updated.IsFailure() {
		t.Fatalf("update failed: %v", updated.Err())
	}
	if updated.Data().Status != models.StatusAuthorized {
		t.Fatalf("expected Authorized, got %s", updated.Data().Status)
	}

	// Terminal records never move again.
	again := l.UpdateStatus(ctx, "pay_1", models.StatusDeclined)
	if again.IsSuccess() {
		t.Fatalf("expected update of terminal record to fail")
	}
	if again.Err().Kind != result.Conflict {
		t.Fatalf("expected Conflict, got %s", again.Err().Kind)
	}

	if res := l.UpdateStatus(ctx, "pay_missing", models.StatusDeclined); res.Err() == nil || res.Err().Kind != result.NotFound {
		t.Fatalf("expected NotFound for unknown id")
	}
}

func TestConcurrentAddsDistinctIDs(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	const callers = 8
	const perCaller = 50

	var wg sync.WaitGroup
	for m := 0; m < callers; m++ {
		wg.Add(1)
		go func(m int) {
			defer wg.Done()
			for i := 0; i < perCaller; i++ {
				id := fmt.Sprintf("pay_%d_%d", m, i)
				if res := l.Add(ctx, pendingRecord(id)); res.IsFailure() {
					t.Errorf("add %s failed: %v", id, res.Err())
				}
			}
		}(m)
	}
	wg.Wait()

	count, err := l.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != callers*perCaller {
		t.Fatalf("expected %d records, got %d", callers*perCaller, count)
	}

	// Every record is independently retrievable.
	for m := 0; m < callers; m++ {
		for i := 0; i < perCaller; i++ {
			id := fmt.Sprintf("pay_%d_%d", m, i)
			if res := l.Get(ctx, id); res.IsFailure() {
				t.Fatalf("get %s failed: %v", id, res.Err())
			}
		}
	}
}

func TestConcurrentAddsSameID(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	const callers = 16
	var successes atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res := l.Add(ctx, pendingRecord("pay_shared")); res.IsSuccess() {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	if successes.Load() != 1 {
		t.Fatalf("expected exactly one successful add, got %d", successes.Load())
	}
	count, _ := l.Count(ctx)
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}
}

func TestConcurrentStatusUpdatesSameID(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	l.Add(ctx, pendingRecord("pay_1"))

	const callers = 16
	var successes atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := models.StatusAuthorized
			if i%2 == 1 {
				status = models.StatusDeclined
			}
			if res := l.UpdateStatus(ctx, "pay_1", status); res.IsSuccess() {
				successes.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if successes.Load() != 1 {
		t.Fatalf("expected exactly one successful transition, got %d", successes.Load())
	}

	final := l.Get(ctx, "pay_1").Data().Status
	if final != models.StatusAuthorized && final != models.StatusDeclined {
		t.Fatalf("expected a terminal status, got %s", final)
	}
}
