package ledger

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/akylbek/payment-system/payment-gateway/internal/models"
	"github.com/akylbek/payment-system/payment-gateway/internal/result"
)

// MemoryLedger is the default PaymentLedger: a concurrent map of payment
// records keyed by id. Inserts are atomic via LoadOrStore and status updates
// use per-key compare-and-swap, so writers on unrelated ids never contend on
// a shared lock.
type MemoryLedger struct {
	records sync.Map // payment id -> models.PaymentRecord
	size    atomic.Int64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (l *MemoryLedger) Add(_ context.Context, record models.PaymentRecord) result.Result[bool] {
	if _, loaded := l.records.LoadOrStore(record.ID, record); loaded {
		return result.Failure[bool](result.Conflict, "payment already exists", http.StatusConflict)
	}
	l.size.Add(1)
	return result.Success(true)
}

func (l *MemoryLedger) Get(_ context.Context, id string) result.Result[models.PaymentRecord] {
	value, ok := l.records.Load(id)
	if !ok {
		return result.Failure[models.PaymentRecord](result.NotFound, "Payment not found.", http.StatusNotFound)
	}
	return result.Success(value.(models.PaymentRecord))
}

func (l *MemoryLedger) UpdateStatus(_ context.Context, id string, status models.PaymentStatus) result.Result[models.PaymentRecord] {
	for {
		value, ok := l.records.Load(id)
		if !ok {
			return result.Failure[models.PaymentRecord](result.NotFound, "Payment not found.", http.StatusNotFound)
		}

		current := value.(models.PaymentRecord)
		if !models.CanTransition(current.Status, status) {
			return result.Failure[models.PaymentRecord](result.Conflict, "payment status is already final", http.StatusConflict)
		}

		updated := current
		updated.Status = status
		if l.records.CompareAndSwap(id, current, updated) {
			return result.Success(updated)
		}
		// Lost a race on this key; reread and retry.
	}
}

func (l *MemoryLedger) Count(_ context.Context) (int, error) {
	return int(l.size.Load()), nil
}
