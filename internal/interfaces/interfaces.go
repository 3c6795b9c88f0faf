package interfaces

import (
	"context"

	"github.com/akylbek/payment-system/payment-gateway/internal/models"
	"github.com/akylbek/payment-system/payment-gateway/internal/result"
)

// PaymentLedger is the contract for durable payment record storage. Add and
// UpdateStatus must be atomic per id under concurrent callers.
type PaymentLedger interface {
	Add(ctx context.Context, record models.PaymentRecord) result.Result[bool]
	Get(ctx context.Context, id string) result.Result[models.PaymentRecord]
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) result.Result[models.PaymentRecord]
	Count(ctx context.Context) (int, error)
}

// AcquiringBankClient issues exactly one authorization attempt per call.
// A failed Result carries a typed business failure from the bank; a non-nil
// error is a fault (transport error, timeout, or an unclassifiable status)
// the outer boundary maps to a generic upstream-unavailable signal.
type AcquiringBankClient interface {
	ProcessPayment(ctx context.Context, command models.PaymentCommand) (result.Result[models.BankResponse], error)
}

// StatusPublisher broadcasts resolved payment outcomes. Publish failures are
// logged by callers, never surfaced to the payment caller.
type StatusPublisher interface {
	PublishStatusChange(ctx context.Context, record models.PaymentRecord) error
}

// ReconciliationNotifier raises an out-of-band alert when the bank and the
// ledger are known to disagree. Alerting is the entire extent of in-process
// reconciliation.
type ReconciliationNotifier interface {
	NotifyReconciliationNeeded(ctx context.Context, record models.PaymentRecord, reason string) error
}
