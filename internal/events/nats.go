package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/akylbek/payment-system/payment-gateway/internal/models"
)

const ReconcileSubject = "payment.reconcile.needed"

// NatsReconcileNotifier alerts the external reconciliation process when the
// bank's truth and the local ledger are known to disagree. It only surfaces
// the divergence; nothing in this service resolves it.
type NatsReconcileNotifier struct {
	nc *nats.Conn
}

func NewNatsReconcileNotifier(nc *nats.Conn) *NatsReconcileNotifier {
	return &NatsReconcileNotifier{nc: nc}
}

type reconcileAlert struct {
	PaymentID  string `json:"payment_id"`
	Status     string `json:"status"`
	Reason     string `json:"reason"`
	OccurredAt string `json:"occurred_at"`
}

func (n *NatsReconcileNotifier) NotifyReconciliationNeeded(_ context.Context, record models.PaymentRecord, reason string) error {
	alert := reconcileAlert{
		PaymentID:  record.ID,
		Status:     string(record.Status),
		Reason:     reason,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return n.nc.Publish(ReconcileSubject, payload)
}
