package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-gateway/internal/interfaces"
	"github.com/akylbek/payment-system/payment-gateway/internal/models"
	"github.com/akylbek/payment-system/payment-gateway/internal/result"
	"github.com/akylbek/payment-system/payment-gateway/internal/telemetry"
	"github.com/akylbek/payment-system/payment-gateway/internal/validation"
)

// Orchestrator sequences one payment attempt: record the attempt as Pending,
// call the acquiring bank exactly once, then reconcile the final status into
// the ledger. publisher and reconciler are optional; a nil collaborator
// simply disables that signal.
type Orchestrator struct {
	ledger     interfaces.PaymentLedger
	bank       interfaces.AcquiringBankClient
	publisher  interfaces.StatusPublisher
	reconciler interfaces.ReconciliationNotifier
	logger     *zap.Logger
	newID      func() string
}

func NewOrchestrator(
	ledger interfaces.PaymentLedger,
	bank interfaces.AcquiringBankClient,
	publisher interfaces.StatusPublisher,
	reconciler interfaces.ReconciliationNotifier,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		ledger:     ledger,
		bank:       bank,
		publisher:  publisher,
		reconciler: reconciler,
		logger:     logger,
		newID:      func() string { return "pay_" + uuid.NewString() },
	}
}

// ProcessPayment runs one attempt end to end. A failed Result is an expected
// business outcome; a non-nil error is a fault the outer boundary maps to a
// generic upstream-unavailable signal. No ledger lock is ever held across
// the bank call.
func (o *Orchestrator) ProcessPayment(ctx context.Context, command models.PaymentCommand) (result.Result[models.PaymentRecord], error) {
	ctx, span := otel.Tracer("payment-orchestrator").Start(ctx, "orchestrator.ProcessPayment")
	defer span.End()

	lastFour, err := validation.Last4(command.CardNumber)
	if err != nil {
		// The command was supposed to be pre-validated; a short PAN here is
		// an upstream bug, not a business outcome.
		return result.Result[models.PaymentRecord]{}, fmt.Errorf("extract card last four: %w", err)
	}

	record := models.PaymentRecord{
		ID:           o.newID(),
		Status:       models.StatusPending,
		CardLastFour: lastFour,
		ExpiryMonth:  command.ExpiryMonth,
		ExpiryYear:   command.ExpiryYear,
		Currency:     command.Currency,
		Amount:       command.Amount,
	}
	span.SetAttributes(attribute.String("payment.id", record.ID))

	if addRes := o.ledger.Add(ctx, record); addRes.IsFailure() {
		o.logger.Error("Could not record payment before bank call",
			zap.String("payment_id", record.ID),
			zap.String("kind", addRes.Err().Kind.String()),
			zap.String("reason", addRes.Err().Message),
		)
		// No bank call without a local record: a card must never be charged
		// without a row to reconcile against.
		return result.Failure[models.PaymentRecord](result.Unexpected, "Could not add payment", 0), nil
	}

	// From here a fault must leave the record marked InternalError on a
	// best-effort basis before it propagates.
	defer func() {
		if p := recover(); p != nil {
			o.repairToInternalError(ctx, record.ID)
			panic(p)
		}
	}()

	bankRes, err := o.bank.ProcessPayment(ctx, command)
	if err != nil {
		if ctx.Err() != nil {
			// Caller cancellation is not a fault to repair: the record stays
			// Pending, a documented outcome for abandoned attempts.
			o.logger.Warn("Payment canceled mid-flight, record left pending",
				zap.String("payment_id", record.ID),
			)
			return result.Result[models.PaymentRecord]{}, err
		}
		o.repairToInternalError(ctx, record.ID)
		return result.Result[models.PaymentRecord]{}, err
	}

	if bankRes.IsFailure() {
		// Typed bank failure passes through unchanged. The record stays
		// Pending, a stuck state external reconciliation has to resolve.
		o.logger.Warn("Bank call failed, payment left pending",
			zap.String("payment_id", record.ID),
			zap.String("kind", bankRes.Err().Kind.String()),
			zap.String("reason", bankRes.Err().Message),
		)
		telemetry.PaymentsProcessed.WithLabelValues(string(models.StatusPending)).Inc()
		o.notifyReconcile(ctx, record, "bank call failed, payment stuck pending")
		return result.FailureFrom[models.PaymentRecord](*bankRes.Err()), nil
	}

	targetStatus := models.StatusDeclined
	if bankRes.Data().Authorized {
		targetStatus = models.StatusAuthorized
	}

	updateRes := o.ledger.UpdateStatus(ctx, record.ID, targetStatus)
	if updateRes.IsFailure() {
		// The bank outcome is authoritative and the ledger is known stale.
		// The caller must hear "probably true", never plain success or
		// plain failure.
		o.logger.Error("Bank outcome not recorded",
			zap.String("payment_id", record.ID),
			zap.String("bank_status", string(targetStatus)),
			zap.String("reason", updateRes.Err().Message),
		)
		o.notifyReconcile(ctx, record, fmt.Sprintf("bank reported %s but ledger update failed", targetStatus))
		return result.Failure[models.PaymentRecord](result.Transient,
			"Payment authorized but recording failed. We will reconcile.", http.StatusAccepted), nil
	}

	updated := updateRes.Data()
	telemetry.PaymentsProcessed.WithLabelValues(string(updated.Status)).Inc()
	o.publishStatus(ctx, updated)

	o.logger.Info("Payment resolved",
		zap.String("payment_id", updated.ID),
		zap.String("status", string(updated.Status)),
		zap.String("currency", updated.Currency),
		zap.Int64("amount", updated.Amount),
	)
	return result.Success(updated), nil
}

// GetPayment is a pass-through to the ledger.
func (o *Orchestrator) GetPayment(ctx context.Context, id string) result.Result[models.PaymentRecord] {
	return o.ledger.Get(ctx, id)
}

// repairToInternalError is the best-effort cleanup before a fault
// propagates. Its own failure is logged and swallowed so it can never mask
// the original fault. Cancellation of the inbound request must not doom the
// repair, hence the detached context.
func (o *Orchestrator) repairToInternalError(ctx context.Context, id string) {
	repairCtx := context.WithoutCancel(ctx)
	if res := o.ledger.UpdateStatus(repairCtx, id, models.StatusInternalError); res.IsFailure() {
		o.logger.Error("Failed to mark payment as internal error",
			zap.String("payment_id", id),
			zap.String("reason", res.Err().Message),
		)
		return
	}
	telemetry.PaymentsProcessed.WithLabelValues(string(models.StatusInternalError)).Inc()
}

func (o *Orchestrator) publishStatus(ctx context.Context, record models.PaymentRecord) {
	if o.publisher == nil {
		return
	}
	if err := o.publisher.PublishStatusChange(ctx, record); err != nil {
		o.logger.Warn("Failed to publish payment status event",
			zap.String("payment_id", record.ID),
			zap.Error(err),
		)
	}
}

func (o *Orchestrator) notifyReconcile(ctx context.Context, record models.PaymentRecord, reason string) {
	if o.reconciler == nil {
		return
	}
	if err := o.reconciler.NotifyReconciliationNeeded(ctx, record, reason); err != nil {
		o.logger.Warn("Failed to raise reconciliation alert",
			zap.String("payment_id", record.ID),
			zap.Error(err),
		)
	}
}
