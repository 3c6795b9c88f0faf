package ledger

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/akylbek/payment-system/payment-gateway/internal/models"
	"github.com/akylbek/payment-system/payment-gateway/internal/result"
)

// PostgresLedger persists payment records in PostgreSQL. The primary key
// carries the insert-once guarantee and the guarded UPDATE carries the
// transition rules, so concurrent writers on one id resolve in the database.
type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS payments (
			id VARCHAR(64) PRIMARY KEY,
			status VARCHAR(32) NOT NULL,
			card_last_four CHAR(4) NOT NULL,
			expiry_month INT NOT NULL,
			expiry_year INT NOT NULL,
			currency CHAR(3) NOT NULL,
			amount BIGINT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status)`,
	}

	for _, query := range queries {
		if _, err := l.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func (l *PostgresLedger) Add(ctx context.Context, record models.PaymentRecord) result.Result[bool] {
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO payments (id, status, card_last_four, expiry_month, expiry_year, currency, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, record.ID, record.Status, record.CardLastFour, record.ExpiryMonth, record.ExpiryYear, record.Currency, record.Amount)
	if err != nil {
		return result.Failure[bool](result.Unexpected, err.Error(), http.StatusInternalServerError)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return result.Failure[bool](result.Unexpected, err.Error(), http.StatusInternalServerError)
	}
	if rows == 0 {
		return result.Failure[bool](result.Conflict, "payment already exists", http.StatusConflict)
	}
	return result.Success(true)
}

func (l *PostgresLedger) Get(ctx context.Context, id string) result.Result[models.PaymentRecord] {
	record, err := l.scanRecord(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return result.Failure[models.PaymentRecord](result.NotFound, "Payment not found.", http.StatusNotFound)
	}
	if err != nil {
		return result.Failure[models.PaymentRecord](result.Unexpected, err.Error(), http.StatusInternalServerError)
	}
	return result.Success(record)
}

func (l *PostgresLedger) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) result.Result[models.PaymentRecord] {
	var record models.PaymentRecord
	err := l.db.QueryRowContext(ctx, `
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING id, status, card_last_four, expiry_month, expiry_year, currency, amount
	`, status, id, models.StatusPending).Scan(
		&record.ID, &record.Status, &record.CardLastFour,
		&record.ExpiryMonth, &record.ExpiryYear, &record.Currency, &record.Amount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		// Either the id is unknown or the record already left Pending.
		if _, lookupErr := l.scanRecord(ctx, id); errors.Is(lookupErr, sql.ErrNoRows) {
			return result.Failure[models.PaymentRecord](result.NotFound, "Payment not found.", http.StatusNotFound)
		}
		return result.Failure[models.PaymentRecord](result.Conflict, "payment status is already final", http.StatusConflict)
	}
	if err != nil {
		return result.Failure[models.PaymentRecord](result.Unexpected, err.Error(), http.StatusInternalServerError)
	}
	return result.Success(record)
}

func (l *PostgresLedger) Count(ctx context.Context) (int, error) {
	var count int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`).Scan(&count)
	return count, err
}

func (l *PostgresLedger) scanRecord(ctx context.Context, id string) (models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := l.db.QueryRowContext(ctx, `
		SELECT id, status, card_last_four, expiry_month, expiry_year, currency, amount
		FROM payments WHERE id = $1
	`, id).Scan(
		&record.ID, &record.Status, &record.CardLastFour,
		&record.ExpiryMonth, &record.ExpiryYear, &record.Currency, &record.Amount,
	)
	return record, err
}
