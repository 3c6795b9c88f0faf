package models

import "fmt"

type PaymentStatus string

const (
	StatusPending       PaymentStatus = "Pending"
	StatusAuthorized    PaymentStatus = "Authorized"
	StatusDeclined      PaymentStatus = "Declined"
	StatusInternalError PaymentStatus = "InternalError"
)

// CanTransition reports whether a status change is allowed. Records are
// created Pending and move exactly once, to a terminal status.
func CanTransition(from, to PaymentStatus) bool {
	if from != StatusPending {
		return false
	}
	switch to {
	case StatusAuthorized, StatusDeclined, StatusInternalError:
		return true
	}
	return false
}

// PaymentRecord is the durable unit of record. Only Status mutates after
// creation; the full PAN and CVV are never stored.
type PaymentRecord struct {
	ID           string
	Status       PaymentStatus
	CardLastFour string
	ExpiryMonth  int
	ExpiryYear   int
	Currency     string
	Amount       int64
}

// PaymentCommand is a pre-validated payment attempt. The orchestrator
// treats it as read-only.
type PaymentCommand struct {
	CardNumber  string
	ExpiryMonth int
	ExpiryYear  int
	Currency    string
	Amount      int64
	CVV         string
}

// ExpiryDate renders the card expiry in the MM/YYYY form the bank expects.
func (c PaymentCommand) ExpiryDate() string {
	return fmt.Sprintf("%02d/%04d", c.ExpiryMonth, c.ExpiryYear)
}

// BankResponse is the acquiring bank's answer to one authorization attempt.
// It is never persisted.
type BankResponse struct {
	Authorized        bool
	AuthorizationCode string
}
