package models

import (
	"time"

	"github.com/brokeragehq/backoffice/internal/audit"
)

// Transaction types.
const (
	TxDeposit    = "deposit"
	TxWithdrawal = "withdrawal"
	TxFee        = "fee"
	TxTrade      = "trade"
)

// Transaction statuses.
const (
	TxPending = "pending"
	TxSettled = "settled"
	TxFailed  = "failed"
)

// Transaction represents a cash movement on an account.
type Transaction struct {
	ID        string      `json:"id"`
	AccountID string      `json:"account_id"`
	Type      string      `json:"type"`
	Amount    string      `json:"amount"`
	Currency  string      `json:"currency"`
	Status    string      `json:"status"`
	SettledAt *time.Time  `json:"settled_at,omitempty"`
	Version   audit.Token `json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Label returns the display label snapshotted into change records.
func (t *Transaction) Label() string { return t.ID }

// CreateTransactionRequest is the payload for booking a transaction.
type CreateTransactionRequest struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}

// Validate checks required fields and enum membership.
func (r *CreateTransactionRequest) Validate() error {
	if r.ID == "" {
		return ErrMissingField("id")
	}
	if len(r.ID) > maxIDLen {
		return ErrFieldTooLong("id", maxIDLen)
	}
	if r.AccountID == "" {
		return ErrMissingField("account_id")
	}
	if !oneOf(r.Type, TxDeposit, TxWithdrawal, TxFee, TxTrade) {
		return ErrInvalidValue("type", r.Type)
	}
	if r.Amount == "" {
		return ErrMissingField("amount")
	}
	if r.Currency == "" {
		return ErrMissingField("currency")
	}

	return nil
}

// UpdateTransactionRequest is the payload for settling or failing a
// transaction.
type UpdateTransactionRequest struct {
	Version   string     `json:"version"`
	Status    *string    `json:"status,omitempty"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

// Validate checks the supplied fields.
func (r *UpdateTransactionRequest) Validate() error {
	if r.Version == "" {
		return ErrMissingField("version")
	}
	if r.Status != nil && !oneOf(*r.Status, TxPending, TxSettled, TxFailed) {
		return ErrInvalidValue("status", *r.Status)
	}

	return nil
}

// Apply copies the supplied fields onto a transaction.
func (r *UpdateTransactionRequest) Apply(t *Transaction) {
	if r.Status != nil {
		t.Status = *r.Status
	}
	if r.SettledAt != nil {
		t.SettledAt = r.SettledAt
	}
}
