// Package models defines the back-office domain entities, their request
// payloads and validation, and the audited field schemas that feed the
// change-tracking core.
package models

import (
	"time"

	"github.com/brokeragehq/backoffice/internal/audit"
)

// Shared length limits for incoming fields.
const (
	maxIDLen   = 64
	maxNameLen = 255
)

// Account statuses.
const (
	AccountActive  = "active"
	AccountBlocked = "blocked"
	AccountClosed  = "closed"
)

// Account types.
const (
	AccountCash   = "cash"
	AccountMargin = "margin"
)

// Account represents a brokerage account owned by a client.
type Account struct {
	ID        string      `json:"id"`
	ClientID  string      `json:"client_id"`
	Number    string      `json:"number"`
	Currency  string      `json:"currency"`
	Type      string      `json:"type"`
	Status    string      `json:"status"`
	Tariff    string      `json:"tariff"`
	Balance   string      `json:"balance"`
	Version   audit.Token `json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Label returns the display label snapshotted into change records.
func (a *Account) Label() string { return a.ID }

// CreateAccountRequest is the payload for opening an account.
type CreateAccountRequest struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	Number   string `json:"number"`
	Currency string `json:"currency"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Tariff   string `json:"tariff"`
	Balance  string `json:"balance"`
}

// Validate checks required fields, enum membership, and length limits,
// filling defaults for optional fields.
func (r *CreateAccountRequest) Validate() error {
	if r.ID == "" {
		return ErrMissingField("id")
	}
	if len(r.ID) > maxIDLen {
		return ErrFieldTooLong("id", maxIDLen)
	}
	if r.ClientID == "" {
		return ErrMissingField("client_id")
	}
	if r.Number == "" {
		return ErrMissingField("number")
	}
	if r.Currency == "" {
		return ErrMissingField("currency")
	}

	if r.Type == "" {
		r.Type = AccountCash
	}
	if !oneOf(r.Type, AccountCash, AccountMargin) {
		return ErrInvalidValue("type", r.Type)
	}

	if r.Status == "" {
		r.Status = AccountActive
	}
	if !oneOf(r.Status, AccountActive, AccountBlocked, AccountClosed) {
		return ErrInvalidValue("status", r.Status)
	}

	if r.Tariff == "" {
		r.Tariff = "basic"
	}

	if r.Balance == "" {
		r.Balance = "0"
	}

	return nil
}

// UpdateAccountRequest is the payload for updating an account. Version is
// the opaque token from the last read and is mandatory.
type UpdateAccountRequest struct {
	Version string  `json:"version"`
	Status  *string `json:"status,omitempty"`
	Tariff  *string `json:"tariff,omitempty"`
	Balance *string `json:"balance,omitempty"`
}

// Validate checks the supplied fields.
func (r *UpdateAccountRequest) Validate() error {
	if r.Version == "" {
		return ErrMissingField("version")
	}
	if r.Status != nil && !oneOf(*r.Status, AccountActive, AccountBlocked, AccountClosed) {
		return ErrInvalidValue("status", *r.Status)
	}
	if r.Tariff != nil && *r.Tariff == "" {
		return ErrMissingField("tariff")
	}

	return nil
}

// Apply copies the supplied fields onto an account.
func (r *UpdateAccountRequest) Apply(a *Account) {
	if r.Status != nil {
		a.Status = *r.Status
	}
	if r.Tariff != nil {
		a.Tariff = *r.Tariff
	}
	if r.Balance != nil {
		a.Balance = *r.Balance
	}
}

// oneOf reports whether v equals one of the allowed values.
func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}

	return false
}
