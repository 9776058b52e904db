package models

import (
	"time"

	"github.com/brokeragehq/backoffice/internal/audit"
)

// Order sides.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Order statuses.
const (
	OrderNew       = "new"
	OrderFilled    = "filled"
	OrderCancelled = "cancelled"
	OrderRejected  = "rejected"
)

// Order represents a trade order placed against an account.
type Order struct {
	ID           string      `json:"id"`
	AccountID    string      `json:"account_id"`
	InstrumentID string      `json:"instrument_id"`
	Side         string      `json:"side"`
	Quantity     int64       `json:"quantity"`
	Price        string      `json:"price"`
	Status       string      `json:"status"`
	PlacedAt     time.Time   `json:"placed_at"`
	Version      audit.Token `json:"version"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Label returns the display label snapshotted into change records.
func (o *Order) Label() string { return o.ID }

// CreateOrderRequest is the payload for booking an order.
type CreateOrderRequest struct {
	ID           string `json:"id"`
	AccountID    string `json:"account_id"`
	InstrumentID string `json:"instrument_id"`
	Side         string `json:"side"`
	Quantity     int64  `json:"quantity"`
	Price        string `json:"price"`
}

// Validate checks required fields and enum membership.
func (r *CreateOrderRequest) Validate() error {
	if r.ID == "" {
		return ErrMissingField("id")
	}
	if len(r.ID) > maxIDLen {
		return ErrFieldTooLong("id", maxIDLen)
	}
	if r.AccountID == "" {
		return ErrMissingField("account_id")
	}
	if r.InstrumentID == "" {
		return ErrMissingField("instrument_id")
	}
	if !oneOf(r.Side, SideBuy, SideSell) {
		return ErrInvalidValue("side", r.Side)
	}
	if r.Quantity <= 0 {
		return ErrInvalidValue("quantity", "non-positive")
	}
	if r.Price == "" {
		return ErrMissingField("price")
	}

	return nil
}

// UpdateOrderRequest is the payload for amending an order. Back-office
// amendments are limited to status, price, and quantity.
type UpdateOrderRequest struct {
	Version  string  `json:"version"`
	Status   *string `json:"status,omitempty"`
	Price    *string `json:"price,omitempty"`
	Quantity *int64  `json:"quantity,omitempty"`
}

// Validate checks the supplied fields.
func (r *UpdateOrderRequest) Validate() error {
	if r.Version == "" {
		return ErrMissingField("version")
	}
	if r.Status != nil && !oneOf(*r.Status, OrderNew, OrderFilled, OrderCancelled, OrderRejected) {
		return ErrInvalidValue("status", *r.Status)
	}
	if r.Price != nil && *r.Price == "" {
		return ErrMissingField("price")
	}
	if r.Quantity != nil && *r.Quantity <= 0 {
		return ErrInvalidValue("quantity", "non-positive")
	}

	return nil
}

// Apply copies the supplied fields onto an order.
func (r *UpdateOrderRequest) Apply(o *Order) {
	if r.Status != nil {
		o.Status = *r.Status
	}
	if r.Price != nil {
		o.Price = *r.Price
	}
	if r.Quantity != nil {
		o.Quantity = *r.Quantity
	}
}
