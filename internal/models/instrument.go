package models

import (
	"time"

	"github.com/brokeragehq/backoffice/internal/audit"
)

// Instrument statuses.
const (
	InstrumentTrading  = "trading"
	InstrumentHalted   = "halted"
	InstrumentDelisted = "delisted"
)

// Instrument types.
const (
	InstrumentEquity = "equity"
	InstrumentBond   = "bond"
	InstrumentETF    = "etf"
	InstrumentFuture = "future"
)

// Instrument represents a tradeable security.
type Instrument struct {
	ID        string      `json:"id"`
	Symbol    string      `json:"symbol"`
	ISIN      string      `json:"isin,omitempty"`
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Currency  string      `json:"currency"`
	LotSize   int         `json:"lot_size"`
	Status    string      `json:"status"`
	Version   audit.Token `json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Label returns the display label snapshotted into change records.
func (i *Instrument) Label() string { return i.Symbol }

// CreateInstrumentRequest is the payload for listing an instrument.
type CreateInstrumentRequest struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	ISIN     string `json:"isin"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
	LotSize  int    `json:"lot_size"`
	Status   string `json:"status"`
}

// Validate checks required fields, enum membership, and length limits.
func (r *CreateInstrumentRequest) Validate() error {
	if r.ID == "" {
		return ErrMissingField("id")
	}
	if len(r.ID) > maxIDLen {
		return ErrFieldTooLong("id", maxIDLen)
	}
	if r.Symbol == "" {
		return ErrMissingField("symbol")
	}
	if r.Name == "" {
		return ErrMissingField("name")
	}
	if r.Currency == "" {
		return ErrMissingField("currency")
	}

	if r.Type == "" {
		r.Type = InstrumentEquity
	}
	if !oneOf(r.Type, InstrumentEquity, InstrumentBond, InstrumentETF, InstrumentFuture) {
		return ErrInvalidValue("type", r.Type)
	}

	if r.LotSize <= 0 {
		r.LotSize = 1
	}

	if r.Status == "" {
		r.Status = InstrumentTrading
	}
	if !oneOf(r.Status, InstrumentTrading, InstrumentHalted, InstrumentDelisted) {
		return ErrInvalidValue("status", r.Status)
	}

	return nil
}

// UpdateInstrumentRequest is the payload for updating an instrument.
type UpdateInstrumentRequest struct {
	Version string  `json:"version"`
	Name    *string `json:"name,omitempty"`
	LotSize *int    `json:"lot_size,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// Validate checks the supplied fields.
func (r *UpdateInstrumentRequest) Validate() error {
	if r.Version == "" {
		return ErrMissingField("version")
	}
	if r.Name != nil && *r.Name == "" {
		return ErrMissingField("name")
	}
	if r.LotSize != nil && *r.LotSize <= 0 {
		return ErrInvalidValue("lot_size", "non-positive")
	}
	if r.Status != nil && !oneOf(*r.Status, InstrumentTrading, InstrumentHalted, InstrumentDelisted) {
		return ErrInvalidValue("status", *r.Status)
	}

	return nil
}

// Apply copies the supplied fields onto an instrument.
func (r *UpdateInstrumentRequest) Apply(i *Instrument) {
	if r.Name != nil {
		i.Name = *r.Name
	}
	if r.LotSize != nil {
		i.LotSize = *r.LotSize
	}
	if r.Status != nil {
		i.Status = *r.Status
	}
}
