package client

import "time"

// Version tokens are opaque strings. Echo the token you last read back on
// your next update; the server rejects stale ones with a version conflict
// that carries the live token.

// ClientRecord is a brokerage client.
type ClientRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Status      string    `json:"status"`
	RiskProfile string    `json:"risk_profile"`
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Account is a brokerage account owned by a client. Balance is a decimal
// string.
type Account struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Number    string    `json:"number"`
	Currency  string    `json:"currency"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Tariff    string    `json:"tariff"`
	Balance   string    `json:"balance"`
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Instrument is a tradeable security.
type Instrument struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	ISIN      string    `json:"isin,omitempty"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Currency  string    `json:"currency"`
	LotSize   int       `json:"lot_size"`
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Order is a trade order placed against an account. Price is a decimal
// string.
type Order struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	InstrumentID string    `json:"instrument_id"`
	Side         string    `json:"side"`
	Quantity     int64     `json:"quantity"`
	Price        string    `json:"price"`
	Status       string    `json:"status"`
	PlacedAt     time.Time `json:"placed_at"`
	Version      string    `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Transaction is a cash movement on an account. Amount is a decimal string.
type Transaction struct {
	ID        string     `json:"id"`
	AccountID string     `json:"account_id"`
	Type      string     `json:"type"`
	Amount    string     `json:"amount"`
	Currency  string     `json:"currency"`
	Status    string     `json:"status"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
	Version   string     `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FieldChange is one audited field transition within a change record.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// ChangeRecord is one entry in the append-only change log.
type ChangeRecord struct {
	ID         int64         `json:"id"`
	EntityType string        `json:"entity_type"`
	EntityID   string        `json:"entity_id"`
	ChangeType string        `json:"change_type"`
	Actor      *string       `json:"actor,omitempty"`
	Label      string        `json:"label"`
	Changes    []FieldChange `json:"changes"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// ChangePage is a page of the change log, newest first.
type ChangePage struct {
	Items      []ChangeRecord `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalCount int64          `json:"total_count"`
}

// CreateClientRequest is the payload for creating a client.
type CreateClientRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Status      string `json:"status,omitempty"`
	RiskProfile string `json:"risk_profile,omitempty"`
}

// UpdateClientRequest modifies a client. Version is required; nil fields
// are left unchanged.
type UpdateClientRequest struct {
	Version     string  `json:"version"`
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Status      *string `json:"status,omitempty"`
	RiskProfile *string `json:"risk_profile,omitempty"`
}

// CreateAccountRequest is the payload for opening an account.
type CreateAccountRequest struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	Number   string `json:"number"`
	Currency string `json:"currency"`
	Type     string `json:"type,omitempty"`
	Status   string `json:"status,omitempty"`
	Tariff   string `json:"tariff,omitempty"`
	Balance  string `json:"balance,omitempty"`
}

// UpdateAccountRequest modifies an account.
type UpdateAccountRequest struct {
	Version string  `json:"version"`
	Status  *string `json:"status,omitempty"`
	Tariff  *string `json:"tariff,omitempty"`
	Balance *string `json:"balance,omitempty"`
}

// CreateInstrumentRequest is the payload for listing an instrument.
type CreateInstrumentRequest struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	ISIN     string `json:"isin,omitempty"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
	LotSize  int    `json:"lot_size,omitempty"`
	Status   string `json:"status,omitempty"`
}

// UpdateInstrumentRequest modifies an instrument.
type UpdateInstrumentRequest struct {
	Version string  `json:"version"`
	Name    *string `json:"name,omitempty"`
	LotSize *int    `json:"lot_size,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// CreateOrderRequest is the payload for booking an order.
type CreateOrderRequest struct {
	ID           string `json:"id"`
	AccountID    string `json:"account_id"`
	InstrumentID string `json:"instrument_id"`
	Side         string `json:"side"`
	Quantity     int64  `json:"quantity"`
	Price        string `json:"price"`
}

// UpdateOrderRequest modifies an order.
type UpdateOrderRequest struct {
	Version  string  `json:"version"`
	Status   *string `json:"status,omitempty"`
	Price    *string `json:"price,omitempty"`
	Quantity *int64  `json:"quantity,omitempty"`
}

// CreateTransactionRequest is the payload for booking a transaction.
type CreateTransactionRequest struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}

// UpdateTransactionRequest modifies a transaction.
type UpdateTransactionRequest struct {
	Version   string     `json:"version"`
	Status    *string    `json:"status,omitempty"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

// ChangeQuery filters the cross-entity change feed. Zero values mean "no
// filter"; filters combine conjunctively.
type ChangeQuery struct {
	EntityType string
	EntityID   string
	Actor      string
	ChangeType string
	Label      string
	From       *time.Time
	To         *time.Time
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	FeedClients   int     `json:"feed_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
