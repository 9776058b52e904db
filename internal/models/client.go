package models

import (
	"time"

	"github.com/brokeragehq/backoffice/internal/audit"
)

// Client statuses.
const (
	ClientActive  = "active"
	ClientBlocked = "blocked"
	ClientClosed  = "closed"
)

// Risk profiles.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Client represents a brokerage client.
type Client struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone,omitempty"`
	Status      string      `json:"status"`
	RiskProfile string      `json:"risk_profile"`
	Version     audit.Token `json:"version"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Label returns the display label snapshotted into change records.
func (c *Client) Label() string { return c.ID + " " + c.Name }

// CreateClientRequest is the payload for creating a client.
type CreateClientRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Status      string `json:"status"`
	RiskProfile string `json:"risk_profile"`
}

// Validate checks required fields, enum membership, and length limits,
// filling defaults for optional enums.
func (r *CreateClientRequest) Validate() error {
	if r.ID == "" {
		return ErrMissingField("id")
	}
	if len(r.ID) > maxIDLen {
		return ErrFieldTooLong("id", maxIDLen)
	}
	if r.Name == "" {
		return ErrMissingField("name")
	}
	if len(r.Name) > maxNameLen {
		return ErrFieldTooLong("name", maxNameLen)
	}
	if r.Email == "" {
		return ErrMissingField("email")
	}

	if r.Status == "" {
		r.Status = ClientActive
	}
	if !oneOf(r.Status, ClientActive, ClientBlocked, ClientClosed) {
		return ErrInvalidValue("status", r.Status)
	}

	if r.RiskProfile == "" {
		r.RiskProfile = RiskLow
	}
	if !oneOf(r.RiskProfile, RiskLow, RiskMedium, RiskHigh) {
		return ErrInvalidValue("risk_profile", r.RiskProfile)
	}

	return nil
}

// UpdateClientRequest is the payload for updating a client. Version is the
// opaque token from the last read and is mandatory; nil fields are left
// unchanged.
type UpdateClientRequest struct {
	Version     string  `json:"version"`
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Status      *string `json:"status,omitempty"`
	RiskProfile *string `json:"risk_profile,omitempty"`
}

// Validate checks the supplied fields.
func (r *UpdateClientRequest) Validate() error {
	if r.Version == "" {
		return ErrMissingField("version")
	}
	if r.Name != nil && *r.Name == "" {
		return ErrMissingField("name")
	}
	if r.Name != nil && len(*r.Name) > maxNameLen {
		return ErrFieldTooLong("name", maxNameLen)
	}
	if r.Email != nil && *r.Email == "" {
		return ErrMissingField("email")
	}
	if r.Status != nil && !oneOf(*r.Status, ClientActive, ClientBlocked, ClientClosed) {
		return ErrInvalidValue("status", *r.Status)
	}
	if r.RiskProfile != nil && !oneOf(*r.RiskProfile, RiskLow, RiskMedium, RiskHigh) {
		return ErrInvalidValue("risk_profile", *r.RiskProfile)
	}

	return nil
}

// Apply copies the supplied fields onto a client.
func (r *UpdateClientRequest) Apply(c *Client) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.Status != nil {
		c.Status = *r.Status
	}
	if r.RiskProfile != nil {
		c.RiskProfile = *r.RiskProfile
	}
}
