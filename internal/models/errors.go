package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for entity lookups.
var (
	ErrClientNotFound      = errors.New("client not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInstrumentNotFound  = errors.New("instrument not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")

	// ErrChangeRecordNotFound covers lookups of individual change log entries.
	ErrChangeRecordNotFound = errors.New("change record not found")
)

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrEntityInUse indicates a delete was blocked because other records still
// reference the entity.
var ErrEntityInUse = errors.New("entity is referenced by other records")

// ErrInvalidPagination indicates an out-of-range page or page size. It is
// rejected at the query-service boundary and never reaches the store.
var ErrInvalidPagination = errors.New("invalid pagination request")

// ErrUnknownEntityType indicates a feed filter or history path named an
// entity type with no registered audit schema.
var ErrUnknownEntityType = errors.New("unknown entity type")

// ErrMissingField returns an error indicating a required field is empty.
func ErrMissingField(field string) error {
	return fmt.Errorf("%s is required", field)
}

// InvalidValueError reports a field or filter holding a value outside its
// allowed set. Handlers map it to HTTP 400.
type InvalidValueError struct {
	Field string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// ErrInvalidValue returns an error indicating a field holds a value outside
// its allowed set.
func ErrInvalidValue(field, value string) error {
	return &InvalidValueError{Field: field, Value: value}
}

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
