package audit

import (
	"errors"
	"fmt"
)

// ConflictError is returned when a caller's supplied version token no longer
// matches the stored one: another writer committed in between. The caller
// must reload, re-apply its intent, and retry with the fresh token (or
// surface the conflict to the end user). It is never retried automatically.
type ConflictError struct {
	EntityType string
	EntityID   string
	Supplied   Token
	Current    Token
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict on %s %s: supplied %s, current %s",
		e.EntityType, e.EntityID, e.Supplied, e.Current)
}

// IsConflict reports whether err is (or wraps) a version conflict.
func IsConflict(err error) bool {
	var ce *ConflictError

	return errors.As(err, &ce)
}
