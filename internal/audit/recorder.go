package audit

import (
	"fmt"
	"time"
)

// CheckToken compares a caller-supplied version token against the
// authoritative stored one. The caller must hold the row lock that
// serializes writes to the entity (the stores take FOR UPDATE before
// calling), so a passing check cannot be invalidated before the write
// in the same transaction commits.
func CheckToken(entityType, entityID string, supplied, current Token) error {
	if supplied != current {
		return &ConflictError{
			EntityType: entityType,
			EntityID:   entityID,
			Supplied:   supplied,
			Current:    current,
		}
	}

	return nil
}

// Mutation describes one intended entity change for the Recorder to plan.
// Before and After are schema snapshots (see Registry.Snapshot); nil means
// the entity does not exist on that side.
type Mutation struct {
	EntityType string
	EntityID   string
	Type       ChangeType
	Before     map[string]string
	After      map[string]string
	Supplied   Token
	Current    Token
	Actor      *string
	Label      string
}

// Plan is the outcome of planning a mutation. A nil Record means the
// mutation is a no-op (a modify that changed nothing): the store must not
// write anything and Next equals the unchanged current token.
type Plan struct {
	Record *ChangeRecord
	Next   Token
}

// Recorder plans change commits: it checks the version token, diffs the
// snapshots under the registered schema, suppresses no-op modifies, and
// issues the next token. Execution — the entity write, the version
// advance, and the change-record insert in one transaction — belongs to
// the entity stores.
type Recorder struct {
	reg *Registry
}

// NewRecorder creates a Recorder over the given schema registry.
func NewRecorder(reg *Registry) *Recorder {
	return &Recorder{reg: reg}
}

// Registry returns the underlying schema registry.
func (r *Recorder) Registry() *Registry { return r.reg }

// Snapshot projects an entity through the registered schema.
func (r *Recorder) Snapshot(entityType string, entity any) map[string]string {
	return r.reg.Snapshot(entityType, entity)
}

// PlanCommit validates and plans a mutation. Conflicts are returned
// unchanged for the caller to surface; an unregistered entity type panics.
func (r *Recorder) PlanCommit(m Mutation) (Plan, error) {
	fields := r.reg.MustResolve(m.EntityType)

	if !m.Type.Valid() {
		return Plan{}, fmt.Errorf("invalid change type %q", m.Type)
	}

	if m.Type != Created {
		if err := CheckToken(m.EntityType, m.EntityID, m.Supplied, m.Current); err != nil {
			return Plan{}, err
		}
	}

	changes := Diff(fields, m.Before, m.After)

	// Saving an unmodified entity is a no-op: no record, no token advance.
	if m.Type == Modified && len(changes) == 0 {
		return Plan{Record: nil, Next: m.Current}, nil
	}

	next := m.Current.Next()

	return Plan{
		Record: &ChangeRecord{
			EntityType: m.EntityType,
			EntityID:   m.EntityID,
			Type:       m.Type,
			Actor:      m.Actor,
			Label:      m.Label,
			Changes:    changes,
			RecordedAt: time.Now().UTC(),
		},
		Next: next,
	}, nil
}
