// Package audit implements the change-tracking core: a static per-entity
// field schema registry, a deterministic field-level differ, opaque version
// tokens for optimistic concurrency, and commit planning that ties the three
// together. Entity stores execute the resulting plans inside their own
// database transactions so the entity write, the version advance, and the
// change record land atomically.
package audit

import (
	"fmt"
	"sync"
)

// FieldDescriptor names one audited field and knows how to project its
// current value from an entity into the canonical string representation
// used for diffing. The same descriptor builds both the before and after
// snapshots, which is what guarantees diff symmetry.
type FieldDescriptor struct {
	Name  string
	Value func(entity any) string
}

// Registry holds the audited field schemas for every entity type. Schemas
// are registered once at process start; an unknown entity type at commit
// time is a programmer error (a mutation path forgot to register) and
// panics rather than returning a recoverable error.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string][]FieldDescriptor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string][]FieldDescriptor)}
}

// Register records the audited field set for an entity type. Registering
// the same type again with an identical field list is a no-op; a different
// field list means two code paths disagree about the schema, and that drift
// must not pass silently, so it panics.
func (r *Registry) Register(entityType string, fields []FieldDescriptor) {
	if len(fields) == 0 {
		panic(fmt.Sprintf("audit: empty schema for entity type %q", entityType))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.schemas[entityType]; ok {
		if !sameFieldNames(existing, fields) {
			panic(fmt.Sprintf("audit: conflicting schema re-registration for entity type %q", entityType))
		}

		return
	}

	r.schemas[entityType] = fields
}

// Resolve returns the field schema for an entity type.
func (r *Registry) Resolve(entityType string) ([]FieldDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fields, ok := r.schemas[entityType]

	return fields, ok
}

// MustResolve returns the field schema for an entity type, panicking if it
// was never registered.
func (r *Registry) MustResolve(entityType string) []FieldDescriptor {
	fields, ok := r.Resolve(entityType)
	if !ok {
		panic(fmt.Sprintf("audit: no schema registered for entity type %q", entityType))
	}

	return fields
}

// Snapshot projects an entity into its field-value map using the registered
// schema. A nil entity yields a nil snapshot (every field absent), which is
// how create and delete sides are represented.
func (r *Registry) Snapshot(entityType string, entity any) map[string]string {
	if entity == nil {
		return nil
	}

	fields := r.MustResolve(entityType)
	snap := make(map[string]string, len(fields))

	for _, f := range fields {
		snap[f.Name] = f.Value(entity)
	}

	return snap
}

func sameFieldNames(a, b []FieldDescriptor) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}

	return true
}
