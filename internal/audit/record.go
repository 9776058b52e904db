package audit

import "time"

// ChangeType classifies what a change record documents.
type ChangeType string

// Change types. Created and Deleted records are always written; Modified
// records are written only when at least one field actually changed.
const (
	Created  ChangeType = "created"
	Modified ChangeType = "modified"
	Deleted  ChangeType = "deleted"
)

// Valid reports whether t is a known change type.
func (t ChangeType) Valid() bool {
	switch t {
	case Created, Modified, Deleted:
		return true
	}

	return false
}

// ChangeRecord is one append-only audit entry documenting a single
// create/modify/delete of one entity. Records are written atomically with
// the mutation they document, never updated or deleted afterward, and
// deliberately carry no foreign key to the entity tables so deleting an
// entity leaves its history intact.
type ChangeRecord struct {
	// ID is the append-only log sequence. It is the pagination tiebreaker
	// after RecordedAt, since timestamps can collide under concurrent writers.
	ID         int64         `json:"id"`
	EntityType string        `json:"entity_type"`
	EntityID   string        `json:"entity_id"`
	Type       ChangeType    `json:"change_type"`
	// Actor is the acting user's ID; nil means system-initiated.
	Actor      *string       `json:"actor,omitempty"`
	// Label is a human-readable identifier (e.g. "ACC-001") snapshotted at
	// write time so the feed renders without joining back to mutable rows.
	Label      string        `json:"label"`
	Changes    []FieldChange `json:"changes"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// ActorSystem is the filter sentinel matching system-initiated records
// (those with a nil actor).
const ActorSystem = "system"

// Query holds the conjunctive filters for the global change feed.
type Query struct {
	EntityType string
	EntityID   string
	Actor      string // exact user ID, or ActorSystem for nil actors
	ChangeType string
	Label      string // case-insensitive substring match
	From       *time.Time
	To         *time.Time
}
