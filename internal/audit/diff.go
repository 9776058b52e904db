package audit

// Absent is the sentinel representation for a field that has no value on
// one side of a diff: every field of a created entity changes from Absent,
// every field of a deleted entity changes to Absent. It is a defined value
// rather than a language nil so change records render uniformly.
const Absent = "(absent)"

// FieldChange is one field's before/after pair within a change record.
// It is emitted only when the two canonical representations differ.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// Diff compares two field-value snapshots under the given schema and
// returns the changed fields in schema-declaration order. A key missing
// from either snapshot diffs against Absent. Identical representations
// produce no FieldChange, so a no-op update yields an empty result.
func Diff(fields []FieldDescriptor, before, after map[string]string) []FieldChange {
	var changes []FieldChange

	for _, f := range fields {
		oldVal, ok := before[f.Name]
		if !ok {
			oldVal = Absent
		}

		newVal, ok := after[f.Name]
		if !ok {
			newVal = Absent
		}

		if oldVal != newVal {
			changes = append(changes, FieldChange{Field: f.Name, Old: oldVal, New: newVal})
		}
	}

	return changes
}
