package audit_test

import (
	"reflect"
	"testing"

	"github.com/brokeragehq/backoffice/internal/audit"
)

func namedFields(names ...string) []audit.FieldDescriptor {
	fields := make([]audit.FieldDescriptor, 0, len(names))
	for _, n := range names {
		fields = append(fields, audit.FieldDescriptor{Name: n, Value: func(any) string { return "" }})
	}

	return fields
}

func TestDiffEmitsOnlyChangedFields(t *testing.T) {
	fields := namedFields("status", "tariff", "balance")
	before := map[string]string{"status": "active", "tariff": "basic", "balance": "10.5"}
	after := map[string]string{"status": "blocked", "tariff": "basic", "balance": "10.5"}

	changes := audit.Diff(fields, before, after)
	want := []audit.FieldChange{{Field: "status", Old: "active", New: "blocked"}}

	if !reflect.DeepEqual(changes, want) {
		t.Errorf("Diff = %v, want %v", changes, want)
	}
}

func TestDiffNoOp(t *testing.T) {
	fields := namedFields("a", "b")
	snap := map[string]string{"a": "1", "b": "2"}

	if changes := audit.Diff(fields, snap, snap); len(changes) != 0 {
		t.Errorf("Diff of identical snapshots = %v, want empty", changes)
	}
}

func TestDiffCreation(t *testing.T) {
	fields := namedFields("status", "tariff")
	after := map[string]string{"status": "active", "tariff": "basic"}

	changes := audit.Diff(fields, nil, after)
	want := []audit.FieldChange{
		{Field: "status", Old: audit.Absent, New: "active"},
		{Field: "tariff", Old: audit.Absent, New: "basic"},
	}

	if !reflect.DeepEqual(changes, want) {
		t.Errorf("Diff = %v, want %v", changes, want)
	}
}

func TestDiffDeletion(t *testing.T) {
	fields := namedFields("status")
	before := map[string]string{"status": "active"}

	changes := audit.Diff(fields, before, nil)
	want := []audit.FieldChange{{Field: "status", Old: "active", New: audit.Absent}}

	if !reflect.DeepEqual(changes, want) {
		t.Errorf("Diff = %v, want %v", changes, want)
	}
}

func TestDiffDeclarationOrder(t *testing.T) {
	fields := namedFields("z", "m", "a")
	before := map[string]string{"z": "1", "m": "1", "a": "1"}
	after := map[string]string{"z": "2", "m": "2", "a": "2"}

	changes := audit.Diff(fields, before, after)
	if len(changes) != 3 {
		t.Fatalf("len(changes) = %d, want 3", len(changes))
	}
	for i, want := range []string{"z", "m", "a"} {
		if changes[i].Field != want {
			t.Errorf("changes[%d].Field = %q, want %q", i, changes[i].Field, want)
		}
	}
}

func TestDiffSymmetry(t *testing.T) {
	fields := namedFields("status", "tariff", "balance")
	before := map[string]string{"status": "active", "tariff": "basic"}
	after := map[string]string{"status": "blocked", "balance": "100"}

	forward := audit.Diff(fields, before, after)
	backward := audit.Diff(fields, after, before)

	if len(forward) != len(backward) {
		t.Fatalf("asymmetric lengths: %d vs %d", len(forward), len(backward))
	}

	for i := range forward {
		f, b := forward[i], backward[i]
		if f.Field != b.Field || f.Old != b.New || f.New != b.Old {
			t.Errorf("change %d not mirrored: forward %+v, backward %+v", i, f, b)
		}
	}
}
