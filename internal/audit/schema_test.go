package audit_test

import (
	"testing"

	"github.com/brokeragehq/backoffice/internal/audit"
)

type widget struct {
	Name  string
	Color string
}

func widgetFields() []audit.FieldDescriptor {
	return []audit.FieldDescriptor{
		{Name: "name", Value: func(e any) string { return e.(*widget).Name }},
		{Name: "color", Value: func(e any) string { return e.(*widget).Color }},
	}
}

func TestRegisterAndResolve(t *testing.T) {
	reg := audit.NewRegistry()
	reg.Register("widget", widgetFields())

	fields, ok := reg.Resolve("widget")
	if !ok {
		t.Fatal("Resolve(widget) not found")
	}
	if len(fields) != 2 {
		t.Fatalf("len(fields) = %d, want 2", len(fields))
	}
	if fields[0].Name != "name" || fields[1].Name != "color" {
		t.Errorf("field order = %q, %q; want name, color", fields[0].Name, fields[1].Name)
	}
}

func TestRegisterIdempotent(t *testing.T) {
	reg := audit.NewRegistry()
	reg.Register("widget", widgetFields())
	reg.Register("widget", widgetFields()) // same set: no-op
}

func TestRegisterDriftPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("re-registration with a different field set did not panic")
		}
	}()

	reg := audit.NewRegistry()
	reg.Register("widget", widgetFields())
	reg.Register("widget", []audit.FieldDescriptor{
		{Name: "name", Value: func(e any) string { return e.(*widget).Name }},
	})
}

func TestMustResolveUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustResolve on unregistered type did not panic")
		}
	}()

	audit.NewRegistry().MustResolve("gadget")
}

func TestSnapshot(t *testing.T) {
	reg := audit.NewRegistry()
	reg.Register("widget", widgetFields())

	snap := reg.Snapshot("widget", &widget{Name: "w1", Color: "red"})
	if snap["name"] != "w1" || snap["color"] != "red" {
		t.Errorf("snapshot = %v", snap)
	}

	if reg.Snapshot("widget", nil) != nil {
		t.Error("Snapshot(nil entity) should be nil")
	}
}
