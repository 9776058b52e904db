package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/models"
	"github.com/brokeragehq/backoffice/internal/store"
)

func TestChangeLogPaginationStability(t *testing.T) {
	base, prefix := setupTestBase(t)
	clients := store.NewClientStore(base)
	changes := store.NewChangeLogStore(base)
	ctx := context.Background()

	c := createTestClient(t, clients, prefix)

	// Nine rapid-fire updates land close enough together that
	// recorded_at alone cannot order them. The id tiebreaker must.
	version := c.Version
	for i := 0; i < 9; i++ {
		upd, err := clients.Update(ctx, c.ID, &models.UpdateClientRequest{
			Version: version.String(),
			Phone:   strPtr(fmt.Sprintf("+1-555-%04d", i)),
		}, nil)
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		version = upd.Version
	}

	q := audit.Query{EntityType: models.EntityClient, EntityID: c.ID}

	var seen []int64
	for page := int64(1); page <= 4; page++ {
		p, err := changes.List(ctx, q, page, 3)
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if p.TotalCount != 10 {
			t.Fatalf("total count = %d, want 10", p.TotalCount)
		}
		if p.Page != page || p.PageSize != 3 {
			t.Fatalf("envelope page = %d/%d, want %d/3", p.Page, p.PageSize, page)
		}
		for _, rec := range p.Items {
			seen = append(seen, rec.ID)
		}
	}

	if len(seen) != 10 {
		t.Fatalf("records across pages = %d, want 10", len(seen))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i-1] <= seen[i] {
			t.Errorf("page walk not strictly descending: id %d before %d", seen[i-1], seen[i])
		}
	}
}

func TestChangeLogFilters(t *testing.T) {
	base, prefix := setupTestBase(t)
	clients := store.NewClientStore(base)
	users := store.NewUserStore(base)
	changes := store.NewChangeLogStore(base)
	ctx := context.Background()

	u, err := users.CreateUser(ctx, "ops-"+prefix, "ops", "key-"+prefix)
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}

	// One system-actor create, one user-actor update.
	c := createTestClient(t, clients, prefix)

	if _, err := clients.Update(ctx, c.ID, &models.UpdateClientRequest{
		Version: c.Version.String(),
		Status:  strPtr(models.ClientBlocked),
	}, &u.ID); err != nil {
		t.Fatalf("updating client: %v", err)
	}

	scope := audit.Query{EntityType: models.EntityClient, EntityID: c.ID}

	// Actor filter: exact user ID.
	byActor := scope
	byActor.Actor = u.ID
	p, err := changes.List(ctx, byActor, 1, 10)
	if err != nil {
		t.Fatalf("actor filter: %v", err)
	}
	if p.TotalCount != 1 || p.Items[0].Type != audit.Modified {
		t.Errorf("actor filter returned %d records (first %v), want 1 modified",
			p.TotalCount, p.Items)
	}

	// Actor filter: the "system" sentinel matches nil actors.
	bySystem := scope
	bySystem.Actor = audit.ActorSystem
	p, err = changes.List(ctx, bySystem, 1, 10)
	if err != nil {
		t.Fatalf("system filter: %v", err)
	}
	if p.TotalCount != 1 || p.Items[0].Type != audit.Created {
		t.Errorf("system filter returned %d records, want 1 created", p.TotalCount)
	}

	// Change type filter.
	byType := scope
	byType.ChangeType = string(audit.Created)
	p, err = changes.List(ctx, byType, 1, 10)
	if err != nil {
		t.Fatalf("type filter: %v", err)
	}
	if p.TotalCount != 1 {
		t.Errorf("type filter total = %d, want 1", p.TotalCount)
	}

	// Label substring match is case-insensitive.
	byLabel := scope
	byLabel.Label = "ADA"
	p, err = changes.List(ctx, byLabel, 1, 10)
	if err != nil {
		t.Fatalf("label filter: %v", err)
	}
	if p.TotalCount != 2 {
		t.Errorf("label filter total = %d, want 2", p.TotalCount)
	}

	// A LIKE metacharacter in the needle is literal, not a wildcard.
	byWild := scope
	byWild.Label = "%"
	p, err = changes.List(ctx, byWild, 1, 10)
	if err != nil {
		t.Fatalf("wildcard label filter: %v", err)
	}
	if p.TotalCount != 0 {
		t.Errorf("literal %% filter total = %d, want 0", p.TotalCount)
	}
}

func TestChangeLogTimeRange(t *testing.T) {
	base, prefix := setupTestBase(t)
	clients := store.NewClientStore(base)
	changes := store.NewChangeLogStore(base)
	ctx := context.Background()

	c := createTestClient(t, clients, prefix)

	rec, err := changes.List(ctx, audit.Query{
		EntityType: models.EntityClient,
		EntityID:   c.ID,
	}, 1, 1)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(rec.Items) != 1 {
		t.Fatalf("records = %d, want 1", len(rec.Items))
	}

	at := rec.Items[0].RecordedAt

	before := at.Add(-1)
	after := at.Add(1)

	within := audit.Query{EntityType: models.EntityClient, EntityID: c.ID, From: &before, To: &after}
	p, err := changes.List(ctx, within, 1, 10)
	if err != nil {
		t.Fatalf("range filter: %v", err)
	}
	if p.TotalCount != 1 {
		t.Errorf("in-range total = %d, want 1", p.TotalCount)
	}

	past := audit.Query{EntityType: models.EntityClient, EntityID: c.ID, To: &before}
	p, err = changes.List(ctx, past, 1, 10)
	if err != nil {
		t.Fatalf("past filter: %v", err)
	}
	if p.TotalCount != 0 {
		t.Errorf("out-of-range total = %d, want 0", p.TotalCount)
	}
}
