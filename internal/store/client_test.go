package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/models"
	"github.com/brokeragehq/backoffice/internal/store"
)

func strPtr(s string) *string { return &s }

func TestClientLifecycle(t *testing.T) {
	base, prefix := setupTestBase(t)
	clients := store.NewClientStore(base)
	changes := store.NewChangeLogStore(base)
	ctx := context.Background()

	c := createTestClient(t, clients, prefix)

	if c.Version != audit.FirstToken {
		t.Fatalf("created version = %v, want %v", c.Version, audit.FirstToken)
	}
	if c.Status != models.ClientActive {
		t.Errorf("default status = %q, want %q", c.Status, models.ClientActive)
	}

	got, err := clients.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("getting client: %v", err)
	}
	if got.Version != c.Version {
		t.Errorf("get version = %v, want %v", got.Version, c.Version)
	}

	// Update with the current token must succeed and advance the version.
	upd, err := clients.Update(ctx, c.ID, &models.UpdateClientRequest{
		Version: c.Version.String(),
		Status:  strPtr(models.ClientBlocked),
	}, nil)
	if err != nil {
		t.Fatalf("updating client: %v", err)
	}
	if upd.Version == c.Version {
		t.Error("update did not advance the version token")
	}
	if upd.Status != models.ClientBlocked {
		t.Errorf("updated status = %q, want %q", upd.Status, models.ClientBlocked)
	}

	// Replaying the stale token must conflict and report both tokens.
	_, err = clients.Update(ctx, c.ID, &models.UpdateClientRequest{
		Version: c.Version.String(),
		Status:  strPtr(models.ClientClosed),
	}, nil)

	var conflict *audit.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("stale update error = %v, want ConflictError", err)
	}
	if conflict.Current != upd.Version {
		t.Errorf("conflict current = %v, want %v", conflict.Current, upd.Version)
	}

	// A no-op update must keep the token and write no record.
	noop, err := clients.Update(ctx, c.ID, &models.UpdateClientRequest{
		Version: upd.Version.String(),
		Status:  strPtr(models.ClientBlocked),
	}, nil)
	if err != nil {
		t.Fatalf("no-op update: %v", err)
	}
	if noop.Version != upd.Version {
		t.Errorf("no-op advanced token: %v -> %v", upd.Version, noop.Version)
	}

	// Delete with the live token, then verify history survives.
	if err := clients.Delete(ctx, c.ID, upd.Version.String(), nil); err != nil {
		t.Fatalf("deleting client: %v", err)
	}

	if _, err := clients.Get(ctx, c.ID); !errors.Is(err, models.ErrClientNotFound) {
		t.Errorf("get after delete = %v, want ErrClientNotFound", err)
	}

	page, err := changes.List(ctx, audit.Query{
		EntityType: models.EntityClient,
		EntityID:   c.ID,
	}, 1, 50)
	if err != nil {
		t.Fatalf("listing change history: %v", err)
	}

	// created + modified + deleted; the no-op wrote nothing.
	if len(page.Items) != 3 {
		t.Fatalf("history length = %d, want 3", len(page.Items))
	}
	if page.Items[0].Type != audit.Deleted || page.Items[2].Type != audit.Created {
		t.Errorf("history order wrong: newest %q, oldest %q",
			page.Items[0].Type, page.Items[2].Type)
	}
}

func TestClientBadToken(t *testing.T) {
	base, prefix := setupTestBase(t)
	clients := store.NewClientStore(base)
	ctx := context.Background()

	c := createTestClient(t, clients, prefix)

	_, err := clients.Update(ctx, c.ID, &models.UpdateClientRequest{
		Version: "not-a-token",
		Status:  strPtr(models.ClientBlocked),
	}, nil)
	if !errors.Is(err, audit.ErrBadToken) {
		t.Errorf("garbage token error = %v, want ErrBadToken", err)
	}

	err = clients.Delete(ctx, c.ID, "", nil)
	if !errors.Is(err, audit.ErrBadToken) {
		t.Errorf("empty token error = %v, want ErrBadToken", err)
	}
}

func TestClientDuplicateID(t *testing.T) {
	base, prefix := setupTestBase(t)
	clients := store.NewClientStore(base)
	ctx := context.Background()

	c := createTestClient(t, clients, prefix)

	_, err := clients.Create(ctx, &models.CreateClientRequest{
		ID:          c.ID,
		Name:        "Duplicate",
		Email:       "dup@example.com",
		Status:      models.ClientActive,
		RiskProfile: models.RiskLow,
	}, nil)
	if !errors.Is(err, models.ErrDuplicateKey) {
		t.Errorf("duplicate create error = %v, want ErrDuplicateKey", err)
	}
}

func TestClientDeleteWithAccountsBlocked(t *testing.T) {
	base, prefix := setupTestBase(t)
	clients := store.NewClientStore(base)
	accounts := store.NewAccountStore(base)
	ctx := context.Background()

	c := createTestClient(t, clients, prefix)
	createTestAccount(t, accounts, prefix, c.ID)

	err := clients.Delete(ctx, c.ID, c.Version.String(), nil)
	if !errors.Is(err, models.ErrEntityInUse) {
		t.Errorf("delete with accounts error = %v, want ErrEntityInUse", err)
	}
}
