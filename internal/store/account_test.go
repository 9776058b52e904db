package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/models"
	"github.com/brokeragehq/backoffice/internal/store"
)

func TestAccountBalanceNoOpNormalization(t *testing.T) {
	base, prefix := setupTestBase(t)
	clients := store.NewClientStore(base)
	accounts := store.NewAccountStore(base)
	ctx := context.Background()

	c := createTestClient(t, clients, prefix)

	a, err := accounts.Create(ctx, &models.CreateAccountRequest{
		ID:       prefix + "acc",
		ClientID: c.ID,
		Number:   prefix + "num",
		Currency: "USD",
		Type:     models.AccountCash,
		Status:   models.AccountActive,
		Tariff:   "basic",
		Balance:  "100.50",
	}, nil)
	if err != nil {
		t.Fatalf("creating account: %v", err)
	}

	// "100.5000" is the same amount as "100.50" under decimal
	// normalization, so this update is a token-preserving no-op.
	upd, err := accounts.Update(ctx, a.ID, &models.UpdateAccountRequest{
		Version: a.Version.String(),
		Balance: strPtr("100.5000"),
	}, nil)
	if err != nil {
		t.Fatalf("no-op balance update: %v", err)
	}
	if upd.Version != a.Version {
		t.Errorf("equivalent balance advanced token: %v -> %v", a.Version, upd.Version)
	}

	// A genuinely different amount must advance the token and record
	// exactly one field change.
	upd, err = accounts.Update(ctx, a.ID, &models.UpdateAccountRequest{
		Version: a.Version.String(),
		Balance: strPtr("250"),
	}, nil)
	if err != nil {
		t.Fatalf("balance update: %v", err)
	}
	if upd.Version == a.Version {
		t.Error("balance change did not advance token")
	}

	changes := store.NewChangeLogStore(base)
	page, err := changes.List(ctx, audit.Query{
		EntityType: models.EntityAccount,
		EntityID:   a.ID,
		ChangeType: string(audit.Modified),
	}, 1, 10)
	if err != nil {
		t.Fatalf("listing account history: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("modified records = %d, want 1", len(page.Items))
	}
	if got := page.Items[0].Changes; len(got) != 1 || got[0].Field != "balance" {
		t.Errorf("recorded changes = %+v, want single balance change", got)
	}
}

func TestAccountCreateForMissingClient(t *testing.T) {
	base, prefix := setupTestBase(t)
	accounts := store.NewAccountStore(base)
	ctx := context.Background()

	_, err := accounts.Create(ctx, &models.CreateAccountRequest{
		ID:       prefix + "acc",
		ClientID: prefix + "nobody",
		Number:   prefix + "num",
		Currency: "USD",
		Type:     models.AccountCash,
		Status:   models.AccountActive,
		Tariff:   "basic",
		Balance:  "0",
	}, nil)
	if !errors.Is(err, models.ErrClientNotFound) {
		t.Errorf("create for missing client = %v, want ErrClientNotFound", err)
	}
}

func TestAccountDuplicateNumber(t *testing.T) {
	base, prefix := setupTestBase(t)
	clients := store.NewClientStore(base)
	accounts := store.NewAccountStore(base)
	ctx := context.Background()

	c := createTestClient(t, clients, prefix)
	a := createTestAccount(t, accounts, prefix, c.ID)

	_, err := accounts.Create(ctx, &models.CreateAccountRequest{
		ID:       prefix + "acc2",
		ClientID: c.ID,
		Number:   a.Number,
		Currency: "USD",
		Type:     models.AccountCash,
		Status:   models.AccountActive,
		Tariff:   "basic",
		Balance:  "0",
	}, nil)
	if !errors.Is(err, models.ErrDuplicateKey) {
		t.Errorf("duplicate number error = %v, want ErrDuplicateKey", err)
	}
}

func TestAccountListByClient(t *testing.T) {
	base, prefix := setupTestBase(t)
	clients := store.NewClientStore(base)
	accounts := store.NewAccountStore(base)
	ctx := context.Background()

	c := createTestClient(t, clients, prefix)

	for _, suffix := range []string{"a", "b", "c"} {
		_, err := accounts.Create(ctx, &models.CreateAccountRequest{
			ID:       prefix + "acc-" + suffix,
			ClientID: c.ID,
			Number:   prefix + "num-" + suffix,
			Currency: "USD",
			Type:     models.AccountCash,
			Status:   models.AccountActive,
			Tariff:   "basic",
			Balance:  "0",
		}, nil)
		if err != nil {
			t.Fatalf("creating account %s: %v", suffix, err)
		}
	}

	got, err := accounts.List(ctx, c.ID, "", 10, 0)
	if err != nil {
		t.Fatalf("listing accounts: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("accounts listed = %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].ID >= got[i].ID {
			t.Errorf("list not ordered by ID: %q before %q", got[i-1].ID, got[i].ID)
		}
	}
}
