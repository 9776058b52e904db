package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/dbpool"
	"github.com/brokeragehq/backoffice/internal/models"
	"github.com/brokeragehq/backoffice/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := dbpool.NewPool(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	sharedEnv = &testEnv{pool: pool, log: log}

	return sharedEnv
}

// setupTestBase creates a Base plus a unique ID prefix for this test's
// rows. Everything carrying the prefix is removed on cleanup, change log
// included, so tests stay independent on a shared database.
func setupTestBase(t *testing.T) (store.Base, string) {
	t.Helper()

	env := getTestEnv(t)
	prefix := "t" + uuid.New().String()[:8] + "-"

	t.Cleanup(func() {
		ctx := context.Background()
		like := prefix + "%"
		// Delete in dependency order: orders/transactions, accounts, clients, instruments.
		env.pool.Exec(ctx, "DELETE FROM bo_orders WHERE id LIKE $1", like)       //nolint:errcheck // best-effort cleanup
		env.pool.Exec(ctx, "DELETE FROM bo_transactions WHERE id LIKE $1", like) //nolint:errcheck // best-effort cleanup
		env.pool.Exec(ctx, "DELETE FROM bo_accounts WHERE id LIKE $1", like)     //nolint:errcheck // best-effort cleanup
		env.pool.Exec(ctx, "DELETE FROM bo_clients WHERE id LIKE $1", like)      //nolint:errcheck // best-effort cleanup
		env.pool.Exec(ctx, "DELETE FROM bo_instruments WHERE id LIKE $1", like)  //nolint:errcheck // best-effort cleanup
		env.pool.Exec(ctx, "DELETE FROM bo_change_log WHERE entity_id LIKE $1", like) //nolint:errcheck // best-effort cleanup
	})

	reg := audit.NewRegistry()
	models.RegisterSchemas(reg)

	base := store.Base{Pool: env.pool, Log: env.log, Rec: audit.NewRecorder(reg)}

	return base, prefix
}

func createTestClient(t *testing.T, s *store.ClientStore, prefix string) *models.Client {
	t.Helper()

	req := &models.CreateClientRequest{
		ID:    prefix + "client",
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("validating client request: %v", err)
	}

	c, err := s.Create(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("creating test client: %v", err)
	}

	return c
}

func createTestAccount(t *testing.T, s *store.AccountStore, prefix, clientID string) *models.Account {
	t.Helper()

	req := &models.CreateAccountRequest{
		ID:       prefix + "acc",
		ClientID: clientID,
		Number:   prefix + "num",
		Currency: "USD",
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("validating account request: %v", err)
	}

	a, err := s.Create(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("creating test account: %v", err)
	}

	return a
}
