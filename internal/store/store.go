// Package store provides focused, single-concern data access stores for
// the back-office entities and their change log.
//
// Each store owns one entity (clients, accounts, instruments, orders,
// transactions, change log) and embeds shared helpers (Pool, recorder,
// logger) via the Base struct. Stores never import each other — shared
// logic lives in this file or in changelog.go, whose package-level insert
// runs inside the entity stores' own transactions.
//
// Concurrency: every mutation takes the entity row with SELECT ... FOR
// UPDATE, checks the caller's version token under that lock, and performs
// the entity write, the version advance, and the change-record insert in
// the same transaction. The final UPDATE still carries a version
// compare-and-swap as the write-serialization backstop.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/dbpool"
	"github.com/brokeragehq/backoffice/internal/metrics"
	"github.com/brokeragehq/backoffice/internal/models"
)

const defaultQueryTimeout = 30 * time.Second

// maxListLimit caps page sizes on entity list queries.
const maxListLimit = 200

// PostgreSQL error codes the stores translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// joinWhere renders conjunctive clauses, or nothing when there are none.
func joinWhere(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}

	return " WHERE " + strings.Join(clauses, " AND ")
}

// pgError extracts the PostgreSQL server error, or nil for other failures.
func pgError(err error) *pgconn.PgError {
	var e *pgconn.PgError
	if errors.As(err, &e) {
		return e
	}

	return nil
}

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
	Rec  *audit.Recorder
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// beginTx starts a read-write transaction.
func (b *Base) beginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return tx, nil
}

// beginReadTx starts a read-only transaction.
func (b *Base) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	return tx, nil
}

// applyChange plans one mutation against the audit core and, unless it is
// a no-op, persists the change record inside the caller's transaction.
// It must run while the caller holds the entity row lock. The returned
// record is nil for a no-op modify; Next is the token the entity row must
// advance to (unchanged on no-op).
func applyChange(ctx context.Context, tx pgx.Tx, rec *audit.Recorder, m audit.Mutation) (*audit.ChangeRecord, audit.Token, error) {
	plan, err := rec.PlanCommit(m)
	if err != nil {
		return nil, audit.ZeroToken, err
	}

	if plan.Record == nil {
		return nil, plan.Next, nil
	}

	id, err := insertChangeRecord(ctx, tx, plan.Record)
	if err != nil {
		return nil, audit.ZeroToken, err
	}

	plan.Record.ID = id

	return plan.Record, plan.Next, nil
}

// committed reports a successful mutation: metrics plus a pg_notify for
// the websocket change feed (best-effort, post-commit).
func (b *Base) committed(rec *audit.ChangeRecord) {
	if rec == nil {
		return
	}

	metrics.ChangesRecorded.WithLabelValues(rec.EntityType, string(rec.Type)).Inc()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, _ := json.Marshal(map[string]any{ //nolint:errcheck // static keys, cannot fail.
		"record_id":   rec.ID,
		"entity_type": rec.EntityType,
		"entity_id":   rec.EntityID,
		"change_type": rec.Type,
		"label":       rec.Label,
	})
	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify('bo_changes', $1)", string(payload)); err != nil {
		b.Log.WithError(err).Warn("failed to send change notification for " + rec.EntityType)
	}
}

// GetUserByAPIKey looks up the acting user by API key hash. Used by the
// auth middleware to resolve the actor recorded in the change log.
func (b *Base) GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	hash := sha256.Sum256([]byte(apiKey))
	apiKeyHash := hex.EncodeToString(hash[:])

	var u models.User

	err := b.Pool.QueryRow(ctx,
		"SELECT id, name, role, created_at FROM bo_users WHERE api_key_hash = $1",
		apiKeyHash,
	).Scan(&u.ID, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}

		return nil, fmt.Errorf("looking up user by API key: %w", err)
	}

	return &u, nil
}
