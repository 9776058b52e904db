package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/models"
)

// ClientStore handles client persistence.
type ClientStore struct {
	Base
}

// NewClientStore creates a client store.
func NewClientStore(base Base) *ClientStore {
	return &ClientStore{Base: base}
}

const clientColumns = "id, name, email, phone, status, risk_profile, version, created_at, updated_at"

func scanClient(row pgx.Row) (*models.Client, error) {
	var (
		c       models.Client
		version int64
	)

	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.RiskProfile,
		&version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Version = audit.Token(version)

	return &c, nil
}

// Create registers a new client and writes its creation record.
func (s *ClientStore) Create(ctx context.Context, req *models.CreateClientRequest, actor *string) (*models.Client, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	c := &models.Client{
		ID:          req.ID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Status:      req.Status,
		RiskProfile: req.RiskProfile,
		Version:     audit.FirstToken,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	rec, next, err := applyChange(ctx, tx, s.Rec, audit.Mutation{
		EntityType: models.EntityClient,
		EntityID:   c.ID,
		Type:       audit.Created,
		After:      s.Rec.Snapshot(models.EntityClient, c),
		Current:    audit.ZeroToken,
		Actor:      actor,
		Label:      c.Label(),
	})
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bo_clients (id, name, email, phone, status, risk_profile, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Name, c.Email, c.Phone, c.Status, c.RiskProfile, int64(next), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if e := pgError(err); e != nil && e.Code == pgUniqueViolation {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("inserting client: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing client create: %w", err)
	}

	s.committed(rec)

	return c, nil
}

// Get returns one client by ID.
func (s *ClientStore) Get(ctx context.Context, id string) (*models.Client, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	c, err := scanClient(s.Pool.QueryRow(ctx,
		"SELECT "+clientColumns+" FROM bo_clients WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrClientNotFound
		}

		return nil, fmt.Errorf("querying client: %w", err)
	}

	return c, nil
}

// List returns clients ordered by ID, optionally filtered by status.
func (s *ClientStore) List(ctx context.Context, status string, limit, offset int64) ([]models.Client, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	query := "SELECT " + clientColumns + " FROM bo_clients"
	args := []any{}

	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}

	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	defer rows.Close()

	clients := make([]models.Client, 0, limit)

	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}

		clients = append(clients, *c)
	}

	return clients, rows.Err()
}

// Update applies a token-guarded partial update and writes the change
// record in the same transaction. A no-op update returns the client
// unchanged without writing anything.
func (s *ClientStore) Update(ctx context.Context, id string, req *models.UpdateClientRequest, actor *string) (*models.Client, error) {
	supplied, err := audit.ParseToken(req.Version)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	cur, err := scanClient(tx.QueryRow(ctx,
		"SELECT "+clientColumns+" FROM bo_clients WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrClientNotFound
		}

		return nil, fmt.Errorf("locking client: %w", err)
	}

	updated := *cur
	req.Apply(&updated)
	updated.UpdatedAt = time.Now().UTC()

	rec, next, err := applyChange(ctx, tx, s.Rec, audit.Mutation{
		EntityType: models.EntityClient,
		EntityID:   id,
		Type:       audit.Modified,
		Before:     s.Rec.Snapshot(models.EntityClient, cur),
		After:      s.Rec.Snapshot(models.EntityClient, &updated),
		Supplied:   supplied,
		Current:    cur.Version,
		Actor:      actor,
		Label:      updated.Label(),
	})
	if err != nil {
		return nil, err
	}

	if rec == nil {
		return cur, nil
	}

	tag, err := tx.Exec(ctx, `
		UPDATE bo_clients
		SET name = $1, email = $2, phone = $3, status = $4, risk_profile = $5, version = $6, updated_at = $7
		WHERE id = $8 AND version = $9`,
		updated.Name, updated.Email, updated.Phone, updated.Status, updated.RiskProfile,
		int64(next), updated.UpdatedAt, id, int64(cur.Version))
	if err != nil {
		return nil, fmt.Errorf("updating client: %w", err)
	}

	if tag.RowsAffected() != 1 {
		return nil, fmt.Errorf("client %s version moved under row lock", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing client update: %w", err)
	}

	s.committed(rec)

	updated.Version = next

	return &updated, nil
}

// Delete removes a client after a token check, leaving its change history
// in place with a final deletion record.
func (s *ClientStore) Delete(ctx context.Context, id, version string, actor *string) error {
	supplied, err := audit.ParseToken(version)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	cur, err := scanClient(tx.QueryRow(ctx,
		"SELECT "+clientColumns+" FROM bo_clients WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrClientNotFound
		}

		return fmt.Errorf("locking client: %w", err)
	}

	rec, _, err := applyChange(ctx, tx, s.Rec, audit.Mutation{
		EntityType: models.EntityClient,
		EntityID:   id,
		Type:       audit.Deleted,
		Before:     s.Rec.Snapshot(models.EntityClient, cur),
		Supplied:   supplied,
		Current:    cur.Version,
		Actor:      actor,
		Label:      cur.Label(),
	})
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		"DELETE FROM bo_clients WHERE id = $1 AND version = $2", id, int64(cur.Version))
	if err != nil {
		if e := pgError(err); e != nil && e.Code == pgForeignKeyViolation {
			return models.ErrEntityInUse
		}

		return fmt.Errorf("deleting client: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing client delete: %w", err)
	}

	s.committed(rec)

	return nil
}
