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

// InstrumentStore handles instrument persistence.
type InstrumentStore struct {
	Base
}

// NewInstrumentStore creates an instrument store.
func NewInstrumentStore(base Base) *InstrumentStore {
	return &InstrumentStore{Base: base}
}

const instrumentColumns = "id, symbol, isin, name, type, currency, lot_size, status, version, created_at, updated_at"

func scanInstrument(row pgx.Row) (*models.Instrument, error) {
	var (
		i       models.Instrument
		version int64
	)

	err := row.Scan(&i.ID, &i.Symbol, &i.ISIN, &i.Name, &i.Type, &i.Currency,
		&i.LotSize, &i.Status, &version, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}

	i.Version = audit.Token(version)

	return &i, nil
}

// Create lists a new instrument and writes its creation record.
func (s *InstrumentStore) Create(ctx context.Context, req *models.CreateInstrumentRequest, actor *string) (*models.Instrument, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	i := &models.Instrument{
		ID:        req.ID,
		Symbol:    req.Symbol,
		ISIN:      req.ISIN,
		Name:      req.Name,
		Type:      req.Type,
		Currency:  req.Currency,
		LotSize:   req.LotSize,
		Status:    req.Status,
		Version:   audit.FirstToken,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	rec, next, err := applyChange(ctx, tx, s.Rec, audit.Mutation{
		EntityType: models.EntityInstrument,
		EntityID:   i.ID,
		Type:       audit.Created,
		After:      s.Rec.Snapshot(models.EntityInstrument, i),
		Current:    audit.ZeroToken,
		Actor:      actor,
		Label:      i.Label(),
	})
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bo_instruments (id, symbol, isin, name, type, currency, lot_size, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		i.ID, i.Symbol, i.ISIN, i.Name, i.Type, i.Currency, i.LotSize, i.Status,
		int64(next), i.CreatedAt, i.UpdatedAt)
	if err != nil {
		if e := pgError(err); e != nil && e.Code == pgUniqueViolation {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("inserting instrument: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing instrument create: %w", err)
	}

	s.committed(rec)

	return i, nil
}

// Get returns one instrument by ID.
func (s *InstrumentStore) Get(ctx context.Context, id string) (*models.Instrument, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	i, err := scanInstrument(s.Pool.QueryRow(ctx,
		"SELECT "+instrumentColumns+" FROM bo_instruments WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrInstrumentNotFound
		}

		return nil, fmt.Errorf("querying instrument: %w", err)
	}

	return i, nil
}

// List returns instruments ordered by symbol, optionally filtered by
// status and type.
func (s *InstrumentStore) List(ctx context.Context, status, instrumentType string, limit, offset int64) ([]models.Instrument, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	query := "SELECT " + instrumentColumns + " FROM bo_instruments"

	var (
		clauses []string
		args    []any
	)

	if status != "" {
		args = append(args, status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}

	if instrumentType != "" {
		args = append(args, instrumentType)
		clauses = append(clauses, fmt.Sprintf("type = $%d", len(args)))
	}

	query += joinWhere(clauses)
	query += fmt.Sprintf(" ORDER BY symbol LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying instruments: %w", err)
	}
	defer rows.Close()

	instruments := make([]models.Instrument, 0, limit)

	for rows.Next() {
		i, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning instrument: %w", err)
		}

		instruments = append(instruments, *i)
	}

	return instruments, rows.Err()
}

// Update applies a token-guarded partial update and writes the change
// record in the same transaction.
func (s *InstrumentStore) Update(ctx context.Context, id string, req *models.UpdateInstrumentRequest, actor *string) (*models.Instrument, error) {
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

	cur, err := scanInstrument(tx.QueryRow(ctx,
		"SELECT "+instrumentColumns+" FROM bo_instruments WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrInstrumentNotFound
		}

		return nil, fmt.Errorf("locking instrument: %w", err)
	}

	updated := *cur
	req.Apply(&updated)
	updated.UpdatedAt = time.Now().UTC()

	rec, next, err := applyChange(ctx, tx, s.Rec, audit.Mutation{
		EntityType: models.EntityInstrument,
		EntityID:   id,
		Type:       audit.Modified,
		Before:     s.Rec.Snapshot(models.EntityInstrument, cur),
		After:      s.Rec.Snapshot(models.EntityInstrument, &updated),
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
		UPDATE bo_instruments
		SET name = $1, lot_size = $2, status = $3, version = $4, updated_at = $5
		WHERE id = $6 AND version = $7`,
		updated.Name, updated.LotSize, updated.Status,
		int64(next), updated.UpdatedAt, id, int64(cur.Version))
	if err != nil {
		return nil, fmt.Errorf("updating instrument: %w", err)
	}

	if tag.RowsAffected() != 1 {
		return nil, fmt.Errorf("instrument %s version moved under row lock", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing instrument update: %w", err)
	}

	s.committed(rec)

	updated.Version = next

	return &updated, nil
}

// Delete removes an instrument after a token check.
func (s *InstrumentStore) Delete(ctx context.Context, id, version string, actor *string) error {
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

	cur, err := scanInstrument(tx.QueryRow(ctx,
		"SELECT "+instrumentColumns+" FROM bo_instruments WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrInstrumentNotFound
		}

		return fmt.Errorf("locking instrument: %w", err)
	}

	rec, _, err := applyChange(ctx, tx, s.Rec, audit.Mutation{
		EntityType: models.EntityInstrument,
		EntityID:   id,
		Type:       audit.Deleted,
		Before:     s.Rec.Snapshot(models.EntityInstrument, cur),
		Supplied:   supplied,
		Current:    cur.Version,
		Actor:      actor,
		Label:      cur.Label(),
	})
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		"DELETE FROM bo_instruments WHERE id = $1 AND version = $2", id, int64(cur.Version))
	if err != nil {
		if e := pgError(err); e != nil && e.Code == pgForeignKeyViolation {
			return models.ErrEntityInUse
		}

		return fmt.Errorf("deleting instrument: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing instrument delete: %w", err)
	}

	s.committed(rec)

	return nil
}
