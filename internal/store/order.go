package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/models"
)

// OrderStore handles order persistence.
type OrderStore struct {
	Base
}

// NewOrderStore creates an order store.
func NewOrderStore(base Base) *OrderStore {
	return &OrderStore{Base: base}
}

const orderColumns = "id, account_id, instrument_id, side, quantity, price::text, status, placed_at, version, created_at, updated_at"

func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		o       models.Order
		version int64
	)

	err := row.Scan(&o.ID, &o.AccountID, &o.InstrumentID, &o.Side, &o.Quantity,
		&o.Price, &o.Status, &o.PlacedAt, &version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	o.Version = audit.Token(version)
	o.PlacedAt = o.PlacedAt.UTC()

	return &o, nil
}

// Create books a new order in status "new" and writes its creation record.
func (s *OrderStore) Create(ctx context.Context, req *models.CreateOrderRequest, actor *string) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	o := &models.Order{
		ID:           req.ID,
		AccountID:    req.AccountID,
		InstrumentID: req.InstrumentID,
		Side:         req.Side,
		Quantity:     req.Quantity,
		Price:        req.Price,
		Status:       models.OrderNew,
		PlacedAt:     now,
		Version:      audit.FirstToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	rec, next, err := applyChange(ctx, tx, s.Rec, audit.Mutation{
		EntityType: models.EntityOrder,
		EntityID:   o.ID,
		Type:       audit.Created,
		After:      s.Rec.Snapshot(models.EntityOrder, o),
		Current:    audit.ZeroToken,
		Actor:      actor,
		Label:      o.Label(),
	})
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bo_orders (id, account_id, instrument_id, side, quantity, price, status, placed_at, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, $10, $11)`,
		o.ID, o.AccountID, o.InstrumentID, o.Side, o.Quantity, o.Price, o.Status,
		o.PlacedAt, int64(next), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if e := pgError(err); e != nil {
			switch e.Code {
			case pgUniqueViolation:
				return nil, models.ErrDuplicateKey
			case pgForeignKeyViolation:
				if strings.Contains(e.ConstraintName, "instrument") {
					return nil, models.ErrInstrumentNotFound
				}

				return nil, models.ErrAccountNotFound
			}
		}

		return nil, fmt.Errorf("inserting order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing order create: %w", err)
	}

	s.committed(rec)

	return o, nil
}

// Get returns one order by ID.
func (s *OrderStore) Get(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	o, err := scanOrder(s.Pool.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM bo_orders WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}

		return nil, fmt.Errorf("querying order: %w", err)
	}

	return o, nil
}

// List returns orders newest first, optionally filtered by account,
// instrument, and status.
func (s *OrderStore) List(ctx context.Context, accountID, instrumentID, status string, limit, offset int64) ([]models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	query := "SELECT " + orderColumns + " FROM bo_orders"

	var (
		clauses []string
		args    []any
	)

	if accountID != "" {
		args = append(args, accountID)
		clauses = append(clauses, fmt.Sprintf("account_id = $%d", len(args)))
	}

	if instrumentID != "" {
		args = append(args, instrumentID)
		clauses = append(clauses, fmt.Sprintf("instrument_id = $%d", len(args)))
	}

	if status != "" {
		args = append(args, status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}

	query += joinWhere(clauses)
	query += fmt.Sprintf(" ORDER BY placed_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := make([]models.Order, 0, limit)

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		orders = append(orders, *o)
	}

	return orders, rows.Err()
}

// Update amends an order (status, price, quantity) under a token guard and
// writes the change record in the same transaction.
func (s *OrderStore) Update(ctx context.Context, id string, req *models.UpdateOrderRequest, actor *string) (*models.Order, error) {
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

	cur, err := scanOrder(tx.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM bo_orders WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}

		return nil, fmt.Errorf("locking order: %w", err)
	}

	updated := *cur
	req.Apply(&updated)
	updated.UpdatedAt = time.Now().UTC()

	rec, next, err := applyChange(ctx, tx, s.Rec, audit.Mutation{
		EntityType: models.EntityOrder,
		EntityID:   id,
		Type:       audit.Modified,
		Before:     s.Rec.Snapshot(models.EntityOrder, cur),
		After:      s.Rec.Snapshot(models.EntityOrder, &updated),
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
		UPDATE bo_orders
		SET status = $1, price = $2::numeric, quantity = $3, version = $4, updated_at = $5
		WHERE id = $6 AND version = $7`,
		updated.Status, updated.Price, updated.Quantity,
		int64(next), updated.UpdatedAt, id, int64(cur.Version))
	if err != nil {
		return nil, fmt.Errorf("updating order: %w", err)
	}

	if tag.RowsAffected() != 1 {
		return nil, fmt.Errorf("order %s version moved under row lock", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing order update: %w", err)
	}

	s.committed(rec)

	updated.Version = next

	return &updated, nil
}

// Delete removes an order after a token check.
func (s *OrderStore) Delete(ctx context.Context, id, version string, actor *string) error {
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

	cur, err := scanOrder(tx.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM bo_orders WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrOrderNotFound
		}

		return fmt.Errorf("locking order: %w", err)
	}

	rec, _, err := applyChange(ctx, tx, s.Rec, audit.Mutation{
		EntityType: models.EntityOrder,
		EntityID:   id,
		Type:       audit.Deleted,
		Before:     s.Rec.Snapshot(models.EntityOrder, cur),
		Supplied:   supplied,
		Current:    cur.Version,
		Actor:      actor,
		Label:      cur.Label(),
	})
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		"DELETE FROM bo_orders WHERE id = $1 AND version = $2", id, int64(cur.Version))
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order delete: %w", err)
	}

	s.committed(rec)

	return nil
}
