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

// TransactionStore handles cash transaction persistence.
type TransactionStore struct {
	Base
}

// NewTransactionStore creates a transaction store.
func NewTransactionStore(base Base) *TransactionStore {
	return &TransactionStore{Base: base}
}

const transactionColumns = "id, account_id, type, amount::text, currency, status, settled_at, version, created_at, updated_at"

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var (
		t       models.Transaction
		version int64
	)

	err := row.Scan(&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.Currency, &t.Status,
		&t.SettledAt, &version, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	t.Version = audit.Token(version)

	if t.SettledAt != nil {
		utc := t.SettledAt.UTC()
		t.SettledAt = &utc
	}

	return &t, nil
}

// Create books a new transaction in status "pending" and writes its
// creation record.
func (s *TransactionStore) Create(ctx context.Context, req *models.CreateTransactionRequest, actor *string) (*models.Transaction, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	t := &models.Transaction{
		ID:        req.ID,
		AccountID: req.AccountID,
		Type:      req.Type,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Status:    models.TxPending,
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
		EntityType: models.EntityTransaction,
		EntityID:   t.ID,
		Type:       audit.Created,
		After:      s.Rec.Snapshot(models.EntityTransaction, t),
		Current:    audit.ZeroToken,
		Actor:      actor,
		Label:      t.Label(),
	})
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bo_transactions (id, account_id, type, amount, currency, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9)`,
		t.ID, t.AccountID, t.Type, t.Amount, t.Currency, t.Status,
		int64(next), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if e := pgError(err); e != nil {
			switch e.Code {
			case pgUniqueViolation:
				return nil, models.ErrDuplicateKey
			case pgForeignKeyViolation:
				return nil, models.ErrAccountNotFound
			}
		}

		return nil, fmt.Errorf("inserting transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction create: %w", err)
	}

	s.committed(rec)

	return t, nil
}

// Get returns one transaction by ID.
func (s *TransactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	t, err := scanTransaction(s.Pool.QueryRow(ctx,
		"SELECT "+transactionColumns+" FROM bo_transactions WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTransactionNotFound
		}

		return nil, fmt.Errorf("querying transaction: %w", err)
	}

	return t, nil
}

// List returns transactions newest first, optionally filtered by account,
// type, and status.
func (s *TransactionStore) List(ctx context.Context, accountID, txType, status string, limit, offset int64) ([]models.Transaction, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	query := "SELECT " + transactionColumns + " FROM bo_transactions"

	var (
		clauses []string
		args    []any
	)

	if accountID != "" {
		args = append(args, accountID)
		clauses = append(clauses, fmt.Sprintf("account_id = $%d", len(args)))
	}

	if txType != "" {
		args = append(args, txType)
		clauses = append(clauses, fmt.Sprintf("type = $%d", len(args)))
	}

	if status != "" {
		args = append(args, status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}

	query += joinWhere(clauses)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0, limit)

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		transactions = append(transactions, *t)
	}

	return transactions, rows.Err()
}

// Update settles or fails a transaction under a token guard and writes the
// change record in the same transaction.
func (s *TransactionStore) Update(ctx context.Context, id string, req *models.UpdateTransactionRequest, actor *string) (*models.Transaction, error) {
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

	cur, err := scanTransaction(tx.QueryRow(ctx,
		"SELECT "+transactionColumns+" FROM bo_transactions WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTransactionNotFound
		}

		return nil, fmt.Errorf("locking transaction: %w", err)
	}

	updated := *cur
	req.Apply(&updated)
	updated.UpdatedAt = time.Now().UTC()

	rec, next, err := applyChange(ctx, tx, s.Rec, audit.Mutation{
		EntityType: models.EntityTransaction,
		EntityID:   id,
		Type:       audit.Modified,
		Before:     s.Rec.Snapshot(models.EntityTransaction, cur),
		After:      s.Rec.Snapshot(models.EntityTransaction, &updated),
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
		UPDATE bo_transactions
		SET status = $1, settled_at = $2, version = $3, updated_at = $4
		WHERE id = $5 AND version = $6`,
		updated.Status, updated.SettledAt,
		int64(next), updated.UpdatedAt, id, int64(cur.Version))
	if err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}

	if tag.RowsAffected() != 1 {
		return nil, fmt.Errorf("transaction %s version moved under row lock", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction update: %w", err)
	}

	s.committed(rec)

	updated.Version = next

	return &updated, nil
}

// Delete removes a transaction after a token check.
func (s *TransactionStore) Delete(ctx context.Context, id, version string, actor *string) error {
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

	cur, err := scanTransaction(tx.QueryRow(ctx,
		"SELECT "+transactionColumns+" FROM bo_transactions WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrTransactionNotFound
		}

		return fmt.Errorf("locking transaction: %w", err)
	}

	rec, _, err := applyChange(ctx, tx, s.Rec, audit.Mutation{
		EntityType: models.EntityTransaction,
		EntityID:   id,
		Type:       audit.Deleted,
		Before:     s.Rec.Snapshot(models.EntityTransaction, cur),
		Supplied:   supplied,
		Current:    cur.Version,
		Actor:      actor,
		Label:      cur.Label(),
	})
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		"DELETE FROM bo_transactions WHERE id = $1 AND version = $2", id, int64(cur.Version))
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction delete: %w", err)
	}

	s.committed(rec)

	return nil
}
