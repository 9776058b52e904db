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

// AccountStore handles account persistence.
type AccountStore struct {
	Base
}

// NewAccountStore creates an account store.
func NewAccountStore(base Base) *AccountStore {
	return &AccountStore{Base: base}
}

// balance is NUMERIC; selecting it as text keeps the money string exact.
const accountColumns = "id, client_id, number, currency, type, status, tariff, balance::text, version, created_at, updated_at"

func scanAccount(row pgx.Row) (*models.Account, error) {
	var (
		a       models.Account
		version int64
	)

	err := row.Scan(&a.ID, &a.ClientID, &a.Number, &a.Currency, &a.Type, &a.Status,
		&a.Tariff, &a.Balance, &version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	a.Version = audit.Token(version)

	return &a, nil
}

// Create opens a new account and writes its creation record.
func (s *AccountStore) Create(ctx context.Context, req *models.CreateAccountRequest, actor *string) (*models.Account, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	a := &models.Account{
		ID:        req.ID,
		ClientID:  req.ClientID,
		Number:    req.Number,
		Currency:  req.Currency,
		Type:      req.Type,
		Status:    req.Status,
		Tariff:    req.Tariff,
		Balance:   req.Balance,
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
		EntityType: models.EntityAccount,
		EntityID:   a.ID,
		Type:       audit.Created,
		After:      s.Rec.Snapshot(models.EntityAccount, a),
		Current:    audit.ZeroToken,
		Actor:      actor,
		Label:      a.Label(),
	})
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bo_accounts (id, client_id, number, currency, type, status, tariff, balance, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10, $11)`,
		a.ID, a.ClientID, a.Number, a.Currency, a.Type, a.Status, a.Tariff, a.Balance,
		int64(next), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if e := pgError(err); e != nil {
			switch e.Code {
			case pgUniqueViolation:
				return nil, models.ErrDuplicateKey
			case pgForeignKeyViolation:
				return nil, models.ErrClientNotFound
			}
		}

		return nil, fmt.Errorf("inserting account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing account create: %w", err)
	}

	s.committed(rec)

	return a, nil
}

// Get returns one account by ID.
func (s *AccountStore) Get(ctx context.Context, id string) (*models.Account, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	a, err := scanAccount(s.Pool.QueryRow(ctx,
		"SELECT "+accountColumns+" FROM bo_accounts WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAccountNotFound
		}

		return nil, fmt.Errorf("querying account: %w", err)
	}

	return a, nil
}

// List returns accounts ordered by ID, optionally filtered by owner and
// status.
func (s *AccountStore) List(ctx context.Context, clientID, status string, limit, offset int64) ([]models.Account, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	query := "SELECT " + accountColumns + " FROM bo_accounts"

	var (
		clauses []string
		args    []any
	)

	if clientID != "" {
		args = append(args, clientID)
		clauses = append(clauses, fmt.Sprintf("client_id = $%d", len(args)))
	}

	if status != "" {
		args = append(args, status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}

	query += joinWhere(clauses)
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]models.Account, 0, limit)

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, *a)
	}

	return accounts, rows.Err()
}

// Update applies a token-guarded partial update and writes the change
// record in the same transaction.
func (s *AccountStore) Update(ctx context.Context, id string, req *models.UpdateAccountRequest, actor *string) (*models.Account, error) {
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

	cur, err := scanAccount(tx.QueryRow(ctx,
		"SELECT "+accountColumns+" FROM bo_accounts WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAccountNotFound
		}

		return nil, fmt.Errorf("locking account: %w", err)
	}

	updated := *cur
	req.Apply(&updated)
	updated.UpdatedAt = time.Now().UTC()

	rec, next, err := applyChange(ctx, tx, s.Rec, audit.Mutation{
		EntityType: models.EntityAccount,
		EntityID:   id,
		Type:       audit.Modified,
		Before:     s.Rec.Snapshot(models.EntityAccount, cur),
		After:      s.Rec.Snapshot(models.EntityAccount, &updated),
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
		UPDATE bo_accounts
		SET status = $1, tariff = $2, balance = $3::numeric, version = $4, updated_at = $5
		WHERE id = $6 AND version = $7`,
		updated.Status, updated.Tariff, updated.Balance,
		int64(next), updated.UpdatedAt, id, int64(cur.Version))
	if err != nil {
		return nil, fmt.Errorf("updating account: %w", err)
	}

	if tag.RowsAffected() != 1 {
		return nil, fmt.Errorf("account %s version moved under row lock", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing account update: %w", err)
	}

	s.committed(rec)

	updated.Version = next

	return &updated, nil
}

// Delete closes out an account row after a token check. The change history
// survives with a final deletion record.
func (s *AccountStore) Delete(ctx context.Context, id, version string, actor *string) error {
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

	cur, err := scanAccount(tx.QueryRow(ctx,
		"SELECT "+accountColumns+" FROM bo_accounts WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrAccountNotFound
		}

		return fmt.Errorf("locking account: %w", err)
	}

	rec, _, err := applyChange(ctx, tx, s.Rec, audit.Mutation{
		EntityType: models.EntityAccount,
		EntityID:   id,
		Type:       audit.Deleted,
		Before:     s.Rec.Snapshot(models.EntityAccount, cur),
		Supplied:   supplied,
		Current:    cur.Version,
		Actor:      actor,
		Label:      cur.Label(),
	})
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		"DELETE FROM bo_accounts WHERE id = $1 AND version = $2", id, int64(cur.Version))
	if err != nil {
		if e := pgError(err); e != nil && e.Code == pgForeignKeyViolation {
			return models.ErrEntityInUse
		}

		return fmt.Errorf("deleting account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing account delete: %w", err)
	}

	s.committed(rec)

	return nil
}
