package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/models"
)

// insertChangeRecord appends one record to bo_change_log inside the
// caller's transaction and returns the assigned log sequence.
func insertChangeRecord(ctx context.Context, tx pgx.Tx, rec *audit.ChangeRecord) (int64, error) {
	changes, err := json.Marshal(rec.Changes)
	if err != nil {
		return 0, fmt.Errorf("marshaling field changes: %w", err)
	}

	var id int64

	err = tx.QueryRow(ctx, `
		INSERT INTO bo_change_log (entity_type, entity_id, change_type, actor, label, changes, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		rec.EntityType, rec.EntityID, string(rec.Type), rec.Actor, rec.Label, changes, rec.RecordedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting change record: %w", err)
	}

	return id, nil
}

// ChangeLogStore serves read queries over the append-only change log.
type ChangeLogStore struct {
	Base
}

// NewChangeLogStore creates a change log store.
func NewChangeLogStore(base Base) *ChangeLogStore {
	return &ChangeLogStore{Base: base}
}

// buildFilters translates a Query into a conjunctive WHERE clause. All
// filters are ANDed; a zero Query yields no clause at all.
func buildFilters(q audit.Query) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if q.EntityType != "" {
		add("entity_type = $%d", q.EntityType)
	}

	if q.EntityID != "" {
		add("entity_id = $%d", q.EntityID)
	}

	switch q.Actor {
	case "":
	case audit.ActorSystem:
		clauses = append(clauses, "actor IS NULL")
	default:
		add("actor = $%d", q.Actor)
	}

	if q.ChangeType != "" {
		add("change_type = $%d", q.ChangeType)
	}

	if q.Label != "" {
		add("label ILIKE $%d", "%"+escapeLike(q.Label)+"%")
	}

	if q.From != nil {
		add("recorded_at >= $%d", *q.From)
	}

	if q.To != nil {
		add("recorded_at <= $%d", *q.To)
	}

	return joinWhere(clauses), args
}

// escapeLike neutralizes LIKE metacharacters in user-supplied substrings.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)

	return strings.ReplaceAll(s, "_", `\_`)
}

// List returns one page of change records matching q, newest first.
// Ordering is (recorded_at DESC, id DESC) so pages stay stable when
// timestamps collide. TotalCount reflects the full filtered set.
func (s *ChangeLogStore) List(ctx context.Context, q audit.Query, page, pageSize int64) (*models.ChangePage, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	where, args := buildFilters(q)

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var total int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM bo_change_log"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting change records: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, entity_type, entity_id, change_type, actor, label, changes, recorded_at
		FROM bo_change_log%s
		ORDER BY recorded_at DESC, id DESC
		LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying change records: %w", err)
	}
	defer rows.Close()

	items := make([]audit.ChangeRecord, 0, pageSize)

	for rows.Next() {
		rec, err := scanChangeRecord(rows)
		if err != nil {
			return nil, err
		}

		items = append(items, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating change records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing read transaction: %w", err)
	}

	return &models.ChangePage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}, nil
}

// Get returns a single change record by its log sequence.
func (s *ChangeLogStore) Get(ctx context.Context, id int64) (*audit.ChangeRecord, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, `
		SELECT id, entity_type, entity_id, change_type, actor, label, changes, recorded_at
		FROM bo_change_log WHERE id = $1`, id)

	rec, err := scanChangeRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrChangeRecordNotFound
		}

		return nil, err
	}

	return rec, nil
}

func scanChangeRecord(row pgx.Row) (*audit.ChangeRecord, error) {
	var (
		rec        audit.ChangeRecord
		changeType string
		changes    []byte
		recordedAt time.Time
	)

	err := row.Scan(&rec.ID, &rec.EntityType, &rec.EntityID, &changeType, &rec.Actor, &rec.Label, &changes, &recordedAt)
	if err != nil {
		return nil, err
	}

	rec.Type = audit.ChangeType(changeType)
	rec.RecordedAt = recordedAt.UTC()

	if err := json.Unmarshal(changes, &rec.Changes); err != nil {
		return nil, fmt.Errorf("unmarshaling field changes: %w", err)
	}

	return &rec, nil
}
