package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/brokeragehq/backoffice/internal/models"
)

// UserStore manages back-office users, the actors recorded against
// changes. Users are administrative fixtures, not tracked entities, so
// they carry no version token and no change log.
type UserStore struct {
	Base
}

// NewUserStore creates a user store.
func NewUserStore(base Base) *UserStore {
	return &UserStore{Base: base}
}

// CreateUser registers a user keyed by the SHA-256 hash of their API key.
// The plaintext key is never stored.
func (s *UserStore) CreateUser(ctx context.Context, name, role, apiKey string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if name == "" {
		return nil, models.ErrMissingField("name")
	}

	if apiKey == "" {
		return nil, models.ErrMissingField("api key")
	}

	if role == "" {
		role = "ops"
	}

	hash := sha256.Sum256([]byte(apiKey))

	u := &models.User{
		ID:        uuid.New().String(),
		Name:      name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.Pool.Exec(ctx, `
		INSERT INTO bo_users (id, name, role, api_key_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, u.Role, hex.EncodeToString(hash[:]), u.CreatedAt)
	if err != nil {
		if e := pgError(err); e != nil && e.Code == pgUniqueViolation {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("inserting user: %w", err)
	}

	return u, nil
}

// GetUser returns one user by ID.
func (s *UserStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var u models.User

	err := s.Pool.QueryRow(ctx,
		"SELECT id, name, role, created_at FROM bo_users WHERE id = $1", id,
	).Scan(&u.ID, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}

		return nil, fmt.Errorf("querying user: %w", err)
	}

	return &u, nil
}

// ListUsers returns all users ordered by creation time.
func (s *UserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		"SELECT id, name, role, created_at FROM bo_users ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []models.User

	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		users = append(users, u)
	}

	return users, rows.Err()
}
