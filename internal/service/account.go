package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/domain"
	"github.com/brokeragehq/backoffice/internal/models"
)

// AccountStore is the data-access interface AccountService depends on.
type AccountStore = domain.AccountService

var _ domain.AccountService = (*AccountService)(nil)

// AccountService wraps AccountStore with validation and logging.
type AccountService struct {
	store AccountStore
	log   *logrus.Logger
}

// NewAccountService creates an AccountService.
func NewAccountService(store AccountStore, log *logrus.Logger) *AccountService {
	return &AccountService{store: store, log: log}
}

// Create validates and opens a new account.
func (s *AccountService) Create(ctx context.Context, req *models.CreateAccountRequest, actor *string) (*models.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.store.Create(ctx, req, actor)
}

// Get returns a single account (pass-through).
func (s *AccountService) Get(ctx context.Context, id string) (*models.Account, error) {
	return s.store.Get(ctx, id)
}

// List returns accounts with optional owner and status filters (pass-through).
func (s *AccountService) List(ctx context.Context, clientID, status string, limit, offset int64) ([]models.Account, error) {
	return s.store.List(ctx, clientID, status, limit, offset)
}

// Update validates and applies a token-guarded update. Balance adjustments
// are logged since they move money.
func (s *AccountService) Update(ctx context.Context, id string, req *models.UpdateAccountRequest, actor *string) (*models.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.store.Update(ctx, id, req, actor)
	if err != nil {
		return nil, err
	}

	if req.Balance != nil {
		s.log.WithFields(logrus.Fields{
			"account_id": id,
			"balance":    a.Balance,
			"actor":      actorField(actor),
		}).Info("account.balance_adjusted")
	}

	return a, nil
}

// Delete removes an account after a token check.
func (s *AccountService) Delete(ctx context.Context, id, version string, actor *string) error {
	if err := s.store.Delete(ctx, id, version, actor); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"account_id": id,
		"actor":      actorField(actor),
	}).Info("account.delete")

	return nil
}
