package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/domain"
	"github.com/brokeragehq/backoffice/internal/models"
)

// TransactionStore is the data-access interface TransactionService depends on.
type TransactionStore = domain.TransactionService

var _ domain.TransactionService = (*TransactionService)(nil)

// TransactionService wraps TransactionStore with validation and logging.
type TransactionService struct {
	store TransactionStore
	log   *logrus.Logger
}

// NewTransactionService creates a TransactionService.
func NewTransactionService(store TransactionStore, log *logrus.Logger) *TransactionService {
	return &TransactionService{store: store, log: log}
}

// Create validates and books a new transaction.
func (s *TransactionService) Create(ctx context.Context, req *models.CreateTransactionRequest, actor *string) (*models.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.store.Create(ctx, req, actor)
}

// Get returns a single transaction (pass-through).
func (s *TransactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	return s.store.Get(ctx, id)
}

// List returns transactions with optional account, type, and status
// filters (pass-through).
func (s *TransactionService) List(ctx context.Context, accountID, txType, status string, limit, offset int64) ([]models.Transaction, error) {
	return s.store.List(ctx, accountID, txType, status, limit, offset)
}

// Update validates and settles or fails a transaction under a token guard.
func (s *TransactionService) Update(ctx context.Context, id string, req *models.UpdateTransactionRequest, actor *string) (*models.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.store.Update(ctx, id, req, actor)
}

// Delete removes a transaction after a token check.
func (s *TransactionService) Delete(ctx context.Context, id, version string, actor *string) error {
	if err := s.store.Delete(ctx, id, version, actor); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"transaction_id": id,
		"actor":          actorField(actor),
	}).Info("transaction.delete")

	return nil
}
