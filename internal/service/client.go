// Package service provides business logic between API handlers and data
// stores: request validation, pagination policy, and operational logging.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/domain"
	"github.com/brokeragehq/backoffice/internal/models"
)

// ClientStore is the data-access interface ClientService depends on.
// It reuses domain.ClientService since the method sets are identical.
type ClientStore = domain.ClientService

// Compile-time check: *ClientService must satisfy domain.ClientService.
var _ domain.ClientService = (*ClientService)(nil)

// ClientService wraps ClientStore with validation and logging.
type ClientService struct {
	store ClientStore
	log   *logrus.Logger
}

// NewClientService creates a ClientService.
func NewClientService(store ClientStore, log *logrus.Logger) *ClientService {
	return &ClientService{store: store, log: log}
}

// Create validates and registers a new client.
func (s *ClientService) Create(ctx context.Context, req *models.CreateClientRequest, actor *string) (*models.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.store.Create(ctx, req, actor)
}

// Get returns a single client (pass-through).
func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	return s.store.Get(ctx, id)
}

// List returns clients with an optional status filter (pass-through).
func (s *ClientService) List(ctx context.Context, status string, limit, offset int64) ([]models.Client, error) {
	return s.store.List(ctx, status, limit, offset)
}

// Update validates and applies a token-guarded update.
func (s *ClientService) Update(ctx context.Context, id string, req *models.UpdateClientRequest, actor *string) (*models.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.store.Update(ctx, id, req, actor)
}

// Delete removes a client after a token check.
func (s *ClientService) Delete(ctx context.Context, id, version string, actor *string) error {
	if err := s.store.Delete(ctx, id, version, actor); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"client_id": id,
		"actor":     actorField(actor),
	}).Info("client.delete")

	return nil
}

// actorField renders the actor for log output, "system" when nil.
func actorField(actor *string) string {
	if actor == nil {
		return "system"
	}

	return *actor
}
