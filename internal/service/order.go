package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/domain"
	"github.com/brokeragehq/backoffice/internal/models"
)

// OrderStore is the data-access interface OrderService depends on.
type OrderStore = domain.OrderService

var _ domain.OrderService = (*OrderService)(nil)

// OrderService wraps OrderStore with validation and logging.
type OrderService struct {
	store OrderStore
	log   *logrus.Logger
}

// NewOrderService creates an OrderService.
func NewOrderService(store OrderStore, log *logrus.Logger) *OrderService {
	return &OrderService{store: store, log: log}
}

// Create validates and books a new order.
func (s *OrderService) Create(ctx context.Context, req *models.CreateOrderRequest, actor *string) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.store.Create(ctx, req, actor)
}

// Get returns a single order (pass-through).
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.store.Get(ctx, id)
}

// List returns orders with optional account, instrument, and status
// filters (pass-through).
func (s *OrderService) List(ctx context.Context, accountID, instrumentID, status string, limit, offset int64) ([]models.Order, error) {
	return s.store.List(ctx, accountID, instrumentID, status, limit, offset)
}

// Update validates and amends an order under a token guard.
func (s *OrderService) Update(ctx context.Context, id string, req *models.UpdateOrderRequest, actor *string) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.store.Update(ctx, id, req, actor)
}

// Delete removes an order after a token check.
func (s *OrderService) Delete(ctx context.Context, id, version string, actor *string) error {
	if err := s.store.Delete(ctx, id, version, actor); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"order_id": id,
		"actor":    actorField(actor),
	}).Info("order.delete")

	return nil
}
