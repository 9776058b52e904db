package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/domain"
	"github.com/brokeragehq/backoffice/internal/models"
)

// InstrumentStore is the data-access interface InstrumentService depends on.
type InstrumentStore = domain.InstrumentService

var _ domain.InstrumentService = (*InstrumentService)(nil)

// InstrumentService wraps InstrumentStore with validation and logging.
type InstrumentService struct {
	store InstrumentStore
	log   *logrus.Logger
}

// NewInstrumentService creates an InstrumentService.
func NewInstrumentService(store InstrumentStore, log *logrus.Logger) *InstrumentService {
	return &InstrumentService{store: store, log: log}
}

// Create validates and lists a new instrument.
func (s *InstrumentService) Create(ctx context.Context, req *models.CreateInstrumentRequest, actor *string) (*models.Instrument, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.store.Create(ctx, req, actor)
}

// Get returns a single instrument (pass-through).
func (s *InstrumentService) Get(ctx context.Context, id string) (*models.Instrument, error) {
	return s.store.Get(ctx, id)
}

// List returns instruments with optional status and type filters (pass-through).
func (s *InstrumentService) List(ctx context.Context, status, instrumentType string, limit, offset int64) ([]models.Instrument, error) {
	return s.store.List(ctx, status, instrumentType, limit, offset)
}

// Update validates and applies a token-guarded update.
func (s *InstrumentService) Update(ctx context.Context, id string, req *models.UpdateInstrumentRequest, actor *string) (*models.Instrument, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.store.Update(ctx, id, req, actor)
}

// Delete delists an instrument after a token check.
func (s *InstrumentService) Delete(ctx context.Context, id, version string, actor *string) error {
	if err := s.store.Delete(ctx, id, version, actor); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"instrument_id": id,
		"actor":         actorField(actor),
	}).Info("instrument.delete")

	return nil
}
