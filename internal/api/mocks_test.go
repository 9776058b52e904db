package api_test

import (
	"context"
	"errors"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/models"
)

var errMockNotConfigured = errors.New("mock not configured")

// mockClientRepo implements the client service interface with overridable functions.
type mockClientRepo struct {
	createFn func(ctx context.Context, req *models.CreateClientRequest, actor *string) (*models.Client, error)
	getFn    func(ctx context.Context, id string) (*models.Client, error)
	listFn   func(ctx context.Context, status string, limit, offset int64) ([]models.Client, error)
	updateFn func(ctx context.Context, id string, req *models.UpdateClientRequest, actor *string) (*models.Client, error)
	deleteFn func(ctx context.Context, id, version string, actor *string) error
}

func (m *mockClientRepo) Create(ctx context.Context, req *models.CreateClientRequest, actor *string) (*models.Client, error) {
	if m.createFn == nil {
		return nil, errMockNotConfigured
	}

	return m.createFn(ctx, req, actor)
}

func (m *mockClientRepo) Get(ctx context.Context, id string) (*models.Client, error) {
	if m.getFn == nil {
		return nil, errMockNotConfigured
	}

	return m.getFn(ctx, id)
}

func (m *mockClientRepo) List(ctx context.Context, status string, limit, offset int64) ([]models.Client, error) {
	if m.listFn == nil {
		return nil, errMockNotConfigured
	}

	return m.listFn(ctx, status, limit, offset)
}

func (m *mockClientRepo) Update(ctx context.Context, id string, req *models.UpdateClientRequest, actor *string) (*models.Client, error) {
	if m.updateFn == nil {
		return nil, errMockNotConfigured
	}

	return m.updateFn(ctx, id, req, actor)
}

func (m *mockClientRepo) Delete(ctx context.Context, id, version string, actor *string) error {
	if m.deleteFn == nil {
		return errMockNotConfigured
	}

	return m.deleteFn(ctx, id, version, actor)
}

// mockChangeQuerier records the arguments of the last call so routing and
// parameter parsing can be asserted.
type mockChangeQuerier struct {
	lastEntityType string
	lastEntityID   string
	lastQuery      audit.Query
	lastPage       int64
	lastPageSize   int64
	lastFormat     string

	page   *models.ChangePage
	record *audit.ChangeRecord
	export []byte
	ctype  string
	err    error
}

func (m *mockChangeQuerier) EntityHistory(_ context.Context, entityType, entityID string, page, pageSize int64) (*models.ChangePage, error) {
	m.lastEntityType = entityType
	m.lastEntityID = entityID
	m.lastPage = page
	m.lastPageSize = pageSize

	return m.page, m.err
}

func (m *mockChangeQuerier) GlobalFeed(_ context.Context, q audit.Query, page, pageSize int64) (*models.ChangePage, error) {
	m.lastQuery = q
	m.lastPage = page
	m.lastPageSize = pageSize

	return m.page, m.err
}

func (m *mockChangeQuerier) Record(_ context.Context, id int64) (*audit.ChangeRecord, error) {
	if m.err != nil {
		return nil, m.err
	}

	rec := *m.record
	rec.ID = id

	return &rec, nil
}

func (m *mockChangeQuerier) ExportFeed(_ context.Context, q audit.Query, format string) ([]byte, string, error) {
	m.lastQuery = q
	m.lastFormat = format

	return m.export, m.ctype, m.err
}
