package service_test

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return log
}

// mockChangeLog records the last query it received and serves canned pages.
type mockChangeLog struct {
	lastQuery    audit.Query
	lastPage     int64
	lastPageSize int64
	page         *models.ChangePage
	err          error
}

func (m *mockChangeLog) List(_ context.Context, q audit.Query, page, pageSize int64) (*models.ChangePage, error) {
	m.lastQuery = q
	m.lastPage = page
	m.lastPageSize = pageSize

	if m.err != nil {
		return nil, m.err
	}

	if m.page != nil {
		return m.page, nil
	}

	return &models.ChangePage{Items: []audit.ChangeRecord{}, Page: page, PageSize: pageSize}, nil
}

func (m *mockChangeLog) Get(_ context.Context, id int64) (*audit.ChangeRecord, error) {
	if m.err != nil {
		return nil, m.err
	}

	return &audit.ChangeRecord{ID: id}, nil
}

// mockClientStore counts calls so tests can assert validation short-circuits.
type mockClientStore struct {
	creates int
	updates int
	deletes int
	client  *models.Client
	err     error
}

func (m *mockClientStore) Create(_ context.Context, _ *models.CreateClientRequest, _ *string) (*models.Client, error) {
	m.creates++

	return m.client, m.err
}

func (m *mockClientStore) Get(_ context.Context, _ string) (*models.Client, error) {
	return m.client, m.err
}

func (m *mockClientStore) List(_ context.Context, _ string, _, _ int64) ([]models.Client, error) {
	return nil, m.err
}

func (m *mockClientStore) Update(_ context.Context, _ string, _ *models.UpdateClientRequest, _ *string) (*models.Client, error) {
	m.updates++

	return m.client, m.err
}

func (m *mockClientStore) Delete(_ context.Context, _, _ string, _ *string) error {
	m.deletes++

	return m.err
}
