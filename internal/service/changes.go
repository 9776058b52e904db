package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/domain"
	"github.com/brokeragehq/backoffice/internal/models"
)

// DefaultPageSize applies when a feed request omits page_size.
const DefaultPageSize = 50

// exportPageSize bounds how many records an export pulls in one query.
const exportPageSize = 10000

// Export formats.
const (
	ExportJSON = "json"
	ExportXLSX = "xlsx"
)

// ChangeQueryService answers history and feed queries over the change
// log. It owns the pagination policy and validates filter values against
// the schema registry before anything reaches the store.
type ChangeQueryService struct {
	store       domain.ChangeLogService
	reg         *audit.Registry
	maxPageSize int64
	log         *logrus.Logger
}

// NewChangeQueryService creates a ChangeQueryService. maxPageSize bounds
// page_size on every query (values above it are clamped, not rejected).
func NewChangeQueryService(store domain.ChangeLogService, reg *audit.Registry, maxPageSize int64, log *logrus.Logger) *ChangeQueryService {
	if maxPageSize <= 0 {
		maxPageSize = DefaultPageSize
	}

	return &ChangeQueryService{store: store, reg: reg, maxPageSize: maxPageSize, log: log}
}

// normalizePage applies the pagination policy: pages are 1-based and a
// page below 1 is a client error; page_size 0 means the default, negative
// is an error, and oversized values clamp to the configured maximum.
func (s *ChangeQueryService) normalizePage(page, pageSize int64) (int64, int64, error) {
	if page == 0 {
		page = 1
	}

	if page < 1 || pageSize < 0 {
		return 0, 0, models.ErrInvalidPagination
	}

	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	return page, pageSize, nil
}

// validateQuery rejects filter values that can never match anything.
func (s *ChangeQueryService) validateQuery(q audit.Query) error {
	if q.EntityType != "" {
		if _, ok := s.reg.Resolve(q.EntityType); !ok {
			return fmt.Errorf("%w: %q", models.ErrUnknownEntityType, q.EntityType)
		}
	}

	if q.ChangeType != "" && !audit.ChangeType(q.ChangeType).Valid() {
		return models.ErrInvalidValue("change_type", q.ChangeType)
	}

	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return models.ErrInvalidValue("time range", "from after to")
	}

	return nil
}

// EntityHistory returns one page of an entity's change history, newest
// first. It does not distinguish a never-existed entity from one with no
// recorded changes; both yield an empty page.
func (s *ChangeQueryService) EntityHistory(ctx context.Context, entityType, entityID string, page, pageSize int64) (*models.ChangePage, error) {
	if _, ok := s.reg.Resolve(entityType); !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownEntityType, entityType)
	}

	page, pageSize, err := s.normalizePage(page, pageSize)
	if err != nil {
		return nil, err
	}

	return s.store.List(ctx, audit.Query{EntityType: entityType, EntityID: entityID}, page, pageSize)
}

// GlobalFeed returns one page of the cross-entity change feed.
func (s *ChangeQueryService) GlobalFeed(ctx context.Context, q audit.Query, page, pageSize int64) (*models.ChangePage, error) {
	if err := s.validateQuery(q); err != nil {
		return nil, err
	}

	page, pageSize, err := s.normalizePage(page, pageSize)
	if err != nil {
		return nil, err
	}

	return s.store.List(ctx, q, page, pageSize)
}

// Record returns one change record by its log sequence.
func (s *ChangeQueryService) Record(ctx context.Context, id int64) (*audit.ChangeRecord, error) {
	return s.store.Get(ctx, id)
}

// ExportFeed renders the filtered feed as a download. Supported formats
// are "json" and "xlsx"; the export is capped at exportPageSize records,
// newest first.
func (s *ChangeQueryService) ExportFeed(ctx context.Context, q audit.Query, format string) ([]byte, string, error) {
	if err := s.validateQuery(q); err != nil {
		return nil, "", err
	}

	page, err := s.store.List(ctx, q, 1, exportPageSize)
	if err != nil {
		return nil, "", err
	}

	s.log.WithFields(logrus.Fields{
		"format":  format,
		"records": len(page.Items),
	}).Info("changes.export")

	switch strings.ToLower(format) {
	case "", ExportJSON:
		data, err := json.MarshalIndent(page.Items, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("marshaling export: %w", err)
		}

		return data, "application/json", nil
	case ExportXLSX:
		data, err := exportXLSX(page.Items)
		if err != nil {
			return nil, "", err
		}

		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	default:
		return nil, "", models.ErrInvalidValue("format", format)
	}
}

// exportXLSX flattens records into one worksheet row per field change,
// so spreadsheet users can filter by field without parsing JSON.
func exportXLSX(records []audit.ChangeRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // in-memory file, close cannot fail meaningfully

	const sheet = "Changes"

	f.SetSheetName("Sheet1", sheet)

	header := []any{"Recorded At", "Entity Type", "Entity ID", "Change Type", "Actor", "Label", "Field", "Old", "New"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing export header: %w", err)
	}

	rowNum := 2

	for _, rec := range records {
		actor := "system"
		if rec.Actor != nil {
			actor = *rec.Actor
		}

		changes := rec.Changes
		if len(changes) == 0 {
			changes = []audit.FieldChange{{}}
		}

		for _, ch := range changes {
			row := []any{
				rec.RecordedAt.Format("2006-01-02 15:04:05"),
				rec.EntityType,
				rec.EntityID,
				string(rec.Type),
				actor,
				rec.Label,
				ch.Field,
				ch.Old,
				ch.New,
			}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNum), &row); err != nil {
				return nil, fmt.Errorf("writing export row %d: %w", rowNum, err)
			}

			rowNum++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing export workbook: %w", err)
	}

	return buf.Bytes(), nil
}
