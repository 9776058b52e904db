package api_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/brokeragehq/backoffice/internal/api"
	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/models"
)

func TestHistory_ScopesAndPaginates(t *testing.T) {
	t.Parallel()

	querier := &mockChangeQuerier{page: &models.ChangePage{Page: 2, PageSize: 25}}

	r := newTestRouter()
	h := api.NewChangesHandler(querier, testLogger())
	r.GET("/accounts/:id/history", h.History(models.EntityAccount))

	w := doRequest(r, http.MethodGet, "/accounts/acc-1/history?page=2&page_size=25", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if querier.lastEntityType != models.EntityAccount {
		t.Errorf("expected entity type %q, got %q", models.EntityAccount, querier.lastEntityType)
	}
	if querier.lastEntityID != "acc-1" {
		t.Errorf("expected entity id 'acc-1', got %q", querier.lastEntityID)
	}
	if querier.lastPage != 2 || querier.lastPageSize != 25 {
		t.Errorf("expected page=2 page_size=25, got page=%d page_size=%d", querier.lastPage, querier.lastPageSize)
	}
}

func TestHistory_NonIntegerPage(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewChangesHandler(&mockChangeQuerier{}, testLogger())
	r.GET("/clients/:id/history", h.History(models.EntityClient))

	w := doRequest(r, http.MethodGet, "/clients/cl-1/history?page=two", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFeed_ParsesFilters(t *testing.T) {
	t.Parallel()

	querier := &mockChangeQuerier{page: &models.ChangePage{}}

	r := newTestRouter()
	h := api.NewChangesHandler(querier, testLogger())
	r.GET("/changes", h.Feed)

	w := doRequest(r, http.MethodGet,
		"/changes?entity_type=order&actor=ops-1&change_type=modified&label=ACC&from=2026-08-01T00:00:00Z&to=2026-08-30T00:00:00Z", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	q := querier.lastQuery
	if q.EntityType != "order" || q.Actor != "ops-1" || q.ChangeType != "modified" || q.Label != "ACC" {
		t.Errorf("unexpected query: %+v", q)
	}
	if q.From == nil || !q.From.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected from: %v", q.From)
	}
	if q.To == nil || !q.To.Equal(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected to: %v", q.To)
	}
}

func TestFeed_BadTimestamp(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewChangesHandler(&mockChangeQuerier{}, testLogger())
	r.GET("/changes", h.Feed)

	w := doRequest(r, http.MethodGet, "/changes?from=yesterday", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFeed_UnknownEntityType(t *testing.T) {
	t.Parallel()

	querier := &mockChangeQuerier{err: models.ErrUnknownEntityType}

	r := newTestRouter()
	h := api.NewChangesHandler(querier, testLogger())
	r.GET("/changes", h.Feed)

	w := doRequest(r, http.MethodGet, "/changes?entity_type=widget", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFeed_InvalidFilterValue(t *testing.T) {
	t.Parallel()

	querier := &mockChangeQuerier{err: models.ErrInvalidValue("change_type", "bogus")}

	r := newTestRouter()
	h := api.NewChangesHandler(querier, testLogger())
	r.GET("/changes", h.Feed)

	w := doRequest(r, http.MethodGet, "/changes?change_type=bogus", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Code != "validation_error" {
		t.Errorf("error code = %q, want validation_error", body.Code)
	}
}

func TestChangeGet_ByID(t *testing.T) {
	t.Parallel()

	querier := &mockChangeQuerier{record: &audit.ChangeRecord{
		EntityType: models.EntityClient,
		EntityID:   "cl-1",
		Type:       audit.Modified,
		RecordedAt: time.Now().UTC(),
	}}

	r := newTestRouter()
	h := api.NewChangesHandler(querier, testLogger())
	r.GET("/changes/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/changes/42", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var rec audit.ChangeRecord
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if rec.ID != 42 {
		t.Errorf("expected id 42, got %d", rec.ID)
	}
}

func TestChangeGet_InvalidID(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewChangesHandler(&mockChangeQuerier{}, testLogger())
	r.GET("/changes/:id", h.Get)

	for _, id := range []string{"abc", "0", "-5"} {
		w := doRequest(r, http.MethodGet, "/changes/"+id, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("id %q: expected 400, got %d", id, w.Code)
		}
	}
}

func TestExport_SetsDownloadHeaders(t *testing.T) {
	t.Parallel()

	querier := &mockChangeQuerier{
		export: []byte(`[]`),
		ctype:  "application/json",
	}

	r := newTestRouter()
	h := api.NewChangesHandler(querier, testLogger())
	r.GET("/changes/export", h.Export)

	w := doRequest(r, http.MethodGet, "/changes/export?entity_type=account", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if querier.lastFormat != "json" {
		t.Errorf("expected default format json, got %q", querier.lastFormat)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("unexpected content type %q", got)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment;") {
		t.Errorf("expected attachment disposition, got %q", cd)
	}
}
