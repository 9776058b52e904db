package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/brokeragehq/backoffice/internal/api"
	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/models"
)

func TestClientCreate_Valid(t *testing.T) {
	t.Parallel()

	var gotActor *string

	repo := &mockClientRepo{
		createFn: func(_ context.Context, req *models.CreateClientRequest, actor *string) (*models.Client, error) {
			gotActor = actor

			return &models.Client{
				ID:          req.ID,
				Name:        req.Name,
				Email:       req.Email,
				Status:      "active",
				RiskProfile: "moderate",
				Version:     audit.FirstToken,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}, nil
		},
	}

	r := newTestRouter()
	h := api.NewClientHandler(repo, testLogger())
	r.POST("/clients", h.Create)

	w := doRequest(r, http.MethodPost, "/clients", `{"id":"cl-1","name":"Alice","email":"alice@example.com"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var client models.Client
	if err := json.Unmarshal(w.Body.Bytes(), &client); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if client.ID != "cl-1" {
		t.Errorf("expected id 'cl-1', got %q", client.ID)
	}
	if client.Version != audit.FirstToken {
		t.Errorf("expected first version token, got %v", client.Version)
	}
	if gotActor == nil || *gotActor != testActorID {
		t.Errorf("expected actor %q, got %v", testActorID, gotActor)
	}
}

func TestClientCreate_MissingName(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewClientHandler(&mockClientRepo{}, testLogger())
	r.POST("/clients", h.Create)

	w := doRequest(r, http.MethodPost, "/clients", `{"id":"cl-1","email":"alice@example.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestClientGet_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockClientRepo{
		getFn: func(_ context.Context, _ string) (*models.Client, error) {
			return nil, models.ErrClientNotFound
		},
	}

	r := newTestRouter()
	h := api.NewClientHandler(repo, testLogger())
	r.GET("/clients/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/clients/missing", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestClientUpdate_VersionConflict(t *testing.T) {
	t.Parallel()

	current := audit.Token(7)
	repo := &mockClientRepo{
		updateFn: func(_ context.Context, id string, _ *models.UpdateClientRequest, _ *string) (*models.Client, error) {
			return nil, &audit.ConflictError{
				EntityType: models.EntityClient,
				EntityID:   id,
				Supplied:   audit.FirstToken,
				Current:    current,
			}
		},
	}

	r := newTestRouter()
	h := api.NewClientHandler(repo, testLogger())
	r.PUT("/clients/:id", h.Update)

	body := `{"version":"` + audit.FirstToken.String() + `","name":"Renamed"}`
	w := doRequest(r, http.MethodPut, "/clients/cl-1", body)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if resp["code"] != "version_conflict" {
		t.Errorf("expected code version_conflict, got %v", resp["code"])
	}
	if resp["current_version"] != current.String() {
		t.Errorf("expected current_version %q, got %v", current.String(), resp["current_version"])
	}
}

func TestClientUpdate_BadToken(t *testing.T) {
	t.Parallel()

	repo := &mockClientRepo{
		updateFn: func(_ context.Context, _ string, _ *models.UpdateClientRequest, _ *string) (*models.Client, error) {
			return nil, audit.ErrBadToken
		},
	}

	r := newTestRouter()
	h := api.NewClientHandler(repo, testLogger())
	r.PUT("/clients/:id", h.Update)

	w := doRequest(r, http.MethodPut, "/clients/cl-1", `{"version":"garbage","name":"Renamed"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestClientDelete_PassesVersionQuery(t *testing.T) {
	t.Parallel()

	var gotVersion string

	repo := &mockClientRepo{
		deleteFn: func(_ context.Context, _, version string, _ *string) error {
			gotVersion = version

			return nil
		},
	}

	r := newTestRouter()
	h := api.NewClientHandler(repo, testLogger())
	r.DELETE("/clients/:id", h.Delete)

	w := doRequest(r, http.MethodDelete, "/clients/cl-1?version="+audit.FirstToken.String(), "")

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if gotVersion != audit.FirstToken.String() {
		t.Errorf("expected version %q, got %q", audit.FirstToken.String(), gotVersion)
	}
}

func TestClientDelete_InUse(t *testing.T) {
	t.Parallel()

	repo := &mockClientRepo{
		deleteFn: func(_ context.Context, _, _ string, _ *string) error {
			return models.ErrEntityInUse
		},
	}

	r := newTestRouter()
	h := api.NewClientHandler(repo, testLogger())
	r.DELETE("/clients/:id", h.Delete)

	w := doRequest(r, http.MethodDelete, "/clients/cl-1?version="+audit.FirstToken.String(), "")

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestClientList_PassesFilters(t *testing.T) {
	t.Parallel()

	var gotStatus string
	var gotLimit, gotOffset int64

	repo := &mockClientRepo{
		listFn: func(_ context.Context, status string, limit, offset int64) ([]models.Client, error) {
			gotStatus, gotLimit, gotOffset = status, limit, offset

			return []models.Client{}, nil
		},
	}

	r := newTestRouter()
	h := api.NewClientHandler(repo, testLogger())
	r.GET("/clients", h.List)

	w := doRequest(r, http.MethodGet, "/clients?status=frozen&limit=10&offset=20", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotStatus != "frozen" || gotLimit != 10 || gotOffset != 20 {
		t.Errorf("unexpected filter args: status=%q limit=%d offset=%d", gotStatus, gotLimit, gotOffset)
	}
}
