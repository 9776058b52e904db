package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/audit"
)

// ChangesHandler serves change history and feed endpoints.
type ChangesHandler struct {
	repo ChangeQuerier
	log  *logrus.Logger
}

// NewChangesHandler creates a ChangesHandler with the given service and logger.
func NewChangesHandler(repo ChangeQuerier, log *logrus.Logger) *ChangesHandler {
	return &ChangesHandler{repo: repo, log: log}
}

// History returns the handler for GET /api/v1/<entities>/:id/history.
// The entity type is fixed per route.
func (h *ChangesHandler) History(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		entityID := c.Param("id")
		if err := validatePathID(entityID); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

			return
		}

		page, pageSize, ok := parsePagination(c)
		if !ok {
			return
		}

		result, err := h.repo.EntityHistory(c.Request.Context(), entityType, entityID, page, pageSize)
		if err != nil {
			respondDomainError(c, h.log, err, "querying entity history")

			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// Feed handles GET /api/v1/changes, the filtered cross-entity feed.
func (h *ChangesHandler) Feed(c *gin.Context) {
	q, ok := parseFeedQuery(c)
	if !ok {
		return
	}

	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}

	result, err := h.repo.GlobalFeed(c.Request.Context(), q, page, pageSize)
	if err != nil {
		respondDomainError(c, h.log, err, "querying change feed")

		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/v1/changes/:id, one record by log sequence.
func (h *ChangesHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid change record id")

		return
	}

	rec, err := h.repo.Record(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.log, err, "getting change record")

		return
	}

	c.JSON(http.StatusOK, rec)
}

// Export handles GET /api/v1/changes/export, a filtered feed download in
// JSON or XLSX form.
func (h *ChangesHandler) Export(c *gin.Context) {
	q, ok := parseFeedQuery(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "json")

	data, contentType, err := h.repo.ExportFeed(c.Request.Context(), q, format)
	if err != nil {
		respondDomainError(c, h.log, err, "exporting change feed")

		return
	}

	filename := "changes-" + time.Now().UTC().Format("20060102-150405") + "." + format
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// parseFeedQuery reads the conjunctive feed filters from query parameters.
// Timestamps are RFC 3339; a malformed one aborts with 400 and returns
// ok=false.
func parseFeedQuery(c *gin.Context) (audit.Query, bool) {
	q := audit.Query{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Actor:      c.Query("actor"),
		ChangeType: c.Query("change_type"),
		Label:      c.Query("label"),
	}

	for name, dst := range map[string]**time.Time{"from": &q.From, "to": &q.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}

		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest,
				fmt.Sprintf("invalid %s timestamp (want RFC 3339)", name))

			return audit.Query{}, false
		}

		*dst = &t
	}

	return q, true
}

// parsePagination reads page/page_size. The pagination policy itself
// (defaults, clamping, rejection) lives in the query service; this only
// rejects values that are not integers at all.
func parsePagination(c *gin.Context) (page, pageSize int64, ok bool) {
	for name, dst := range map[string]*int64{"page": &page, "page_size": &pageSize} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}

		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid "+name)

			return 0, 0, false
		}

		*dst = v
	}

	return page, pageSize, true
}
