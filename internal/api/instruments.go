package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/models"
)

// InstrumentHandler serves instrument CRUD endpoints.
type InstrumentHandler struct {
	repo InstrumentRepository
	log  *logrus.Logger
}

// NewInstrumentHandler creates an InstrumentHandler with the given service and logger.
func NewInstrumentHandler(repo InstrumentRepository, log *logrus.Logger) *InstrumentHandler {
	return &InstrumentHandler{repo: repo, log: log}
}

// List handles GET /api/v1/instruments.
func (h *InstrumentHandler) List(c *gin.Context) {
	status := c.Query("status")
	instrumentType := c.Query("type")
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	instruments, err := h.repo.List(c.Request.Context(), status, instrumentType, limit, offset)
	if err != nil {
		respondDomainError(c, h.log, err, "listing instruments")

		return
	}

	c.JSON(http.StatusOK, gin.H{"instruments": instruments})
}

// Get handles GET /api/v1/instruments/:id.
func (h *InstrumentHandler) Get(c *gin.Context) {
	instrumentID := c.Param("id")
	if err := validatePathID(instrumentID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	instrument, err := h.repo.Get(c.Request.Context(), instrumentID)
	if err != nil {
		respondDomainError(c, h.log, err, "getting instrument")

		return
	}

	c.JSON(http.StatusOK, instrument)
}

// Create handles POST /api/v1/instruments.
func (h *InstrumentHandler) Create(c *gin.Context) {
	var req models.CreateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	instrument, err := h.repo.Create(c.Request.Context(), &req, getActor(c))
	if err != nil {
		respondDomainError(c, h.log, err, "creating instrument")

		return
	}

	c.JSON(http.StatusCreated, instrument)
}

// Update handles PUT /api/v1/instruments/:id.
func (h *InstrumentHandler) Update(c *gin.Context) {
	instrumentID := c.Param("id")
	if err := validatePathID(instrumentID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	instrument, err := h.repo.Update(c.Request.Context(), instrumentID, &req, getActor(c))
	if err != nil {
		respondDomainError(c, h.log, err, "updating instrument")

		return
	}

	c.JSON(http.StatusOK, instrument)
}

// Delete handles DELETE /api/v1/instruments/:id.
func (h *InstrumentHandler) Delete(c *gin.Context) {
	instrumentID := c.Param("id")
	if err := validatePathID(instrumentID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if err := h.repo.Delete(c.Request.Context(), instrumentID, c.Query("version"), getActor(c)); err != nil {
		respondDomainError(c, h.log, err, "deleting instrument")

		return
	}

	c.Status(http.StatusNoContent)
}
