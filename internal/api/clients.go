package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/models"
)

// ClientHandler serves client CRUD endpoints.
type ClientHandler struct {
	repo ClientRepository
	log  *logrus.Logger
}

// NewClientHandler creates a ClientHandler with the given service and logger.
func NewClientHandler(repo ClientRepository, log *logrus.Logger) *ClientHandler {
	return &ClientHandler{repo: repo, log: log}
}

// List handles GET /api/v1/clients.
func (h *ClientHandler) List(c *gin.Context) {
	status := c.Query("status")
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	clients, err := h.repo.List(c.Request.Context(), status, limit, offset)
	if err != nil {
		respondDomainError(c, h.log, err, "listing clients")

		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

// Get handles GET /api/v1/clients/:id.
func (h *ClientHandler) Get(c *gin.Context) {
	clientID := c.Param("id")
	if err := validatePathID(clientID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	client, err := h.repo.Get(c.Request.Context(), clientID)
	if err != nil {
		respondDomainError(c, h.log, err, "getting client")

		return
	}

	c.JSON(http.StatusOK, client)
}

// Create handles POST /api/v1/clients.
func (h *ClientHandler) Create(c *gin.Context) {
	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	client, err := h.repo.Create(c.Request.Context(), &req, getActor(c))
	if err != nil {
		respondDomainError(c, h.log, err, "creating client")

		return
	}

	c.JSON(http.StatusCreated, client)
}

// Update handles PUT /api/v1/clients/:id.
func (h *ClientHandler) Update(c *gin.Context) {
	clientID := c.Param("id")
	if err := validatePathID(clientID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	client, err := h.repo.Update(c.Request.Context(), clientID, &req, getActor(c))
	if err != nil {
		respondDomainError(c, h.log, err, "updating client")

		return
	}

	c.JSON(http.StatusOK, client)
}

// Delete handles DELETE /api/v1/clients/:id. The version token comes from
// the "version" query parameter since DELETE carries no body.
func (h *ClientHandler) Delete(c *gin.Context) {
	clientID := c.Param("id")
	if err := validatePathID(clientID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if err := h.repo.Delete(c.Request.Context(), clientID, c.Query("version"), getActor(c)); err != nil {
		respondDomainError(c, h.log, err, "deleting client")

		return
	}

	c.Status(http.StatusNoContent)
}
