package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/models"
)

// AccountHandler serves account CRUD endpoints.
type AccountHandler struct {
	repo AccountRepository
	log  *logrus.Logger
}

// NewAccountHandler creates an AccountHandler with the given service and logger.
func NewAccountHandler(repo AccountRepository, log *logrus.Logger) *AccountHandler {
	return &AccountHandler{repo: repo, log: log}
}

// List handles GET /api/v1/accounts.
func (h *AccountHandler) List(c *gin.Context) {
	clientID := c.Query("client_id")
	status := c.Query("status")
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	accounts, err := h.repo.List(c.Request.Context(), clientID, status, limit, offset)
	if err != nil {
		respondDomainError(c, h.log, err, "listing accounts")

		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// Get handles GET /api/v1/accounts/:id.
func (h *AccountHandler) Get(c *gin.Context) {
	accountID := c.Param("id")
	if err := validatePathID(accountID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	account, err := h.repo.Get(c.Request.Context(), accountID)
	if err != nil {
		respondDomainError(c, h.log, err, "getting account")

		return
	}

	c.JSON(http.StatusOK, account)
}

// Create handles POST /api/v1/accounts.
func (h *AccountHandler) Create(c *gin.Context) {
	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	account, err := h.repo.Create(c.Request.Context(), &req, getActor(c))
	if err != nil {
		respondDomainError(c, h.log, err, "creating account")

		return
	}

	c.JSON(http.StatusCreated, account)
}

// Update handles PUT /api/v1/accounts/:id.
func (h *AccountHandler) Update(c *gin.Context) {
	accountID := c.Param("id")
	if err := validatePathID(accountID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	account, err := h.repo.Update(c.Request.Context(), accountID, &req, getActor(c))
	if err != nil {
		respondDomainError(c, h.log, err, "updating account")

		return
	}

	c.JSON(http.StatusOK, account)
}

// Delete handles DELETE /api/v1/accounts/:id.
func (h *AccountHandler) Delete(c *gin.Context) {
	accountID := c.Param("id")
	if err := validatePathID(accountID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if err := h.repo.Delete(c.Request.Context(), accountID, c.Query("version"), getActor(c)); err != nil {
		respondDomainError(c, h.log, err, "deleting account")

		return
	}

	c.Status(http.StatusNoContent)
}
