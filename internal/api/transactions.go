package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/models"
)

// TransactionHandler serves transaction CRUD endpoints.
type TransactionHandler struct {
	repo TransactionRepository
	log  *logrus.Logger
}

// NewTransactionHandler creates a TransactionHandler with the given service and logger.
func NewTransactionHandler(repo TransactionRepository, log *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{repo: repo, log: log}
}

// List handles GET /api/v1/transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	accountID := c.Query("account_id")
	txType := c.Query("type")
	status := c.Query("status")
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	transactions, err := h.repo.List(c.Request.Context(), accountID, txType, status, limit, offset)
	if err != nil {
		respondDomainError(c, h.log, err, "listing transactions")

		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// Get handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	txID := c.Param("id")
	if err := validatePathID(txID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	tx, err := h.repo.Get(c.Request.Context(), txID)
	if err != nil {
		respondDomainError(c, h.log, err, "getting transaction")

		return
	}

	c.JSON(http.StatusOK, tx)
}

// Create handles POST /api/v1/transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	tx, err := h.repo.Create(c.Request.Context(), &req, getActor(c))
	if err != nil {
		respondDomainError(c, h.log, err, "creating transaction")

		return
	}

	c.JSON(http.StatusCreated, tx)
}

// Update handles PUT /api/v1/transactions/:id.
func (h *TransactionHandler) Update(c *gin.Context) {
	txID := c.Param("id")
	if err := validatePathID(txID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	tx, err := h.repo.Update(c.Request.Context(), txID, &req, getActor(c))
	if err != nil {
		respondDomainError(c, h.log, err, "updating transaction")

		return
	}

	c.JSON(http.StatusOK, tx)
}

// Delete handles DELETE /api/v1/transactions/:id.
func (h *TransactionHandler) Delete(c *gin.Context) {
	txID := c.Param("id")
	if err := validatePathID(txID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if err := h.repo.Delete(c.Request.Context(), txID, c.Query("version"), getActor(c)); err != nil {
		respondDomainError(c, h.log, err, "deleting transaction")

		return
	}

	c.Status(http.StatusNoContent)
}
