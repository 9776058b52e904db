package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/models"
)

// OrderHandler serves order CRUD endpoints.
type OrderHandler struct {
	repo OrderRepository
	log  *logrus.Logger
}

// NewOrderHandler creates an OrderHandler with the given service and logger.
func NewOrderHandler(repo OrderRepository, log *logrus.Logger) *OrderHandler {
	return &OrderHandler{repo: repo, log: log}
}

// List handles GET /api/v1/orders.
func (h *OrderHandler) List(c *gin.Context) {
	accountID := c.Query("account_id")
	instrumentID := c.Query("instrument_id")
	status := c.Query("status")
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	orders, err := h.repo.List(c.Request.Context(), accountID, instrumentID, status, limit, offset)
	if err != nil {
		respondDomainError(c, h.log, err, "listing orders")

		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Get handles GET /api/v1/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID := c.Param("id")
	if err := validatePathID(orderID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	order, err := h.repo.Get(c.Request.Context(), orderID)
	if err != nil {
		respondDomainError(c, h.log, err, "getting order")

		return
	}

	c.JSON(http.StatusOK, order)
}

// Create handles POST /api/v1/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	order, err := h.repo.Create(c.Request.Context(), &req, getActor(c))
	if err != nil {
		respondDomainError(c, h.log, err, "creating order")

		return
	}

	c.JSON(http.StatusCreated, order)
}

// Update handles PUT /api/v1/orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	orderID := c.Param("id")
	if err := validatePathID(orderID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	order, err := h.repo.Update(c.Request.Context(), orderID, &req, getActor(c))
	if err != nil {
		respondDomainError(c, h.log, err, "updating order")

		return
	}

	c.JSON(http.StatusOK, order)
}

// Delete handles DELETE /api/v1/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID := c.Param("id")
	if err := validatePathID(orderID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if err := h.repo.Delete(c.Request.Context(), orderID, c.Query("version"), getActor(c)); err != nil {
		respondDomainError(c, h.log, err, "deleting order")

		return
	}

	c.Status(http.StatusNoContent)
}
