package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/httputil"
	"github.com/brokeragehq/backoffice/internal/metrics"
	"github.com/brokeragehq/backoffice/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeConflict        = "conflict"
	ErrCodeVersionConflict = "version_conflict"
	ErrCodeInternalError   = "internal_error"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeUnavailable     = "unavailable"
	ErrCodeValidationError = "validation_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondConflict writes the version-conflict response. The payload carries
// the live token so a client can re-read, re-apply, and retry without an
// extra GET.
func respondConflict(c *gin.Context, conflict *audit.ConflictError) {
	metrics.ErrorsTotal.WithLabelValues(ErrCodeVersionConflict).Inc()
	metrics.VersionConflicts.WithLabelValues(conflict.EntityType).Inc()

	c.AbortWithStatusJSON(http.StatusConflict, gin.H{
		"code":            ErrCodeVersionConflict,
		"message":         conflict.Error(),
		"current_version": conflict.Current.String(),
	})
}

// notFoundSentinels maps domain not-found errors to response nouns.
var notFoundSentinels = map[error]string{
	models.ErrClientNotFound:       "client not found",
	models.ErrAccountNotFound:      "account not found",
	models.ErrInstrumentNotFound:   "instrument not found",
	models.ErrOrderNotFound:        "order not found",
	models.ErrTransactionNotFound:  "transaction not found",
	models.ErrChangeRecordNotFound: "change record not found",
}

// respondDomainError translates a service error into the right HTTP
// response. Anything unrecognized is a 500 and gets logged; everything
// else is the client's problem and is not.
func respondDomainError(c *gin.Context, log *logrus.Logger, err error, action string) {
	var conflict *audit.ConflictError
	if errors.As(err, &conflict) {
		respondConflict(c, conflict)

		return
	}

	var invalid *models.InvalidValueError
	if errors.As(err, &invalid) {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, invalid.Error())

		return
	}

	if errors.Is(err, audit.ErrBadToken) {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	for sentinel, msg := range notFoundSentinels {
		if errors.Is(err, sentinel) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, msg)

			return
		}
	}

	switch {
	case errors.Is(err, models.ErrDuplicateKey):
		respondError(c, http.StatusConflict, ErrCodeConflict, "entity with this ID already exists")
	case errors.Is(err, models.ErrEntityInUse):
		respondError(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, models.ErrInvalidPagination),
		errors.Is(err, models.ErrUnknownEntityType):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "database timeout")
	default:
		log.WithError(err).Error(action)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
