// controllers/common.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stizirine/booklio-application-sub001/services"
	"github.com/stizirine/booklio-application-sub001/utils"
)

// tenantFromContext resolves the tenant scope set by the auth middleware.
// A false return means the response has already been written.
func tenantFromContext(c *gin.Context) (uuid.UUID, bool) {
	tenantID, exists := c.Get("tenantId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Tenant ID not found in context")
		return uuid.Nil, false
	}

	tenantUUID, err := uuid.Parse(tenantID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid tenant ID format")
		return uuid.Nil, false
	}
	return tenantUUID, true
}

// respondServiceError maps the ledger's typed failures onto HTTP statuses.
// Nothing is swallowed; unknown errors surface as a 500.
func respondServiceError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	var nfErr *services.NotFoundError
	var opErr *services.OverpaymentError
	var ccErr *services.ConcurrencyConflictError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
	case errors.As(err, &nfErr):
		c.JSON(http.StatusNotFound, gin.H{"error": nfErr.Error()})
	case errors.As(err, &opErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":           opErr.Error(),
			"remainingAmount": opErr.Remaining,
		})
	case errors.As(err, &ccErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": ccErr.Error(),
			"retry": true,
		})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled service error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}
