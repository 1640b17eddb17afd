package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobtrack/jobtrack/internal/ai"
	"github.com/jobtrack/jobtrack/internal/application"
	"github.com/jobtrack/jobtrack/internal/documents"
	"github.com/jobtrack/jobtrack/internal/importer"
	"github.com/jobtrack/jobtrack/pkg/logger"
)

// respondError maps domain errors onto HTTP statuses. Anything unrecognized
// is a 500 with a generic message; the detail goes to the log, not the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrValidation),
		errors.Is(err, documents.ErrValidation),
		errors.Is(err, ai.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, application.ErrNotFound),
		errors.Is(err, documents.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, application.ErrUnauthenticated),
		errors.Is(err, documents.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
	case errors.Is(err, ai.ErrGenerationFailed),
		errors.Is(err, importer.ErrSearchFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, ai.ErrNotConfigured),
		errors.Is(err, importer.ErrSearchNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logger.Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
