package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/campaxis/camp-accommodation-backend/internal/apperrors"
)

// respondError maps a repository error to an HTTP status and JSON body.
// Unclassified errors are logged and reported as a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error, fallback string) {
	var appErr *apperrors.Error
	status := apperrors.HTTPStatus(err)
	message := fallback
	if errors.As(err, &appErr) {
		message = appErr.Message
	} else {
		logger.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).WithError(err).Error(fallback)
	}
	c.JSON(status, gin.H{"error": message})
}

// parseIDParam reads a positive integer path parameter
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(400, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// parseDate parses an optional yyyy-mm-dd string
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
