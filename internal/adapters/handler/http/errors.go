package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-study/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
)

var validationErrors = []error{
	domain.ErrSessionSubjectEmpty,
	domain.ErrSessionSubjectTooLong,
	domain.ErrSessionInvalidUserID,
	domain.ErrSessionDateRequired,
	domain.ErrNegativeDuration,
	domain.ErrInvalidFocusLevel,
	domain.ErrMoodTooLong,
	domain.ErrNegativeDistractions,
	domain.ErrInvalidTimeOfDay,
	domain.ErrScheduleSubjectEmpty,
	domain.ErrScheduleSubjectTooLong,
	domain.ErrScheduleInvalidUserID,
	domain.ErrScheduleInvalidRange,
	domain.ErrInvalidColor,
	domain.ErrInvalidAnalyticsWindow,
	domain.ErrInvalidEmail,
	domain.ErrInvalidUsername,
	domain.ErrPasswordTooShort,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrScheduleNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrSessionConflict), errors.Is(err, domain.ErrScheduleConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "data has been modified elsewhere, please reload",
		})

	case errors.Is(err, domain.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})

	case errors.Is(err, domain.ErrUsernameAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})

	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})

	case isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		logrus.WithError(err).
			WithField("method", c.Request.Method).
			WithField("path", c.Request.URL.Path).
			Error("request failed")

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return userID, ok
}
