package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cadenza-app/cadenza/internal/adapters/handler/http/middleware"
	"github.com/cadenza-app/cadenza/internal/core/analytics"
	"github.com/cadenza-app/cadenza/internal/core/domain"
)

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrHabitNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCheckInNotFound),
		errors.Is(err, domain.ErrNotFollowing):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrDuplicateHabitName),
		errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, analytics.ErrInvalidDate),
		errors.Is(err, analytics.ErrInvalidTimestamp),
		errors.Is(err, analytics.ErrInvalidWindow),
		errors.Is(err, domain.ErrHabitNameEmpty),
		errors.Is(err, domain.ErrHabitNameTooLong),
		errors.Is(err, domain.ErrCategoryTooLong),
		errors.Is(err, domain.ErrInvalidFrequency),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrAlreadyFollowing):
		// Idempotent follow: report success without a new edge.
		c.JSON(http.StatusOK, gin.H{"message": "already following"})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func requireUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return userID, true
}
