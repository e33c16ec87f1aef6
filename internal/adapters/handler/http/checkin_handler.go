package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cadenza-app/cadenza/internal/core/analytics"
	"github.com/cadenza-app/cadenza/internal/core/services"
)

type CheckInHandler struct {
	svc *services.CheckInService
}

func NewCheckInHandler(svc *services.CheckInService) *CheckInHandler {
	return &CheckInHandler{svc: svc}
}

type recordCheckInRequest struct {
	HabitID string `json:"habit_id" binding:"required"`

	// Date is optional; empty means today. Completed defaults to true,
	// hence the pointer.
	Date      string `json:"date"`
	Completed *bool  `json:"completed"`
}

func (h *CheckInHandler) RegisterRoutes(router *gin.RouterGroup) {
	checkIns := router.Group("/checkins")
	{
		checkIns.POST("", h.Record)
		checkIns.GET("/:habitID", h.ListByHabit)
	}
}

func (h *CheckInHandler) Record(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req recordCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	checkIn, err := h.svc.Record(c.Request.Context(), services.RecordCheckInInput{
		UserID:    userID,
		HabitID:   req.HabitID,
		Date:      req.Date,
		Completed: completed,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"check_in": checkIn})
}

func (h *CheckInHandler) ListByHabit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var from, to time.Time
	if f := c.Query("from"); f != "" {
		parsed, err := analytics.ParseTimestamp(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date format"})
			return
		}
		from = parsed
	}
	if t := c.Query("to"); t != "" {
		parsed, err := analytics.ParseTimestamp(t)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date format"})
			return
		}
		to = parsed
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from date cannot be after to date"})
		return
	}

	checkIns, err := h.svc.ListByHabit(c.Request.Context(), userID, c.Param("habitID"), from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"check_ins": checkIns})
}
