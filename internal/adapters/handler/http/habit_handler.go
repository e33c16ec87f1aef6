package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cadenza-app/cadenza/internal/core/domain"
	"github.com/cadenza-app/cadenza/internal/core/services"
)

type HabitHandler struct {
	habits   *services.HabitService
	checkIns *services.CheckInService
}

func NewHabitHandler(habits *services.HabitService, checkIns *services.CheckInService) *HabitHandler {
	return &HabitHandler{
		habits:   habits,
		checkIns: checkIns,
	}
}

type createHabitRequest struct {
	Name      string   `json:"name" binding:"required"`
	Category  string   `json:"category"`
	Frequency string   `json:"frequency"`
	Tags      []string `json:"tags"`
}

type updateHabitRequest struct {
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Frequency string   `json:"frequency"`
	Tags      []string `json:"tags"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.GET("", h.List)
		habits.POST("", h.Create)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
		habits.GET("/:id/stats", h.Stats)
	}
}

func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	habit, err := h.habits.Create(c.Request.Context(), services.CreateHabitInput{
		UserID:    userID,
		Name:      req.Name,
		Category:  req.Category,
		Frequency: req.Frequency,
		Tags:      req.Tags,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"habit": habit})
}

func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	filter := domain.HabitFilter{
		Category:  c.Query("category"),
		NameQuery: c.Query("q"),
	}
	if tags := c.Query("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}

	habits, err := h.habits.ListByUserID(c.Request.Context(), userID, filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	habit, err := h.habits.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habit})
}

func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	habit, err := h.habits.Update(c.Request.Context(), services.UpdateHabitInput{
		ID:        c.Param("id"),
		UserID:    userID,
		Name:      req.Name,
		Category:  req.Category,
		Frequency: req.Frequency,
		Tags:      req.Tags,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habit})
}

func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.habits.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "habit deleted"})
}

// Stats serves the per-habit analytics: daily and weekly streaks plus the
// trailing 7-day completion rate.
func (h *HabitHandler) Stats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.checkIns.HabitStats(c.Request.Context(), userID, c.Param("id"), time.Now().UTC())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
