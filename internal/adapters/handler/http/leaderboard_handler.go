package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cadenza-app/cadenza/internal/core/services"
)

type LeaderboardHandler struct {
	svc *services.LeaderboardService
}

func NewLeaderboardHandler(svc *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc}
}

func (h *LeaderboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/leaderboard", h.Rank)
}

func (h *LeaderboardHandler) Rank(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	metric := c.DefaultQuery("metric", "current")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	rows, err := h.svc.Rank(c.Request.Context(), metric, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  rows,
		"metric": metric,
	})
}
