package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/cadenza-app/cadenza/internal/adapters/handler/http"
	"github.com/cadenza-app/cadenza/internal/adapters/handler/http/middleware"
	"github.com/cadenza-app/cadenza/internal/adapters/repository"
	"github.com/cadenza-app/cadenza/internal/core/domain"
	"github.com/cadenza-app/cadenza/internal/core/services"
)

func setupLeaderboardRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	userRepo := repository.NewInMemoryUserRepository()
	habitRepo := repository.NewInMemoryHabitRepository()
	checkInRepo := repository.NewInMemoryCheckInRepository()

	today := time.Now().UTC().Truncate(24 * time.Hour)

	// alice: 3-day streak ending today. bob: checked in yesterday only.
	seed := map[string][]int{
		"alice": {0, 1, 2},
		"bob":   {1},
	}
	for name, offsets := range seed {
		user, err := domain.NewUser(name+"-id", name, name+"@example.com")
		require.NoError(t, err)
		require.NoError(t, userRepo.Create(ctx, user))

		habit, err := domain.NewHabit(user.ID, "practice", "", domain.FrequencyDaily, nil)
		require.NoError(t, err)
		require.NoError(t, habitRepo.Create(ctx, habit))

		for _, offset := range offsets {
			_, err := checkInRepo.Upsert(ctx, domain.NewCheckIn(user.ID, habit.ID, today.AddDate(0, 0, -offset), true))
			require.NoError(t, err)
		}
	}

	svc := services.NewLeaderboardService(userRepo, habitRepo, checkInRepo, 2)
	handler := adapterHTTP.NewLeaderboardHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	})

	api := r.Group("/api/v1")
	handler.RegisterRoutes(api)
	return r
}

func TestLeaderboard(t *testing.T) {
	t.Run("Success: ranked by current streak", func(t *testing.T) {
		router := setupLeaderboardRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/leaderboard", nil)
		req.Header.Set("X-User-ID", "alice-id")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items  []domain.LeaderboardRow `json:"items"`
			Metric string                  `json:"metric"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.Equal(t, "current", resp.Metric)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "alice", resp.Items[0].Username)
		assert.Equal(t, 3, resp.Items[0].CurrentStreak)
		assert.Equal(t, "bob", resp.Items[1].Username)
		assert.Equal(t, 0, resp.Items[1].CurrentStreak)
	})

	t.Run("Success: limit applies", func(t *testing.T) {
		router := setupLeaderboardRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/leaderboard?limit=1", nil)
		req.Header.Set("X-User-ID", "alice-id")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []domain.LeaderboardRow `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Items, 1)
	})

	t.Run("Unknown metric falls back to current", func(t *testing.T) {
		router := setupLeaderboardRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/leaderboard?metric=bogus", nil)
		req.Header.Set("X-User-ID", "alice-id")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Fail: 401 without user", func(t *testing.T) {
		router := setupLeaderboardRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/leaderboard", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
