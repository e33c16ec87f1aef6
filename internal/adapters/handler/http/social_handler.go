package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cadenza-app/cadenza/internal/core/services"
)

type SocialHandler struct {
	social      *services.SocialService
	authService *services.AuthService
}

func NewSocialHandler(social *services.SocialService, authService *services.AuthService) *SocialHandler {
	return &SocialHandler{
		social:      social,
		authService: authService,
	}
}

type followRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *SocialHandler) RegisterRoutes(router *gin.RouterGroup) {
	social := router.Group("/social")
	{
		social.POST("/follow", h.Follow)
		social.DELETE("/unfollow/:userID", h.Unfollow)
		social.GET("/friends", h.Friends)
		social.GET("/feed", h.Feed)
	}

	router.GET("/users/search", h.SearchUsers)
}

func (h *SocialHandler) Follow(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	follow, err := h.social.Follow(c.Request.Context(), userID, req.UserID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"follow": follow})
}

func (h *SocialHandler) Unfollow(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.social.Unfollow(c.Request.Context(), userID, c.Param("userID")); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

func (h *SocialHandler) Friends(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	friends, err := h.social.Friends(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(friends))
	for _, u := range friends {
		resp = append(resp, userResponse{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			CreatedAt: u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"friends": resp})
}

func (h *SocialHandler) Feed(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	items, err := h.social.Feed(c.Request.Context(), userID, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *SocialHandler) SearchUsers(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"users": []userResponse{}})
		return
	}
	if len(query) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query must be at least 2 characters"})
		return
	}
	if len(query) > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query must be at most 50 characters"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, err := h.authService.SearchUsers(c.Request.Context(), userID, query, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			CreatedAt: u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": resp})
}
