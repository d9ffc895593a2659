package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neonverse/wordboard/internal/board"
	"github.com/neonverse/wordboard/internal/db"
	"github.com/neonverse/wordboard/internal/models"
	"github.com/neonverse/wordboard/internal/reset"
	"github.com/neonverse/wordboard/pkg/logging"
)

// AdminAPI handles the moderation and operations surface
type AdminAPI struct {
	repo   *db.Repository
	board  *board.Service
	runner *reset.Runner
	logger *zap.Logger
}

// NewAdminAPI creates a new admin API handler
func NewAdminAPI(repo *db.Repository, boardSvc *board.Service, runner *reset.Runner) *AdminAPI {
	return &AdminAPI{
		repo:   repo,
		board:  boardSvc,
		runner: runner,
		logger: logging.GetLogger().With(zap.String("component", "api-admin")),
	}
}

// Dashboard handles GET /api/admin/dashboard
func (api *AdminAPI) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	users := db.NewUserRepository(api.repo)
	settings := db.NewSettingsRepository(api.repo)

	userCount, err := users.Count(ctx, false)
	if err != nil {
		abortWithError(c, err)
		return
	}
	bannedCount, err := users.Count(ctx, true)
	if err != nil {
		abortWithError(c, err)
		return
	}
	postCount, err := db.NewPostRepository(api.repo).Count(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	topicCount, err := db.NewTopicRepository(api.repo).Count(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resetTime, err := settings.GetString(ctx, models.SettingDailyResetTime, "00:00")
	if err != nil {
		abortWithError(c, err)
		return
	}
	lastReset, hasReset, err := settings.GetTime(ctx, models.SettingLastResetAt)
	if err != nil {
		abortWithError(c, err)
		return
	}

	payload := gin.H{
		"users":            userCount,
		"banned_users":     bannedCount,
		"posts":            postCount,
		"topics":           topicCount,
		"daily_reset_time": resetTime,
	}
	if hasReset {
		payload["last_reset_at"] = lastReset
	}
	c.JSON(http.StatusOK, payload)
}

// ListUsers handles GET /api/admin/users?search=&filter=banned|admin
func (api *AdminAPI) ListUsers(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := db.NewUserRepository(api.repo).
		List(c.Request.Context(), c.Query("search"), c.Query("filter"), limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type banRequest struct {
	Reason string `json:"reason"`
}

// BanUser handles POST /api/admin/users/:id/ban
func (api *AdminAPI) BanUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req banRequest
	_ = c.ShouldBindJSON(&req)

	if err := db.NewUserRepository(api.repo).SetBanned(c.Request.Context(), id, true, req.Reason); err != nil {
		abortWithError(c, err)
		return
	}
	api.logger.Info("User banned", zap.Int64("user_id", id))
	c.JSON(http.StatusOK, gin.H{"banned": id})
}

// UnbanUser handles POST /api/admin/users/:id/unban
func (api *AdminAPI) UnbanUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := db.NewUserRepository(api.repo).SetBanned(c.Request.Context(), id, false, ""); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unbanned": id})
}

// PromoteUser handles POST /api/admin/users/:id/promote
func (api *AdminAPI) PromoteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := db.NewUserRepository(api.repo).SetAdmin(c.Request.Context(), id, true); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promoted": id})
}

// DemoteUser handles POST /api/admin/users/:id/demote. Admins cannot demote
// themselves.
func (api *AdminAPI) DemoteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actorID, _ := currentUser(c)
	if id == actorID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot demote yourself"})
		return
	}
	if err := db.NewUserRepository(api.repo).SetAdmin(c.Request.Context(), id, false); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"demoted": id})
}

// DeleteUser handles DELETE /api/admin/users/:id. Removes the user's posts
// (whole threads, images included) before the account itself.
func (api *AdminAPI) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	users := db.NewUserRepository(api.repo)
	user, err := users.GetByID(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := api.board.DeleteUserContent(ctx, id); err != nil {
		abortWithError(c, err)
		return
	}
	if err := users.Delete(ctx, id); err != nil {
		abortWithError(c, err)
		return
	}

	api.logger.Info("User deleted", zap.Int64("user_id", id))
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// ListPosts handles GET /api/admin/posts?search=
func (api *AdminAPI) ListPosts(c *gin.Context) {
	limit, offset := pagination(c)
	posts, err := db.NewPostRepository(api.repo).
		ListForModeration(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// ListTopics handles GET /api/admin/topics?search=
func (api *AdminAPI) ListTopics(c *gin.Context) {
	limit, offset := pagination(c)
	topics, err := db.NewTopicRepository(api.repo).
		List(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// DeleteTopic handles DELETE /api/admin/topics/:id. Posts keep existing,
// only the topic and its attachments go.
func (api *AdminAPI) DeleteTopic(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := api.board.DeleteTopic(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	api.logger.Info("Topic deleted", zap.Int64("topic_id", id))
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// GetSettings handles GET /api/admin/settings
func (api *AdminAPI) GetSettings(c *gin.Context) {
	ctx := c.Request.Context()
	settings := db.NewSettingsRepository(api.repo)

	resetTime, err := settings.GetString(ctx, models.SettingDailyResetTime, "00:00")
	if err != nil {
		abortWithError(c, err)
		return
	}

	lastReset, hasReset, err := settings.GetTime(ctx, models.SettingLastResetAt)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, settingsPayload(resetTime, lastReset, hasReset))
}

// settingsPayload omits last_reset_at until the first reset has run
func settingsPayload(resetTime string, lastReset time.Time, hasReset bool) gin.H {
	payload := gin.H{"daily_reset_time": resetTime}
	if hasReset {
		payload["last_reset_at"] = lastReset
	}
	return payload
}

type updateSettingsRequest struct {
	DailyResetTime string `json:"daily_reset_time" binding:"required"`
}

// UpdateSettings handles PUT /api/admin/settings. The reset time must be a
// valid "HH:MM" clock value.
func (api *AdminAPI) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "daily_reset_time is required"})
		return
	}
	if _, err := time.Parse("15:04", req.DailyResetTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "daily_reset_time must be in HH:MM format"})
		return
	}

	if err := db.NewSettingsRepository(api.repo).
		Set(c.Request.Context(), models.SettingDailyResetTime, req.DailyResetTime); err != nil {
		abortWithError(c, err)
		return
	}

	api.logger.Info("Reset time updated", zap.String("daily_reset_time", req.DailyResetTime))
	c.JSON(http.StatusOK, gin.H{"daily_reset_time": req.DailyResetTime})
}

// ForceReset handles POST /api/admin/reset. Triggers the daily reset
// immediately; reports whether this call ran it or one was already in flight.
func (api *AdminAPI) ForceReset(c *gin.Context) {
	ran, err := api.runner.TryRun(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !ran {
		c.JSON(http.StatusConflict, gin.H{"error": "a reset is already running"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": "completed"})
}
