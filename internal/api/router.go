package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neonverse/wordboard/internal/board"
	"github.com/neonverse/wordboard/internal/db"
	"github.com/neonverse/wordboard/internal/ranking"
	"github.com/neonverse/wordboard/internal/reset"
	"github.com/neonverse/wordboard/pkg/config"
	"github.com/neonverse/wordboard/pkg/logging"
)

// writesPerMinute is the per-IP budget for post creation and reactions
const writesPerMinute = 30

// Router sets up API routes
type Router struct {
	db      *db.DB
	repo    *db.Repository
	auth    *Auth
	limiter *RateLimiter

	posts    *PostAPI
	topics   *TopicAPI
	users    *UserAPI
	rankings *RankingAPI
	admin    *AdminAPI

	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, cfg *config.Config, boardSvc *board.Service, rankingSvc *ranking.Service, runner *reset.Runner) *Router {
	repo := db.NewRepository(database.DB)
	return &Router{
		db:       database,
		repo:     repo,
		auth:     NewAuth(cfg.Auth.JWTSecret),
		limiter:  NewRateLimiter(writesPerMinute),
		posts:    NewPostAPI(repo, boardSvc),
		topics:   NewTopicAPI(repo, boardSvc, rankingSvc),
		users:    NewUserAPI(repo),
		rankings: NewRankingAPI(rankingSvc),
		admin:    NewAdminAPI(repo, boardSvc, runner),
		logger:   logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	api := engine.Group("/api")

	// Read surface
	api.GET("/board", r.rankings.Board)
	api.GET("/rankings/hot", r.rankings.Hot)
	api.GET("/rankings/trending", r.rankings.Trending)
	api.GET("/rankings/new", r.rankings.New)
	api.GET("/rankings/feed", r.rankings.Feed)
	api.GET("/topics", r.topics.Index)
	api.GET("/topics/:slug", r.topics.Show)
	api.GET("/users/:id", r.users.Show)
	api.GET("/posts", r.posts.List)
	api.GET("/posts/:id", r.posts.Show)
	api.GET("/posts/:id/reactions", r.posts.Reactions)

	// Write surface
	writes := api.Group("", r.auth.Required(), NotBanned(r.repo), r.limiter.Middleware())
	writes.POST("/posts", r.posts.Create)
	writes.POST("/posts/:id/reactions", r.posts.ToggleReaction)

	authed := api.Group("", r.auth.Required())
	authed.DELETE("/posts/:id", r.posts.Delete)

	// Admin surface
	admin := api.Group("/admin", r.auth.Required(), r.auth.AdminRequired())
	admin.GET("/dashboard", r.admin.Dashboard)
	admin.GET("/users", r.admin.ListUsers)
	admin.POST("/users/:id/ban", r.admin.BanUser)
	admin.POST("/users/:id/unban", r.admin.UnbanUser)
	admin.POST("/users/:id/promote", r.admin.PromoteUser)
	admin.POST("/users/:id/demote", r.admin.DemoteUser)
	admin.DELETE("/users/:id", r.admin.DeleteUser)
	admin.GET("/posts", r.admin.ListPosts)
	admin.DELETE("/posts/:id", r.posts.Delete)
	admin.GET("/topics", r.admin.ListTopics)
	admin.DELETE("/topics/:id", r.admin.DeleteTopic)
	admin.GET("/settings", r.admin.GetSettings)
	admin.PUT("/settings", r.admin.UpdateSettings)
	admin.POST("/reset", r.admin.ForceReset)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	if err := r.db.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DEGRADED",
			"service": "wordboard-api",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "wordboard-api",
	})
}
