package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neonverse/wordboard/internal/db"
	"github.com/neonverse/wordboard/internal/models"
	"github.com/neonverse/wordboard/pkg/logging"
)

const (
	// profileTopicLimit caps the contributed-topics list on a profile
	profileTopicLimit = 10
)

// UserAPI handles public user profile endpoints
type UserAPI struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewUserAPI creates a new user API handler
func NewUserAPI(repo *db.Repository) *UserAPI {
	return &UserAPI{
		repo:   repo,
		logger: logging.GetLogger().With(zap.String("component", "api-users")),
	}
}

// Show handles GET /api/users/:id. Returns the user with their stats, their
// most-contributed topics, and their recent top-level posts.
func (api *UserAPI) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := db.NewUserRepository(api.repo).GetByID(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	stats, err := db.NewStatsRepository(api.repo).Get(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	topics, err := db.NewTopicRepository(api.repo).TopForAuthor(ctx, id, profileTopicLimit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	limit, offset := pagination(c)
	posts, err := db.NewPostRepository(api.repo).ListByAuthor(ctx, id, limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"stats":  profileStats(stats, id),
		"topics": topics,
		"posts":  posts,
	})
}

// profileStats substitutes an empty stats row for users who have never posted
// or reacted
func profileStats(stats *models.UserStats, userID int64) *models.UserStats {
	if stats != nil {
		return stats
	}
	return &models.UserStats{UserID: userID, Badges: models.StringList{}}
}
