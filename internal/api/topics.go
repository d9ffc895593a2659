package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neonverse/wordboard/internal/board"
	"github.com/neonverse/wordboard/internal/db"
	"github.com/neonverse/wordboard/internal/models"
	"github.com/neonverse/wordboard/internal/ranking"
	"github.com/neonverse/wordboard/pkg/logging"
)

// TopicAPI handles topic endpoints
type TopicAPI struct {
	repo    *db.Repository
	board   *board.Service
	ranking *ranking.Service
	logger  *zap.Logger
}

// NewTopicAPI creates a new topic API handler
func NewTopicAPI(repo *db.Repository, boardSvc *board.Service, rankingSvc *ranking.Service) *TopicAPI {
	return &TopicAPI{
		repo:    repo,
		board:   boardSvc,
		ranking: rankingSvc,
		logger:  logging.GetLogger().With(zap.String("component", "api-topics")),
	}
}

// topicIndexLimit caps the topics index result
const topicIndexLimit = 50

// Index handles GET /api/topics?sort=trending|new|views with an optional
// category filter. Unfiltered queries go through the ranking cache; category
// queries hit postgres directly.
func (api *TopicAPI) Index(c *gin.Context) {
	ctx := c.Request.Context()

	sort := c.DefaultQuery("sort", "trending")
	order, ok := topicOrder(sort)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be one of trending, new, views"})
		return
	}

	if category := c.Query("category"); category != "" {
		topics, err := db.NewTopicRepository(api.repo).
			ListByCategory(ctx, category, order, topicIndexLimit)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sort": sort, "category": category, "topics": topics})
		return
	}

	var (
		topics []models.Topic
		err    error
	)
	switch sort {
	case "trending":
		topics, err = api.ranking.TrendingTopics(ctx)
	case "new":
		topics, err = api.ranking.NewTopics(ctx)
	case "views":
		topics, err = api.ranking.MostViewedTopics(ctx)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sort": sort, "topics": topics})
}

// topicOrder maps an index sort name to its SQL ordering
func topicOrder(sort string) (string, bool) {
	switch sort {
	case "trending":
		return "post_count DESC", true
	case "new":
		return "created_at DESC", true
	case "views":
		return "view_count DESC", true
	}
	return "", false
}

// Show handles GET /api/topics/:slug. Each load counts as a view and bumps
// both lifetime and daily view counters.
func (api *TopicAPI) Show(c *gin.Context) {
	topic, err := api.board.ViewTopic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	limit, offset := pagination(c)
	posts, err := db.NewPostRepository(api.repo).ListTopLevel(c.Request.Context(), topic.ID, limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"topic": topic, "posts": posts})
}
