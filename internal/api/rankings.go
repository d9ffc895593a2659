package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neonverse/wordboard/internal/ranking"
	"github.com/neonverse/wordboard/pkg/logging"
)

// RankingAPI handles the board index and ranking endpoints
type RankingAPI struct {
	ranking *ranking.Service
	logger  *zap.Logger
}

// NewRankingAPI creates a new ranking API handler
func NewRankingAPI(rankingSvc *ranking.Service) *RankingAPI {
	return &RankingAPI{
		ranking: rankingSvc,
		logger:  logging.GetLogger().With(zap.String("component", "api-rankings")),
	}
}

// Board handles GET /api/board: the word cloud payload
func (api *RankingAPI) Board(c *gin.Context) {
	topics, err := api.ranking.WordCloud(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// Hot handles GET /api/rankings/hot
func (api *RankingAPI) Hot(c *gin.Context) {
	topics, err := api.ranking.HotTopics(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// Trending handles GET /api/rankings/trending
func (api *RankingAPI) Trending(c *gin.Context) {
	topics, err := api.ranking.TrendingTopics(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// New handles GET /api/rankings/new
func (api *RankingAPI) New(c *gin.Context) {
	topics, err := api.ranking.NewTopics(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// Feed handles GET /api/rankings/feed: top-level posts by fire reactions
func (api *RankingAPI) Feed(c *gin.Context) {
	posts, err := api.ranking.TrendingFeed(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}
