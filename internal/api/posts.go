package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neonverse/wordboard/internal/board"
	"github.com/neonverse/wordboard/internal/db"
	"github.com/neonverse/wordboard/pkg/logging"
)

// PostAPI handles post endpoints
type PostAPI struct {
	repo   *db.Repository
	board  *board.Service
	logger *zap.Logger
}

// NewPostAPI creates a new post API handler
func NewPostAPI(repo *db.Repository, boardSvc *board.Service) *PostAPI {
	return &PostAPI{
		repo:   repo,
		board:  boardSvc,
		logger: logging.GetLogger().With(zap.String("component", "api-posts")),
	}
}

// Create handles POST /api/posts. Accepts multipart form data with content,
// an optional parent_id, and an optional image file.
func (api *PostAPI) Create(c *gin.Context) {
	userID, _ := currentUser(c)

	in := board.CreatePostInput{
		UserID:  userID,
		Content: c.PostForm("content"),
	}
	if raw := c.PostForm("parent_id"); raw != "" {
		parentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parentID < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent_id"})
			return
		}
		in.ParentID = parentID
	}

	if header, err := c.FormFile("image"); err == nil && header != nil {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
			return
		}
		defer file.Close()
		in.Image = file
		in.ImageName = header.Filename
	}

	post, err := api.board.CreatePost(c.Request.Context(), in)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// List handles GET /api/posts. Returns top-level posts newest first,
// optionally filtered to one topic via ?topic=<slug>.
func (api *PostAPI) List(c *gin.Context) {
	limit, offset := pagination(c)
	posts := db.NewPostRepository(api.repo)

	var topicID int64
	if slug := c.Query("topic"); slug != "" {
		topic, err := db.NewTopicRepository(api.repo).GetBySlug(c.Request.Context(), slug)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if topic == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "topic not found"})
			return
		}
		topicID = topic.ID
	}

	result, err := posts.ListTopLevel(c.Request.Context(), topicID, limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": result})
}

// Show handles GET /api/posts/:id. Returns the post with its author, topics
// and nested replies.
func (api *PostAPI) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := db.NewPostRepository(api.repo).GetWithRelations(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /api/posts/:id. Owners delete their own posts;
// admins delete any. The whole reply tree goes with it.
func (api *PostAPI) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID, isAdmin := currentUser(c)
	if err := api.board.DeletePost(c.Request.Context(), id, userID, isAdmin); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// Reactions handles GET /api/posts/:id/reactions. Returns reaction counts
// grouped by type.
func (api *PostAPI) Reactions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := db.NewPostRepository(api.repo).GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	counts, err := db.NewReactionRepository(api.repo).CountsByType(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post_id": id, "reactions": counts})
}

type toggleReactionRequest struct {
	Type string `json:"type" binding:"required"`
}

// ToggleReaction handles POST /api/posts/:id/reactions. Adds the reaction if
// absent, removes it if present.
func (api *PostAPI) ToggleReaction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req toggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type is required"})
		return
	}

	userID, _ := currentUser(c)
	result, err := api.board.ToggleReaction(c.Request.Context(), userID, id, req.Type)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
