package board

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/neonverse/wordboard/internal/db"
	"github.com/neonverse/wordboard/internal/extract"
	"github.com/neonverse/wordboard/internal/models"
	"github.com/neonverse/wordboard/pkg/apperror"
	"github.com/neonverse/wordboard/pkg/telemetry"
)

// CreatePostInput describes a post creation request
type CreatePostInput struct {
	UserID    int64
	Content   string
	ParentID  int64 // 0 for a top-level post
	Image     io.Reader
	ImageName string
}

// CreatePost validates and stores a new post. For top-level posts every
// extracted hashtag is resolved to a topic (created on first use with the
// author as founder), attached, and counted. Replies never touch topics; they
// bump the parent's comment counter instead.
func (s *Service) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "board.create_post")
	defer span.End()

	content := strings.TrimSpace(s.policy.Sanitize(in.Content))
	if content == "" {
		return nil, apperror.Validation("content is required")
	}
	if len([]rune(content)) > MaxContentLength {
		return nil, apperror.Validation("content exceeds maximum length")
	}

	if in.ParentID != 0 {
		parent, err := db.NewPostRepository(s.repo).GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperror.NotFound("parent post not found")
		}
	}

	imageURL := ""
	if in.Image != nil && s.storage != nil {
		url, err := s.storage.Upload(ctx, in.Image, in.ImageName)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	post := &models.Post{
		UserID:   in.UserID,
		Content:  content,
		Mentions: extract.Mentions(content),
		Hashtags: extract.Hashtags(content),
	}
	if imageURL != "" {
		post.ImageURL = sql.NullString{String: imageURL, Valid: true}
	}
	if in.ParentID != 0 {
		post.ParentID = sql.NullInt64{Int64: in.ParentID, Valid: true}
	}

	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		postRepo := db.NewPostRepository(tx)
		if err := postRepo.Create(ctx, post); err != nil {
			return err
		}

		if !post.IsReply() {
			if err := attachHashtags(ctx, tx, post); err != nil {
				return err
			}
		} else {
			if err := postRepo.IncrementCommentCount(ctx, in.ParentID); err != nil {
				return err
			}
		}

		return recordPost(ctx, tx, in.UserID, time.Now())
	})
	if err != nil {
		// The upload happened outside the transaction; don't orphan it
		if imageURL != "" {
			s.releaseImages(ctx, []string{imageURL})
		}
		return nil, err
	}

	s.logger.Debug("Created post",
		zap.Int64("post_id", post.ID),
		zap.Int64("user_id", in.UserID),
		zap.Bool("is_reply", post.IsReply()),
		zap.Int("hashtags", len(post.Hashtags)))

	return post, nil
}

// attachHashtags runs ensure-and-attach for each of a top-level post's
// hashtags. Counters only move when the attachment actually wrote a new link,
// so re-attaching the same topic to the same post never double-counts.
func attachHashtags(ctx context.Context, repo *db.Repository, post *models.Post) error {
	topicRepo := db.NewTopicRepository(repo)
	for _, tag := range post.Hashtags {
		topic, _, err := topicRepo.EnsureByName(ctx, tag, post.UserID)
		if err != nil {
			return err
		}
		attached, err := topicRepo.Attach(ctx, post.ID, topic.ID)
		if err != nil {
			return err
		}
		if !attached {
			continue
		}
		if err := topicRepo.IncrementPostCounts(ctx, topic.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeletePost removes a post and its entire reply tree. Only the author or an
// admin may delete. Attached images are released after the rows are gone.
func (s *Service) DeletePost(ctx context.Context, postID, actorID int64, actorIsAdmin bool) error {
	ctx, span := telemetry.StartSpan(ctx, "board.delete_post")
	defer span.End()

	postRepo := db.NewPostRepository(s.repo)
	post, err := postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return apperror.NotFound("post not found")
	}
	if post.UserID != actorID && !actorIsAdmin {
		return apperror.ErrForbidden
	}

	ids, err := postRepo.CollectThread(ctx, postID)
	if err != nil {
		return err
	}
	images, err := postRepo.ImageURLsByIDs(ctx, ids)
	if err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *db.Repository) error {
		return db.NewPostRepository(tx).DeleteByIDs(ctx, ids)
	})
	if err != nil {
		return err
	}

	s.releaseImages(ctx, images)

	s.logger.Info("Deleted post tree",
		zap.Int64("post_id", postID),
		zap.Int("posts_removed", len(ids)))

	return nil
}

// DeleteUserContent removes every post authored by a user, including the
// reply trees hanging off their top-level posts
func (s *Service) DeleteUserContent(ctx context.Context, userID int64) error {
	postRepo := db.NewPostRepository(s.repo)
	roots, err := postRepo.ListIDsByAuthor(ctx, userID)
	if err != nil {
		return err
	}

	seen := make(map[int64]struct{})
	var all []int64
	for _, root := range roots {
		ids, err := postRepo.CollectThread(ctx, root)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			all = append(all, id)
		}
	}
	if len(all) == 0 {
		return nil
	}

	images, err := postRepo.ImageURLsByIDs(ctx, all)
	if err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *db.Repository) error {
		return db.NewPostRepository(tx).DeleteByIDs(ctx, all)
	})
	if err != nil {
		return err
	}

	s.releaseImages(ctx, images)
	return nil
}

// releaseImages deletes stored images best-effort, after a thread delete or
// when an uploaded image's post never committed
func (s *Service) releaseImages(ctx context.Context, urls []string) {
	if s.storage == nil {
		return
	}
	for _, url := range urls {
		if err := s.storage.Delete(ctx, url); err != nil {
			s.logger.Warn("Failed to release image", zap.String("url", url), zap.Error(err))
		}
	}
}
