package board

import (
	"context"

	"go.uber.org/zap"

	"github.com/neonverse/wordboard/internal/db"
	"github.com/neonverse/wordboard/internal/models"
	"github.com/neonverse/wordboard/pkg/apperror"
)

// ViewTopic resolves a topic by slug and records the view. Every request
// counts; there is no per-viewer deduplication.
func (s *Service) ViewTopic(ctx context.Context, slug string) (*models.Topic, error) {
	topicRepo := db.NewTopicRepository(s.repo)
	topic, err := topicRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, apperror.NotFound("topic not found")
	}

	if err := topicRepo.IncrementViewCounts(ctx, topic.ID); err != nil {
		return nil, err
	}
	topic.ViewCount++
	topic.DailyViewCount++

	return topic, nil
}

// DeleteTopic removes a topic, detaching it from all posts. The posts are
// left untouched.
func (s *Service) DeleteTopic(ctx context.Context, topicID int64) error {
	topicRepo := db.NewTopicRepository(s.repo)
	topic, err := topicRepo.GetByID(ctx, topicID)
	if err != nil {
		return err
	}
	if topic == nil {
		return apperror.NotFound("topic not found")
	}

	err = s.repo.Transaction(ctx, func(tx *db.Repository) error {
		return db.NewTopicRepository(tx).Delete(ctx, topicID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Deleted topic", zap.Int64("topic_id", topicID), zap.String("name", topic.Name))
	return nil
}
