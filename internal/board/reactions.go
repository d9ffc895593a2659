package board

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/neonverse/wordboard/internal/db"
	"github.com/neonverse/wordboard/internal/models"
	"github.com/neonverse/wordboard/pkg/apperror"
	"github.com/neonverse/wordboard/pkg/telemetry"
)

// ToggleResult reports the outcome of a reaction toggle
type ToggleResult struct {
	Action        string `json:"action"` // "added" or "removed"
	ReactionCount int64  `json:"reaction_count"`
}

// ToggleReaction adds or removes a (user, post, type) reaction. Toggling the
// same triple twice returns the post's reaction count to its starting value.
// A concurrent duplicate insert is silently treated as already-added.
func (s *Service) ToggleReaction(ctx context.Context, userID, postID int64, reactionType string) (*ToggleResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "board.toggle_reaction")
	defer span.End()

	if !models.ValidReactionType(reactionType) {
		return nil, apperror.Validation("unknown reaction type")
	}

	postRepo := db.NewPostRepository(s.repo)
	post, err := postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperror.NotFound("post not found")
	}

	existing, err := db.NewReactionRepository(s.repo).Get(ctx, userID, postID, reactionType)
	if err != nil {
		return nil, err
	}

	action := "added"
	err = s.repo.Transaction(ctx, func(tx *db.Repository) error {
		reactionRepo := db.NewReactionRepository(tx)
		txPostRepo := db.NewPostRepository(tx)

		if existing != nil {
			removed, err := reactionRepo.Delete(ctx, existing.ID)
			if err != nil {
				return err
			}
			action = "removed"
			delta := countDelta(true, removed)
			if delta == 0 {
				// A concurrent request removed the same reaction first; no-op
				return nil
			}
			return txPostRepo.AddReactionCount(ctx, postID, delta)
		}

		inserted, err := reactionRepo.Insert(ctx, &models.Reaction{
			UserID:    userID,
			PostID:    postID,
			Type:      reactionType,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		delta := countDelta(false, inserted)
		if delta == 0 {
			// A concurrent request added the same reaction first; no-op
			return nil
		}
		if err := txPostRepo.AddReactionCount(ctx, postID, delta); err != nil {
			return err
		}
		statsRepo := db.NewStatsRepository(tx)
		// The reacting user may never have posted; make sure the row exists
		if _, err := statsRepo.GetOrCreate(ctx, userID); err != nil {
			return err
		}
		return statsRepo.AddXP(ctx, userID, models.XPPerReaction)
	})
	if err != nil {
		return nil, err
	}

	fresh, err := postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	count := post.ReactionCount
	if fresh != nil {
		count = fresh.ReactionCount
	}

	s.logger.Debug("Toggled reaction",
		zap.Int64("post_id", postID),
		zap.Int64("user_id", userID),
		zap.String("type", reactionType),
		zap.String("action", action))

	return &ToggleResult{Action: action, ReactionCount: count}, nil
}

// countDelta reports how a toggle moves the post's reaction count. Only the
// call whose row write actually landed moves the counter; the loser of a
// concurrent duplicate add or remove moves nothing.
func countDelta(removing, wrote bool) int64 {
	if !wrote {
		return 0
	}
	if removing {
		return -1
	}
	return 1
}
