// Package ranking implements the read-only hot / trending / new / feed
// orderings over topics and posts.
package ranking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/neonverse/wordboard/internal/cache"
	"github.com/neonverse/wordboard/internal/db"
	"github.com/neonverse/wordboard/internal/models"
	"github.com/neonverse/wordboard/pkg/logging"
	"github.com/neonverse/wordboard/pkg/telemetry"
)

const (
	hotLimit      = 10
	hotFreshLimit = 5
	hotTotalCap   = 15
	trendingLimit = 50
	feedLimit     = 10
	cloudLimit    = 50
)

// Service runs ranking queries, optionally backed by a redis cache
type Service struct {
	db     *db.DB
	cache  *cache.Cache
	logger *zap.Logger
}

// NewService creates a new ranking service. redisCache may be nil.
func NewService(database *db.DB, redisCache *cache.Cache) *Service {
	return &Service{
		db:     database,
		cache:  redisCache,
		logger: logging.GetLogger().With(zap.String("component", "ranking")),
	}
}

// HotTopics returns the topics with the most daily activity (daily posts,
// ties broken by daily views), topped up with topics born today, deduplicated
// and capped.
func (s *Service) HotTopics(ctx context.Context) ([]models.Topic, error) {
	ctx, span := telemetry.StartSpan(ctx, "ranking.hot_topics")
	defer span.End()

	var cached []models.Topic
	key := cache.HashKey("ranking", "hot")
	if s.cache != nil {
		if err := s.cache.GetJSON(key, &cached); err == nil {
			return cached, nil
		}
	}

	var active []models.Topic
	err := s.db.WithContext(ctx).Model(&models.Topic{}).
		Preload("Founder").
		Where("post_count > 0").
		Order("daily_post_count DESC, daily_view_count DESC").
		Limit(hotLimit).
		Find(&active).Error
	if err != nil {
		return nil, err
	}

	var fresh []models.Topic
	err = s.db.WithContext(ctx).Model(&models.Topic{}).
		Preload("Founder").
		Where("created_at >= ?", startOfDay(time.Now())).
		Order("created_at DESC").
		Limit(hotFreshLimit).
		Find(&fresh).Error
	if err != nil {
		return nil, err
	}

	result := mergeTopics(active, fresh, hotTotalCap)
	s.store(key, result, s.cacheTTL("hot"))
	return result, nil
}

// TrendingTopics returns topics by lifetime post count
func (s *Service) TrendingTopics(ctx context.Context) ([]models.Topic, error) {
	ctx, span := telemetry.StartSpan(ctx, "ranking.trending_topics")
	defer span.End()

	var cached []models.Topic
	key := cache.HashKey("ranking", "trending")
	if s.cache != nil {
		if err := s.cache.GetJSON(key, &cached); err == nil {
			return cached, nil
		}
	}

	var topics []models.Topic
	err := s.db.WithContext(ctx).Model(&models.Topic{}).
		Preload("Founder").
		Where("post_count > 0").
		Order("post_count DESC").
		Limit(trendingLimit).
		Find(&topics).Error
	if err != nil {
		return nil, err
	}

	s.store(key, topics, s.cacheTTL("trending"))
	return topics, nil
}

// NewTopics returns topics created within the current calendar day, newest
// first
func (s *Service) NewTopics(ctx context.Context) ([]models.Topic, error) {
	ctx, span := telemetry.StartSpan(ctx, "ranking.new_topics")
	defer span.End()

	var cached []models.Topic
	key := cache.HashKey("ranking", "new")
	if s.cache != nil {
		if err := s.cache.GetJSON(key, &cached); err == nil {
			return cached, nil
		}
	}

	var topics []models.Topic
	err := s.db.WithContext(ctx).Model(&models.Topic{}).
		Preload("Founder").
		Where("created_at >= ?", startOfDay(time.Now())).
		Order("created_at DESC").
		Find(&topics).Error
	if err != nil {
		return nil, err
	}

	s.store(key, topics, s.cacheTTL("new"))
	return topics, nil
}

// TrendingFeed returns the top-level posts with the most fire reactions,
// ties broken by recency
func (s *Service) TrendingFeed(ctx context.Context) ([]models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "ranking.trending_feed")
	defer span.End()

	var cached []models.Post
	key := cache.HashKey("ranking", "feed")
	if s.cache != nil {
		if err := s.cache.GetJSON(key, &cached); err == nil {
			return cached, nil
		}
	}

	var posts []models.Post
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Preload("User.Stats").
		Preload("Topics").
		Select("wb_posts.*, (SELECT COUNT(*) FROM wb_reactions r WHERE r.post_id = wb_posts.id AND r.type = ?) AS fire_count", models.ReactionFire).
		Where("parent_id IS NULL").
		Order("fire_count DESC, created_at DESC").
		Limit(feedLimit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	s.store(key, posts, s.cacheTTL("feed"))
	return posts, nil
}

// MostViewedTopics returns topics by lifetime view count
func (s *Service) MostViewedTopics(ctx context.Context) ([]models.Topic, error) {
	ctx, span := telemetry.StartSpan(ctx, "ranking.most_viewed_topics")
	defer span.End()

	var cached []models.Topic
	key := cache.HashKey("ranking", "views")
	if s.cache != nil {
		if err := s.cache.GetJSON(key, &cached); err == nil {
			return cached, nil
		}
	}

	var topics []models.Topic
	err := s.db.WithContext(ctx).Model(&models.Topic{}).
		Preload("Founder").
		Where("view_count > 0").
		Order("view_count DESC").
		Limit(trendingLimit).
		Find(&topics).Error
	if err != nil {
		return nil, err
	}

	s.store(key, topics, s.cacheTTL("views"))
	return topics, nil
}

// WordCloud returns the topics shown on the board index, sized by lifetime
// post count
func (s *Service) WordCloud(ctx context.Context) ([]models.Topic, error) {
	ctx, span := telemetry.StartSpan(ctx, "ranking.word_cloud")
	defer span.End()

	var cached []models.Topic
	key := cache.HashKey("ranking", "cloud")
	if s.cache != nil {
		if err := s.cache.GetJSON(key, &cached); err == nil {
			return cached, nil
		}
	}

	var topics []models.Topic
	err := s.db.WithContext(ctx).Model(&models.Topic{}).
		Preload("Founder").
		Where("post_count > 0").
		Order("post_count DESC").
		Limit(cloudLimit).
		Find(&topics).Error
	if err != nil {
		return nil, err
	}

	s.store(key, topics, s.cacheTTL("cloud"))
	return topics, nil
}

// store caches a result; cache failures never fail the request
func (s *Service) store(key string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(key, value, ttl); err != nil && err != cache.ErrCacheDisabled {
		s.logger.Warn("Failed to cache ranking result", zap.Error(err))
	}
}

// cacheTTL returns cache TTL based on sort type
func (s *Service) cacheTTL(sort string) time.Duration {
	switch sort {
	case "new":
		return 3 * time.Second
	case "trending":
		return 300 * time.Second
	case "feed":
		return 30 * time.Second
	default:
		return 60 * time.Second
	}
}

// mergeTopics concatenates primary and extra, dropping duplicates by id and
// capping the total
func mergeTopics(primary, extra []models.Topic, limit int) []models.Topic {
	merged := make([]models.Topic, 0, len(primary)+len(extra))
	seen := make(map[int64]struct{}, len(primary)+len(extra))
	for _, list := range [][]models.Topic{primary, extra} {
		for _, topic := range list {
			if _, ok := seen[topic.ID]; ok {
				continue
			}
			if len(merged) >= limit {
				return merged
			}
			seen[topic.ID] = struct{}{}
			merged = append(merged, topic)
		}
	}
	return merged
}

// startOfDay truncates t to midnight UTC
func startOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
