package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/neonverse/wordboard/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn inside a database transaction, handing it a
// transaction-scoped repository
func (r *Repository) Transaction(ctx context.Context, fn func(*Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes a user row
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// SetBanned flips the banned flag, recording the reason on ban
func (r *UserRepository) SetBanned(ctx context.Context, id int64, banned bool, reason string) error {
	updates := map[string]interface{}{"is_banned": banned}
	if banned {
		updates["ban_reason"] = reason
	} else {
		updates["ban_reason"] = nil
	}
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

// SetAdmin flips the admin flag
func (r *UserRepository) SetAdmin(ctx context.Context, id int64, admin bool) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).Update("is_admin", admin).Error
}

// List retrieves users for the admin dashboard, newest first
func (r *UserRepository) List(ctx context.Context, search, filter string, limit, offset int) ([]*models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Preload("Stats")
	switch filter {
	case "banned":
		query = query.Where("is_banned = ?", true)
	case "admin":
		query = query.Where("is_admin = ?", true)
	}
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	var users []*models.User
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns user totals, optionally restricted to banned users
func (r *UserRepository) Count(ctx context.Context, bannedOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if bannedOnly {
		query = query.Where("is_banned = ?", true)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// TopicRepository provides topic-related database operations
type TopicRepository struct {
	*Repository
}

// NewTopicRepository creates a new topic repository
func NewTopicRepository(repo *Repository) *TopicRepository {
	return &TopicRepository{Repository: repo}
}

// GetByID retrieves a topic by ID
func (r *TopicRepository) GetByID(ctx context.Context, id int64) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).First(&topic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &topic, nil
}

// GetByName retrieves a topic by exact name
func (r *TopicRepository) GetByName(ctx context.Context, name string) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&topic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &topic, nil
}

// GetBySlug retrieves a topic by slug
func (r *TopicRepository) GetBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).Preload("Founder").Where("slug = ?", slug).First(&topic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &topic, nil
}

// EnsureByName looks up a topic by exact name, creating it with the given
// founder when absent. A concurrent create racing the insert is resolved by
// re-reading the winner's row.
func (r *TopicRepository) EnsureByName(ctx context.Context, name string, founderID int64) (*models.Topic, bool, error) {
	topic, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if topic != nil {
		return topic, false, nil
	}

	topic = &models.Topic{
		Name:      name,
		FounderID: nullInt64(founderID),
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(topic)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the race; another request created it first
		topic, err = r.GetByName(ctx, name)
		return topic, false, err
	}
	return topic, true, nil
}

// Attach links a topic to a post. Duplicate attachment attempts are ignored;
// the return value reports whether a new link was actually written.
func (r *TopicRepository) Attach(ctx context.Context, postID, topicID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PostTopic{PostID: postID, TopicID: topicID, CreatedAt: time.Now().UTC()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementPostCounts bumps both the lifetime and daily post counters by one
func (r *TopicRepository) IncrementPostCounts(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.Topic{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"post_count":       gorm.Expr("post_count + 1"),
			"daily_post_count": gorm.Expr("daily_post_count + 1"),
		}).Error
}

// IncrementViewCounts bumps both the lifetime and daily view counters by one
func (r *TopicRepository) IncrementViewCounts(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.Topic{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"view_count":       gorm.Expr("view_count + 1"),
			"daily_view_count": gorm.Expr("daily_view_count + 1"),
		}).Error
}

// TopForAuthor returns the topics a user's posts land in most often
func (r *TopicRepository) TopForAuthor(ctx context.Context, userID int64, limit int) ([]models.Topic, error) {
	var topics []models.Topic
	err := r.db.WithContext(ctx).Model(&models.Topic{}).
		Select("wb_topics.*").
		Joins("JOIN wb_post_topics pt ON pt.topic_id = wb_topics.id").
		Joins("JOIN wb_posts p ON p.id = pt.post_id").
		Where("p.user_id = ?", userID).
		Group("wb_topics.id").
		Order("COUNT(*) DESC").
		Limit(limit).
		Find(&topics).Error
	if err != nil {
		return nil, err
	}
	return topics, nil
}

// ListByCategory retrieves a category's topics under a caller-chosen ordering
func (r *TopicRepository) ListByCategory(ctx context.Context, category, order string, limit int) ([]models.Topic, error) {
	var topics []models.Topic
	err := r.db.WithContext(ctx).Model(&models.Topic{}).
		Preload("Founder").
		Where("category = ?", category).
		Order(order).
		Limit(limit).
		Find(&topics).Error
	if err != nil {
		return nil, err
	}
	return topics, nil
}

// ResetDailyCounters zeroes every topic's daily counters and stamps the
// per-topic reset time. Returns the number of topics reset.
func (r *TopicRepository) ResetDailyCounters(ctx context.Context, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Topic{}).
		Where("1 = 1").
		UpdateColumns(map[string]interface{}{
			"daily_post_count": 0,
			"daily_view_count": 0,
			"last_reset_at":    at,
		})
	return result.RowsAffected, result.Error
}

// Delete removes a topic, detaching it from all posts. The posts survive.
func (r *TopicRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Where("topic_id = ?", id).Delete(&models.PostTopic{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Topic{}, id).Error
}

// DetachPosts removes the join rows for a set of posts
func (r *TopicRepository) DetachPosts(ctx context.Context, postIDs []int64) error {
	if len(postIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Delete(&models.PostTopic{}).Error
}

// List retrieves topics for the admin dashboard ordered by lifetime posts
func (r *TopicRepository) List(ctx context.Context, search string, limit, offset int) ([]*models.Topic, error) {
	query := r.db.WithContext(ctx).Model(&models.Topic{}).Preload("Founder")
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	var topics []*models.Topic
	if err := query.Order("post_count DESC").Limit(limit).Offset(offset).Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

// Count returns the total number of topics
func (r *TopicRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Topic{}).Count(&count).Error
	return count, err
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetWithRelations retrieves a post with its author, topics and replies
// (replies three levels deep, newest first)
func (r *PostRepository) GetWithRelations(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User.Stats").
		Preload("Topics").
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Replies.User.Stats").
		Preload("Replies.Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Replies.Replies.User.Stats").
		Preload("Replies.Replies.Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Replies.Replies.Replies.User.Stats").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// ListTopLevel retrieves top-level posts, newest first, optionally filtered
// to a topic
func (r *PostRepository) ListTopLevel(ctx context.Context, topicID int64, limit, offset int) ([]*models.Post, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{}).
		Preload("User.Stats").
		Preload("Topics").
		Where("parent_id IS NULL")
	if topicID != 0 {
		query = query.Joins("JOIN wb_post_topics pt ON pt.post_id = wb_posts.id AND pt.topic_id = ?", topicID)
	}
	var posts []*models.Post
	if err := query.Order("wb_posts.created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListForModeration retrieves top-level posts matching a content search
func (r *PostRepository) ListForModeration(ctx context.Context, search string, limit, offset int) ([]*models.Post, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{}).
		Preload("User").
		Preload("Topics").
		Where("parent_id IS NULL")
	if search != "" {
		query = query.Where("content ILIKE ?", "%"+search+"%")
	}
	var posts []*models.Post
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthor retrieves a user's top-level posts, newest first
func (r *PostRepository) ListByAuthor(ctx context.Context, userID int64, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Preload("Topics").
		Where("user_id = ? AND parent_id IS NULL", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListIDsByAuthor returns the ids of every post authored by a user
func (r *PostRepository) ListIDsByAuthor(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("user_id = ?", userID).Pluck("id", &ids).Error
	return ids, err
}

// CollectThread walks a reply tree breadth-first and returns the root's id
// together with the ids of all descendants. Iterative on purpose: deep threads
// must not exhaust the call stack.
func (r *PostRepository) CollectThread(ctx context.Context, rootID int64) ([]int64, error) {
	all := []int64{rootID}
	frontier := []int64{rootID}
	for len(frontier) > 0 {
		var children []int64
		err := r.db.WithContext(ctx).Model(&models.Post{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error
		if err != nil {
			return nil, err
		}
		all = append(all, children...)
		frontier = children
	}
	return all, nil
}

// ImageURLsByIDs returns the non-empty image references of the given posts
func (r *PostRepository) ImageURLsByIDs(ctx context.Context, ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var urls []string
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id IN ? AND image_url IS NOT NULL AND image_url <> ''", ids).
		Pluck("image_url", &urls).Error
	return urls, err
}

// DeleteByIDs removes posts along with their reactions and topic attachments
func (r *PostRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("post_id IN ?", ids).Delete(&models.Reaction{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("post_id IN ?", ids).Delete(&models.PostTopic{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Post{}).Error
}

// IncrementCommentCount bumps a parent's direct-reply counter by one
func (r *PostRepository) IncrementCommentCount(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
}

// AddReactionCount adjusts a post's reaction counter by delta
func (r *PostRepository) AddReactionCount(ctx context.Context, id int64, delta int64) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("reaction_count", gorm.Expr("reaction_count + ?", delta)).Error
}

// Count returns the total number of posts
func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error
	return count, err
}

// ReactionRepository provides reaction-related database operations
type ReactionRepository struct {
	*Repository
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(repo *Repository) *ReactionRepository {
	return &ReactionRepository{Repository: repo}
}

// Get retrieves a reaction by its unique (user, post, type) triple
func (r *ReactionRepository) Get(ctx context.Context, userID, postID int64, reactionType string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ? AND type = ?", userID, postID, reactionType).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}

// Insert writes a reaction, ignoring a concurrent duplicate. The return value
// reports whether this call won the insert.
func (r *ReactionRepository) Insert(ctx context.Context, reaction *models.Reaction) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(reaction)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a reaction row. The return value reports whether this call
// removed it; a concurrent removal may have gotten there first.
func (r *ReactionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Reaction{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountsByType returns per-type reaction counts for a post
func (r *ReactionRepository) CountsByType(ctx context.Context, postID int64) (map[string]int64, error) {
	var rows []struct {
		Type  string `gorm:"column:type"`
		Count int64  `gorm:"column:count"`
	}
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("type, COUNT(*) AS count").
		Where("post_id = ?", postID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}

// StatsRepository provides user-stats database operations
type StatsRepository struct {
	*Repository
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(repo *Repository) *StatsRepository {
	return &StatsRepository{Repository: repo}
}

// GetOrCreate retrieves a user's stats row, creating an empty one when absent
func (r *StatsRepository) GetOrCreate(ctx context.Context, userID int64) (*models.UserStats, error) {
	var stats models.UserStats
	err := r.db.WithContext(ctx).
		Where(models.UserStats{UserID: userID}).
		Attrs(models.UserStats{Badges: models.StringList{}}).
		FirstOrCreate(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Get retrieves a user's stats row without creating one; returns (nil, nil)
// when the user has none yet
func (r *StatsRepository) Get(ctx context.Context, userID int64) (*models.UserStats, error) {
	var stats models.UserStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stats, nil
}

// Save persists a stats row
func (r *StatsRepository) Save(ctx context.Context, stats *models.UserStats) error {
	return r.db.WithContext(ctx).Save(stats).Error
}

// AddXP bumps a user's XP counter atomically
func (r *StatsRepository) AddXP(ctx context.Context, userID, amount int64) error {
	return r.db.WithContext(ctx).Model(&models.UserStats{}).
		Where("user_id = ?", userID).
		UpdateColumn("xp", gorm.Expr("xp + ?", amount)).Error
}

// SettingsRepository provides access to the key/value settings store
type SettingsRepository struct {
	*Repository
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(repo *Repository) *SettingsRepository {
	return &SettingsRepository{Repository: repo}
}

// Get retrieves a raw setting value; the bool reports whether the key exists
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return setting.Value, true, nil
}

// GetString retrieves a setting, falling back to a default when absent
func (r *SettingsRepository) GetString(ctx context.Context, key, defaultValue string) (string, error) {
	value, ok, err := r.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return defaultValue, nil
	}
	return value, nil
}

// GetTime retrieves a setting parsed as an RFC 3339 timestamp
func (r *SettingsRepository) GetTime(ctx context.Context, key string) (time.Time, bool, error) {
	value, ok, err := r.Get(ctx, key)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// Set writes a setting by upsert
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	setting := models.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error
}

// SetTime writes a timestamp setting in RFC 3339
func (r *SettingsRepository) SetTime(ctx context.Context, key string, t time.Time) error {
	return r.Set(ctx, key, t.UTC().Format(time.RFC3339))
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}
