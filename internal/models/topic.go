package models

import (
	"database/sql"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Topic represents a hashtag-derived aggregation entity. Lifetime counters only
// ever grow; the daily counters are zeroed by the reset job.
type Topic struct {
	ID             int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Name           string         `gorm:"type:varchar(255);not null;uniqueIndex:wb_topics_ux1;column:name"`
	Slug           string         `gorm:"type:varchar(255);not null;uniqueIndex:wb_topics_ux2;column:slug"`
	FounderID      sql.NullInt64  `gorm:"column:founder_id"`
	PostCount      int64          `gorm:"not null;default:0;index;column:post_count"`
	DailyPostCount int64          `gorm:"not null;default:0;column:daily_post_count"`
	ViewCount      int64          `gorm:"not null;default:0;column:view_count"`
	DailyViewCount int64          `gorm:"not null;default:0;column:daily_view_count"`
	LastResetAt    sql.NullTime   `gorm:"column:last_reset_at"`
	Category       sql.NullString `gorm:"type:varchar(255);index;column:category"`
	Mood           sql.NullString `gorm:"type:varchar(32);column:mood"` // calm, chaos, neon, minimal
	CreatedAt      time.Time      `gorm:"not null;index;column:created_at"`
	UpdatedAt      time.Time      `gorm:"not null;column:updated_at"`

	// Relationships
	Founder *User  `gorm:"foreignKey:FounderID;references:ID;constraint:OnDelete:SET NULL"`
	Posts   []Post `gorm:"many2many:wb_post_topics;joinForeignKey:TopicID;joinReferences:PostID"`
}

// TableName specifies the table name for Topic
func (Topic) TableName() string {
	return "wb_topics"
}

// BeforeCreate derives the slug from the name when it was not set explicitly
func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}
	return nil
}

// Slugify converts a topic name to its lowercase-hyphenated slug.
// Runs of characters outside [a-z0-9] collapse into a single hyphen.
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// PostTopic represents a post-to-topic attachment. The composite primary key
// makes duplicate attachment attempts conflict instead of double-counting.
type PostTopic struct {
	PostID    int64     `gorm:"primaryKey;column:post_id"`
	TopicID   int64     `gorm:"primaryKey;column:topic_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for PostTopic
func (PostTopic) TableName() string {
	return "wb_post_topics"
}
