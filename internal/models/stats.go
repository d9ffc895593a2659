package models

import (
	"database/sql"
	"time"
)

// UserStats tracks per-user engagement totals. Badges are one-way flags:
// once earned they are never revoked.
type UserStats struct {
	UserID       int64        `gorm:"primaryKey;autoIncrement:false;column:user_id"`
	XP           int64        `gorm:"not null;default:0;column:xp"`
	PostCount    int64        `gorm:"not null;default:0;column:post_count"`
	StreakDays   int64        `gorm:"not null;default:0;column:streak_days"`
	LastPostDate sql.NullTime `gorm:"type:date;column:last_post_date"`
	Badges       StringList   `gorm:"type:text;column:badges"`
	UpdatedAt    time.Time    `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for UserStats
func (UserStats) TableName() string {
	return "wb_user_stats"
}

// Badge constants
const (
	BadgeStarterFlame = "starter_flame" // first post
	BadgeWordWarrior  = "word_warrior"  // 10 posts
	BadgeTrendmaker   = "trendmaker"    // 50 posts
	BadgeWeekStreak   = "week_streak"   // 7 day posting streak
)

// XP awards
const (
	XPPerPost     int64 = 10
	XPPerReaction int64 = 2
)
