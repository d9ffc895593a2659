package models

import (
	"time"
)

// Reaction represents a typed engagement record, unique per (user, post, type)
type Reaction struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:wb_reactions_ux1,priority:1;column:user_id"`
	PostID    int64     `gorm:"not null;uniqueIndex:wb_reactions_ux1,priority:2;index;column:post_id"`
	Type      string    `gorm:"type:varchar(16);not null;uniqueIndex:wb_reactions_ux1,priority:3;column:type"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Reaction
func (Reaction) TableName() string {
	return "wb_reactions"
}

// Reaction type constants
const (
	ReactionFire  = "fire"  // high-engagement marker, drives the trending feed
	ReactionIdea  = "idea"
	ReactionHeart = "heart"
)

// ValidReactionType reports whether t is one of the known reaction types
func ValidReactionType(t string) bool {
	switch t {
	case ReactionFire, ReactionIdea, ReactionHeart:
		return true
	}
	return false
}
