package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is an ordered list of strings stored as a JSON array
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// Post represents a user-authored content item. A nil ParentID means a
// top-level post; replies carry their parent's id and never attach topics.
type Post struct {
	ID            int64          `gorm:"primaryKey;autoIncrement;column:id"`
	UserID        int64          `gorm:"not null;index;column:user_id"`
	Content       string         `gorm:"type:text;not null;column:content"`
	ImageURL      sql.NullString `gorm:"type:varchar(1024);column:image_url"`
	Mentions      StringList     `gorm:"type:text;column:mentions"`
	Hashtags      StringList     `gorm:"type:text;column:hashtags"`
	ReactionCount int64          `gorm:"not null;default:0;column:reaction_count"`
	CommentCount  int64          `gorm:"not null;default:0;column:comment_count"`
	ParentID      sql.NullInt64  `gorm:"index;column:parent_id"`
	CreatedAt     time.Time      `gorm:"not null;index;column:created_at"`
	UpdatedAt     time.Time      `gorm:"not null;column:updated_at"`

	// Relationships
	User    *User   `gorm:"foreignKey:UserID;references:ID"`
	Parent  *Post   `gorm:"foreignKey:ParentID;references:ID"`
	Replies []Post  `gorm:"foreignKey:ParentID;references:ID"`
	Topics  []Topic `gorm:"many2many:wb_post_topics;joinForeignKey:PostID;joinReferences:TopicID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "wb_posts"
}

// IsReply reports whether the post is a reply to another post
func (p *Post) IsReply() bool {
	return p.ParentID.Valid
}
