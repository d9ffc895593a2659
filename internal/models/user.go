package models

import (
	"database/sql"
	"time"
)

// User represents a wordboard member
type User struct {
	ID        int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Name      string         `gorm:"type:varchar(64);not null;uniqueIndex:wb_users_ux1;column:name"`
	Avatar    sql.NullString `gorm:"type:varchar(1024);column:avatar"`
	IsAdmin   bool           `gorm:"not null;default:false;column:is_admin"`
	IsBanned  bool           `gorm:"not null;default:false;column:is_banned"`
	BanReason sql.NullString `gorm:"type:varchar(500);column:ban_reason"`
	CreatedAt time.Time      `gorm:"not null;column:created_at"`
	UpdatedAt time.Time      `gorm:"not null;column:updated_at"`

	// Relationships
	Stats *UserStats `gorm:"foreignKey:UserID;references:ID"`
	Posts []Post     `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "wb_users"
}
