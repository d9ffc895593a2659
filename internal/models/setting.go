package models

import (
	"time"
)

// Setting represents a process-wide configuration entry
type Setting struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Key       string    `gorm:"type:varchar(255);not null;uniqueIndex:wb_settings_ux1;column:key"`
	Value     string    `gorm:"type:text;not null;column:value"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for Setting
func (Setting) TableName() string {
	return "wb_settings"
}

// Setting keys
const (
	SettingDailyResetTime = "daily_reset_time" // "HH:MM"
	SettingLastResetAt    = "last_reset_at"    // RFC 3339 timestamp of the last full reset
)
