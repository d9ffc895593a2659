package api

import (
	"testing"
	"time"
)

func TestSettingsPayload(t *testing.T) {
	at := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)

	t.Run("after a reset", func(t *testing.T) {
		payload := settingsPayload("03:00", at, true)
		if payload["daily_reset_time"] != "03:00" {
			t.Errorf("daily_reset_time = %v, want 03:00", payload["daily_reset_time"])
		}
		if payload["last_reset_at"] != at {
			t.Errorf("last_reset_at = %v, want %v", payload["last_reset_at"], at)
		}
	})

	t.Run("before the first reset", func(t *testing.T) {
		payload := settingsPayload("03:00", time.Time{}, false)
		if _, present := payload["last_reset_at"]; present {
			t.Error("last_reset_at should be omitted before the first reset")
		}
	})
}
