package api

import (
	"testing"

	"github.com/neonverse/wordboard/internal/models"
)

func TestProfileStats(t *testing.T) {
	t.Run("existing stats pass through", func(t *testing.T) {
		stats := &models.UserStats{UserID: 7, XP: 120, PostCount: 12}
		got := profileStats(stats, 7)
		if got != stats {
			t.Error("expected the stored stats row to be returned as-is")
		}
	})

	t.Run("missing stats become an empty row", func(t *testing.T) {
		got := profileStats(nil, 7)
		if got == nil {
			t.Fatal("expected a zero stats row, got nil")
		}
		if got.UserID != 7 {
			t.Errorf("UserID = %d, want 7", got.UserID)
		}
		if got.XP != 0 || got.PostCount != 0 || got.StreakDays != 0 {
			t.Errorf("expected zeroed counters, got %+v", got)
		}
		if got.Badges == nil {
			t.Error("Badges = nil, want an empty list")
		}
	})
}
