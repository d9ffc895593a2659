package board

import (
	"database/sql"
	"testing"
	"time"

	"github.com/neonverse/wordboard/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextStreak(t *testing.T) {
	today := date(2026, 3, 10)

	tests := []struct {
		name     string
		lastPost sql.NullTime
		current  int64
		expected int64
	}{
		{"first post ever", sql.NullTime{}, 0, 1},
		{"same day keeps streak", sql.NullTime{Time: date(2026, 3, 10), Valid: true}, 4, 4},
		{"consecutive day extends", sql.NullTime{Time: date(2026, 3, 9), Valid: true}, 4, 5},
		{"gap restarts", sql.NullTime{Time: date(2026, 3, 7), Valid: true}, 12, 1},
		{"same day with time-of-day noise", sql.NullTime{Time: time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC), Valid: true}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextStreak(tt.lastPost, today, tt.current)
			if got != tt.expected {
				t.Errorf("nextStreak() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestAwardBadges(t *testing.T) {
	tests := []struct {
		name     string
		stats    models.UserStats
		expected []string
	}{
		{
			"first post",
			models.UserStats{PostCount: 1},
			[]string{models.BadgeStarterFlame},
		},
		{
			"ten posts",
			models.UserStats{PostCount: 10},
			[]string{models.BadgeStarterFlame, models.BadgeWordWarrior},
		},
		{
			"fifty posts with week streak",
			models.UserStats{PostCount: 50, StreakDays: 7},
			[]string{models.BadgeStarterFlame, models.BadgeWordWarrior, models.BadgeTrendmaker, models.BadgeWeekStreak},
		},
		{
			"no posts",
			models.UserStats{},
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := awardBadges(&tt.stats)
			if len(got) != len(tt.expected) {
				t.Fatalf("awardBadges() = %v, want %v", got, tt.expected)
			}
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("badge %d = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestAwardBadgesIsMonotonic(t *testing.T) {
	// A badge once earned survives even if the qualifying condition no longer
	// holds (streak broken)
	stats := models.UserStats{
		PostCount:  3,
		StreakDays: 1,
		Badges:     models.StringList{models.BadgeStarterFlame, models.BadgeWeekStreak},
	}

	got := awardBadges(&stats)

	found := false
	for _, b := range got {
		if b == models.BadgeWeekStreak {
			found = true
		}
	}
	if !found {
		t.Error("awardBadges() revoked week_streak; badges must be one-way")
	}
}

func TestAwardBadgesNoDuplicates(t *testing.T) {
	stats := models.UserStats{
		PostCount: 10,
		Badges:    models.StringList{models.BadgeStarterFlame, models.BadgeWordWarrior},
	}

	got := awardBadges(&stats)
	if len(got) != 2 {
		t.Errorf("awardBadges() = %v, expected no duplicate awards", got)
	}
}
