package board

import (
	"context"
	"database/sql"
	"time"

	"github.com/neonverse/wordboard/internal/db"
	"github.com/neonverse/wordboard/internal/models"
)

// recordPost applies the per-post stats effects for an author: post count,
// streak, XP and badge awards. Runs inside the post creation transaction.
func recordPost(ctx context.Context, repo *db.Repository, userID int64, now time.Time) error {
	statsRepo := db.NewStatsRepository(repo)
	stats, err := statsRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	stats.PostCount++
	stats.XP += models.XPPerPost
	stats.StreakDays = nextStreak(stats.LastPostDate, now, stats.StreakDays)
	stats.LastPostDate = sql.NullTime{Time: dateOnly(now), Valid: true}
	stats.Badges = awardBadges(stats)

	return statsRepo.Save(ctx, stats)
}

// nextStreak computes the posting streak after a post on day `now`.
// Same-day posts leave the streak alone, a post on the day after the last one
// extends it, anything else restarts at one.
func nextStreak(lastPost sql.NullTime, now time.Time, current int64) int64 {
	if !lastPost.Valid {
		return 1
	}
	today := dateOnly(now)
	last := dateOnly(lastPost.Time)
	switch {
	case last.Equal(today):
		return current
	case last.Equal(today.AddDate(0, 0, -1)):
		return current + 1
	default:
		return 1
	}
}

// awardBadges returns the badge set after checking every threshold. Badges
// already present are kept: they are never revoked.
func awardBadges(stats *models.UserStats) models.StringList {
	badges := stats.Badges
	if badges == nil {
		badges = models.StringList{}
	}

	award := func(badge string, earned bool) {
		if !earned {
			return
		}
		for _, b := range badges {
			if b == badge {
				return
			}
		}
		badges = append(badges, badge)
	}

	award(models.BadgeStarterFlame, stats.PostCount >= 1)
	award(models.BadgeWordWarrior, stats.PostCount >= 10)
	award(models.BadgeTrendmaker, stats.PostCount >= 50)
	award(models.BadgeWeekStreak, stats.StreakDays >= 7)

	return badges
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
