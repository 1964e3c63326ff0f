package gamification

import (
	"time"

	"learnhub-quiz-service/internal/domain"
)

// PointsPerLevel is the flat amount of points between levels.
const PointsPerLevel = 1000

// Level derives the level for a point total: floor(points/1000)+1.
func Level(totalPoints int) int {
	if totalPoints < 0 {
		totalPoints = 0
	}
	return totalPoints/PointsPerLevel + 1
}

// ApplyAttempt folds one completed attempt into the progression row.
// Streaks are calendar-day based: a first attempt starts at 1, repeat
// attempts on the same day leave the streak alone, an attempt exactly one
// day after the last counted one extends it, anything older resets to 1.
// Points accrue unconditionally, so a zero-point attempt still touches
// the streak and last-quiz date.
func ApplyAttempt(prev domain.UserPoints, pointsEarned int, now time.Time) domain.UserPoints {
	next := prev

	today := truncateToDay(now)
	switch {
	case prev.LastQuizDate == nil:
		next.CurrentStreak = 1
	case truncateToDay(*prev.LastQuizDate).Equal(today):
		// same day, streak unchanged
	case truncateToDay(*prev.LastQuizDate).Equal(today.AddDate(0, 0, -1)):
		next.CurrentStreak = prev.CurrentStreak + 1
	default:
		next.CurrentStreak = 1
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}

	next.TotalPoints = prev.TotalPoints + pointsEarned
	if next.TotalPoints < 0 {
		next.TotalPoints = 0
	}
	next.Level = Level(next.TotalPoints)
	next.LastQuizDate = &today
	return next
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
