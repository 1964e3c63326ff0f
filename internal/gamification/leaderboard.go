package gamification

import "learnhub-quiz-service/internal/domain"

// ApplyToLeaderboard folds one attempt into a (user, category) row. The
// running accuracy mean is recomputed from the previous mean and count
// rather than from full history.
func ApplyToLeaderboard(prev domain.LeaderboardEntry, a domain.Attempt, displayName string) domain.LeaderboardEntry {
	next := prev
	if displayName != "" {
		next.DisplayName = displayName
	}

	games := prev.GamesPlayed + 1
	next.GamesPlayed = games
	next.TotalScore = prev.TotalScore + a.Score
	next.AverageAccuracy = incrementalMean(prev.AverageAccuracy, prev.GamesPlayed, a.Percentage)
	next.TotalTimeSec = prev.TotalTimeSec + a.TimeTakenSec
	if a.Percentage == 100 {
		next.PerfectScores = prev.PerfectScores + 1
	}
	return next
}

func incrementalMean(oldMean float64, oldCount int, value float64) float64 {
	newCount := oldCount + 1
	return (oldMean*float64(oldCount) + value) / float64(newCount)
}
