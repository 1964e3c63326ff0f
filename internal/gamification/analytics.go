package gamification

import "learnhub-quiz-service/internal/domain"

// ApplyToAnalytics folds one attempt into a (user, quiz) analytics row.
// Best score and percentage track the maximum ever seen; averages use the
// same incremental-mean discipline as the leaderboard. The improvement
// rate is the percentage delta between the new and previous best score,
// zero when nothing improved or there was no previous best.
func ApplyToAnalytics(prev domain.QuizAnalytics, a domain.Attempt) domain.QuizAnalytics {
	next := prev

	next.Attempts = prev.Attempts + 1
	next.AverageScore = incrementalMean(prev.AverageScore, prev.Attempts, float64(a.Score))
	next.AverageTimeSec = incrementalMean(prev.AverageTimeSec, prev.Attempts, float64(a.TimeTakenSec))
	next.TotalCorrect = prev.TotalCorrect + a.CorrectCount
	next.TotalQuestions = prev.TotalQuestions + a.TotalQuestions

	next.ImprovementRate = 0
	if a.Score > prev.BestScore {
		if prev.BestScore > 0 {
			next.ImprovementRate = float64(a.Score-prev.BestScore) / float64(prev.BestScore) * 100
		}
		next.BestScore = a.Score
	}
	if a.Percentage > prev.BestPercentage {
		next.BestPercentage = a.Percentage
	}
	return next
}
