package gamification

import "learnhub-quiz-service/internal/domain"

// speedDemonSecondsPerQuestion is the average pace that counts as fast.
const speedDemonSecondsPerQuestion = 10

// Unlock describes a badge an attempt qualifies for.
type Unlock struct {
	Type        domain.AchievementType
	Name        string
	Description string
	Points      int
}

// EvaluateAchievements checks every predicate independently against one
// attempt; a single attempt may qualify for zero up to all three.
func EvaluateAchievements(a domain.Attempt) []Unlock {
	var unlocks []Unlock

	if a.Percentage == 100 {
		unlocks = append(unlocks, Unlock{
			Type:        domain.AchievementPerfectScore,
			Name:        "Perfect Score",
			Description: "Answered every question correctly",
			Points:      50,
		})
	}

	if a.TotalQuestions > 0 && float64(a.TimeTakenSec)/float64(a.TotalQuestions) < speedDemonSecondsPerQuestion {
		unlocks = append(unlocks, Unlock{
			Type:        domain.AchievementSpeedDemon,
			Name:        "Speed Demon",
			Description: "Averaged under ten seconds per question",
			Points:      30,
		})
	}

	if a.Percentage >= 90 {
		unlocks = append(unlocks, Unlock{
			Type:        domain.AchievementHighAchiever,
			Name:        "High Achiever",
			Description: "Scored ninety percent or better",
			Points:      20,
		})
	}

	return unlocks
}
