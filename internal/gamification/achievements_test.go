package gamification

import (
	"testing"

	"learnhub-quiz-service/internal/domain"
)

func hasUnlock(unlocks []Unlock, typ domain.AchievementType) bool {
	for _, u := range unlocks {
		if u.Type == typ {
			return true
		}
	}
	return false
}

func TestPerfectScoreUnlocksTwoBadges(t *testing.T) {
	unlocks := EvaluateAchievements(domain.Attempt{
		Percentage:     100,
		TimeTakenSec:   300,
		TotalQuestions: 10,
	})

	if len(unlocks) != 2 {
		t.Fatalf("expected 2 unlocks, got %d", len(unlocks))
	}
	if !hasUnlock(unlocks, domain.AchievementPerfectScore) || !hasUnlock(unlocks, domain.AchievementHighAchiever) {
		t.Fatalf("missing expected unlocks: %+v", unlocks)
	}
}

func TestFastPerfectScoreUnlocksAllThree(t *testing.T) {
	unlocks := EvaluateAchievements(domain.Attempt{
		Percentage:     100,
		TimeTakenSec:   50,
		TotalQuestions: 10,
	})

	if len(unlocks) != 3 {
		t.Fatalf("expected 3 unlocks, got %d", len(unlocks))
	}
}

func TestSpeedDemonRequiresUnderTenSecondsPerQuestion(t *testing.T) {
	fast := EvaluateAchievements(domain.Attempt{Percentage: 50, TimeTakenSec: 99, TotalQuestions: 10})
	if !hasUnlock(fast, domain.AchievementSpeedDemon) {
		t.Fatalf("expected speed demon at 9.9s/question")
	}

	// Exactly ten seconds per question does not qualify.
	slow := EvaluateAchievements(domain.Attempt{Percentage: 50, TimeTakenSec: 100, TotalQuestions: 10})
	if hasUnlock(slow, domain.AchievementSpeedDemon) {
		t.Fatalf("did not expect speed demon at 10s/question")
	}
}

func TestHighAchieverBoundary(t *testing.T) {
	at90 := EvaluateAchievements(domain.Attempt{Percentage: 90, TimeTakenSec: 600, TotalQuestions: 10})
	if !hasUnlock(at90, domain.AchievementHighAchiever) {
		t.Fatalf("expected high achiever at exactly 90%%")
	}

	below := EvaluateAchievements(domain.Attempt{Percentage: 89.9, TimeTakenSec: 600, TotalQuestions: 10})
	if len(below) != 0 {
		t.Fatalf("expected no unlocks below 90%%, got %+v", below)
	}
}

func TestZeroQuestionsNeverQualifiesForSpeed(t *testing.T) {
	unlocks := EvaluateAchievements(domain.Attempt{Percentage: 0, TimeTakenSec: 0, TotalQuestions: 0})
	if hasUnlock(unlocks, domain.AchievementSpeedDemon) {
		t.Fatalf("speed demon must not trigger with zero questions")
	}
}
