package gamification

import (
	"math"
	"testing"

	"learnhub-quiz-service/internal/domain"
)

func TestFirstAttemptSeedsAnalytics(t *testing.T) {
	next := ApplyToAnalytics(domain.QuizAnalytics{UserID: "u1", QuizID: "quiz-1"}, domain.Attempt{
		Score:          30,
		Percentage:     75,
		TimeTakenSec:   90,
		CorrectCount:   6,
		TotalQuestions: 8,
	})

	if next.Attempts != 1 || next.BestScore != 30 || next.BestPercentage != 75 {
		t.Fatalf("unexpected analytics: %+v", next)
	}
	if next.AverageScore != 30 || next.AverageTimeSec != 90 {
		t.Fatalf("first attempt should seed averages: %+v", next)
	}
	if next.TotalCorrect != 6 || next.TotalQuestions != 8 {
		t.Fatalf("unexpected cumulative counts: %+v", next)
	}
	if next.ImprovementRate != 0 {
		t.Fatalf("no previous best means no improvement rate, got %f", next.ImprovementRate)
	}
}

func TestImprovementRateAgainstPreviousBest(t *testing.T) {
	prev := domain.QuizAnalytics{Attempts: 2, BestScore: 40, BestPercentage: 80, AverageScore: 35, AverageTimeSec: 100}

	next := ApplyToAnalytics(prev, domain.Attempt{Score: 50, Percentage: 95, TimeTakenSec: 80})
	if next.BestScore != 50 || next.BestPercentage != 95 {
		t.Fatalf("expected new bests, got %+v", next)
	}
	if math.Abs(next.ImprovementRate-25) > 1e-9 {
		t.Fatalf("expected 25%% improvement, got %f", next.ImprovementRate)
	}
}

func TestNoImprovementYieldsZeroRate(t *testing.T) {
	prev := domain.QuizAnalytics{Attempts: 3, BestScore: 50, BestPercentage: 95, ImprovementRate: 25}

	next := ApplyToAnalytics(prev, domain.Attempt{Score: 20, Percentage: 40})
	if next.BestScore != 50 || next.BestPercentage != 95 {
		t.Fatalf("bests must not regress: %+v", next)
	}
	if next.ImprovementRate != 0 {
		t.Fatalf("expected rate reset to 0, got %f", next.ImprovementRate)
	}
}

func TestAnalyticsAveragesMatchTrueMeans(t *testing.T) {
	scores := []int{10, 20, 30, 45}
	times := []int{60, 120, 90, 30}

	state := domain.QuizAnalytics{}
	scoreSum, timeSum := 0, 0
	for i := range scores {
		state = ApplyToAnalytics(state, domain.Attempt{Score: scores[i], TimeTakenSec: times[i]})
		scoreSum += scores[i]
		timeSum += times[i]
	}

	wantScore := float64(scoreSum) / float64(len(scores))
	wantTime := float64(timeSum) / float64(len(times))
	if math.Abs(state.AverageScore-wantScore) > 1e-9 || math.Abs(state.AverageTimeSec-wantTime) > 1e-9 {
		t.Fatalf("averages drifted: %+v (want %f/%f)", state, wantScore, wantTime)
	}
}
