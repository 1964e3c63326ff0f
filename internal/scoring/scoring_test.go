package scoring

import (
	"testing"

	"learnhub-quiz-service/internal/domain"
)

func question(id string, points, limitSec int) domain.Question {
	return domain.Question{
		ID:            id,
		Text:          "Select the right option",
		Options:       []string{"A", "B", "C", "D"},
		CorrectAnswer: "B",
		Points:        points,
		TimeLimitSec:  limitSec,
		Difficulty:    domain.DifficultyMedium,
	}
}

func TestFastCorrectAnswerEarnsFullBonus(t *testing.T) {
	policy := NewRatioBonusPolicy()
	q := question("q1", 10, 30)

	// 5s of a 30s limit is ratio 0.166, inside the full-bonus window.
	correct, base, bonus := policy.Score(q, "B", 5000)
	if !correct || base != 10 || bonus != 5 {
		t.Fatalf("expected correct/10/5, got %v/%d/%d", correct, base, bonus)
	}
}

func TestHalfSpeedEarnsQuarterBonus(t *testing.T) {
	policy := NewRatioBonusPolicy()
	q := question("q1", 10, 30)

	// 12s of 30s is ratio 0.4.
	correct, base, bonus := policy.Score(q, "B", 12000)
	if !correct || base != 10 || bonus != 2 {
		t.Fatalf("expected correct/10/2, got %v/%d/%d", correct, base, bonus)
	}
}

func TestSlowCorrectAnswerEarnsNoBonus(t *testing.T) {
	policy := NewRatioBonusPolicy()
	q := question("q1", 10, 30)

	// 20s of 30s is ratio 0.666.
	correct, base, bonus := policy.Score(q, "B", 20000)
	if !correct || base != 10 || bonus != 0 {
		t.Fatalf("expected correct/10/0, got %v/%d/%d", correct, base, bonus)
	}
}

func TestWrongAnswerEarnsNothing(t *testing.T) {
	policy := NewRatioBonusPolicy()
	q := question("q1", 10, 30)

	correct, base, bonus := policy.Score(q, "C", 1000)
	if correct || base != 0 || bonus != 0 {
		t.Fatalf("expected incorrect/0/0, got %v/%d/%d", correct, base, bonus)
	}
}

func TestCorrectnessIsCaseSensitive(t *testing.T) {
	policy := NewRatioBonusPolicy()
	q := question("q1", 10, 30)

	if correct, _, _ := policy.Score(q, "b", 1000); correct {
		t.Fatalf("expected case-sensitive mismatch to be incorrect")
	}
}

func TestZeroTimeLimitSkipsBonus(t *testing.T) {
	policy := NewRatioBonusPolicy()
	q := question("q1", 10, 0)

	correct, base, bonus := policy.Score(q, "B", 1)
	if !correct || base != 10 || bonus != 0 {
		t.Fatalf("expected correct/10/0 with no time limit, got %v/%d/%d", correct, base, bonus)
	}
}

func TestDefaultPointsApplyWhenUnset(t *testing.T) {
	policy := NewRatioBonusPolicy()
	q := question("q1", 0, 30)

	_, base, bonus := policy.Score(q, "B", 1000)
	if base != DefaultQuestionPoints || bonus != DefaultQuestionPoints/2 {
		t.Fatalf("expected defaults %d/%d, got %d/%d", DefaultQuestionPoints, DefaultQuestionPoints/2, base, bonus)
	}
}

func TestGradingIsDeterministic(t *testing.T) {
	policy := NewRatioBonusPolicy()
	questions := []domain.Question{question("q1", 10, 30), question("q2", 20, 60)}
	answers := []domain.SubmittedAnswer{
		{QuestionID: "q1", UserAnswer: "B", ResponseTimeMs: 5000},
		{QuestionID: "q2", UserAnswer: "A", ResponseTimeMs: 40000},
	}

	first := GradeAnswers(policy, questions, answers)
	for i := 0; i < 10; i++ {
		again := GradeAnswers(policy, questions, answers)
		if len(again) != len(first) {
			t.Fatalf("result count changed: %d vs %d", len(again), len(first))
		}
		for j := range first {
			if again[j].Correct != first[j].Correct ||
				again[j].BasePoints != first[j].BasePoints ||
				again[j].TimeBonus != first[j].TimeBonus ||
				again[j].PointsEarned != first[j].PointsEarned {
				t.Fatalf("grading not deterministic at %d: %+v vs %+v", j, again[j], first[j])
			}
		}
	}
}

func TestUnknownQuestionIsSkippedSilently(t *testing.T) {
	policy := NewRatioBonusPolicy()
	questions := []domain.Question{question("q1", 10, 30)}
	answers := []domain.SubmittedAnswer{
		{QuestionID: "q1", UserAnswer: "B", ResponseTimeMs: 5000},
		{QuestionID: "ghost", UserAnswer: "A", ResponseTimeMs: 1000},
	}

	results := GradeAnswers(policy, questions, answers)
	if len(results) != 1 {
		t.Fatalf("expected 1 graded result, got %d", len(results))
	}

	totals := Aggregate(policy, questions, results, nil)
	if totals.TotalQuestions != 1 || totals.CorrectCount != 1 {
		t.Fatalf("unknown question leaked into totals: %+v", totals)
	}
}

func TestAggregateComputesTotalsAndPercentage(t *testing.T) {
	policy := NewRatioBonusPolicy()
	questions := []domain.Question{question("q1", 10, 30), question("q2", 10, 30)}
	answers := []domain.SubmittedAnswer{
		{QuestionID: "q1", UserAnswer: "B", ResponseTimeMs: 5000},  // 10 + 5
		{QuestionID: "q2", UserAnswer: "B", ResponseTimeMs: 20000}, // 10 + 0
	}

	results := GradeAnswers(policy, questions, answers)
	totals := Aggregate(policy, questions, results, nil)

	if totals.Score != 25 {
		t.Fatalf("expected score 25, got %d", totals.Score)
	}
	if totals.MaxScore != 30 {
		t.Fatalf("expected max 30, got %d", totals.MaxScore)
	}
	if totals.Percentage < 83.2 || totals.Percentage > 83.4 {
		t.Fatalf("expected ~83.3%%, got %f", totals.Percentage)
	}
	if totals.CorrectCount != 2 || totals.TimeBonus != 5 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestHintPenaltyDeductsOncePerDistinctQuestion(t *testing.T) {
	policy := NewRatioBonusPolicy()
	questions := []domain.Question{question("q1", 10, 30), question("q2", 10, 30)}
	answers := []domain.SubmittedAnswer{
		{QuestionID: "q1", UserAnswer: "B", ResponseTimeMs: 20000},
	}

	results := GradeAnswers(policy, questions, answers)
	// Duplicate and unknown hint ids must not inflate the penalty.
	totals := Aggregate(policy, questions, results, []string{"q1", "q1", "q2", "ghost"})

	if totals.HintsUsed != 2 {
		t.Fatalf("expected 2 distinct hints, got %d", totals.HintsUsed)
	}
	if totals.HintPenalty != 2*HintPenaltyPoints {
		t.Fatalf("expected penalty %d, got %d", 2*HintPenaltyPoints, totals.HintPenalty)
	}
	if totals.Score != 10-2*HintPenaltyPoints {
		t.Fatalf("expected score %d, got %d", 10-2*HintPenaltyPoints, totals.Score)
	}
}

func TestScoreNeverGoesNegative(t *testing.T) {
	policy := NewRatioBonusPolicy()
	questions := []domain.Question{question("q1", 1, 30), question("q2", 1, 30)}
	answers := []domain.SubmittedAnswer{
		{QuestionID: "q1", UserAnswer: "A", ResponseTimeMs: 1000},
	}

	results := GradeAnswers(policy, questions, answers)
	totals := Aggregate(policy, questions, results, []string{"q1", "q2"})

	if totals.Score != 0 {
		t.Fatalf("expected clamped score 0, got %d", totals.Score)
	}
}

func TestPercentageZeroWhenNoQuestions(t *testing.T) {
	policy := NewRatioBonusPolicy()
	totals := Aggregate(policy, nil, nil, nil)
	if totals.Percentage != 0 || totals.MaxScore != 0 {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}

func TestPercentageStaysBounded(t *testing.T) {
	policy := NewRatioBonusPolicy()
	questions := []domain.Question{question("q1", 7, 30)}
	answers := []domain.SubmittedAnswer{
		{QuestionID: "q1", UserAnswer: "B", ResponseTimeMs: 100},
	}

	results := GradeAnswers(policy, questions, answers)
	totals := Aggregate(policy, questions, results, nil)
	if totals.Percentage < 0 || totals.Percentage > 100 {
		t.Fatalf("percentage out of bounds: %f", totals.Percentage)
	}
}
