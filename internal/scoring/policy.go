package scoring

import "learnhub-quiz-service/internal/domain"

// HintPenaltyPoints is the flat attempt-level deduction per hinted question.
const HintPenaltyPoints = 2

// DefaultQuestionPoints applies when a question has no configured value.
const DefaultQuestionPoints = 10

// ScoringPolicy decides correctness and point awards for a single answer.
type ScoringPolicy interface {
	// Score returns (correct, basePoints, timeBonus) for a submitted answer.
	Score(q domain.Question, userAnswer string, responseTimeMs int64) (bool, int, int)
	// MaxPoints returns the best attainable total (base + bonus) for a question.
	MaxPoints(q domain.Question) int
}

// RatioBonusPolicy awards the full question value for a correct answer
// plus a bonus scaled by how fast the answer came in relative to the
// question's time limit: half the base points under a quarter of the
// limit, a quarter of the base points under half of it, nothing beyond.
type RatioBonusPolicy struct{}

func NewRatioBonusPolicy() RatioBonusPolicy {
	return RatioBonusPolicy{}
}

func (RatioBonusPolicy) Score(q domain.Question, userAnswer string, responseTimeMs int64) (bool, int, int) {
	// Exact, case-sensitive match; no partial credit.
	if userAnswer != q.CorrectAnswer {
		return false, 0, 0
	}
	points := questionPoints(q)
	return true, points, timeBonus(q, points, responseTimeMs)
}

func (RatioBonusPolicy) MaxPoints(q domain.Question) int {
	points := questionPoints(q)
	return points + points/2
}

func timeBonus(q domain.Question, points int, responseTimeMs int64) int {
	if q.TimeLimitSec <= 0 || responseTimeMs < 0 {
		return 0
	}
	limitMs := int64(q.TimeLimitSec) * 1000
	ratio := float64(responseTimeMs) / float64(limitMs)
	switch {
	case ratio <= 0.25:
		return points / 2
	case ratio <= 0.50:
		return points / 4
	default:
		return 0
	}
}

func questionPoints(q domain.Question) int {
	if q.Points <= 0 {
		return DefaultQuestionPoints
	}
	return q.Points
}
