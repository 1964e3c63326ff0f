package scoring

import "learnhub-quiz-service/internal/domain"

// AttemptTotals is the attempt-level rollup of per-question results.
type AttemptTotals struct {
	Score          int
	MaxScore       int
	Percentage     float64
	CorrectCount   int
	TotalQuestions int
	TimeBonus      int
	HintsUsed      int
	HintPenalty    int
}

// Aggregate sums graded results into attempt totals. hintedQuestionIDs
// lists the questions the user requested hints for; each distinct id that
// belongs to the session costs a flat deduction applied once here. The
// final score is clamped at zero and MaxScore covers every question in
// the session, answered or not.
func Aggregate(policy ScoringPolicy, questions []domain.Question, results []domain.QuestionResult, hintedQuestionIDs []string) AttemptTotals {
	totals := AttemptTotals{TotalQuestions: len(results)}

	raw := 0
	for _, r := range results {
		raw += r.BasePoints + r.TimeBonus
		totals.TimeBonus += r.TimeBonus
		if r.Correct {
			totals.CorrectCount++
		}
	}

	totals.HintsUsed = countDistinctHints(questions, hintedQuestionIDs)
	totals.HintPenalty = totals.HintsUsed * HintPenaltyPoints

	totals.Score = raw - totals.HintPenalty
	if totals.Score < 0 {
		totals.Score = 0
	}

	for _, q := range questions {
		totals.MaxScore += policy.MaxPoints(q)
	}
	if totals.MaxScore > 0 {
		totals.Percentage = float64(totals.Score) / float64(totals.MaxScore) * 100
	}
	return totals
}

func countDistinctHints(questions []domain.Question, hintedQuestionIDs []string) int {
	if len(hintedQuestionIDs) == 0 {
		return 0
	}
	known := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(hintedQuestionIDs))
	for _, id := range hintedQuestionIDs {
		if _, ok := known[id]; ok {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}
