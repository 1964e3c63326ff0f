package scoring

import "learnhub-quiz-service/internal/domain"

// GradeAnswers grades every submitted answer against the authoritative
// question list. Answers referencing unknown question ids are skipped
// silently so stale client state never fails a whole submission.
func GradeAnswers(policy ScoringPolicy, questions []domain.Question, answers []domain.SubmittedAnswer) []domain.QuestionResult {
	byID := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	results := make([]domain.QuestionResult, 0, len(answers))
	for _, answer := range answers {
		q, ok := byID[answer.QuestionID]
		if !ok {
			continue
		}
		correct, base, bonus := policy.Score(q, answer.UserAnswer, answer.ResponseTimeMs)
		results = append(results, domain.QuestionResult{
			QuestionID:    q.ID,
			Correct:       correct,
			BasePoints:    base,
			TimeBonus:     bonus,
			PointsEarned:  base + bonus,
			UserAnswer:    answer.UserAnswer,
			CorrectAnswer: q.CorrectAnswer,
			Options:       q.Options,
			Difficulty:    q.Difficulty,
			Hint:          q.Hint,
			Explanation:   q.Explanation,
		})
	}
	return results
}
