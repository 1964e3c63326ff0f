package domain

import "time"

// Difficulty classifies a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a single quiz item. Immutable once created; owned by a Quiz.
type Question struct {
	ID            string     `json:"id"`
	QuizID        string     `json:"quizId"`
	Text          string     `json:"text"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correctAnswer"`
	Points        int        `json:"points"` // defaults to 10 if zero
	TimeLimitSec  int        `json:"timeLimitSeconds"`
	Difficulty    Difficulty `json:"difficulty"`
	Hint          string     `json:"hint,omitempty"`
	Explanation   string     `json:"explanation,omitempty"`
}

// QuestionView is the display-safe projection sent to clients before an
// attempt is graded. It never carries the correct answer or explanation.
type QuestionView struct {
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	Options      []string   `json:"options"`
	Points       int        `json:"points"`
	TimeLimitSec int        `json:"timeLimitSeconds"`
	Difficulty   Difficulty `json:"difficulty"`
	HasHint      bool       `json:"hasHint"`
}

// Quiz is a pool of questions plus metadata. A session draws a random
// subset from the pool, so the pool may be larger than any one attempt.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Category  string     `json:"category"`
	Public    bool       `json:"public"`
	Active    bool       `json:"active"`
	Questions []Question `json:"questions"`
}

// SubmittedAnswer is one answer inside a submission.
type SubmittedAnswer struct {
	QuestionID     string `json:"question_id"`
	UserAnswer     string `json:"user_answer"`
	ResponseTimeMs int64  `json:"response_time_ms"`
}

// QuestionResult is the graded outcome for a single question, echoed back
// to the client for review display.
type QuestionResult struct {
	QuestionID    string     `json:"question_id"`
	Correct       bool       `json:"correct"`
	BasePoints    int        `json:"base_points"`
	TimeBonus     int        `json:"time_bonus"`
	PointsEarned  int        `json:"points_earned"`
	UserAnswer    string     `json:"user_answer"`
	CorrectAnswer string     `json:"correct_answer"`
	Options       []string   `json:"options"`
	Difficulty    Difficulty `json:"difficulty"`
	Hint          string     `json:"hint,omitempty"`
	Explanation   string     `json:"explanation,omitempty"`
}

// Attempt is one user's completed run of a quiz. Created exactly once per
// submission and immutable afterwards.
type Attempt struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	QuizID         string    `json:"quiz_id"`
	Score          int       `json:"score"`
	MaxScore       int       `json:"max_score"`
	Percentage     float64   `json:"percentage"`
	TimeTakenSec   int       `json:"time_taken_seconds"`
	CorrectCount   int       `json:"correct_count"`
	TotalQuestions int       `json:"total_questions"`
	HintsUsed      int       `json:"hints_used"`
	HintPenalty    int       `json:"hint_penalty"`
	TimeBonus      int       `json:"time_bonus"`
	Completed      bool      `json:"completed"`
	CreatedAt      time.Time `json:"created_at"`
}

// QuestionResponse is one graded answer persisted within an Attempt.
type QuestionResponse struct {
	ID             string     `json:"id"`
	AttemptID      string     `json:"attempt_id"`
	QuestionID     string     `json:"question_id"`
	UserAnswer     string     `json:"user_answer"`
	Correct        bool       `json:"correct"`
	ResponseTimeMs int64      `json:"response_time_ms"`
	PointsEarned   int        `json:"points_earned"`
	Difficulty     Difficulty `json:"difficulty"`
}

// UserPoints is the per-user progression row: cumulative points, daily
// streak, and level. Invariants: LongestStreak >= CurrentStreak, and
// Level is always floor(TotalPoints/1000)+1.
type UserPoints struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	TotalPoints   int        `json:"total_points"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	Level         int        `json:"level"`
	LastQuizDate  *time.Time `json:"last_quiz_date,omitempty"`
}

// AchievementType identifies a badge.
type AchievementType string

const (
	AchievementPerfectScore AchievementType = "perfect_score"
	AchievementSpeedDemon   AchievementType = "speed_demon"
	AchievementHighAchiever AchievementType = "high_achiever"
)

// Achievement records an unlocked badge.
type Achievement struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        AchievementType `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Points      int             `json:"points"`
	Evidence    map[string]any  `json:"evidence,omitempty"`
	UnlockedAt  time.Time       `json:"unlocked_at"`
}

// LeaderboardEntry is one row per (user, category), maintained with
// incremental averages rather than full-history recomputation.
type LeaderboardEntry struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	Category        string  `json:"category"`
	DisplayName     string  `json:"display_name"`
	TotalScore      int     `json:"total_score"`
	GamesPlayed     int     `json:"games_played"`
	AverageAccuracy float64 `json:"average_accuracy"`
	TotalTimeSec    int     `json:"total_time_seconds"`
	PerfectScores   int     `json:"perfect_scores"`
}

// QuizAnalytics is one row per (user, quiz) with incremental aggregates.
type QuizAnalytics struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	QuizID          string  `json:"quiz_id"`
	Attempts        int     `json:"attempts"`
	BestScore       int     `json:"best_score"`
	BestPercentage  float64 `json:"best_percentage"`
	AverageScore    float64 `json:"average_score"`
	AverageTimeSec  float64 `json:"average_time_seconds"`
	TotalCorrect    int     `json:"total_correct"`
	TotalQuestions  int     `json:"total_questions"`
	ImprovementRate float64 `json:"improvement_rate"`
}

// View returns the display-safe projection of a question.
func (q Question) View() QuestionView {
	return QuestionView{
		ID:           q.ID,
		Text:         q.Text,
		Options:      q.Options,
		Points:       q.Points,
		TimeLimitSec: q.TimeLimitSec,
		Difficulty:   q.Difficulty,
		HasHint:      q.Hint != "",
	}
}
