package app

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"learnhub-quiz-service/internal/domain"
	"learnhub-quiz-service/internal/gamification"
	"learnhub-quiz-service/internal/logger"
	"learnhub-quiz-service/internal/scoring"
)

// DefaultSessionSize caps how many questions a single session draws from
// a quiz's pool.
const DefaultSessionSize = 15

// DefaultCategory is used when a quiz carries no category of its own.
const DefaultCategory = "general"

// QuizSession is the display-safe payload a client starts an attempt from.
type QuizSession struct {
	QuizID    string                `json:"quiz_id"`
	Title     string                `json:"title"`
	Category  string                `json:"category"`
	Questions []domain.QuestionView `json:"questions"`
}

// Submission is a completed attempt as sent by the client.
type Submission struct {
	Answers      []domain.SubmittedAnswer `json:"answers"`
	TotalTimeSec int                      `json:"total_time_seconds"`
	HintsUsed    []string                 `json:"hints_used,omitempty"`
}

// SubmitResult is the score breakdown returned to the client. Warnings
// list secondary writes that failed; the attempt itself is durable.
type SubmitResult struct {
	Attempt      domain.Attempt          `json:"attempt"`
	Results      []domain.QuestionResult `json:"results"`
	NewStreak    int                     `json:"new_streak"`
	TotalPoints  int                     `json:"total_points"`
	Level        int                     `json:"level"`
	Achievements []domain.Achievement    `json:"achievements_unlocked"`
	Warnings     []string                `json:"warnings,omitempty"`
}

// ProcessRequest is the gamification-processor entry point: the caller
// supplies the authoritative questions alongside the raw result.
type ProcessRequest struct {
	QuizID    string            `json:"quiz_id"`
	Category  string            `json:"category"`
	UserName  string            `json:"user_name"`
	Questions []domain.Question `json:"questions"`
	Result    Submission        `json:"quiz_result"`
}

// ProcessResult mirrors SubmitResult for the processor entry point.
type ProcessResult struct {
	ScoreID      string               `json:"score_id"`
	NewStreak    int                  `json:"new_streak"`
	TotalPoints  int                  `json:"total_points"`
	Achievements []domain.Achievement `json:"achievements_unlocked"`
	Message      string               `json:"message"`
	Warnings     []string             `json:"warnings,omitempty"`
}

// QuizService contains the scoring and gamification use cases.
type QuizService struct {
	quizzes     QuizRepository
	store       RecordStore
	locks       UserLocker
	hub         *LeaderboardHub
	policy      scoring.ScoringPolicy
	log         *logger.Logger
	now         func() time.Time
	sessionSize int

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuizService(quizzes QuizRepository, store RecordStore, locks UserLocker, hub *LeaderboardHub, log *logger.Logger) *QuizService {
	return &QuizService{
		quizzes:     quizzes,
		store:       store,
		locks:       locks,
		hub:         hub,
		policy:      scoring.NewRatioBonusPolicy(),
		log:         log,
		now:         time.Now,
		sessionSize: DefaultSessionSize,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock is test-only for deterministic timestamps.
func (s *QuizService) WithClock(now func() time.Time) *QuizService {
	s.now = now
	return s
}

// StartSession returns quiz metadata plus a uniformly random sample of at
// most sessionSize questions, display-safe fields only.
func (s *QuizService) StartSession(ctx context.Context, quizID string) (QuizSession, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return QuizSession{}, err
	}

	sampled := s.sampleQuestions(quiz.Questions)
	views := make([]domain.QuestionView, 0, len(sampled))
	for _, q := range sampled {
		views = append(views, q.View())
	}
	return QuizSession{
		QuizID:    quiz.ID,
		Title:     quiz.Title,
		Category:  categoryOf(quiz),
		Questions: views,
	}, nil
}

// Hint returns the hint text for one question.
func (s *QuizService) Hint(ctx context.Context, questionID string) (string, error) {
	q, err := s.quizzes.GetQuestion(ctx, questionID)
	if err != nil {
		return "", err
	}
	if q.Hint == "" {
		return "", domain.ErrHintNotAvailable
	}
	return q.Hint, nil
}

// Submit grades a completed attempt, persists it, and runs the
// gamification chain. The attempt write is fatal on failure; every later
// stage is best-effort and surfaces failures as warnings.
func (s *QuizService) Submit(ctx context.Context, userID, displayName, quizID string, sub Submission) (SubmitResult, error) {
	if quizID == "" || len(sub.Answers) == 0 {
		return SubmitResult{}, domain.ErrInvalidSubmission
	}

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return SubmitResult{}, err
	}

	return s.scoreAndProcess(ctx, userID, displayName, quiz.ID, categoryOf(quiz), quiz.Questions, sub)
}

// Process runs the identical pipeline against caller-supplied questions
// (the gamification-processor entry point).
func (s *QuizService) Process(ctx context.Context, userID string, req ProcessRequest) (ProcessResult, error) {
	if req.QuizID == "" || len(req.Questions) == 0 || len(req.Result.Answers) == 0 {
		return ProcessResult{}, domain.ErrInvalidSubmission
	}

	category := req.Category
	if category == "" {
		category = DefaultCategory
	}

	res, err := s.scoreAndProcess(ctx, userID, req.UserName, req.QuizID, category, req.Questions, req.Result)
	if err != nil {
		return ProcessResult{}, err
	}

	return ProcessResult{
		ScoreID:      res.Attempt.ID,
		NewStreak:    res.NewStreak,
		TotalPoints:  res.TotalPoints,
		Achievements: res.Achievements,
		Message: fmt.Sprintf("You scored %d of %d points (%.0f%%).",
			res.Attempt.Score, res.Attempt.MaxScore, res.Attempt.Percentage),
		Warnings: res.Warnings,
	}, nil
}

// Leaderboard returns the category standings sorted by total score.
func (s *QuizService) Leaderboard(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error) {
	if category == "" {
		category = DefaultCategory
	}
	entries, err := s.store.ListLeaderboard(ctx, category, limit)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].DisplayName < entries[j].DisplayName
	})
	return entries, nil
}

// SubscribeLeaderboard streams category snapshots published after each
// processed attempt. The caller must invoke cancel to avoid leaks.
func (s *QuizService) SubscribeLeaderboard(category string) (<-chan LeaderboardSnapshot, func()) {
	if category == "" {
		category = DefaultCategory
	}
	return s.hub.Subscribe(category)
}

func (s *QuizService) scoreAndProcess(ctx context.Context, userID, displayName, quizID, category string, pool []domain.Question, sub Submission) (SubmitResult, error) {
	results := scoring.GradeAnswers(s.policy, pool, sub.Answers)

	// The session is whatever subset the client was served; the graded
	// results identify it, so totals range over those questions only.
	session := sessionQuestions(pool, results)
	totals := scoring.Aggregate(s.policy, session, results, sub.HintsUsed)

	attempt := domain.Attempt{
		UserID:         userID,
		QuizID:         quizID,
		Score:          totals.Score,
		MaxScore:       totals.MaxScore,
		Percentage:     totals.Percentage,
		TimeTakenSec:   sub.TotalTimeSec,
		CorrectCount:   totals.CorrectCount,
		TotalQuestions: totals.TotalQuestions,
		HintsUsed:      totals.HintsUsed,
		HintPenalty:    totals.HintPenalty,
		TimeBonus:      totals.TimeBonus,
		Completed:      true,
		CreatedAt:      s.now(),
	}

	saved, err := s.store.InsertAttempt(ctx, attempt)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("save attempt: %w", err)
	}

	var warnings []string
	warn := func(stage string, err error, kv ...any) {
		warnings = append(warnings, fmt.Sprintf("%s: %v", stage, err))
		s.log.Warn("secondary write failed", append([]any{"stage", stage, "userId", userID, "attemptId", saved.ID, "error", err}, kv...)...)
	}

	for _, r := range results {
		response := domain.QuestionResponse{
			AttemptID:      saved.ID,
			QuestionID:     r.QuestionID,
			UserAnswer:     r.UserAnswer,
			Correct:        r.Correct,
			ResponseTimeMs: responseTimeFor(sub.Answers, r.QuestionID),
			PointsEarned:   r.PointsEarned,
			Difficulty:     r.Difficulty,
		}
		if err := s.store.InsertResponse(ctx, response); err != nil {
			warn("question_response", err, "questionId", r.QuestionID)
		}
	}

	points, unlocked := s.applyGamification(ctx, userID, displayName, category, saved, warn)

	s.publishLeaderboard(ctx, category, warn)

	return SubmitResult{
		Attempt:      saved,
		Results:      results,
		NewStreak:    points.CurrentStreak,
		TotalPoints:  points.TotalPoints,
		Level:        points.Level,
		Achievements: unlocked,
		Warnings:     warnings,
	}, nil
}

// applyGamification runs the progression, achievement, leaderboard, and
// analytics updates under the per-user lock. Every write in here is
// best-effort; failures become warnings, never rollbacks.
func (s *QuizService) applyGamification(ctx context.Context, userID, displayName, category string, attempt domain.Attempt, warn func(string, error, ...any)) (domain.UserPoints, []domain.Achievement) {
	if unlock, err := s.locks.Lock(ctx, userID); err != nil {
		warn("user_lock", err)
	} else {
		defer unlock()
	}

	points := s.updateProgression(ctx, userID, attempt, warn)
	unlocked := s.unlockAchievements(ctx, userID, attempt, warn)
	s.updateLeaderboard(ctx, userID, displayName, category, attempt, warn)
	s.updateAnalytics(ctx, userID, attempt, warn)
	return points, unlocked
}

func (s *QuizService) updateProgression(ctx context.Context, userID string, attempt domain.Attempt, warn func(string, error, ...any)) domain.UserPoints {
	prev, existed, err := s.store.GetUserPoints(ctx, userID)
	if err != nil {
		warn("user_points", err)
		prev = domain.UserPoints{}
		existed = false
	}
	prev.UserID = userID

	updated := gamification.ApplyAttempt(prev, attempt.Score, s.now())
	if existed {
		if err := s.store.PatchUserPoints(ctx, updated); err != nil {
			warn("user_points", err)
		}
	} else {
		saved, err := s.store.InsertUserPoints(ctx, updated)
		if err != nil {
			warn("user_points", err)
		} else {
			updated = saved
		}
	}
	return updated
}

// unlockAchievements inserts a badge row per qualifying predicate, once
// per (user, type): a prior unlock of the same type suppresses the insert.
func (s *QuizService) unlockAchievements(ctx context.Context, userID string, attempt domain.Attempt, warn func(string, error, ...any)) []domain.Achievement {
	var unlocked []domain.Achievement
	for _, u := range gamification.EvaluateAchievements(attempt) {
		have, err := s.store.HasAchievement(ctx, userID, u.Type)
		if err != nil {
			warn("achievement", err, "type", u.Type)
			continue
		}
		if have {
			continue
		}
		saved, err := s.store.InsertAchievement(ctx, domain.Achievement{
			UserID:      userID,
			Type:        u.Type,
			Name:        u.Name,
			Description: u.Description,
			Points:      u.Points,
			Evidence: map[string]any{
				"attempt_id": attempt.ID,
				"score":      attempt.Score,
				"percentage": attempt.Percentage,
				"time_taken": attempt.TimeTakenSec,
			},
			UnlockedAt: s.now(),
		})
		if err != nil {
			warn("achievement", err, "type", u.Type)
			continue
		}
		unlocked = append(unlocked, saved)
	}
	return unlocked
}

func (s *QuizService) updateLeaderboard(ctx context.Context, userID, displayName, category string, attempt domain.Attempt, warn func(string, error, ...any)) {
	prev, existed, err := s.store.GetLeaderboardEntry(ctx, userID, category)
	if err != nil {
		warn("leaderboard", err)
		return
	}
	prev.UserID = userID
	prev.Category = category

	next := gamification.ApplyToLeaderboard(prev, attempt, displayName)
	if existed {
		err = s.store.PatchLeaderboardEntry(ctx, next)
	} else {
		_, err = s.store.InsertLeaderboardEntry(ctx, next)
	}
	if err != nil {
		warn("leaderboard", err)
	}
}

func (s *QuizService) updateAnalytics(ctx context.Context, userID string, attempt domain.Attempt, warn func(string, error, ...any)) {
	prev, existed, err := s.store.GetAnalytics(ctx, userID, attempt.QuizID)
	if err != nil {
		warn("analytics", err)
		return
	}
	prev.UserID = userID
	prev.QuizID = attempt.QuizID

	next := gamification.ApplyToAnalytics(prev, attempt)
	if existed {
		err = s.store.PatchAnalytics(ctx, next)
	} else {
		_, err = s.store.InsertAnalytics(ctx, next)
	}
	if err != nil {
		warn("analytics", err)
	}
}

func (s *QuizService) publishLeaderboard(ctx context.Context, category string, warn func(string, error, ...any)) {
	if s.hub == nil {
		return
	}
	entries, err := s.Leaderboard(ctx, category, 50)
	if err != nil {
		warn("leaderboard_snapshot", err)
		return
	}
	s.hub.Publish(category, entries)
}

func (s *QuizService) sampleQuestions(pool []domain.Question) []domain.Question {
	n := s.sessionSize
	if n <= 0 || n > len(pool) {
		n = len(pool)
	}

	s.rndMu.Lock()
	perm := s.rnd.Perm(len(pool))
	s.rndMu.Unlock()

	sampled := make([]domain.Question, 0, n)
	for _, idx := range perm[:n] {
		sampled = append(sampled, pool[idx])
	}
	return sampled
}

func sessionQuestions(pool []domain.Question, results []domain.QuestionResult) []domain.Question {
	byID := make(map[string]domain.Question, len(pool))
	for _, q := range pool {
		byID[q.ID] = q
	}
	session := make([]domain.Question, 0, len(results))
	for _, r := range results {
		if q, ok := byID[r.QuestionID]; ok {
			session = append(session, q)
		}
	}
	return session
}

func responseTimeFor(answers []domain.SubmittedAnswer, questionID string) int64 {
	for _, a := range answers {
		if a.QuestionID == questionID {
			return a.ResponseTimeMs
		}
	}
	return 0
}

func categoryOf(quiz domain.Quiz) string {
	if quiz.Category == "" {
		return DefaultCategory
	}
	return quiz.Category
}
