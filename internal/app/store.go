package app

import (
	"context"

	"learnhub-quiz-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	GetQuestion(ctx context.Context, questionID string) (domain.Question, error)
}

// AttemptStore persists attempts and their per-question responses.
type AttemptStore interface {
	InsertAttempt(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error)
	InsertResponse(ctx context.Context, response domain.QuestionResponse) error
}

// PointsStore holds the per-user progression row. The boolean reports
// whether a row existed.
type PointsStore interface {
	GetUserPoints(ctx context.Context, userID string) (domain.UserPoints, bool, error)
	InsertUserPoints(ctx context.Context, points domain.UserPoints) (domain.UserPoints, error)
	PatchUserPoints(ctx context.Context, points domain.UserPoints) error
}

// AchievementStore records unlocked badges.
type AchievementStore interface {
	HasAchievement(ctx context.Context, userID string, typ domain.AchievementType) (bool, error)
	InsertAchievement(ctx context.Context, achievement domain.Achievement) (domain.Achievement, error)
}

// LeaderboardStore holds one entry per (user, category).
type LeaderboardStore interface {
	GetLeaderboardEntry(ctx context.Context, userID, category string) (domain.LeaderboardEntry, bool, error)
	InsertLeaderboardEntry(ctx context.Context, entry domain.LeaderboardEntry) (domain.LeaderboardEntry, error)
	PatchLeaderboardEntry(ctx context.Context, entry domain.LeaderboardEntry) error
	ListLeaderboard(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error)
}

// AnalyticsStore holds one row per (user, quiz).
type AnalyticsStore interface {
	GetAnalytics(ctx context.Context, userID, quizID string) (domain.QuizAnalytics, bool, error)
	InsertAnalytics(ctx context.Context, analytics domain.QuizAnalytics) (domain.QuizAnalytics, error)
	PatchAnalytics(ctx context.Context, analytics domain.QuizAnalytics) error
}

// RecordStore is the full persistence surface the scoring pipeline needs.
// Implementations only ever see simple get/insert/patch round trips; no
// cross-collection transactions are assumed.
type RecordStore interface {
	AttemptStore
	PointsStore
	AchievementStore
	LeaderboardStore
	AnalyticsStore
}

// UserLocker serializes gamification updates per user so concurrent
// attempts cannot lose read-modify-write updates against each other.
type UserLocker interface {
	// Lock blocks until the user's lock is held or ctx is done; the
	// returned function releases it.
	Lock(ctx context.Context, userID string) (func(), error)
}
