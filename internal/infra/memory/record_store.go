package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"learnhub-quiz-service/internal/domain"
)

// RecordStore is the in-memory implementation of app.RecordStore, used by
// tests and the no-database dev mode.
type RecordStore struct {
	mu           sync.RWMutex
	attempts     map[string]domain.Attempt
	responses    map[string]domain.QuestionResponse
	points       map[string]domain.UserPoints // keyed by user id
	achievements map[string]domain.Achievement
	leaderboard  map[string]domain.LeaderboardEntry // keyed by user id + category
	analytics    map[string]domain.QuizAnalytics    // keyed by user id + quiz id
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		attempts:     make(map[string]domain.Attempt),
		responses:    make(map[string]domain.QuestionResponse),
		points:       make(map[string]domain.UserPoints),
		achievements: make(map[string]domain.Achievement),
		leaderboard:  make(map[string]domain.LeaderboardEntry),
		analytics:    make(map[string]domain.QuizAnalytics),
	}
}

func (s *RecordStore) InsertAttempt(_ context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	s.attempts[attempt.ID] = attempt
	return attempt, nil
}

func (s *RecordStore) InsertResponse(_ context.Context, response domain.QuestionResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if response.ID == "" {
		response.ID = uuid.NewString()
	}
	s.responses[response.ID] = response
	return nil
}

func (s *RecordStore) GetUserPoints(_ context.Context, userID string) (domain.UserPoints, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	points, ok := s.points[userID]
	return points, ok, nil
}

func (s *RecordStore) InsertUserPoints(_ context.Context, points domain.UserPoints) (domain.UserPoints, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if points.ID == "" {
		points.ID = uuid.NewString()
	}
	s.points[points.UserID] = points
	return points, nil
}

func (s *RecordStore) PatchUserPoints(_ context.Context, points domain.UserPoints) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.points[points.UserID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	points.ID = existing.ID
	s.points[points.UserID] = points
	return nil
}

func (s *RecordStore) HasAchievement(_ context.Context, userID string, typ domain.AchievementType) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.achievements {
		if a.UserID == userID && a.Type == typ {
			return true, nil
		}
	}
	return false, nil
}

func (s *RecordStore) InsertAchievement(_ context.Context, achievement domain.Achievement) (domain.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if achievement.ID == "" {
		achievement.ID = uuid.NewString()
	}
	s.achievements[achievement.ID] = achievement
	return achievement, nil
}

func (s *RecordStore) GetLeaderboardEntry(_ context.Context, userID, category string) (domain.LeaderboardEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.leaderboard[leaderboardKey(userID, category)]
	return entry, ok, nil
}

func (s *RecordStore) InsertLeaderboardEntry(_ context.Context, entry domain.LeaderboardEntry) (domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	s.leaderboard[leaderboardKey(entry.UserID, entry.Category)] = entry
	return entry, nil
}

func (s *RecordStore) PatchLeaderboardEntry(_ context.Context, entry domain.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := leaderboardKey(entry.UserID, entry.Category)
	existing, ok := s.leaderboard[key]
	if !ok {
		return domain.ErrRecordNotFound
	}
	entry.ID = existing.ID
	s.leaderboard[key] = entry
	return nil
}

func (s *RecordStore) ListLeaderboard(_ context.Context, category string, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]domain.LeaderboardEntry, 0)
	for _, entry := range s.leaderboard {
		if entry.Category == category {
			entries = append(entries, entry)
		}
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}

func (s *RecordStore) GetAnalytics(_ context.Context, userID, quizID string) (domain.QuizAnalytics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	analytics, ok := s.analytics[analyticsKey(userID, quizID)]
	return analytics, ok, nil
}

func (s *RecordStore) InsertAnalytics(_ context.Context, analytics domain.QuizAnalytics) (domain.QuizAnalytics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if analytics.ID == "" {
		analytics.ID = uuid.NewString()
	}
	s.analytics[analyticsKey(analytics.UserID, analytics.QuizID)] = analytics
	return analytics, nil
}

func (s *RecordStore) PatchAnalytics(_ context.Context, analytics domain.QuizAnalytics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := analyticsKey(analytics.UserID, analytics.QuizID)
	existing, ok := s.analytics[key]
	if !ok {
		return domain.ErrRecordNotFound
	}
	analytics.ID = existing.ID
	s.analytics[key] = analytics
	return nil
}

// CountResponses reports how many responses are stored for an attempt;
// test helper.
func (s *RecordStore) CountResponses(attemptID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.responses {
		if r.AttemptID == attemptID {
			n++
		}
	}
	return n
}

// CountAchievements reports how many badge rows a user holds of a type;
// test helper.
func (s *RecordStore) CountAchievements(userID string, typ domain.AchievementType) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.achievements {
		if a.UserID == userID && a.Type == typ {
			n++
		}
	}
	return n
}

func leaderboardKey(userID, category string) string {
	return userID + "|" + category
}

func analyticsKey(userID, quizID string) string {
	return userID + "|" + quizID
}
