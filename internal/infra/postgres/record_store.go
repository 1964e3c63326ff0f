package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"learnhub-quiz-service/internal/domain"
)

// RecordStore implements app.RecordStore on Postgres. Every collection is
// a table of (id, key columns, data jsonb); access stays strictly
// get/insert/patch per table with no joins or cross-table transactions.
type RecordStore struct {
	pool *pgxpool.Pool
}

func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

func (s *RecordStore) InsertAttempt(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	data, err := json.Marshal(attempt)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("marshal attempt: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quiz_scores (id, user_id, quiz_id, data) VALUES ($1, $2, $3, $4)`,
		attempt.ID, attempt.UserID, attempt.QuizID, data)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("insert attempt: %w", err)
	}
	return attempt, nil
}

func (s *RecordStore) InsertResponse(ctx context.Context, response domain.QuestionResponse) error {
	if response.ID == "" {
		response.ID = uuid.NewString()
	}
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO question_responses (id, attempt_id, data) VALUES ($1, $2, $3)`,
		response.ID, response.AttemptID, data)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

func (s *RecordStore) GetUserPoints(ctx context.Context, userID string) (domain.UserPoints, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM user_points WHERE user_id=$1`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserPoints{}, false, nil
	}
	if err != nil {
		return domain.UserPoints{}, false, fmt.Errorf("get user points: %w", err)
	}
	var points domain.UserPoints
	if err := json.Unmarshal(raw, &points); err != nil {
		return domain.UserPoints{}, false, fmt.Errorf("unmarshal user points: %w", err)
	}
	return points, true, nil
}

func (s *RecordStore) InsertUserPoints(ctx context.Context, points domain.UserPoints) (domain.UserPoints, error) {
	if points.ID == "" {
		points.ID = uuid.NewString()
	}
	data, err := json.Marshal(points)
	if err != nil {
		return domain.UserPoints{}, fmt.Errorf("marshal user points: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO user_points (id, user_id, data) VALUES ($1, $2, $3)`,
		points.ID, points.UserID, data)
	if err != nil {
		return domain.UserPoints{}, fmt.Errorf("insert user points: %w", err)
	}
	return points, nil
}

func (s *RecordStore) PatchUserPoints(ctx context.Context, points domain.UserPoints) error {
	data, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("marshal user points: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE user_points SET data=$2 WHERE user_id=$1`, points.UserID, data)
	if err != nil {
		return fmt.Errorf("patch user points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (s *RecordStore) HasAchievement(ctx context.Context, userID string, typ domain.AchievementType) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_achievements WHERE user_id=$1 AND type=$2)`,
		userID, string(typ)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check achievement: %w", err)
	}
	return exists, nil
}

func (s *RecordStore) InsertAchievement(ctx context.Context, achievement domain.Achievement) (domain.Achievement, error) {
	if achievement.ID == "" {
		achievement.ID = uuid.NewString()
	}
	data, err := json.Marshal(achievement)
	if err != nil {
		return domain.Achievement{}, fmt.Errorf("marshal achievement: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO user_achievements (id, user_id, type, data) VALUES ($1, $2, $3, $4)`,
		achievement.ID, achievement.UserID, string(achievement.Type), data)
	if err != nil {
		return domain.Achievement{}, fmt.Errorf("insert achievement: %w", err)
	}
	return achievement, nil
}

func (s *RecordStore) GetLeaderboardEntry(ctx context.Context, userID, category string) (domain.LeaderboardEntry, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM leaderboard WHERE user_id=$1 AND category=$2`,
		userID, category).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LeaderboardEntry{}, false, nil
	}
	if err != nil {
		return domain.LeaderboardEntry{}, false, fmt.Errorf("get leaderboard entry: %w", err)
	}
	var entry domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.LeaderboardEntry{}, false, fmt.Errorf("unmarshal leaderboard entry: %w", err)
	}
	return entry, true, nil
}

func (s *RecordStore) InsertLeaderboardEntry(ctx context.Context, entry domain.LeaderboardEntry) (domain.LeaderboardEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return domain.LeaderboardEntry{}, fmt.Errorf("marshal leaderboard entry: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO leaderboard (id, user_id, category, data) VALUES ($1, $2, $3, $4)`,
		entry.ID, entry.UserID, entry.Category, data)
	if err != nil {
		return domain.LeaderboardEntry{}, fmt.Errorf("insert leaderboard entry: %w", err)
	}
	return entry, nil
}

func (s *RecordStore) PatchLeaderboardEntry(ctx context.Context, entry domain.LeaderboardEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal leaderboard entry: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE leaderboard SET data=$3 WHERE user_id=$1 AND category=$2`,
		entry.UserID, entry.Category, data)
	if err != nil {
		return fmt.Errorf("patch leaderboard entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (s *RecordStore) ListLeaderboard(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM leaderboard WHERE category=$1 ORDER BY (data->>'total_score')::int DESC LIMIT $2`,
		category, limit)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		var entry domain.LeaderboardEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("unmarshal leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *RecordStore) GetAnalytics(ctx context.Context, userID, quizID string) (domain.QuizAnalytics, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM quiz_analytics WHERE user_id=$1 AND quiz_id=$2`,
		userID, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizAnalytics{}, false, nil
	}
	if err != nil {
		return domain.QuizAnalytics{}, false, fmt.Errorf("get analytics: %w", err)
	}
	var analytics domain.QuizAnalytics
	if err := json.Unmarshal(raw, &analytics); err != nil {
		return domain.QuizAnalytics{}, false, fmt.Errorf("unmarshal analytics: %w", err)
	}
	return analytics, true, nil
}

func (s *RecordStore) InsertAnalytics(ctx context.Context, analytics domain.QuizAnalytics) (domain.QuizAnalytics, error) {
	if analytics.ID == "" {
		analytics.ID = uuid.NewString()
	}
	data, err := json.Marshal(analytics)
	if err != nil {
		return domain.QuizAnalytics{}, fmt.Errorf("marshal analytics: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quiz_analytics (id, user_id, quiz_id, data) VALUES ($1, $2, $3, $4)`,
		analytics.ID, analytics.UserID, analytics.QuizID, data)
	if err != nil {
		return domain.QuizAnalytics{}, fmt.Errorf("insert analytics: %w", err)
	}
	return analytics, nil
}

func (s *RecordStore) PatchAnalytics(ctx context.Context, analytics domain.QuizAnalytics) error {
	data, err := json.Marshal(analytics)
	if err != nil {
		return fmt.Errorf("marshal analytics: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE quiz_analytics SET data=$3 WHERE user_id=$1 AND quiz_id=$2`,
		analytics.UserID, analytics.QuizID, data)
	if err != nil {
		return fmt.Errorf("patch analytics: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
