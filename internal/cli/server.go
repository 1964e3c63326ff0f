package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"learnhub-quiz-service/internal/app"
	"learnhub-quiz-service/internal/auth"
	"learnhub-quiz-service/internal/config"
	"learnhub-quiz-service/internal/domain"
	"learnhub-quiz-service/internal/infra/memory"
	pgstore "learnhub-quiz-service/internal/infra/postgres"
	redisinfra "learnhub-quiz-service/internal/infra/redis"
	"learnhub-quiz-service/internal/logger"
	transport "learnhub-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz scoring server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	if pool != nil {
		loader = pgstore.NewQuizLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var store app.RecordStore = memory.NewRecordStore()
	if pool != nil {
		store = pgstore.NewRecordStore(pool)
	}

	var locks app.UserLocker = memory.NewUserLocker()
	if redisClient != nil {
		lockTTL := config.TTLDuration(cfg.Redis.LockTTL, 30*time.Second)
		locks = redisinfra.NewUserLocker(redisClient, lockTTL)
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		log.Warn("auth secret not configured, using development default")
		secret = "dev-secret"
	}
	audience := cfg.Auth.Audience
	if audience == "" {
		audience = "learnhub"
	}
	verifier := auth.NewVerifier(secret, audience)

	hub := app.NewLeaderboardHub()
	service := app.NewQuizService(quizRepo, store, locks, hub, log)

	requestTimeout := config.TTLDuration(cfg.Server.RequestTimeout, 10*time.Second)
	handler := transport.NewHandler(service, verifier, log, requestTimeout)
	wsHandler := transport.NewWSHandler(service, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("GET /leaderboard/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quiz service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes provides minimal quiz data for running without Postgres.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:       "quiz-1",
			Title:    "Arithmetic warmup",
			Category: "math",
			Public:   true,
			Active:   true,
			Questions: []domain.Question{
				{
					ID:            "q1",
					QuizID:        "quiz-1",
					Text:          "What is 2 + 2?",
					Options:       []string{"3", "4", "5", "6"},
					CorrectAnswer: "4",
					Points:        10,
					TimeLimitSec:  30,
					Difficulty:    domain.DifficultyEasy,
					Hint:          "Count on your fingers.",
					Explanation:   "Two plus two equals four.",
				},
				{
					ID:            "q2",
					QuizID:        "quiz-1",
					Text:          "What is 7 times 8?",
					Options:       []string{"54", "56", "58", "64"},
					CorrectAnswer: "56",
					Points:        20,
					TimeLimitSec:  45,
					Difficulty:    domain.DifficultyMedium,
				},
			},
		},
	}
}
