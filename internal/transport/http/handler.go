package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"learnhub-quiz-service/internal/app"
	"learnhub-quiz-service/internal/auth"
	"learnhub-quiz-service/internal/domain"
	"learnhub-quiz-service/internal/logger"
)

// Handler exposes the scoring pipeline over REST.
type Handler struct {
	service  *app.QuizService
	verifier *auth.Verifier
	log      *logger.Logger
	timeout  time.Duration
}

func NewHandler(service *app.QuizService, verifier *auth.Verifier, log *logger.Logger, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{service: service, verifier: verifier, log: log, timeout: timeout}
}

// Register wires every route onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /quizzes/{quizId}", h.handleSession)
	mux.HandleFunc("GET /quizzes/questions/{questionId}/hint", h.requireAuth(h.handleHint))
	mux.HandleFunc("POST /quizzes/{quizId}/submit", h.requireAuth(h.handleSubmit))
	mux.HandleFunc("POST /gamification/process", h.requireAuth(h.handleProcess))
	mux.HandleFunc("GET /leaderboard", h.handleLeaderboard)
}

type authedHandler func(w http.ResponseWriter, r *http.Request, claims auth.Claims)

// requireAuth rejects requests without a valid bearer token before any
// read or write happens.
func (h *Handler) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.FromAuthorizationHeader(r.Header.Get("Authorization"))
		claims, err := h.verifier.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		next(w, r, claims)
	}
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	session, err := h.service.StartSession(ctx, r.PathValue("quizId"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request, _ auth.Claims) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	hint, err := h.service.Hint(ctx, r.PathValue("questionId"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"hint": hint})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	var sub app.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.service.Submit(ctx, claims.UserID, claims.Name, r.PathValue("quizId"), sub)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	var req app.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.service.Process(ctx, claims.UserID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	entries, err := h.service.Leaderboard(ctx, r.URL.Query().Get("category"), 50)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrHintNotAvailable),
		errors.Is(err, domain.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidSubmission):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		h.log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
