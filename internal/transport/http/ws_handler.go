package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	"learnhub-quiz-service/internal/app"
	"learnhub-quiz-service/internal/logger"
)

// WSHandler streams live leaderboard snapshots to websocket clients. The
// stream is one-directional: the client picks a category at connect time
// and receives a snapshot after every processed attempt in it.
type WSHandler struct {
	service  *app.QuizService
	log      *logger.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, log *logger.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request and fans leaderboard updates out to the client.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		http.Error(w, "missing category", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.service.SubscribeLeaderboard(category)
	defer cancel()

	// Initial snapshot so clients render immediately.
	entries, err := h.service.Leaderboard(r.Context(), category, 50)
	if err == nil {
		_ = conn.WriteJSON(outboundMessage[any]{Type: "leaderboard", Payload: map[string]any{
			"category": category,
			"entries":  entries,
		}})
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		// Drain reads so close frames are noticed; inbound content is ignored.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[app.LeaderboardSnapshot]{Type: "leaderboard", Payload: snapshot}); err != nil {
				h.log.Warn("ws write error", "error", err)
				return
			}
		case <-closed:
			return
		}
	}
}
