package app

import (
	"sync"
	"time"

	"learnhub-quiz-service/internal/domain"
)

// LeaderboardSnapshot is what subscribers receive after each processed
// attempt in a category.
type LeaderboardSnapshot struct {
	Category  string                    `json:"category"`
	Entries   []domain.LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time                 `json:"updatedAt"`
}

// LeaderboardHub fans leaderboard snapshots out to per-category
// subscribers; slow subscribers get stale snapshots dropped rather than
// blocking the publisher.
type LeaderboardHub struct {
	now func() time.Time

	mu          sync.Mutex
	subscribers map[string]map[chan LeaderboardSnapshot]struct{}
}

func NewLeaderboardHub() *LeaderboardHub {
	return &LeaderboardHub{
		now:         time.Now,
		subscribers: make(map[string]map[chan LeaderboardSnapshot]struct{}),
	}
}

// Subscribe returns a channel of snapshots for one category. The caller
// must invoke the returned cancel function to avoid leaks.
func (h *LeaderboardHub) Subscribe(category string) (<-chan LeaderboardSnapshot, func()) {
	ch := make(chan LeaderboardSnapshot, 8)

	h.mu.Lock()
	if h.subscribers[category] == nil {
		h.subscribers[category] = make(map[chan LeaderboardSnapshot]struct{})
	}
	h.subscribers[category][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.subscribers[category]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(h.subscribers, category)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a fresh snapshot to every subscriber of the category.
func (h *LeaderboardHub) Publish(category string, entries []domain.LeaderboardEntry) {
	snapshot := LeaderboardSnapshot{
		Category:  category,
		Entries:   entries,
		UpdatedAt: h.now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[category] {
		select {
		case ch <- snapshot:
		default:
			// Drop the stale snapshot so slow clients never block the pipeline.
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}
