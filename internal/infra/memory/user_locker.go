package memory

import (
	"context"
	"sync"
)

// UserLocker serializes gamification updates per user with in-process
// mutexes. Sufficient for a single instance; use the Redis locker when
// running more than one.
type UserLocker struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	ch   chan struct{}
	refs int
}

func NewUserLocker() *UserLocker {
	return &UserLocker{locks: make(map[string]*userLock)}
}

// Lock blocks until the user's lock is held or ctx is done.
func (l *UserLocker) Lock(ctx context.Context, userID string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[userID]
	if !ok {
		entry = &userLock{ch: make(chan struct{}, 1)}
		l.locks[userID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(userID, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			<-entry.ch
			l.release(userID, entry)
		})
	}
	return unlock, nil
}

func (l *UserLocker) release(userID string, entry *userLock) {
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, userID)
	}
	l.mu.Unlock()
}
