package repository

import (
	"sync"

	"github.com/eslsoft/phrasenet/internal/repository"
)

type cardLock struct {
	mu   sync.Mutex
	refs int
}

type cardLocker struct {
	mu    sync.Mutex
	locks map[int64]*cardLock
}

// NewCardLocker returns an in-process per-card mutex. Entries are
// reference counted and removed once the last holder releases, so the
// map does not grow with the card table.
func NewCardLocker() repository.CardLocker {
	return &cardLocker{locks: make(map[int64]*cardLock)}
}

func (l *cardLocker) Lock(cardID int64) func() {
	l.mu.Lock()
	lock, ok := l.locks[cardID]
	if !ok {
		lock = &cardLock{}
		l.locks[cardID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, cardID)
		}
		l.mu.Unlock()
	}
}
