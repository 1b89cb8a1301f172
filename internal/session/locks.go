package session

import "sync"

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Locks serializes processing per user while keeping different users
// independent. It uses reference counting to garbage collect unused locks.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

// NewLocks creates an empty per-user lock set.
func NewLocks() *Locks {
	return &Locks{
		locks: make(map[string]*lockEntry),
	}
}

// acquire gets or creates a lock entry and increments its reference count.
func (l *Locks) acquire(userID string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.locks[userID]
	if !exists {
		entry = &lockEntry{}
		l.locks[userID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (l *Locks) release(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.locks[userID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(l.locks, userID)
	}
}

// With executes fn while holding the lock for the user.
func (l *Locks) With(userID string, fn func() error) error {
	entry := l.acquire(userID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		l.release(userID)
	}()
	return fn()
}
