package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/GibaTrindade/bot-seplag/internal/domain"
	"github.com/GibaTrindade/bot-seplag/internal/logging"
)

// DefaultTTL is the sliding expiration window for idle sessions.
const DefaultTTL = 5 * time.Minute

type memoryEntry struct {
	sess  *domain.Session
	timer *time.Timer
	// gen invalidates a pending timer callback after Touch or Replace
	// rescheduled it; firing with a stale generation is a no-op.
	gen uint64
}

// MemoryStore implements ports.SessionStore in memory, expiring idle
// sessions through a per-session timer. Safe for concurrent use; the
// expiry callback racing a Delete is benign.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	onExpire func(userID string, step domain.Step)
	logger   *slog.Logger
}

// MemoryOption configures the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithTTL overrides the sliding expiration window.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		s.ttl = ttl
	}
}

// WithOnExpire registers a callback fired once per expired session.
func WithOnExpire(fn func(userID string, step domain.Step)) MemoryOption {
	return func(s *MemoryStore) {
		s.onExpire = fn
	}
}

// WithLogger configures the store logger.
func WithLogger(logger *slog.Logger) MemoryOption {
	return func(s *MemoryStore) {
		s.logger = logger
	}
}

// NewMemoryStore creates an in-memory store with the default 5 minute TTL.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      DefaultTTL,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves a copy of the stored session.
func (s *MemoryStore) Get(ctx context.Context, userID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return entry.sess.Clone(), nil
}

// Create inserts a fresh session at the CPF step and arms its expiry timer.
// An existing session for the same user is displaced.
func (s *MemoryStore) Create(ctx context.Context, userID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.sessions[userID]; ok {
		old.timer.Stop()
	}

	entry := &memoryEntry{sess: domain.NewSession(userID)}
	s.sessions[userID] = entry
	s.arm(userID, entry)

	return entry.sess.Clone(), nil
}

// Touch reschedules the expiry window. No-op if the session does not exist.
func (s *MemoryStore) Touch(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[userID]
	if !ok {
		return nil
	}
	entry.timer.Stop()
	s.arm(userID, entry)
	return nil
}

// Replace swaps the stored state. The expiry schedule is untouched; Touch
// handles rescheduling so validation retries extend the session too.
func (s *MemoryStore) Replace(ctx context.Context, userID string, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[userID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	entry.sess = sess.Clone()
	return nil
}

// Delete removes the session and cancels its timer. Idempotent.
func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[userID]
	if !ok {
		return nil
	}
	entry.timer.Stop()
	entry.gen++
	delete(s.sessions, userID)
	return nil
}

// arm schedules a fresh expiry timer for the entry. Caller holds s.mu.
func (s *MemoryStore) arm(userID string, entry *memoryEntry) {
	entry.gen++
	gen := entry.gen
	entry.timer = time.AfterFunc(s.ttl, func() {
		s.expire(userID, gen)
	})
}

// expire runs in the timer goroutine. A stale generation means the session
// was touched or deleted after this timer was armed.
func (s *MemoryStore) expire(userID string, gen uint64) {
	s.mu.Lock()
	entry, ok := s.sessions[userID]
	if !ok || entry.gen != gen {
		s.mu.Unlock()
		return
	}
	step := entry.sess.Step
	delete(s.sessions, userID)
	s.mu.Unlock()

	s.logger.Info("session expired", "user_id", userID, "step", step)
	if s.onExpire != nil {
		s.onExpire(userID, step)
	}
}
