package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrSessionNotFound is returned when no active session exists for a user.
var ErrSessionNotFound = errors.New("quiz session not found")

// StateManager persists quiz-session state between requests within one
// sitting. Sessions are keyed per user and never outlive their TTL.
type StateManager interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, userID string) (*Session, error)
}

// RedisStateManager stores sessions in Redis.
type RedisStateManager struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

var _ StateManager = (*RedisStateManager)(nil)

// NewRedisStateManager creates a Redis-backed session store.
func NewRedisStateManager(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisStateManager {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &RedisStateManager{client: client, ttl: ttl, logger: logger}
}

func sessionKey(userID string) string {
	return fmt.Sprintf("quizville:quiz:session:%s", userID)
}

// Save marshals and stores the session under its user's key.
func (m *RedisStateManager) Save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return m.client.Set(ctx, sessionKey(session.UserID), data, m.ttl).Err()
}

// Get retrieves a user's session.
func (m *RedisStateManager) Get(ctx context.Context, userID string) (*Session, error) {
	data, err := m.client.Get(ctx, sessionKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// MemoryStateManager keeps sessions in process memory, used when Redis is
// unconfigured and in tests.
type MemoryStateManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

var _ StateManager = (*MemoryStateManager)(nil)

// NewMemoryStateManager creates an in-process session store.
func NewMemoryStateManager() *MemoryStateManager {
	return &MemoryStateManager{sessions: make(map[string]*Session)}
}

// Save stores a copy of the session.
func (m *MemoryStateManager) Save(_ context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.UserID] = session.clone()
	return nil
}

// Get retrieves a copy of a user's session.
func (m *MemoryStateManager) Get(_ context.Context, userID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session.clone(), nil
}

func (s *Session) clone() *Session {
	out := *s
	out.Questions = append(out.Questions[:0:0], s.Questions...)
	out.Flagged = make(map[string]bool, len(s.Flagged))
	for k, v := range s.Flagged {
		out.Flagged[k] = v
	}
	return &out
}
