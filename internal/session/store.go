// Package session keeps the transcript of one chat page visit for as long as
// the visit lasts. Transcripts are never fed back into completions.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/RichardoC/advisory-board/internal/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	Create(ctx context.Context) (*models.Session, error)
	// Append records msg at the end of the session transcript and fills in
	// its ID and CreatedAt.
	Append(ctx context.Context, msg *models.Message) error
	// Messages returns the transcript in submission order.
	Messages(ctx context.Context, sessionID string) ([]models.Message, error)
	End(ctx context.Context, sessionID string) error
	// Sweep ends every session idle since before cutoff and returns how many.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

type memorySession struct {
	session  models.Session
	messages []models.Message
}

// MemoryStore holds sessions for the life of the process.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	nextID   int64
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context) (*models.Session, error) {
	now := m.now().UTC()
	s := models.Session{ID: NewID(), CreatedAt: now, LastActiveAt: now}

	m.mu.Lock()
	m.sessions[s.ID] = &memorySession{session: s}
	m.mu.Unlock()

	return &s, nil
}

func (m *MemoryStore) Append(_ context.Context, msg *models.Message) error {
	if !msg.Role.Valid() {
		return fmt.Errorf("append to session %s: invalid role %q", msg.SessionID, msg.Role)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[msg.SessionID]
	if !ok {
		return ErrNotFound
	}
	m.nextID++
	msg.ID = m.nextID
	msg.CreatedAt = m.now().UTC()
	s.messages = append(s.messages, *msg)
	s.session.LastActiveAt = msg.CreatedAt
	return nil
}

func (m *MemoryStore) Messages(_ context.Context, sessionID string) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

func (m *MemoryStore) End(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *MemoryStore) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		if s.session.LastActiveAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
