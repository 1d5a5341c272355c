package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
)

// ErrSessionNotFound is returned by Update when the chat has no session.
var ErrSessionNotFound = errors.New("session not found")

// SessionStorage provides in-memory storage for quiz sessions by chat ID.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.Session
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]*entities.Session),
	}
}

// Create stores s, replacing any previous session of the same chat.
func (s *SessionStorage) Create(session *entities.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ChatID] = session
}

// Get returns a copy of the session of a chat.
func (s *SessionStorage) Get(chatID int64) (*entities.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return nil, false
	}
	return session.Clone(), true
}

// Update runs fn on the stored session under the write lock and marks it active.
func (s *SessionStorage) Update(chatID int64, fn func(session *entities.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return ErrSessionNotFound
	}

	session.Touch()
	return fn(session)
}

// Delete removes the session of a chat.
func (s *SessionStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// DeleteIdle removes sessions inactive since before olderThan and returns how many were removed.
func (s *SessionStorage) DeleteIdle(olderThan time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for chatID, session := range s.sessions {
		if session.LastActivity.Before(olderThan) {
			delete(s.sessions, chatID)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions.
func (s *SessionStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
