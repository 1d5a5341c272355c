package service

import (
	"context"
	"time"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
)

// CatalogLoader fetches and validates a language catalog.
type CatalogLoader interface {
	Load(ctx context.Context, source string) ([]entities.Place, error)
}

// KeyValueStore is a scoped key-value persistence used for user preferences.
type KeyValueStore interface {
	GetAll(ctx context.Context, scope int64) (map[string]string, error)
	Set(ctx context.Context, scope int64, key, value string) error
	Reset(ctx context.Context, scope int64) error
}

// SessionStorage keeps the quiz sessions of every chat.
type SessionStorage interface {
	Create(s *entities.Session)
	Get(chatID int64) (*entities.Session, bool)
	Update(chatID int64, fn func(s *entities.Session) error) error
	Delete(chatID int64)
	DeleteIdle(olderThan time.Time) int
}
