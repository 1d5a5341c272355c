package telegram

import (
	"context"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/placename-quiz-bot/internal/service"
)

type QuizService interface {
	StartSession(ctx context.Context, chatID, userID int64) *entities.Session
	EnsureSession(ctx context.Context, chatID, userID int64) (*entities.Session, bool)
	Session(chatID int64) (*entities.Session, bool)
	RequestCatalog(ctx context.Context, chatID int64) (service.CatalogLoad, error)
	RequestLanguage(ctx context.Context, chatID int64, key string) (service.CatalogLoad, error)
	NextQuestion(chatID int64) (*entities.Question, error)
	AttachMessage(chatID int64, questionID string, messageID int) error
	AnswerChoice(chatID int64, questionID string, index int) (*service.AnswerResult, error)
	AnswerText(chatID int64, raw string) (*service.AnswerResult, error)
	ImportanceCounts(chatID int64) (map[entities.Importance]int, error)
	ToggleReadings(ctx context.Context, chatID int64) (bool, error)
	SetMode(ctx context.Context, chatID int64, mode entities.AnswerMode) error
	ToggleImportance(ctx context.Context, chatID int64, tier entities.Importance) (entities.ImportanceFilter, error)
	ResetImportance(ctx context.Context, chatID int64) (entities.ImportanceFilter, error)
	ResetPreferences(ctx context.Context, chatID int64) (entities.Preferences, error)
}
