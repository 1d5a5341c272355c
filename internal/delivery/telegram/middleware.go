package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/placename-quiz-bot/internal/repository"
	"github.com/aliskhannn/placename-quiz-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling turns domain errors into user-facing messages.
// Unknown errors are logged and reported as internal errors.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		switch {
		case errors.Is(err, entities.ErrInvalidAttempt), errors.Is(err, service.ErrStaleLoad):
			h.logger.Debug("ignored attempt", zap.Int64("chat_id", chatID), zap.Error(err))
		case errors.Is(err, repository.ErrDataUnavailable):
			h.logger.Warn("catalog unavailable", zap.Int64("chat_id", chatID), zap.Error(err))
			h.sendError(chatID, msgLoadFailed)
		case errors.Is(err, service.ErrInsufficientData):
			h.sendError(chatID, msgInsufficientData)
		case errors.Is(err, service.ErrCatalogNotLoaded):
			h.sendError(chatID, msgLoading)
		case errors.Is(err, service.ErrSessionNotFound):
			h.sendError(chatID, msgNoSession)
		case errors.Is(err, service.ErrEmptyAnswer):
			h.sendError(chatID, msgEmptyAnswer)
		default:
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
		}
		return nil
	}
}
