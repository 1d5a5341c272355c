package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Remove the user's "clock".
	defer h.request(tgbotapi.NewCallback(cb.ID, ""))

	if cb.Message == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	data := decodeCallback(cb.Data)

	var fn HandlerFunc
	switch data.Action {
	case actionAnswer:
		fn = h.handleAnswerCallback(data, messageID)
	case actionNext:
		fn = h.handleQuiz(cb.From.ID)
	case actionImportance:
		fn = h.handleImportanceCallback(data, messageID)
	case actionMode:
		fn = h.handleModeCallback(data, messageID)
	case actionHints:
		fn = h.handleHintsCallback(messageID)
	case actionLanguage:
		fn = h.handleLanguageCallback(data, messageID)
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) handleAnswerCallback(data callbackData, messageID int) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		questionID, index, ok := data.answerParams()
		if !ok {
			h.logger.Debug("invalid answer callback", zap.String("data", data.Raw))
			return nil
		}

		res, err := h.quizService.AnswerChoice(chatID, questionID, index)
		if err != nil {
			return err
		}

		return h.sendAnswerResult(chatID, messageID, res)
	}
}

func (h *Handler) handleImportanceCallback(data callbackData, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		tier, all, ok := data.importanceParams()
		if !ok {
			h.logger.Debug("invalid importance callback", zap.String("data", data.Raw))
			return nil
		}

		var (
			filter entities.ImportanceFilter
			err    error
		)
		if all {
			filter, err = h.quizService.ResetImportance(ctx, chatID)
		} else {
			filter, err = h.quizService.ToggleImportance(ctx, chatID, tier)
		}
		if err != nil {
			return err
		}

		counts, err := h.quizService.ImportanceCounts(chatID)
		if err != nil {
			return err
		}

		edit := newEdit(chatID, messageID, formatImportanceMessage(counts))
		kb := buildImportanceKeyboard(filter)
		edit.ReplyMarkup = &kb
		if err := h.send(edit); err != nil {
			return err
		}

		// The current round was dropped, ask from the new selection.
		return h.sendQuestion(ctx, chatID)
	}
}

func (h *Handler) handleModeCallback(data callbackData, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		mode, ok := data.modeParam()
		if !ok {
			h.logger.Debug("invalid mode callback", zap.String("data", data.Raw))
			return nil
		}

		if err := h.quizService.SetMode(ctx, chatID, mode); err != nil {
			return err
		}

		edit := newEdit(chatID, messageID, formatModeMessage(mode))
		kb := buildModeKeyboard(mode)
		edit.ReplyMarkup = &kb
		if err := h.send(edit); err != nil {
			return err
		}

		// The current round was dropped, continue in the new mode.
		return h.sendQuestion(ctx, chatID)
	}
}

func (h *Handler) handleHintsCallback(messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		on, err := h.quizService.ToggleReadings(ctx, chatID)
		if err != nil {
			return err
		}

		edit := newEdit(chatID, messageID, formatHintsStatus(on))
		kb := buildHintsKeyboard(on)
		edit.ReplyMarkup = &kb
		return h.send(edit)
	}
}

func (h *Handler) handleLanguageCallback(data callbackData, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		key, ok := data.languageParam()
		if !ok {
			h.logger.Debug("invalid language callback", zap.String("data", data.Raw))
			return nil
		}

		load, err := h.quizService.RequestLanguage(ctx, chatID, key)
		if err != nil {
			return err
		}

		lang := entities.ResolveLanguage(key)
		edit := newEdit(chatID, messageID, formatLanguageMessage(lang.Key)+"\n\n"+md(msgLoading))
		kb := buildLanguageKeyboard(lang.Key)
		edit.ReplyMarkup = &kb
		_ = h.send(edit)

		h.runLoad(ctx, chatID, load, h.sendQuestion)
		return nil
	}
}
