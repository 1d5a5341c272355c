package telegram

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/placename-quiz-bot/internal/reading"
	"github.com/aliskhannn/placename-quiz-bot/internal/service"
)

// handleStart starts a fresh session and asks the first question once the
// catalog is loaded.
func (h *Handler) handleStart(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.quizService.StartSession(ctx, chatID, userID)

		if err := h.send(newMessage(chatID, welcomeMessage())); err != nil {
			return err
		}

		return h.loadCatalog(ctx, chatID, h.sendQuestion)
	}
}

// handleQuiz asks a new question. After a failed load it retries the load first.
func (h *Handler) handleQuiz(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, created, err := h.ensureSession(ctx, chatID, userID, h.sendQuestion)
		if err != nil || created {
			return err
		}

		if session.LoadFailed {
			return h.loadCatalog(ctx, chatID, h.sendQuestion)
		}

		return h.sendQuestion(ctx, chatID)
	}
}

// handleAnswerText grades a typed answer. In choice mode the digits 1-4 pick a choice.
func (h *Handler) handleAnswerText(userID int64, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, created, err := h.ensureSession(ctx, chatID, userID, nil)
		if err != nil || created {
			return err
		}

		if session.Round == nil {
			return h.send(newPlainMessage(chatID, msgNoQuestion))
		}

		var res *service.AnswerResult
		if session.Preferences.Mode == entities.ModeChoice {
			index, ok := parseChoiceDigit(text)
			if !ok {
				return h.send(newPlainMessage(chatID, msgChoiceHint))
			}
			res, err = h.quizService.AnswerChoice(chatID, session.Round.Question.ID, index)
		} else {
			res, err = h.quizService.AnswerText(chatID, text)
		}
		if err != nil {
			return err
		}

		return h.sendAnswerResult(chatID, res.MessageID, res)
	}
}

func (h *Handler) handleMode(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, _, err := h.ensureSession(ctx, chatID, userID, nil)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, formatModeMessage(session.Preferences.Mode))
		msg.ReplyMarkup = buildModeKeyboard(session.Preferences.Mode)
		return h.send(msg)
	}
}

func (h *Handler) handleHints(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if _, _, err := h.ensureSession(ctx, chatID, userID, nil); err != nil {
			return err
		}

		on, err := h.quizService.ToggleReadings(ctx, chatID)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, formatHintsStatus(on))
		msg.ReplyMarkup = buildHintsKeyboard(on)
		return h.send(msg)
	}
}

func (h *Handler) handleImportance(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, _, err := h.ensureSession(ctx, chatID, userID, nil)
		if err != nil {
			return err
		}

		counts, err := h.quizService.ImportanceCounts(chatID)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, formatImportanceMessage(counts))
		msg.ReplyMarkup = buildImportanceKeyboard(session.Preferences.Importance)
		return h.send(msg)
	}
}

func (h *Handler) handleLanguage(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, _, err := h.ensureSession(ctx, chatID, userID, nil)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, formatLanguageMessage(session.Language))
		msg.ReplyMarkup = buildLanguageKeyboard(session.Language)
		return h.send(msg)
	}
}

// handleReset restores the default preferences and asks a fresh question.
func (h *Handler) handleReset(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		_, created, err := h.ensureSession(ctx, chatID, userID, nil)
		if err != nil {
			return err
		}

		prefs, err := h.quizService.ResetPreferences(ctx, chatID)
		if err != nil {
			return err
		}

		if err := h.send(newMessage(chatID, formatResetMessage(prefs))); err != nil {
			return err
		}
		if created {
			return nil
		}
		return h.sendQuestion(ctx, chatID)
	}
}

func (h *Handler) handleGuide() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		return h.send(newMessage(chatID, formatGuide(reading.BengaliGuide())))
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		return h.send(newMessage(chatID, helpMessage()))
	}
}

// ensureSession returns the chat session. A missing session is started and
// its catalog load is kicked off; then runs after a successful load.
func (h *Handler) ensureSession(
	ctx context.Context,
	chatID, userID int64,
	then HandlerFunc,
) (*entities.Session, bool, error) {
	session, created := h.quizService.EnsureSession(ctx, chatID, userID)
	if !created {
		return session, false, nil
	}

	h.logger.Debug("session created on demand", zap.Int64("chat_id", chatID))
	if err := h.send(newPlainMessage(chatID, msgLoading)); err != nil {
		return session, true, err
	}
	return session, true, h.loadCatalog(ctx, chatID, then)
}

// loadCatalog requests the catalog of the session language and fetches it
// in the background.
func (h *Handler) loadCatalog(ctx context.Context, chatID int64, then HandlerFunc) error {
	load, err := h.quizService.RequestCatalog(ctx, chatID)
	if err != nil {
		return err
	}
	h.runLoad(ctx, chatID, load, then)
	return nil
}

// runLoad fetches a catalog without blocking the update loop. A newer
// request for the same chat makes the result stale, which is ignored.
func (h *Handler) runLoad(ctx context.Context, chatID int64, load service.CatalogLoad, then HandlerFunc) {
	h.loads.Add(1)
	go func() {
		defer h.loads.Done()

		_, err := load(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			_ = h.withErrorHandling(func(context.Context, int64) error { return err })(ctx, chatID)
			return
		}
		if then != nil {
			_ = h.withErrorHandling(then)(ctx, chatID)
		}
	}()
}

// parseChoiceDigit maps "1".."4" to a choice index.
func parseChoiceDigit(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > entities.ChoiceCount {
		return 0, false
	}
	return n - 1, true
}
