package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot         *tgbotapi.BotAPI
	logger      *zap.Logger
	quizService QuizService

	loads sync.WaitGroup // in-flight catalog loads
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	quizService QuizService,
) *Handler {
	return &Handler{
		bot:         bot,
		logger:      logger,
		quizService: quizService,
	}
}

// Run processes updates one at a time until ctx is cancelled.
// Catalog loads started by updates are awaited before returning.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			h.loads.Wait()
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	userID := chatID
	if from := update.Message.From; from != nil {
		userID = from.ID
	}

	if update.Message.IsCommand() {
		var fn HandlerFunc

		switch update.Message.Command() {
		case "start":
			fn = h.handleStart(userID)
		case "quiz", "next":
			fn = h.handleQuiz(userID)
		case "mode":
			fn = h.handleMode(userID)
		case "hints":
			fn = h.handleHints(userID)
		case "importance":
			fn = h.handleImportance(userID)
		case "lang":
			fn = h.handleLanguage(userID)
		case "reset":
			fn = h.handleReset(userID)
		case "guide":
			fn = h.handleGuide()
		case "help":
			fn = h.handleHelp()
		default:
			fn = func(_ context.Context, chatID int64) error {
				return h.send(newPlainMessage(chatID, msgUnknownCommand))
			}
		}

		_ = h.withErrorHandling(fn)(ctx, chatID)
		return
	}

	_ = h.withErrorHandling(h.handleAnswerText(userID, update.Message.Text))(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	_, err := h.sendMessage(c)
	return err
}

// sendMessage is send for callers that need the sent message, e.g. its ID.
func (h *Handler) sendMessage(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	sent, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return tgbotapi.Message{}, err
	}
	return sent, nil
}

// request is send for API methods that return no message, e.g. callback answers.
func (h *Handler) request(c tgbotapi.Chattable) {
	if _, err := h.bot.Request(c); err != nil {
		h.logger.Warn("telegram request failed", zap.Error(err))
	}
}
