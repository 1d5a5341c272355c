package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/placename-quiz-bot/internal/service"
)

// sendQuestion starts a new round and sends its prompt.
func (h *Handler) sendQuestion(_ context.Context, chatID int64) error {
	q, err := h.quizService.NextQuestion(chatID)
	if err != nil {
		return err
	}

	session, ok := h.quizService.Session(chatID)
	if !ok {
		return service.ErrSessionNotFound
	}

	msg := newMessage(chatID, formatQuestion(q, session.Preferences))
	if session.Preferences.Mode == entities.ModeChoice {
		msg.ReplyMarkup = buildChoiceKeyboard(q)
	}

	sent, err := h.sendMessage(msg)
	if err != nil {
		return err
	}
	return h.quizService.AttachMessage(chatID, q.ID, sent.MessageID)
}

// sendAnswerResult marks the picked choice on the question keyboard, sends
// the verdict and then the map pin of the target. Places without
// coordinates get a note instead of the pin. messageID is the question
// message, 0 when unknown.
func (h *Handler) sendAnswerResult(chatID int64, messageID int, res *service.AnswerResult) error {
	if messageID != 0 && res.PickedIndex >= 0 {
		h.request(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, buildAnsweredKeyboard(res.Question, res.PickedIndex)))
	}

	msg := newMessage(chatID, formatAnswerFeedback(res))
	msg.ReplyMarkup = buildNextKeyboard()
	if err := h.send(msg); err != nil {
		return err
	}

	if res.Target.HasCoordinates() {
		return h.send(buildVenue(chatID, res.Target))
	}
	return h.send(newPlainMessage(chatID, noCoordinatesNote(res.Target)))
}
