package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
)

var choiceDigits = [entities.ChoiceCount]string{"1️⃣", "2️⃣", "3️⃣", "4️⃣"}

// buildChoiceKeyboard builds one button per choice, bound to the question ID.
func buildChoiceKeyboard(q *entities.Question) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Choices))
	for i, c := range q.Choices {
		button := tgbotapi.NewInlineKeyboardButtonData(choiceDigits[i]+" "+c.Text, buildAnswerCallback(q.ID, i))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildAnsweredKeyboard marks the correct choice and a wrong pick.
// Buttons keep their callback so a repeated tap is rejected by the round.
// The next button is sent with the verdict.
func buildAnsweredKeyboard(q *entities.Question, picked int) tgbotapi.InlineKeyboardMarkup {
	correct := q.ChoiceIndex(q.TargetID)

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Choices))
	for i, c := range q.Choices {
		label := choiceDigits[i] + " " + c.Text
		switch {
		case i == correct:
			label = "✅ " + c.Text
		case i == picked:
			label = "❌ " + c.Text
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildAnswerCallback(q.ID, i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildNextKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(labelNext, buildNextCallback()),
		),
	)
}

func buildModeKeyboard(current entities.AnswerMode) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, mode := range []entities.AnswerMode{entities.ModeChoice, entities.ModeText} {
		label := formatMode(mode)
		if mode == current {
			label = "● " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildModeCallback(mode)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func buildHintsKeyboard(on bool) tgbotapi.InlineKeyboardMarkup {
	label := "🔤 読みヒントを非表示"
	if !on {
		label = "🔤 読みヒントを表示"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildHintsCallback()),
		),
	)
}

// buildImportanceKeyboard shows one toggle per tier, checked when the filter has it.
func buildImportanceKeyboard(filter entities.ImportanceFilter) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(entities.AllImportances)+1)
	for _, tier := range entities.AllImportances {
		mark := "⬜️"
		if filter.Allows(tier) {
			mark = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark+" "+tier.Label(), buildImportanceCallback(tier)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(labelSelectAll, buildImportanceAllCallback()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildLanguageKeyboard(current string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, lang := range entities.Languages() {
		label := lang.Flag + " " + lang.Label
		if lang.Key == current {
			label = "● " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildLanguageCallback(lang.Key)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildVenue builds the map pin of an answered place.
func buildVenue(chatID int64, p entities.Place) tgbotapi.VenueConfig {
	return tgbotapi.NewVenue(chatID, p.PrimaryAnswer, p.NativeString, *p.Lat, *p.Lng)
}
