// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/placename-quiz-bot/internal/reading"
	"github.com/aliskhannn/placename-quiz-bot/internal/service"
)

// Error messages.
const (
	msgLoadFailed       = "データの読み込みに失敗しました。しばらくしてから /quiz で再試行してください。"
	msgInsufficientData = "データが不足しています（4件以上必要）。/importance で出題範囲を広げてください。"
	msgLoading          = "読み込み中…"
	msgNoSession        = "セッションがありません。/start で始めてください。"
	msgEmptyAnswer      = "解答を入力してください。"
	msgNoQuestion       = "出題中の問題がありません。/quiz で始めてください。"
	msgChoiceHint       = "1–4 を送るか、ボタンで選択肢を選んでください。自由入力は /mode で切り替えられます。"
	msgInternalError    = "問題が発生しました。しばらくしてからもう一度お試しください。"
	msgUnknownCommand   = "不明なコマンドです。/help でコマンド一覧を確認できます。"
)

// Map notes shown when a place has no coordinates.
const (
	msgNoCoordinatesMinor = "重要度1の地名は座標を提供していないため、地図は表示されません。"
	msgNoCoordinates      = "位置情報が未登録のため、地図を表示できません。"
)

const (
	labelCorrect   = "正解"
	labelIncorrect = "不正解"
	labelNext      = "次の問題へ ▶️"
	labelSelectAll = "全選択"
	labelTextHint  = "ローマ字で入力（例: Dhaka）"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func welcomeMessage() string {
	var sb strings.Builder

	sb.WriteString(bold("🗺 地名クイズ"))
	sb.WriteString("\n\n")
	sb.WriteString(md("現地の文字で書かれた地名を読んで、正しいローマ字表記を答えてください。回答後に地図で場所を確認できます。"))
	sb.WriteString("\n\n")
	sb.WriteString(helpMessage())

	return sb.String()
}

func helpMessage() string {
	lines := []string{
		"/quiz — 問題を出す",
		"/next — 次の問題へ",
		"/mode — 4択 / 自由入力の切替",
		"/hints — 読みヒントの切替",
		"/importance — 重要度で出題を絞り込み",
		"/lang — 言語を選ぶ",
		"/reset — 設定を初期値に戻す",
		"/guide — 読み方ガイド",
		"",
		"4択モードでは 1–4 を送って選択肢を選べます。",
	}
	return md(strings.Join(lines, "\n"))
}

// formatQuestion renders the prompt of a question. Reading hints are
// appended to each grapheme when enabled.
func formatQuestion(q *entities.Question, prefs entities.Preferences) string {
	prompt := q.PromptText
	if prefs.ShowReadings {
		prompt = reading.Render(prompt)
	}

	text := bold(prompt)
	if prefs.Mode == entities.ModeText {
		text += "\n\n" + md(labelTextHint)
	}
	return text
}

// formatAnswerFeedback formats feedback for a graded attempt.
func formatAnswerFeedback(res *service.AnswerResult) string {
	if res.Verdict.Correct {
		return md("✅ " + labelCorrect + "  " + res.CorrectText())
	}
	return fmt.Sprintf(
		"%s\n\n%s %s",
		md("❌ "+labelIncorrect),
		md("答え:"),
		bold(res.CorrectText()),
	)
}

// noCoordinatesNote returns the note sent instead of a map pin.
func noCoordinatesNote(p entities.Place) string {
	if p.Tier() == entities.ImportanceMinor {
		return msgNoCoordinatesMinor
	}
	return msgNoCoordinates
}

func formatHintsStatus(on bool) string {
	return md("🔤 読みヒント: " + formatBool(on))
}

// formatResetMessage summarizes the preferences after a reset.
func formatResetMessage(prefs entities.Preferences) string {
	lines := []string{
		bold("♻️ 設定を初期値に戻しました"),
		md("回答モード: " + formatMode(prefs.Mode)),
		md("読みヒント: " + formatBool(prefs.ShowReadings)),
		md("重要度: " + prefs.Importance.String()),
	}
	return strings.Join(lines, "\n")
}

func formatBool(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func formatMode(mode entities.AnswerMode) string {
	switch mode {
	case entities.ModeText:
		return "自由入力（ハード）"
	default:
		return "4択"
	}
}

func formatModeMessage(mode entities.AnswerMode) string {
	return fmt.Sprintf("%s\n\n%s %s", bold("🎲 回答モード"), md("現在:"), bold(formatMode(mode)))
}

// formatImportanceMessage lists every tier with its record count.
func formatImportanceMessage(counts map[entities.Importance]int) string {
	var sb strings.Builder

	sb.WriteString(bold("🎯 重要度で出題を絞り込み"))
	sb.WriteString("\n\n")
	for _, tier := range entities.AllImportances {
		sb.WriteString(md(fmt.Sprintf("%d: %s（%d件）", tier, tier.Label(), counts[tier])))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatLanguageMessage(current string) string {
	lang := entities.ResolveLanguage(current)
	return fmt.Sprintf("%s\n\n%s %s", bold("🌐 言語"), md("現在:"), md(lang.Flag+" "+lang.Label))
}

// formatGuide renders the reading guide.
func formatGuide(g reading.Guide) string {
	var sb strings.Builder

	writeRows := func(title string, rows []reading.GuideRow) {
		sb.WriteString(bold(title))
		sb.WriteString("\n")
		for _, r := range rows {
			line := r.Glyph + " " + r.Reading
			if r.Example != "" {
				line += " (" + r.Example + ")"
			}
			sb.WriteString(md(line))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(bold("📖 読み方ガイド（地名向け）"))
	sb.WriteString("\n\n")
	writeRows("母音", g.Vowels)
	writeRows("母音記号", g.VowelSigns)
	writeRows("子音", g.Consonants)

	sb.WriteString(bold("接尾辞"))
	sb.WriteString("\n")
	for _, n := range g.SuffixNotes {
		sb.WriteString(md(n))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(bold("表記ゆれ"))
	sb.WriteString("\n")
	sb.WriteString(md(strings.Join(g.Variants, "\n")))

	return sb.String()
}
