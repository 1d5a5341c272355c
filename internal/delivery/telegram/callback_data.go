package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionAnswer     = "ans"
	actionNext       = "next"
	actionImportance = "imp"
	actionMode       = "mode"
	actionHints      = "hints"
	actionLanguage   = "lang"
)

const importanceAll = "all"

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildAnswerCallback binds a choice button to one question instance.
func buildAnswerCallback(questionID string, index int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{questionID, strconv.Itoa(index)},
	}.encode()
}

func buildNextCallback() string {
	return actionNext
}

func buildImportanceCallback(tier entities.Importance) string {
	return callbackData{
		Action: actionImportance,
		Params: []string{strconv.Itoa(int(tier))},
	}.encode()
}

func buildImportanceAllCallback() string {
	return callbackData{
		Action: actionImportance,
		Params: []string{importanceAll},
	}.encode()
}

func buildModeCallback(mode entities.AnswerMode) string {
	return callbackData{
		Action: actionMode,
		Params: []string{string(mode)},
	}.encode()
}

func buildHintsCallback() string {
	return actionHints
}

func buildLanguageCallback(key string) string {
	return callbackData{
		Action: actionLanguage,
		Params: []string{key},
	}.encode()
}

// answerParams extracts the question ID and choice index of an answer callback.
func (cd callbackData) answerParams() (questionID string, index int, ok bool) {
	if cd.Action != actionAnswer || len(cd.Params) != 2 || cd.Params[0] == "" {
		return "", 0, false
	}
	index, err := strconv.Atoi(cd.Params[1])
	if err != nil || index < 0 || index >= entities.ChoiceCount {
		return "", 0, false
	}
	return cd.Params[0], index, true
}

// importanceParams extracts the tier of an importance callback.
// all is true for the "select all" button.
func (cd callbackData) importanceParams() (tier entities.Importance, all bool, ok bool) {
	if cd.Action != actionImportance || len(cd.Params) != 1 {
		return 0, false, false
	}
	if cd.Params[0] == importanceAll {
		return 0, true, true
	}
	n, err := strconv.Atoi(cd.Params[0])
	if err != nil || !entities.Importance(n).Valid() {
		return 0, false, false
	}
	return entities.Importance(n), false, true
}

// modeParam extracts the answer mode of a mode callback.
func (cd callbackData) modeParam() (entities.AnswerMode, bool) {
	if cd.Action != actionMode || len(cd.Params) != 1 {
		return "", false
	}
	mode := entities.AnswerMode(cd.Params[0])
	return mode, mode.Valid()
}

// languageParam extracts the language key of a language callback.
func (cd callbackData) languageParam() (string, bool) {
	if cd.Action != actionLanguage || len(cd.Params) != 1 || cd.Params[0] == "" {
		return "", false
	}
	return cd.Params[0], true
}
