package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
)

// combiningMarks covers the Combining Diacritical Marks block (U+0300–U+036F).
var combiningMarks = runes.Predicate(func(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
})

var punctuation = strings.NewReplacer(
	".", "",
	",", "",
	"'", "",
	"‘", "",
	"’", "",
	"`", "",
	"-", "",
)

// Normalize folds an answer for comparison: trims, lower-cases, strips
// Latin diacritics and the punctuation set, and drops all whitespace.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	t := transform.Chain(norm.NFKD, runes.Remove(combiningMarks))
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	s = punctuation.Replace(s)

	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Grader checks answers against a question. Answer state lives in the Round.
type Grader struct{}

// NewGrader creates a new Grader.
func NewGrader() *Grader {
	return &Grader{}
}

// GradeChoice grades a multiple-choice pick. Only the first call on a round
// counts; later calls return the recorded verdict and entities.ErrInvalidAttempt.
func (g *Grader) GradeChoice(r *entities.Round, pickedID string) (entities.Verdict, error) {
	if r.Answered() {
		return *r.Verdict, entities.ErrInvalidAttempt
	}

	v := entities.Verdict{Correct: pickedID == r.Question.TargetID}
	return r.Answer(entities.ChoiceAttempt(pickedID), v)
}

// GradeText grades free text against every answer accepted for target.
// Matching is exact after Normalize; there is no fuzzy matching.
func (g *Grader) GradeText(r *entities.Round, target entities.Place, raw string) (entities.Verdict, error) {
	if r.Answered() {
		return *r.Verdict, entities.ErrInvalidAttempt
	}

	v := entities.Verdict{Correct: Matches(raw, target.AcceptedAnswers())}
	return r.Answer(entities.TextAttempt(raw), v)
}

// Matches reports whether raw equals one of accepted after normalization.
func Matches(raw string, accepted []string) bool {
	ans := Normalize(raw)
	for _, a := range accepted {
		if Normalize(a) == ans {
			return true
		}
	}
	return false
}
