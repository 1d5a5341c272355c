package entities

import (
	"errors"
	"time"
)

// ErrInvalidAttempt is returned when a round that already has an answer is graded again.
var ErrInvalidAttempt = errors.New("question already answered")

// AnswerMode selects how the user answers a question.
type AnswerMode string

const (
	ModeChoice AnswerMode = "choice" // pick one of four options
	ModeText   AnswerMode = "text"   // type the romanization
)

// Valid reports whether the mode is a known one.
func (m AnswerMode) Valid() bool {
	return m == ModeChoice || m == ModeText
}

// Attempt is a single answer submitted by the user.
type Attempt struct {
	Mode     AnswerMode
	ChoiceID string // set in ModeChoice
	Text     string // set in ModeText
}

// ChoiceAttempt creates a multiple-choice attempt.
func ChoiceAttempt(id string) Attempt {
	return Attempt{Mode: ModeChoice, ChoiceID: id}
}

// TextAttempt creates a free-text attempt.
func TextAttempt(raw string) Attempt {
	return Attempt{Mode: ModeText, Text: raw}
}

// Verdict is the outcome of grading one attempt.
type Verdict struct {
	Correct bool
}

// Round tracks one question from Unanswered to Answered.
// Answered is terminal: a new question starts a new Round.
type Round struct {
	Question   *Question
	Attempt    *Attempt
	Verdict    *Verdict
	AnsweredAt *time.Time
	MessageID  int // chat message showing the question, 0 until attached
}

// NewRound starts an unanswered round for the question.
func NewRound(q *Question) *Round {
	return &Round{Question: q}
}

// Answered reports whether the round already holds a verdict.
func (r *Round) Answered() bool {
	return r.Verdict != nil
}

// Answer records the attempt and verdict. It only succeeds once; later calls
// return the recorded verdict together with ErrInvalidAttempt.
func (r *Round) Answer(a Attempt, v Verdict) (Verdict, error) {
	if r.Verdict != nil {
		return *r.Verdict, ErrInvalidAttempt
	}

	now := time.Now()
	r.Attempt = &a
	r.Verdict = &v
	r.AnsweredAt = &now

	return v, nil
}
