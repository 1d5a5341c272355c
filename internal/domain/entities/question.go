package entities

// ChoiceCount is the number of options offered in multiple-choice mode.
const ChoiceCount = 4

// Choice is one multiple-choice option.
type Choice struct {
	ID   string // id of the place the option belongs to
	Text string // primary answer of that place
}

// Question is a single quiz question. It is built once and never mutated;
// the next question replaces it.
type Question struct {
	ID         string // identifies this question instance
	TargetID   string // id of the correct place
	PromptText string // native-script name shown to the user
	Choices    [ChoiceCount]Choice
}

// CorrectText returns the display text of the correct choice.
func (q *Question) CorrectText() string {
	for _, c := range q.Choices {
		if c.ID == q.TargetID {
			return c.Text
		}
	}
	return ""
}

// ChoiceIndex returns the position of the choice with the given id, or -1.
func (q *Question) ChoiceIndex(id string) int {
	for i, c := range q.Choices {
		if c.ID == id {
			return i
		}
	}
	return -1
}
