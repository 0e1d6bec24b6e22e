// Package playback walks a flow graph's questionnaire nodes as a linear
// questionnaire run. Nodes are visited in array order, not along edges; the
// edges carry weights for downstream scoring systems and do not route the
// walk. Each node contributes its questions one screen at a time, answers are
// recorded by option index, and the total score is accumulated from the
// per-answer and per-question score tables.
package playback

import (
	"fmt"

	"github.com/mistaa/flowstudio/pkg/flow"
)

// unanswered marks a question with no recorded option.
const unanswered = -1

// Question is one screen of a run.
type Question struct {
	NodeID   string
	Category string
	Text     string
	Options  []string

	answerScores  []float64
	questionScore float64
}

// Run is the mutable state of a questionnaire walk. It is not safe for
// concurrent use; the TUI drives it from a single update loop.
type Run struct {
	questions []Question
	answers   []int
	pos       int
	done      bool

	goal    flow.Goal
	hasGoal bool
}

// NewRun flattens the graph's questionnaire nodes, in insertion order, into a
// linear list of questions. A questionnaire node with no questions still
// contributes one screen using its label, mirroring how freshly created nodes
// behave. The first goal node found supplies the completion screen.
func NewRun(g *flow.Graph) *Run {
	r := &Run{}
	for _, n := range g.Nodes() {
		switch n.Type {
		case flow.TypeQuestionnaire:
			r.appendNode(n)
		case flow.TypeGoal:
			if !r.hasGoal {
				r.goal = flow.GoalData(n.Data)
				r.hasGoal = true
			}
		}
	}
	r.answers = make([]int, len(r.questions))
	for i := range r.answers {
		r.answers[i] = unanswered
	}
	r.done = len(r.questions) == 0
	return r
}

func (r *Run) appendNode(n *flow.Node) {
	q, err := flow.QuestionnaireData(n.Data)
	if err != nil || len(q.Questions) == 0 {
		r.questions = append(r.questions, Question{
			NodeID:   n.ID,
			Category: q.Category,
			Text:     n.Label(),
		})
		return
	}

	for i, text := range q.Questions {
		question := Question{
			NodeID:   n.ID,
			Category: q.Category,
			Text:     text,
		}
		if i < len(q.Answers) {
			question.Options = q.Answers[i]
		}
		if i < len(q.ScorePerAnswer) {
			question.answerScores = q.ScorePerAnswer[i]
		}
		if i < len(q.ScorePerQuestion) {
			question.questionScore = q.ScorePerQuestion[i]
		}
		r.questions = append(r.questions, question)
	}
}

// Len returns the total number of question screens.
func (r *Run) Len() int { return len(r.questions) }

// Pos returns the zero-based index of the current question.
func (r *Run) Pos() int { return r.pos }

// Done reports whether the run has walked past the last question.
func (r *Run) Done() bool { return r.done }

// Current returns the question on screen. ok is false once the run is done.
func (r *Run) Current() (Question, bool) {
	if r.done || r.pos >= len(r.questions) {
		return Question{}, false
	}
	return r.questions[r.pos], true
}

// Answer records the selected option for the current question and advances.
// Answering the last question completes the run.
func (r *Run) Answer(option int) error {
	q, ok := r.Current()
	if !ok {
		return fmt.Errorf("run already completed")
	}
	if option < 0 || (len(q.Options) > 0 && option >= len(q.Options)) {
		return fmt.Errorf("option %d out of range for %d options", option, len(q.Options))
	}
	r.answers[r.pos] = option
	r.advance()
	return nil
}

// Selected returns the recorded option for the current question, or false
// when it is unanswered or the run is done. Navigating back to an answered
// question restores its selection through this.
func (r *Run) Selected() (int, bool) {
	if r.done || r.pos >= len(r.answers) || r.answers[r.pos] == unanswered {
		return 0, false
	}
	return r.answers[r.pos], true
}

// Skip advances past the current question without recording an answer.
func (r *Run) Skip() {
	if r.done {
		return
	}
	r.advance()
}

// Back returns to the previous question. Going back from the first question
// is a no-op.
func (r *Run) Back() {
	if r.pos > 0 {
		r.pos--
		r.done = false
	}
}

func (r *Run) advance() {
	if r.pos < len(r.questions)-1 {
		r.pos++
		return
	}
	r.done = true
}

// Answered returns how many questions have a recorded answer.
func (r *Run) Answered() int {
	count := 0
	for _, a := range r.answers {
		if a != unanswered {
			count++
		}
	}
	return count
}

// Progress returns completion in [0, 1] based on the current position.
func (r *Run) Progress() float64 {
	if len(r.questions) == 0 {
		return 1
	}
	if r.done {
		return 1
	}
	return float64(r.pos+1) / float64(len(r.questions))
}

// Score sums the score contribution of every answered question: the selected
// option's entry in the per-answer table plus the question's flat score.
// Skipped questions contribute nothing.
func (r *Run) Score() float64 {
	total := 0.0
	for i, a := range r.answers {
		if a == unanswered {
			continue
		}
		q := r.questions[i]
		if a < len(q.answerScores) {
			total += q.answerScores[a]
		}
		total += q.questionScore
	}
	return total
}

// Goal returns the graph's goal payload for the completion screen, when the
// graph has a goal node.
func (r *Run) Goal() (flow.Goal, bool) {
	return r.goal, r.hasGoal
}
