package flow

import (
	"fmt"
)

// Questionnaire is the typed view of a questionnaire node's data.
// Questions, Answers, ScorePerAnswer and ScorePerQuestion are index-aligned:
// Answers[i] lists the options for Questions[i] and ScorePerAnswer[i][j] is
// the score awarded for picking Answers[i][j].
type Questionnaire struct {
	Category         string      `json:"category,omitempty" bson:"category,omitempty"`
	Questions        []string    `json:"questions,omitempty" bson:"questions,omitempty"`
	Answers          [][]string  `json:"answers,omitempty" bson:"answers,omitempty"`
	ScorePerAnswer   [][]float64 `json:"scorePerAnswer,omitempty" bson:"scorePerAnswer,omitempty"`
	ScorePerQuestion []float64   `json:"scorePerQuestion,omitempty" bson:"scorePerQuestion,omitempty"`
	CreatedTimestamp string      `json:"createdTimestamp,omitempty" bson:"createdTimestamp,omitempty"`
}

// Goal is the typed view of a goal node's data.
type Goal struct {
	GoalName        string `json:"goalName,omitempty" bson:"goalName,omitempty"`
	GoalDescription string `json:"goalDescription,omitempty" bson:"goalDescription,omitempty"`
}

// QuestionnaireData decodes a node's open data map into its typed shape.
// Values arriving from JSON are []any/float64 typed, so every field is
// coerced defensively; malformed entries produce an error rather than a
// partially decoded result.
func QuestionnaireData(d Data) (Questionnaire, error) {
	var q Questionnaire
	q.Category, _ = d[KeyCategory].(string)
	q.CreatedTimestamp, _ = d[KeyCreatedTimestamp].(string)

	var err error
	if q.Questions, err = toStrings(d[KeyQuestions]); err != nil {
		return Questionnaire{}, fmt.Errorf("questions: %w", err)
	}
	if q.Answers, err = toStringGrid(d[KeyAnswers]); err != nil {
		return Questionnaire{}, fmt.Errorf("answers: %w", err)
	}
	if q.ScorePerAnswer, err = toFloatGrid(d[KeyScorePerAnswer]); err != nil {
		return Questionnaire{}, fmt.Errorf("scorePerAnswer: %w", err)
	}
	if q.ScorePerQuestion, err = toFloats(d[KeyScorePerQuestion]); err != nil {
		return Questionnaire{}, fmt.Errorf("scorePerQuestion: %w", err)
	}
	return q, nil
}

// GoalData decodes a node's open data map into its typed goal shape.
func GoalData(d Data) Goal {
	name, _ := d[KeyGoalName].(string)
	desc, _ := d[KeyGoalDescription].(string)
	return Goal{GoalName: name, GoalDescription: desc}
}

// AsData converts the typed questionnaire shape back to the open mapping.
func (q Questionnaire) AsData() Data {
	d := Data{}
	if q.Category != "" {
		d[KeyCategory] = q.Category
	}
	if q.Questions != nil {
		d[KeyQuestions] = q.Questions
	}
	if q.Answers != nil {
		d[KeyAnswers] = q.Answers
	}
	if q.ScorePerAnswer != nil {
		d[KeyScorePerAnswer] = q.ScorePerAnswer
	}
	if q.ScorePerQuestion != nil {
		d[KeyScorePerQuestion] = q.ScorePerQuestion
	}
	if q.CreatedTimestamp != "" {
		d[KeyCreatedTimestamp] = q.CreatedTimestamp
	}
	return d
}

// AsData converts the typed goal shape back to the open mapping.
func (g Goal) AsData() Data {
	d := Data{}
	if g.GoalName != "" {
		d[KeyGoalName] = g.GoalName
	}
	if g.GoalDescription != "" {
		d[KeyGoalDescription] = g.GoalDescription
	}
	return d
}

func toStrings(v any) ([]string, error) {
	switch vv := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return vv, nil
	case []any:
		out := make([]string, len(vv))
		for i, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, want string", i, item)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("got %T, want string list", v)
}

func toFloats(v any) ([]float64, error) {
	switch vv := v.(type) {
	case nil:
		return nil, nil
	case []float64:
		return vv, nil
	case []any:
		out := make([]float64, len(vv))
		for i, item := range vv {
			f, ok := toFloat(item)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, want number", i, item)
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, fmt.Errorf("got %T, want number list", v)
}

func toStringGrid(v any) ([][]string, error) {
	switch vv := v.(type) {
	case nil:
		return nil, nil
	case [][]string:
		return vv, nil
	case []any:
		out := make([][]string, len(vv))
		for i, row := range vv {
			r, err := toStrings(row)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			out[i] = r
		}
		return out, nil
	}
	return nil, fmt.Errorf("got %T, want nested string list", v)
}

func toFloatGrid(v any) ([][]float64, error) {
	switch vv := v.(type) {
	case nil:
		return nil, nil
	case [][]float64:
		return vv, nil
	case []any:
		out := make([][]float64, len(vv))
		for i, row := range vv {
			r, err := toFloats(row)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			out[i] = r
		}
		return out, nil
	}
	return nil, fmt.Errorf("got %T, want nested number list", v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
