package flow

import "time"

// NodeType is the closed enumeration of flow node kinds. Every site that
// branches on type switches exhaustively over these values, so adding a type
// is a compile-time-checked change.
type NodeType string

const (
	TypeQuestionnaire NodeType = "questionnaire"
	TypePersonality   NodeType = "personality"
	TypeDataEntry     NodeType = "dataEntry"
	TypeChat          NodeType = "chat"
	TypeGoal          NodeType = "goal"
	TypeScoring       NodeType = "scoring"
	TypeFileUpload    NodeType = "fileUpload"
)

// Types lists all node types in declaration order.
var Types = []NodeType{
	TypeQuestionnaire,
	TypePersonality,
	TypeDataEntry,
	TypeChat,
	TypeGoal,
	TypeScoring,
	TypeFileUpload,
}

// Valid reports whether t is a known node type.
func (t NodeType) Valid() bool {
	switch t {
	case TypeQuestionnaire, TypePersonality, TypeDataEntry, TypeChat,
		TypeGoal, TypeScoring, TypeFileUpload:
		return true
	}
	return false
}

// CanOriginate reports whether nodes of this type may be the source of an
// edge. Only questionnaire nodes originate edges; in particular a goal node
// never has outgoing edges.
func (t NodeType) CanOriginate() bool { return t == TypeQuestionnaire }

// CanTerminate reports whether nodes of this type may be the target of an
// edge.
func (t NodeType) CanTerminate() bool {
	return t == TypeQuestionnaire || t == TypeGoal
}

// Data is the open per-node data mapping. The required and optional keys
// depend on the node type; typed accessors validate shape at the boundary
// instead of every read site trusting the map.
type Data map[string]any

// Well-known data keys.
const (
	KeyLabel            = "label"
	KeyCategory         = "category"
	KeyQuestions        = "questions"
	KeyAnswers          = "answers"
	KeyScorePerAnswer   = "scorePerAnswer"
	KeyScorePerQuestion = "scorePerQuestion"
	KeyCreatedTimestamp = "createdTimestamp"
	KeyGoalName         = "goalName"
	KeyGoalDescription  = "goalDescription"
)

// TimestampLayout is the DD-MM-YYYY format used for questionnaire creation
// timestamps in the persisted payload.
const TimestampLayout = "02-01-2006"

// defaultData builds the type-appropriate initial data for a new node.
func defaultData(t NodeType) Data {
	switch t {
	case TypeQuestionnaire:
		return Data{KeyCreatedTimestamp: time.Now().Format(TimestampLayout)}
	case TypePersonality, TypeDataEntry, TypeChat, TypeGoal, TypeScoring, TypeFileUpload:
		return Data{}
	}
	return Data{}
}

// deriveLabel computes the display label from type-specific data fields.
// Questionnaire nodes are labelled by their category, goal nodes by their
// goal name; both fall back to a generic string when unset.
func deriveLabel(t NodeType, d Data) string {
	switch t {
	case TypeQuestionnaire:
		if s, ok := d[KeyCategory].(string); ok && s != "" {
			return s
		}
		return "Questionnaire"
	case TypeGoal:
		if s, ok := d[KeyGoalName].(string); ok && s != "" {
			return s
		}
		return "Goal"
	case TypePersonality, TypeDataEntry, TypeChat, TypeScoring, TypeFileUpload:
		if s, ok := d[KeyLabel].(string); ok && s != "" {
			return s
		}
		return string(t)
	}
	return string(t)
}

// Label returns the node's display label, deriving it on the fly when the
// data map has none stored yet.
func (n *Node) Label() string {
	if s, ok := n.Data[KeyLabel].(string); ok && s != "" {
		return s
	}
	return deriveLabel(n.Type, n.Data)
}
