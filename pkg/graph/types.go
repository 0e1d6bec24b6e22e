package graph

import (
	"fmt"
	"math"

	"github.com/mistaa/flowstudio/pkg/flow"
)

// =============================================================================
// Wire Types - Persisted Graph Shape
// =============================================================================

// Graph is the canonical serialization format for flow graphs. It is the
// exact shape exchanged with the persistence boundary: load responses, save
// request bodies, and exported JSON documents.
//
// Positions are rounded to two decimal places on save, node data is nested
// under a type-tag key, and only edges with weight > 0 are emitted. Valid is
// reserved for future structural-validation gating and is always true in the
// current design.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
	Valid bool   `json:"valid" bson:"valid"`
}

// Node is the persisted node shape. Data holds the node's open mapping
// nested under the uppercase type tag, e.g. questionnaire data under
// "QUESTIONNAIRE" and goal data under "GOAL".
type Node struct {
	ID       string               `json:"id" bson:"id"`
	Type     string               `json:"type" bson:"type"`
	Position Position             `json:"position" bson:"position"`
	Data     map[string]flow.Data `json:"data" bson:"data"`
}

// Position is the persisted coordinate pair.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Edge is the persisted edge shape. Edge IDs are not persisted; they are
// regenerated from endpoints and creation time on hydration.
type Edge struct {
	From   string `json:"from" bson:"from"`
	To     string `json:"to" bson:"to"`
	Weight int    `json:"weight" bson:"weight"`
}

// =============================================================================
// Flow <-> Wire Conversion
// =============================================================================

// FromFlow snapshots a live flow graph into its wire shape. The snapshot is
// a deep copy: the persistence layer never holds a reference into the
// editing session's graph.
func FromFlow(g *flow.Graph) Graph {
	out := Graph{
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: make([]Edge, 0, g.EdgeCount()),
		Valid: true,
	}

	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, Node{
			ID:   n.ID,
			Type: string(n.Type),
			Position: Position{
				X: round2(n.Position.X),
				Y: round2(n.Position.Y),
			},
			Data: map[string]flow.Data{dataTag(n.Type): copyData(n.Data)},
		})
	}

	for _, e := range g.Edges() {
		if e.Weight <= 0 {
			continue
		}
		out.Edges = append(out.Edges, Edge{From: e.From, To: e.To, Weight: e.Weight})
	}

	return out
}

// ToFlow hydrates a wire graph into a live flow graph. An empty payload
// (no nodes, no edges) produces an empty graph, never an error. Malformed
// payloads - unknown node types, duplicate IDs, edges referencing missing
// nodes - are errors, since the editor must never hold a dangling edge.
//
// Edges with weight <= 0 are skipped silently: zero-weight edges are not a
// valid persisted state and are treated as already deleted.
func ToFlow(wire Graph) (*flow.Graph, error) {
	g := flow.New()

	for _, wn := range wire.Nodes {
		n := flow.Node{
			ID:       wn.ID,
			Type:     flow.NodeType(wn.Type),
			Position: flow.Position{X: wn.Position.X, Y: wn.Position.Y},
			Data:     untag(wn),
		}
		if err := g.InsertNode(n); err != nil {
			return nil, fmt.Errorf("node %s: %w", wn.ID, err)
		}
	}

	for _, we := range wire.Edges {
		if we.Weight <= 0 {
			continue
		}
		if _, err := g.AddEdge(we.From, we.To, we.Weight); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", we.From, we.To, err)
		}
	}

	return g, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

// dataTag returns the persisted data key for a node type.
func dataTag(t flow.NodeType) string {
	switch t {
	case flow.TypeQuestionnaire:
		return "QUESTIONNAIRE"
	case flow.TypePersonality:
		return "PERSONALITY"
	case flow.TypeDataEntry:
		return "DATA_ENTRY"
	case flow.TypeChat:
		return "CHAT"
	case flow.TypeGoal:
		return "GOAL"
	case flow.TypeScoring:
		return "SCORING"
	case flow.TypeFileUpload:
		return "FILE_UPLOAD"
	}
	return "UNKNOWN"
}

// untag extracts the node's data mapping from under its type-tag key.
// Payloads that stored data flat (or under a stale tag) hydrate to empty
// data rather than failing the whole load.
func untag(wn Node) flow.Data {
	if d, ok := wn.Data[dataTag(flow.NodeType(wn.Type))]; ok && d != nil {
		return copyData(d)
	}
	return flow.Data{}
}

func copyData(d flow.Data) flow.Data {
	out := make(flow.Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
