package graph

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mistaa/flowstudio/pkg/flow"
)

func buildGraph(t *testing.T) *flow.Graph {
	t.Helper()
	g := flow.New()
	mustInsert(t, g, flow.Node{
		ID:       "q1",
		Type:     flow.TypeQuestionnaire,
		Position: flow.Position{X: 100.456, Y: 200.333},
		Data: flow.Data{
			flow.KeyCategory:  "Mood",
			flow.KeyQuestions: []string{"How are you?"},
		},
	})
	mustInsert(t, g, flow.Node{
		ID:       "g1",
		Type:     flow.TypeGoal,
		Position: flow.Position{X: 400, Y: 220},
		Data:     flow.Data{flow.KeyGoalName: "Feel better"},
	})
	if _, err := g.AddEdge("q1", "g1", 5); err != nil {
		t.Fatal(err)
	}
	return g
}

func mustInsert(t *testing.T, g *flow.Graph, n flow.Node) {
	t.Helper()
	if err := g.InsertNode(n); err != nil {
		t.Fatalf("InsertNode(%s): %v", n.ID, err)
	}
}

func TestFromFlow(t *testing.T) {
	wire := FromFlow(buildGraph(t))

	if !wire.Valid {
		t.Error("valid flag must always be true")
	}
	if len(wire.Nodes) != 2 || len(wire.Edges) != 1 {
		t.Fatalf("wire = %d nodes / %d edges", len(wire.Nodes), len(wire.Edges))
	}

	q := wire.Nodes[0]
	if q.Position.X != 100.46 || q.Position.Y != 200.33 {
		t.Errorf("position = %+v, want rounded to 2 decimals", q.Position)
	}
	if _, ok := q.Data["QUESTIONNAIRE"]; !ok {
		t.Errorf("questionnaire data not nested under type tag: %v", q.Data)
	}
	if _, ok := wire.Nodes[1].Data["GOAL"]; !ok {
		t.Errorf("goal data not nested under type tag: %v", wire.Nodes[1].Data)
	}

	e := wire.Edges[0]
	if e.From != "q1" || e.To != "g1" || e.Weight != 5 {
		t.Errorf("edge = %+v", e)
	}
}

func TestFromFlowIsSnapshot(t *testing.T) {
	g := buildGraph(t)
	wire := FromFlow(g)

	// Mutating the live graph must not reach into the snapshot.
	g.UpdateNodeData("q1", flow.Data{flow.KeyCategory: "Changed"})
	if wire.Nodes[0].Data["QUESTIONNAIRE"][flow.KeyCategory] != "Mood" {
		t.Error("snapshot shares data map with live graph")
	}
}

func TestRoundTrip(t *testing.T) {
	orig := buildGraph(t)

	data, err := MarshalGraph(FromFlow(orig))
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	wire, err := ReadGraph(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
	hydrated, err := ToFlow(wire)
	if err != nil {
		t.Fatalf("ToFlow: %v", err)
	}

	if hydrated.NodeCount() != orig.NodeCount() {
		t.Fatalf("nodes = %d, want %d", hydrated.NodeCount(), orig.NodeCount())
	}
	for _, want := range orig.Nodes() {
		got, ok := hydrated.Node(want.ID)
		if !ok {
			t.Fatalf("node %s lost in round trip", want.ID)
		}
		if got.Type != want.Type {
			t.Errorf("node %s type = %s, want %s", want.ID, got.Type, want.Type)
		}
		if math.Abs(got.Position.X-want.Position.X) > 0.01 ||
			math.Abs(got.Position.Y-want.Position.Y) > 0.01 {
			t.Errorf("node %s position = %+v, want %+v (±0.01)", want.ID, got.Position, want.Position)
		}
	}

	if hydrated.EdgeCount() != 1 {
		t.Fatalf("edges = %d, want 1", hydrated.EdgeCount())
	}
	e := hydrated.Edges()[0]
	if e.From != "q1" || e.To != "g1" || e.Weight != 5 {
		t.Errorf("edge = %+v", e)
	}

	// Typed data survives the trip through JSON.
	q, _ := hydrated.Node("q1")
	qd, err := flow.QuestionnaireData(q.Data)
	if err != nil {
		t.Fatalf("QuestionnaireData: %v", err)
	}
	if qd.Category != "Mood" || len(qd.Questions) != 1 {
		t.Errorf("questionnaire data = %+v", qd)
	}
}

func TestToFlowEmptyPayload(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"EmptyObject", `{}`},
		{"EmptyArrays", `{"nodes": [], "edges": []}`},
		{"EmptyDocument", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire, err := ReadGraph(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadGraph: %v", err)
			}
			g, err := ToFlow(wire)
			if err != nil {
				t.Fatalf("ToFlow: %v", err)
			}
			if g.NodeCount() != 0 || g.EdgeCount() != 0 {
				t.Errorf("graph = %d/%d, want empty", g.NodeCount(), g.EdgeCount())
			}
		})
	}
}

func TestToFlowSkipsZeroWeightEdges(t *testing.T) {
	wire := Graph{
		Nodes: []Node{
			{ID: "a", Type: "questionnaire"},
			{ID: "b", Type: "goal"},
		},
		Edges: []Edge{{From: "a", To: "b", Weight: 0}},
	}
	g, err := ToFlow(wire)
	if err != nil {
		t.Fatalf("ToFlow: %v", err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("edges = %d, zero-weight edge must not hydrate", g.EdgeCount())
	}
}

func TestToFlowRejectsDanglingEdge(t *testing.T) {
	wire := Graph{
		Nodes: []Node{{ID: "a", Type: "questionnaire"}},
		Edges: []Edge{{From: "a", To: "missing", Weight: 1}},
	}
	if _, err := ToFlow(wire); err == nil {
		t.Error("expected error for edge referencing missing node")
	}
}

func TestToFlowRejectsUnknownType(t *testing.T) {
	wire := Graph{Nodes: []Node{{ID: "a", Type: "hologram"}}}
	if _, err := ToFlow(wire); err == nil {
		t.Error("expected error for unknown node type")
	}
}

func TestMarshalOmitsZeroWeightEdges(t *testing.T) {
	g := buildGraph(t)
	e := g.Edges()[0]
	g.UpdateEdgeWeight(e.ID, 0) // deletes

	data, err := MarshalGraph(FromFlow(g))
	if err != nil {
		t.Fatal(err)
	}
	var wire Graph
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatal(err)
	}
	if len(wire.Edges) != 0 {
		t.Errorf("edges = %d, want 0", len(wire.Edges))
	}
}

func TestReadGraphFileMissing(t *testing.T) {
	wire, err := ReadGraphFile(filepath.Join(t.TempDir(), "never-saved.json"))
	if err != nil {
		t.Fatalf("missing file must yield an empty graph, got %v", err)
	}
	if len(wire.Nodes) != 0 {
		t.Errorf("nodes = %d, want 0", len(wire.Nodes))
	}
}

func TestWriteGraphFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteGraphFile(path, FromFlow(buildGraph(t))); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"QUESTIONNAIRE"`) {
		t.Error("exported file missing type-tagged data")
	}

	wire, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if len(wire.Nodes) != 2 || len(wire.Edges) != 1 {
		t.Errorf("graph = %d/%d, want 2/1", len(wire.Nodes), len(wire.Edges))
	}
}
