package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mistaa/flowstudio/pkg/canvas"
	"github.com/mistaa/flowstudio/pkg/flow"
	"github.com/mistaa/flowstudio/pkg/graph"
	"github.com/mistaa/flowstudio/pkg/store"
)

func newTestEditor(t *testing.T) (EditorModel, store.Store) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close(t.Context()) })
	return NewEditorModel(t.Context(), st, "op1", "g1"), st
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m EditorModel, msg tea.Msg) EditorModel {
	t.Helper()
	next, _ := m.Update(msg)
	em, ok := next.(EditorModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return em
}

func TestEditorLoadsMissingGraphAsEmpty(t *testing.T) {
	m, _ := newTestEditor(t)

	msg := m.loadCmd()()
	loaded, ok := msg.(editorLoadedMsg)
	if !ok {
		t.Fatalf("loadCmd returned %T", msg)
	}
	if loaded.err != nil {
		t.Fatal(loaded.err)
	}
	if loaded.graph.NodeCount() != 0 {
		t.Error("missing graph should load empty")
	}

	m = update(t, m, msg)
	if m.loading {
		t.Error("model still loading after load message")
	}
}

func TestEditorAddNodeMarksDirty(t *testing.T) {
	m, _ := newTestEditor(t)
	m = update(t, m, editorLoadedMsg{graph: flow.New()})

	m = update(t, m, keyMsg("a"))
	if !m.dirty {
		t.Error("adding a node should mark the editor dirty")
	}
	if m.engine.Graph().NodeCount() != 1 {
		t.Errorf("NodeCount = %d", m.engine.Graph().NodeCount())
	}
	if m.engine.Selected() == "" {
		t.Error("added node should be selected")
	}
}

func TestEditorPaletteCycles(t *testing.T) {
	m, _ := newTestEditor(t)
	m = update(t, m, editorLoadedMsg{graph: flow.New()})

	for range flow.Types {
		m = update(t, m, keyMsg("tab"))
	}
	if m.palette != 0 {
		t.Errorf("palette = %d after a full cycle", m.palette)
	}
}

func TestEditorConnectionPromptFlow(t *testing.T) {
	g := flow.New()
	src, err := g.AddNode(flow.TypeQuestionnaire, flow.Position{X: 0, Y: 0})
	if err != nil {
		t.Fatal(err)
	}
	dst, err := g.AddNode(flow.TypeGoal, flow.Position{X: 400, Y: 0})
	if err != nil {
		t.Fatal(err)
	}

	m, _ := newTestEditor(t)
	m = update(t, m, editorLoadedMsg{graph: g})

	// Drag from the source's output port onto the target node.
	srcPort := canvas.OutputPort(canvas.Point{X: 0, Y: 0})
	m = update(t, m, tea.MouseMsg{
		X: int(srcPort.X / cellWidth), Y: int(srcPort.Y/cellHeight) + headerRows,
		Action: tea.MouseActionPress, Button: tea.MouseButtonLeft,
	})
	m = update(t, m, tea.MouseMsg{
		X: int(410 / cellWidth), Y: int(20/cellHeight) + headerRows,
		Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft,
	})

	if m.prompt == nil {
		t.Fatal("accepted drop should open the weight prompt")
	}
	if m.prompt.from != src || m.prompt.to != dst {
		t.Errorf("prompt endpoints = %s -> %s", m.prompt.from, m.prompt.to)
	}

	// Type a weight and confirm.
	m = update(t, m, keyMsg("7"))
	m = update(t, m, keyMsg("enter"))

	if m.prompt != nil {
		t.Error("prompt should close after enter")
	}
	if m.engine.Graph().EdgeCount() != 1 {
		t.Fatalf("EdgeCount = %d", m.engine.Graph().EdgeCount())
	}
	if e := m.engine.Graph().Edges()[0]; e.Weight != 7 {
		t.Errorf("weight = %d", e.Weight)
	}
}

func TestEditorPromptRejectsZeroWeight(t *testing.T) {
	g := flow.New()
	if _, err := g.AddNode(flow.TypeQuestionnaire, flow.Position{}); err != nil {
		t.Fatal(err)
	}

	m, _ := newTestEditor(t)
	m = update(t, m, editorLoadedMsg{graph: g})
	m.prompt = &weightPrompt{mode: canvas.WeightCreate, from: "x", to: "y"}

	m = update(t, m, keyMsg("0"))
	m = update(t, m, keyMsg("enter"))

	if m.prompt == nil {
		t.Error("prompt should stay open on an invalid weight")
	}
	if !m.statusErr {
		t.Error("invalid weight should surface an error status")
	}
}

func TestEditorQuitGuardsDirtyState(t *testing.T) {
	m, _ := newTestEditor(t)
	m = update(t, m, editorLoadedMsg{graph: flow.New()})
	m = update(t, m, keyMsg("a"))

	next, cmd := m.Update(keyMsg("q"))
	m = next.(EditorModel)
	if cmd != nil {
		t.Error("first q with unsaved changes should not quit")
	}
	if !m.confirmQuit {
		t.Error("first q should arm the quit confirmation")
	}

	_, cmd = m.Update(keyMsg("q"))
	if cmd == nil {
		t.Error("second q should quit")
	}
}

func TestEditorSaveRoundTrip(t *testing.T) {
	m, st := newTestEditor(t)
	m = update(t, m, editorLoadedMsg{graph: flow.New()})
	m = update(t, m, keyMsg("a"))

	next, cmd := m.Update(keyMsg("s"))
	m = next.(EditorModel)
	if cmd == nil {
		t.Fatal("s should produce a save command")
	}
	m = update(t, m, cmd())
	if m.dirty {
		t.Error("successful save should clear the dirty flag")
	}

	wire, err := st.Load(t.Context(), "op1", "g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(wire.Nodes) != 1 {
		t.Errorf("persisted %d nodes", len(wire.Nodes))
	}
	if _, err := graph.ToFlow(wire); err != nil {
		t.Errorf("persisted graph invalid: %v", err)
	}
}

func TestEditorViewShowsPalette(t *testing.T) {
	m, _ := newTestEditor(t)
	m = update(t, m, editorLoadedMsg{graph: flow.New()})

	view := m.View()
	if !strings.Contains(view, string(flow.Types[0])) {
		t.Error("view should name the palette type")
	}
}

func TestRenderFrameCellsDrawsNodes(t *testing.T) {
	g := flow.New()
	id, err := g.AddNode(flow.TypeQuestionnaire, flow.Position{X: 100, Y: 100})
	if err != nil {
		t.Fatal(err)
	}
	engine := canvas.NewEngine(g)

	out := renderFrameCells(engine.BuildFrame(800, 600), id, 100, 40)
	if !strings.Contains(out, "╔") {
		t.Error("selected node should use double borders")
	}
	if !strings.Contains(out, "▷") {
		t.Error("questionnaire node should show an output port")
	}
}
