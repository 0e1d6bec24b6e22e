package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mistaa/flowstudio/pkg/canvas"
	flowerrors "github.com/mistaa/flowstudio/pkg/errors"
	"github.com/mistaa/flowstudio/pkg/flow"
	"github.com/mistaa/flowstudio/pkg/graph"
	"github.com/mistaa/flowstudio/pkg/store"
)

// Terminal cells are not square, so logical canvas units map to cells with
// separate horizontal and vertical scales. With these values a node occupies
// 14x4 cells and the 800x600 default canvas fits in 80x30 cells.
const (
	cellWidth  = 10.0
	cellHeight = 20.0
	headerRows = 2
	footerRows = 2
)

// Editor styles
var (
	editorStatusErrStyle = lipgloss.NewStyle().Foreground(colorRed)
	editorStatusOKStyle  = lipgloss.NewStyle().Foreground(colorGray)
	editorPromptStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	editorDirtyStyle     = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Messages
// =============================================================================

type editorLoadedMsg struct {
	graph *flow.Graph
	err   error
}

type editorSavedMsg struct {
	err error
}

// =============================================================================
// Weight Prompt
// =============================================================================

// weightPrompt is the modal input opened when a connection drop is accepted
// or an existing edge's weight is edited. While it is open, all key events go
// to the prompt; the pending connection is only materialized on enter.
type weightPrompt struct {
	mode   canvas.WeightMode
	input  string
	from   string // WeightCreate: proposed source
	to     string // WeightCreate: proposed target
	edgeID string // WeightEdit: edge being changed
}

func (p *weightPrompt) title() string {
	if p.mode == canvas.WeightEdit {
		return "Edge weight (0 deletes)"
	}
	return "Connection weight (positive integer)"
}

// =============================================================================
// EditorModel - Interactive canvas editing
// =============================================================================

// EditorModel is the bubbletea model for the canvas editor. It owns a canvas
// engine and translates terminal mouse events into the engine's logical
// pointer events.
type EditorModel struct {
	ctx      context.Context
	store    store.Store
	operator string
	graphID  string

	engine  *canvas.Engine
	palette int // index into flow.Types for the next added node

	prompt      *weightPrompt
	status      string
	statusErr   bool
	dirty       bool
	loading     bool
	saving      bool
	confirmQuit bool

	width  int
	height int

	// SaveErr carries a save failure out of the program for the command to
	// report after the terminal is restored.
	SaveErr error
}

// NewEditorModel creates an editor for the given graph, loading it on Init.
func NewEditorModel(ctx context.Context, st store.Store, operator, graphID string) EditorModel {
	return EditorModel{
		ctx:      ctx,
		store:    st,
		operator: operator,
		graphID:  graphID,
		engine:   canvas.NewEngine(flow.New()),
		loading:  true,
		width:    80,
		height:   30,
	}
}

func (m EditorModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m EditorModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		wire, err := m.store.Load(m.ctx, m.operator, m.graphID)
		if err != nil {
			return editorLoadedMsg{err: err}
		}
		g, err := graph.ToFlow(wire)
		if err != nil {
			return editorLoadedMsg{err: err}
		}
		return editorLoadedMsg{graph: g}
	}
}

func (m EditorModel) saveCmd() tea.Cmd {
	snapshot := graph.FromFlow(m.engine.Graph())
	return func() tea.Msg {
		return editorSavedMsg{err: m.store.Save(m.ctx, m.operator, m.graphID, snapshot)}
	}
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editorLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError("load failed: %v", msg.err)
			return m, nil
		}
		m.engine.Replace(msg.graph)
		m.setStatus("Loaded %d nodes, %d edges", msg.graph.NodeCount(), msg.graph.EdgeCount())
		return m, nil

	case editorSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.SaveErr = msg.err
			m.setError("save failed: %v", msg.err)
			return m, nil
		}
		m.SaveErr = nil
		m.dirty = false
		m.setStatus("Saved %s", m.graphID)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		return m.updateKeys(msg)

	case tea.MouseMsg:
		if m.prompt != nil || m.loading {
			return m, nil
		}
		return m.updateMouse(msg)
	}
	return m, nil
}

// updateKeys handles key events outside the weight prompt.
func (m EditorModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.dirty && !m.confirmQuit {
			m.confirmQuit = true
			m.setError("unsaved changes: press q again to discard, s to save")
			return m, nil
		}
		return m, tea.Quit

	case "s":
		if m.saving {
			return m, nil
		}
		m.saving = true
		m.confirmQuit = false
		m.setStatus("Saving...")
		return m, m.saveCmd()

	case "a":
		return m.addNode(flow.Types[m.palette])

	case "g":
		return m.addNode(flow.TypeGoal)

	case "tab":
		m.palette = (m.palette + 1) % len(flow.Types)
		m.setStatus("Palette: %s", flow.Types[m.palette])
		return m, nil

	case "d":
		if m.engine.Selected() == "" {
			m.setStatus("Nothing selected")
			return m, nil
		}
		m.engine.DeleteSelected()
		m.markDirty()
		m.setStatus("Deleted node")
		return m, nil

	case "w":
		return m.openEdgePrompt()

	case "e":
		path := m.graphID + ".svg"
		width, height := canvas.FrameBounds(m.engine.Graph())
		svg := canvas.RenderSVG(m.engine.BuildFrame(width, height))
		if err := os.WriteFile(path, svg, 0o644); err != nil {
			m.setError("export failed: %v", err)
			return m, nil
		}
		m.setStatus("Exported %s", path)
		return m, nil

	case "esc":
		m.engine.Cancel()
		m.confirmQuit = false
		m.setStatus("")
		return m, nil
	}
	return m, nil
}

// addNode creates a node of the given type at a staggered position.
func (m EditorModel) addNode(t flow.NodeType) (tea.Model, tea.Cmd) {
	if _, err := m.engine.AddNode(t); err != nil {
		m.setError("%v", err)
		return m, nil
	}
	m.markDirty()
	m.setStatus("Added %s node", t)
	return m, nil
}

// openEdgePrompt starts editing the weight of the selected node's first
// outgoing edge.
func (m EditorModel) openEdgePrompt() (tea.Model, tea.Cmd) {
	selected := m.engine.Selected()
	if selected == "" {
		m.setStatus("Select a node first")
		return m, nil
	}
	for _, e := range m.engine.Graph().Edges() {
		if e.From == selected {
			m.prompt = &weightPrompt{
				mode:   canvas.WeightEdit,
				input:  fmt.Sprintf("%d", e.Weight),
				edgeID: e.ID,
			}
			return m, nil
		}
	}
	m.setStatus("Selected node has no outgoing edge")
	return m, nil
}

// updatePrompt handles key events while the weight prompt is open.
func (m EditorModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.prompt
	switch msg.String() {
	case "esc":
		m.prompt = nil
		m.setStatus("Cancelled")
		return m, nil

	case "backspace":
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}
		return m, nil

	case "enter":
		if err := flowerrors.ValidateWeightInput(p.input); err != nil {
			m.setError("%s", flowerrors.UserMessage(err))
			return m, nil
		}
		if p.mode == canvas.WeightEdit {
			weight, err := canvas.ParseEditWeight(p.input)
			if err != nil {
				m.setError("%v", err)
				return m, nil
			}
			m.engine.Graph().UpdateEdgeWeight(p.edgeID, weight)
			m.prompt = nil
			m.markDirty()
			if weight == 0 {
				m.setStatus("Edge deleted")
			} else {
				m.setStatus("Weight set to %d", weight)
			}
			return m, nil
		}
		weight, err := canvas.ParseCreationWeight(p.input)
		if err != nil {
			m.setError("%v", err)
			return m, nil
		}
		if _, err := m.engine.CompleteConnection(p.from, p.to, weight); err != nil {
			m.prompt = nil
			m.setError("connection failed: %v", err)
			return m, nil
		}
		m.prompt = nil
		m.markDirty()
		m.setStatus("Connected with weight %d", weight)
		return m, nil
	}

	if len(msg.String()) == 1 {
		ch := msg.String()[0]
		if ch >= '0' && ch <= '9' || ch == '-' {
			p.input += msg.String()
		}
	}
	return m, nil
}

// updateMouse translates terminal mouse events into logical pointer events.
func (m EditorModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Y < headerRows {
		return m, nil
	}
	p := canvas.Point{
		X: float64(msg.X) * cellWidth,
		Y: float64(msg.Y-headerRows) * cellHeight,
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.engine.PointerDown(p)
	case tea.MouseActionMotion:
		m.engine.PointerMove(p)
		if m.engine.State() == canvas.StateDraggingNode {
			m.markDirty()
		}
	case tea.MouseActionRelease:
		proposal := m.engine.PointerUp(p)
		switch {
		case proposal.Proposed:
			m.prompt = &weightPrompt{
				mode: canvas.WeightCreate,
				from: proposal.From,
				to:   proposal.To,
			}
		case proposal.Rejection != flow.ReasonNone:
			if e := flowerrors.FromReason(proposal.Rejection); e != nil {
				m.setError("%s", e.Message)
			}
		}
	}
	return m, nil
}

func (m *EditorModel) markDirty() {
	m.dirty = true
	m.confirmQuit = false
}

func (m *EditorModel) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *EditorModel) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
}

// =============================================================================
// View
// =============================================================================

func (m EditorModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("%s / %s", m.operator, m.graphID)
	if m.dirty {
		title += " " + editorDirtyStyle.Render("●")
	}
	b.WriteString(StyleTitle.Render("Flowstudio") + "  " + StyleValue.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("palette: %s", flow.Types[m.palette])))
	b.WriteString("\n")

	rows := m.height - headerRows - footerRows
	if rows < 5 {
		rows = 5
	}
	cols := m.width
	if cols < 20 {
		cols = 20
	}

	if m.loading {
		b.WriteString(StyleDim.Render("Loading..."))
		b.WriteString(strings.Repeat("\n", rows))
	} else {
		width, height := canvas.FrameBounds(m.engine.Graph())
		frame := m.engine.BuildFrame(width, height)
		b.WriteString(renderFrameCells(frame, m.engine.Selected(), cols, rows))
	}

	if m.prompt != nil {
		b.WriteString(editorPromptStyle.Render(fmt.Sprintf("%s: %s▌", m.prompt.title(), m.prompt.input)))
	} else if m.statusErr {
		b.WriteString(editorStatusErrStyle.Render(m.status))
	} else {
		b.WriteString(editorStatusOKStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("drag nodes · drag from ▷ to connect · a add  g goal  ⇥ palette  d delete  w weight  e export  s save  q quit"))
	return b.String()
}

// renderFrameCells rasterizes a frame into a cols x rows cell grid. Edges are
// drawn first by sampling their curves, then nodes are drawn on top as boxes,
// matching the frame's draw order.
func renderFrameCells(f canvas.Frame, selected string, cols, rows int) string {
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = make([]rune, cols)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	put := func(col, row int, r rune) {
		if row >= 0 && row < rows && col >= 0 && col < cols {
			grid[row][col] = r
		}
	}
	putString := func(col, row int, s string) {
		for i, r := range []rune(s) {
			put(col+i, row, r)
		}
	}
	cellOf := func(p canvas.Point) (int, int) {
		return int(p.X / cellWidth), int(p.Y / cellHeight)
	}

	for _, e := range f.Edges {
		drawCurve(put, cellOf, e.Curve, '·')
		col, row := cellOf(e.Curve.End)
		put(col, row, '▶')
		bc, br := cellOf(e.Badge)
		putString(bc, br, fmt.Sprintf("(%d)", e.Weight))
	}

	if f.Transient != nil {
		mark := '?'
		if f.Transient.Valid {
			mark = '+'
		}
		drawCurve(put, cellOf, f.Transient.Curve, '∙')
		col, row := cellOf(f.Transient.Curve.End)
		put(col, row, mark)
	}

	for _, n := range f.Nodes {
		drawNodeBox(put, putString, cellOf, n, n.ID == selected)
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteString("\n")
	}
	return b.String()
}

// drawCurve samples the bezier and plots one mark per visited cell.
func drawCurve(put func(int, int, rune), cellOf func(canvas.Point) (int, int), c canvas.Curve, mark rune) {
	const samples = 64
	for i := 0; i <= samples; i++ {
		col, row := cellOf(c.At(float64(i) / samples))
		put(col, row, mark)
	}
}

// drawNodeBox draws a node as a bordered box with a centered, truncated
// label. Selected nodes use double-line borders.
func drawNodeBox(put func(int, int, rune), putString func(int, int, string), cellOf func(canvas.Point) (int, int), n canvas.NodeSprite, selected bool) {
	left, top := cellOf(canvas.Point{X: n.Rect.X, Y: n.Rect.Y})
	right, bottom := cellOf(canvas.Point{X: n.Rect.X + n.Rect.W, Y: n.Rect.Y + n.Rect.H})
	if right <= left {
		right = left + 1
	}
	if bottom <= top {
		bottom = top + 1
	}

	h, v := '─', '│'
	tl, tr, bl, br := '┌', '┐', '└', '┘'
	if selected {
		h, v = '═', '║'
		tl, tr, bl, br = '╔', '╗', '╚', '╝'
	}

	for col := left; col <= right; col++ {
		put(col, top, h)
		put(col, bottom, h)
	}
	for row := top; row <= bottom; row++ {
		put(left, row, v)
		put(right, row, v)
	}
	put(left, top, tl)
	put(right, top, tr)
	put(left, bottom, bl)
	put(right, bottom, br)

	mid := (top + bottom) / 2
	put(left, mid, '◁')
	if n.HasOutput {
		put(right, mid, '▷')
	}

	label := n.Label
	maxLen := right - left - 3
	if maxLen > 0 {
		if len(label) > maxLen {
			label = label[:maxLen]
		}
		putString(left+2, mid, label)
	}
}
