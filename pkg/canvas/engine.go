// Package canvas implements the interactive editing surface for flow graphs:
// the pointer-event state machine, hit-testing, per-frame scene building,
// and the render sinks (SVG and Graphviz DOT).
//
// The engine owns the authoritative in-memory graph for the duration of an
// editing session. All coordinates handled here are logical units; render
// sinks apply the surface's device pixel ratio when producing output.
//
// Pointer interaction is an explicit three-state machine rather than a pile
// of mutable flags, so cancellation and stray events (a pointer-up with no
// matching pointer-down) are handled by construction:
//
//	Idle -> DraggingNode        pointer-down on a node body
//	Idle -> DrawingConnection   pointer-down on a node's output port
//	DraggingNode -> Idle        pointer-up (any position is acceptable)
//	DrawingConnection -> Idle   pointer-up (commit via validator, or discard)
//	any -> Idle                 cancel (pointer left surface, external signal)
package canvas

import (
	"github.com/mistaa/flowstudio/pkg/flow"
)

// StateKind identifies the pointer state machine's current state.
type StateKind int

const (
	// StateIdle means no interaction is in progress.
	StateIdle StateKind = iota
	// StateDraggingNode means a node is following the pointer.
	StateDraggingNode
	// StateDrawingConnection means a transient connection curve is being
	// drawn from a source node's output port to the pointer.
	StateDrawingConnection
)

// pointerState carries the per-state data. Only the fields for the active
// kind are meaningful.
type pointerState struct {
	kind       StateKind
	dragID     string // DraggingNode: node following the pointer
	grabOffset Point  // DraggingNode: pointer minus node top-left at grab time
	sourceID   string // DrawingConnection: node the curve starts from
}

// Proposal is the outcome of a pointer-up while drawing a connection.
// When Proposed is set, the validator accepted the drop and the caller must
// acquire a positive weight (see [ParseCreationWeight]) before materializing
// the edge with [Engine.CompleteConnection]. When Rejection is non-zero, a
// drop target was hit but refused; the reason is surfaced to the user.
// Neither set means the drop landed on empty canvas and was discarded
// silently.
type Proposal struct {
	Proposed  bool
	From      string
	To        string
	Rejection flow.Reason
}

// Engine owns the graph being edited, the selection, and the pointer state
// machine. It is single-threaded by design: the host event loop delivers
// pointer events and reads frames from the same goroutine, so every mutation
// is atomic with respect to redraws.
type Engine struct {
	graph    *flow.Graph
	state    pointerState
	selected string
	pointer  Point // last observed pointer position
}

// NewEngine creates an engine editing the given graph. The engine takes
// ownership: external code must not mutate the graph concurrently.
func NewEngine(g *flow.Graph) *Engine {
	if g == nil {
		g = flow.New()
	}
	return &Engine{graph: g}
}

// Graph exposes the live graph, e.g. for serialization snapshots.
func (e *Engine) Graph() *flow.Graph { return e.graph }

// Replace swaps in a freshly loaded graph and resets all interaction state.
func (e *Engine) Replace(g *flow.Graph) {
	if g == nil {
		g = flow.New()
	}
	e.graph = g
	e.state = pointerState{}
	e.selected = ""
}

// State returns the current pointer state kind.
func (e *Engine) State() StateKind { return e.state.kind }

// Selected returns the selected node's ID, or "" when nothing is selected.
func (e *Engine) Selected() string { return e.selected }

// Select sets the selection directly (used by keyboard navigation).
func (e *Engine) Select(id string) { e.selected = id }

// NodeAt returns the topmost node whose footprint contains p. Nodes are
// tested in reverse insertion order so later-added nodes win overlaps,
// matching the draw order.
func (e *Engine) NodeAt(p Point) (*flow.Node, bool) {
	nodes := e.graph.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if NodeRect(Point(n.Position)).Contains(p) {
			return n, true
		}
	}
	return nil, false
}

// outputPortAt returns the topmost node whose output port marker contains p.
// Goal nodes have no connection affordance and are never returned.
func (e *Engine) outputPortAt(p Point) (*flow.Node, bool) {
	nodes := e.graph.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if n.Type == flow.TypeGoal {
			continue
		}
		if OutputPort(Point(n.Position)).Dist(p) <= PortRadius {
			return n, true
		}
	}
	return nil, false
}

// PointerDown feeds a press event into the state machine. A press on an
// output port starts a connection; a press on a node body starts a drag and
// selects the node; a press on empty canvas clears the selection. Presses
// arriving in a non-idle state are ignored - the host may deliver stray
// events during cancellation.
func (e *Engine) PointerDown(p Point) {
	e.pointer = p
	if e.state.kind != StateIdle {
		return
	}

	if n, ok := e.outputPortAt(p); ok {
		e.state = pointerState{kind: StateDrawingConnection, sourceID: n.ID}
		return
	}

	if n, ok := e.NodeAt(p); ok {
		e.selected = n.ID
		e.state = pointerState{
			kind:       StateDraggingNode,
			dragID:     n.ID,
			grabOffset: p.Sub(Point(n.Position)),
		}
		return
	}

	e.selected = ""
}

// PointerMove feeds a move event into the state machine. While dragging it
// writes the node position on every event (the node keeps its grab offset so
// it never jumps to the pointer); while drawing a connection it only updates
// the transient curve's endpoint, committing nothing.
func (e *Engine) PointerMove(p Point) {
	e.pointer = p
	if e.state.kind == StateDraggingNode {
		pos := p.Sub(e.state.grabOffset)
		e.graph.UpdateNodePosition(e.state.dragID, flow.Position(pos))
	}
}

// PointerUp feeds a release event into the state machine and returns the
// connection proposal, if any. Releasing a drag needs no validation - any
// position is acceptable. Releasing a connection over a node consults the
// validator; over empty canvas it is a silent discard. A release in the idle
// state (no matching press) is a no-op.
func (e *Engine) PointerUp(p Point) Proposal {
	e.pointer = p
	st := e.state
	e.state = pointerState{}

	if st.kind != StateDrawingConnection {
		return Proposal{}
	}

	target, ok := e.NodeAt(p)
	if !ok {
		return Proposal{}
	}
	if res := e.graph.CanConnect(st.sourceID, target.ID); !res.OK {
		return Proposal{Rejection: res.Reason}
	}
	return Proposal{Proposed: true, From: st.sourceID, To: target.ID}
}

// Cancel aborts any in-progress drag or connection without mutating the
// graph. Dragged nodes keep the position of the last move event.
func (e *Engine) Cancel() {
	e.state = pointerState{}
}

// CompleteConnection materializes a proposed connection once the weight has
// been acquired. It re-runs validation inside [flow.Graph.AddEdge], so a
// node deleted while the weight prompt was open degrades into an error
// rather than a dangling edge.
func (e *Engine) CompleteConnection(from, to string, weight int) (string, error) {
	return e.graph.AddEdge(from, to, weight)
}

// AddNode creates a node of the given type at a staggered default position
// and selects it.
func (e *Engine) AddNode(t flow.NodeType) (string, error) {
	id, err := e.graph.AddNode(t, flow.DefaultPosition(e.graph.NodeCount()))
	if err != nil {
		return "", err
	}
	e.selected = id
	return id, nil
}

// DeleteSelected removes the selected node and its incident edges. Deleting
// with nothing selected is a no-op.
func (e *Engine) DeleteSelected() {
	if e.selected == "" {
		return
	}
	if e.state.kind == StateDraggingNode && e.state.dragID == e.selected {
		e.state = pointerState{}
	}
	if e.state.kind == StateDrawingConnection && e.state.sourceID == e.selected {
		e.state = pointerState{}
	}
	e.graph.DeleteNode(e.selected)
	e.selected = ""
}

// transientCurve returns the in-progress connection curve, when drawing.
func (e *Engine) transientCurve() (Curve, bool) {
	if e.state.kind != StateDrawingConnection {
		return Curve{}, false
	}
	src, ok := e.graph.Node(e.state.sourceID)
	if !ok {
		return Curve{}, false
	}
	return EdgeCurve(OutputPort(Point(src.Position)), e.pointer), true
}

// transientTargetValid reports whether the pointer currently hovers a node
// the validator would accept as the connection's target. Sinks use it to
// tint the transient curve.
func (e *Engine) transientTargetValid() bool {
	if e.state.kind != StateDrawingConnection {
		return false
	}
	n, ok := e.NodeAt(e.pointer)
	if !ok {
		return false
	}
	return e.graph.CanConnect(e.state.sourceID, n.ID).OK
}
