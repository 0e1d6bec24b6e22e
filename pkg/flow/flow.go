// Package flow implements the in-memory model for questionnaire flow graphs.
//
// A flow graph is a directed, weighted graph of typed nodes. Nodes are kept
// in insertion order (the order only affects visual stacking in the editor),
// edges are unique per ordered (from, to) pair and always carry a positive
// weight. All mutations either apply fully or not at all: invalid input is
// rejected with an error before anything changes, while mutations targeting
// entities that no longer exist are silent no-ops, since UI-driven deletes
// can race harmlessly with each other.
//
// The model performs no I/O and carries no session state. Serialization
// lives in the graph package, rendering in the canvas package.
package flow

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidNodeType is returned by [Graph.AddNode] when the node type
	// is not one of the known [NodeType] values.
	ErrInvalidNodeType = errors.New("invalid node type")

	// ErrInvalidNodeID is returned when a node ID is empty. All nodes must
	// have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned when a node with the same ID already
	// exists in the graph. Node IDs are unique and never reused.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidWeight is returned by [Graph.AddEdge] when the weight is not
	// a positive integer. An edge never exists with weight <= 0; driving an
	// existing edge's weight to zero deletes it instead.
	ErrInvalidWeight = errors.New("edge weight must be a positive integer")

	// ErrConnectionRejected is returned by [Graph.AddEdge] when the proposed
	// edge violates a structural rule. Use [Graph.CanConnect] first to obtain
	// the specific rejection reason.
	ErrConnectionRejected = errors.New("connection rejected")
)

// Position is a point in the editor's logical coordinate space.
// Screen pixels are derived from logical coordinates at draw time via the
// surface's device pixel ratio; the model never sees device pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a unit of the flow graph: a questionnaire step, a goal, or one of
// the auxiliary types. The ID is unique within a graph and never reused
// after deletion. Data is an open mapping whose keys depend on Type; use
// [QuestionnaireData] and [GoalData] for typed access.
type Node struct {
	ID       string
	Type     NodeType
	Position Position
	Data     Data
}

// Edge is a directed, weighted relationship between two nodes.
// Weight is always > 0 for an edge present in a graph.
type Edge struct {
	ID     string
	From   string
	To     string
	Weight int
}

// Graph holds the nodes and edges of a single flow. The editor's canvas
// engine owns the authoritative Graph for the duration of a session; the
// persistence layer only ever receives serialized snapshots.
//
// The zero value is not usable - use [New]. Graph is not safe for concurrent
// use; the single-threaded editor event loop is its intended host.
type Graph struct {
	nodes []*Node
	index map[string]*Node
	edges []*Edge
}

// New creates an empty flow graph.
func New() *Graph {
	return &Graph{index: make(map[string]*Node)}
}

// AddNode creates a node of the given type at a default position and returns
// its freshly assigned ID. Questionnaire nodes receive a creation timestamp
// in their data; all other types start with empty data.
//
// Returns ErrInvalidNodeType for unknown types. New nodes are appended last,
// so they win hit-test overlaps against older nodes.
func (g *Graph) AddNode(t NodeType, pos Position) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidNodeType, t)
	}
	n := &Node{
		ID:       uuid.NewString(),
		Type:     t,
		Position: pos,
		Data:     defaultData(t),
	}
	g.nodes = append(g.nodes, n)
	g.index[n.ID] = n
	return n.ID, nil
}

// InsertNode adds a fully specified node, preserving its ID. It is used when
// hydrating a graph from storage. Returns ErrInvalidNodeID, ErrDuplicateNodeID
// or ErrInvalidNodeType when the node cannot be admitted.
func (g *Graph) InsertNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if !n.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidNodeType, n.Type)
	}
	if _, exists := g.index[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	if n.Data == nil {
		n.Data = Data{}
	}
	node := &n
	g.nodes = append(g.nodes, node)
	g.index[n.ID] = node
	return nil
}

// UpdateNodePosition moves a node. Any position is acceptable - drags are
// never validated. Unknown IDs are a no-op.
func (g *Graph) UpdateNodePosition(id string, pos Position) {
	if n, ok := g.index[id]; ok {
		n.Position = pos
	}
}

// UpdateNodeData shallow-merges patch into the node's data, then recomputes
// the derived label from the type-specific fields (category for questionnaire
// nodes, goalName for goal nodes). Unknown IDs are a no-op.
func (g *Graph) UpdateNodeData(id string, patch Data) {
	n, ok := g.index[id]
	if !ok {
		return
	}
	for k, v := range patch {
		n.Data[k] = v
	}
	n.Data[KeyLabel] = deriveLabel(n.Type, n.Data)
}

// DeleteNode removes the node and every edge where it appears as source or
// target, so the graph never holds a dangling edge. Deleting an unknown or
// already-deleted ID is a no-op.
func (g *Graph) DeleteNode(id string) {
	if _, ok := g.index[id]; !ok {
		return
	}
	delete(g.index, id)
	g.nodes = slices.DeleteFunc(g.nodes, func(n *Node) bool { return n.ID == id })
	g.edges = slices.DeleteFunc(g.edges, func(e *Edge) bool { return e.From == id || e.To == id })
}

// AddEdge materializes a validated connection with the given weight and
// returns the new edge's ID. The structural rules of [Graph.CanConnect] are
// re-checked here, so an edge can only ever be created through the accept
// path. Returns ErrInvalidWeight for weight <= 0 and ErrConnectionRejected
// (wrapping the reason) for structural violations.
func (g *Graph) AddEdge(from, to string, weight int) (string, error) {
	if weight <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidWeight, weight)
	}
	if res := g.CanConnect(from, to); !res.OK {
		return "", fmt.Errorf("%w: %s", ErrConnectionRejected, res.Reason)
	}
	e := &Edge{
		ID:     NewEdgeID(from, to),
		From:   from,
		To:     to,
		Weight: weight,
	}
	g.edges = append(g.edges, e)
	return e.ID, nil
}

// UpdateEdgeWeight replaces an edge's weight. A weight <= 0 deletes the edge
// instead: zero is not a valid persisted state, it is the delete signal.
// Unknown edge IDs are a no-op.
func (g *Graph) UpdateEdgeWeight(id string, weight int) {
	if weight <= 0 {
		g.DeleteEdge(id)
		return
	}
	for _, e := range g.edges {
		if e.ID == id {
			e.Weight = weight
			return
		}
	}
}

// DeleteEdge removes an edge by ID. Unknown IDs are a no-op.
func (g *Graph) DeleteEdge(id string) {
	g.edges = slices.DeleteFunc(g.edges, func(e *Edge) bool { return e.ID == id })
}

// Node returns the node with the given ID and true, or nil and false.
// The pointer refers to the live node, so position and data mutations are
// visible to the next rendered frame.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Nodes returns the nodes in insertion order. The slice is a copy but the
// node pointers are live.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns the edges in insertion order. The slice is a copy but the
// edge pointers are live.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// Edge returns the edge with the given ID and true, or nil and false.
func (g *Graph) Edge(id string) (*Edge, bool) {
	for _, e := range g.edges {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// HasEdge reports whether an edge with the ordered (from, to) pair exists.
func (g *Graph) HasEdge(from, to string) bool {
	for _, e := range g.edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NewEdgeID derives an edge identifier from its endpoints and creation time.
func NewEdgeID(from, to string) string {
	return fmt.Sprintf("edge-%s-%s-%d", from, to, time.Now().UnixMilli())
}

// DefaultPosition picks a spawn position for the n-th added node, staggering
// nodes in a loose grid with some jitter so new nodes don't stack exactly.
func DefaultPosition(existing int) Position {
	x := 250 + rand.Float64()*500
	y := 150 + rand.Float64()*400
	if existing > 0 {
		x += float64(existing%3) * 200
		y += float64(existing/3) * 180
	}
	return Position{X: x, Y: y}
}
