package flow

// Reason identifies why a proposed connection was rejected.
// The values are ordered by evaluation priority: validation stops at the
// first matching rule, and both user-facing messages and tests rely on that
// ordering.
type Reason int

const (
	// ReasonNone means the connection is acceptable.
	ReasonNone Reason = iota

	// ReasonSelfLoop rejects edges where source and target are the same node.
	ReasonSelfLoop

	// ReasonUnknownEndpoint rejects edges whose source or target ID is not
	// present in the graph.
	ReasonUnknownEndpoint

	// ReasonInvalidSource rejects edges that do not originate from a
	// questionnaire node. This also covers the goal-has-no-outgoing-edges
	// invariant, since a goal node can never be a valid source.
	ReasonInvalidSource

	// ReasonInvalidTarget rejects edges whose target is neither a
	// questionnaire nor a goal node.
	ReasonInvalidTarget

	// ReasonDuplicateEdge rejects edges when one with the same ordered
	// (from, to) pair already exists.
	ReasonDuplicateEdge
)

// String returns the machine-readable name of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonSelfLoop:
		return "self-loop"
	case ReasonUnknownEndpoint:
		return "unknown endpoint"
	case ReasonInvalidSource:
		return "invalid source"
	case ReasonInvalidTarget:
		return "invalid target"
	case ReasonDuplicateEdge:
		return "duplicate edge"
	}
	return "unknown"
}

// Message returns the user-facing explanation surfaced inline in the editor.
func (r Reason) Message() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonSelfLoop:
		return "a node cannot connect to itself"
	case ReasonUnknownEndpoint:
		return "connection endpoint no longer exists"
	case ReasonInvalidSource:
		return "only questionnaire nodes can start a connection"
	case ReasonInvalidTarget:
		return "connections must end at a questionnaire or goal node"
	case ReasonDuplicateEdge:
		return "these nodes are already connected"
	}
	return "connection rejected"
}

// Result is the outcome of [Graph.CanConnect].
type Result struct {
	OK     bool
	Reason Reason
}

func accept() Result { return Result{OK: true} }

func reject(r Reason) Result { return Result{Reason: r} }

// CanConnect checks whether a directed edge from one node to another would
// keep the graph well-formed. Rules are evaluated in a fixed order and the
// first violation wins:
//
//  1. from == to                      -> ReasonSelfLoop
//  2. either ID missing               -> ReasonUnknownEndpoint
//  3. source is not a questionnaire   -> ReasonInvalidSource
//  4. target is not questionnaire/goal -> ReasonInvalidTarget
//  5. ordered (from, to) edge exists  -> ReasonDuplicateEdge
//
// On acceptance the caller must still obtain a positive weight before
// materializing the edge with [Graph.AddEdge]; an edge never exists with an
// unset weight.
func (g *Graph) CanConnect(from, to string) Result {
	if from == to {
		return reject(ReasonSelfLoop)
	}
	src, okFrom := g.index[from]
	dst, okTo := g.index[to]
	if !okFrom || !okTo {
		return reject(ReasonUnknownEndpoint)
	}
	if !src.Type.CanOriginate() {
		return reject(ReasonInvalidSource)
	}
	if !dst.Type.CanTerminate() {
		return reject(ReasonInvalidTarget)
	}
	if g.HasEdge(from, to) {
		return reject(ReasonDuplicateEdge)
	}
	return accept()
}
