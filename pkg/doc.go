// Package pkg provides the core libraries for Flowstudio graph editing.
//
// # Overview
//
// Flowstudio composes directed flows of questionnaire and goal nodes on an
// interactive canvas, persists them per operator, exports them as images, and
// plays them back as linear questionnaires. The pkg directory is organized
// into four main areas:
//
//  1. [flow] - Domain logic (the graph model, connection rules, node data)
//  2. [canvas] - The editing surface (pointer state machine, render sinks)
//  3. [store] / [cache] / [session] - Infrastructure (persistence, caching, auth)
//  4. [playback] - Running a finished graph as a questionnaire
//
// # Architecture
//
// The typical data flow through Flowstudio:
//
//	pointer events
//	         ↓
//	    [canvas] package (hit-testing, drag and connect interactions)
//	         ↓
//	    [flow] package (validated graph mutations)
//	         ↓
//	    [graph] package (canonical wire format)
//	         ↓
//	    [store] package (file, MongoDB, or HTTP persistence)
//
// # Quick Start
//
// Build a graph and render it:
//
//	import (
//	    "github.com/mistaa/flowstudio/pkg/canvas"
//	    "github.com/mistaa/flowstudio/pkg/flow"
//	)
//
//	// 1. Create a graph
//	g := flow.New()
//	src, _ := g.AddNode(flow.TypeQuestionnaire, flow.Position{X: 100, Y: 100})
//	dst, _ := g.AddNode(flow.TypeGoal, flow.Position{X: 400, Y: 200})
//	g.AddEdge(src, dst, 5)
//
//	// 2. Render to SVG
//	engine := canvas.NewEngine(g)
//	w, h := canvas.FrameBounds(g)
//	svg := canvas.RenderSVG(engine.BuildFrame(w, h))
//
// # Main Packages
//
// ## Core Domain Logic
//
// [flow] - The flow graph model: seven node types, weighted edges, the
// connection validator, and typed accessors for per-node data. Every mutation
// enforces the graph's invariants, so a graph is valid by construction.
//
// [canvas] - The interactive editing surface. A three-state pointer machine
// drives dragging and connection drawing; per-frame scenes feed the render
// sinks (SVG, Graphviz DOT, the terminal rasterizer).
//
// [playback] - Walks a graph's questionnaire nodes in insertion order as a
// linear run with answers, skips, backtracking, and scoring.
//
// ## Serialization
//
// [graph] - The canonical wire format shared by every persistence backend and
// the HTTP API, with conversion to and from the live model.
//
// ## Infrastructure
//
// [store] - Persistence backends keyed by operator and graph ID: FileStore
// (local), MongoStore (server deployments), HTTPStore (CLI against a running
// server). Loading a graph that does not exist yields an empty graph.
//
// [cache] - Payload and export-artifact caching with file and Redis backends,
// plus the retry-with-backoff helper for transient network failures.
//
// [session] - Operator sessions for the CLI, stored under the user config
// directory.
//
// [config] - TOML configuration with sensible defaults for every field.
//
// [errors] - Structured error codes shared by the CLI and the HTTP API, and
// input validation for IDs, formats, and weights.
//
// [buildinfo] - Build-time version information set via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/flow/...       # Specific package
//
// [flow]: https://pkg.go.dev/github.com/mistaa/flowstudio/pkg/flow
// [canvas]: https://pkg.go.dev/github.com/mistaa/flowstudio/pkg/canvas
// [playback]: https://pkg.go.dev/github.com/mistaa/flowstudio/pkg/playback
// [graph]: https://pkg.go.dev/github.com/mistaa/flowstudio/pkg/graph
// [store]: https://pkg.go.dev/github.com/mistaa/flowstudio/pkg/store
// [cache]: https://pkg.go.dev/github.com/mistaa/flowstudio/pkg/cache
// [session]: https://pkg.go.dev/github.com/mistaa/flowstudio/pkg/session
// [config]: https://pkg.go.dev/github.com/mistaa/flowstudio/pkg/config
// [errors]: https://pkg.go.dev/github.com/mistaa/flowstudio/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/mistaa/flowstudio/pkg/buildinfo
package pkg
