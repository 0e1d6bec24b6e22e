// Package store persists flow graphs keyed by operator and graph ID.
// Backends share one contract: loading a graph that was never saved returns
// an empty graph, not an error, so the editor can open a fresh canvas for any
// ID. Save failures must leave previously stored state untouched.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/mistaa/flowstudio/pkg/graph"
)

// ErrBadID is returned when an operator or graph ID is empty or contains
// path-hostile characters.
var ErrBadID = errors.New("invalid identifier")

// Store is the persistence contract.
type Store interface {
	// Load returns the stored graph, or an empty graph when none exists.
	Load(ctx context.Context, operatorID, graphID string) (graph.Graph, error)

	// Save stores the graph, replacing any previous version.
	Save(ctx context.Context, operatorID, graphID string, g graph.Graph) error

	// Delete removes the stored graph. Deleting a missing graph is not an
	// error.
	Delete(ctx context.Context, operatorID, graphID string) error

	// List returns the graph IDs stored for an operator.
	List(ctx context.Context, operatorID string) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// checkIDs rejects empty IDs and IDs that could escape a storage namespace.
func checkIDs(ids ...string) error {
	for _, id := range ids {
		if id == "" || strings.ContainsAny(id, "/\\") || id == "." || id == ".." {
			return ErrBadID
		}
	}
	return nil
}
