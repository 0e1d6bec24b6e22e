package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mistaa/flowstudio/pkg/graph"
)

// FileStore keeps graphs as JSON files under root/<operatorID>/<graphID>.json.
// It is the default backend for local CLI use.
type FileStore struct {
	root string
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{root: dir}, nil
}

// Load reads a stored graph. A missing file yields an empty graph.
func (s *FileStore) Load(ctx context.Context, operatorID, graphID string) (graph.Graph, error) {
	if err := checkIDs(operatorID, graphID); err != nil {
		return graph.Graph{}, err
	}
	return graph.ReadGraphFile(s.path(operatorID, graphID))
}

// Save writes the graph, creating the operator directory on first save.
// The payload is written to a temp file and renamed so a crash mid-write
// never truncates the previous version.
func (s *FileStore) Save(ctx context.Context, operatorID, graphID string, g graph.Graph) error {
	if err := checkIDs(operatorID, graphID); err != nil {
		return err
	}
	path := s.path(operatorID, graphID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := graph.WriteGraphFile(tmp, g); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes the stored graph. Deleting a missing graph is a no-op.
func (s *FileStore) Delete(ctx context.Context, operatorID, graphID string) error {
	if err := checkIDs(operatorID, graphID); err != nil {
		return err
	}
	err := os.Remove(s.path(operatorID, graphID))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// List returns the operator's graph IDs in sorted order. An operator with no
// saved graphs yields an empty list.
func (s *FileStore) List(ctx context.Context, operatorID string) ([]string, error) {
	if err := checkIDs(operatorID); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.root, operatorID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

func (s *FileStore) path(operatorID, graphID string) string {
	return filepath.Join(s.root, operatorID, graphID+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
