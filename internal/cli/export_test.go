package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mistaa/flowstudio/pkg/config"
	"github.com/mistaa/flowstudio/pkg/flow"
	"github.com/mistaa/flowstudio/pkg/graph"
	"github.com/mistaa/flowstudio/pkg/store"
)

// seedExportEnv points FLOWSTUDIO_CONFIG at a file backend under a temp dir
// and stores one graph for op1/g1.
func seedExportEnv(t *testing.T) {
	t.Helper()
	dataDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	cfg := fmt.Sprintf("[storage]\nbackend = %q\ndir = %q\n", "file", dataDir)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvConfigPath, cfgPath)

	st, err := store.NewFileStore(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close(t.Context())

	g := flow.New()
	src, err := g.AddNode(flow.TypeQuestionnaire, flow.Position{X: 100, Y: 100})
	if err != nil {
		t.Fatal(err)
	}
	dst, err := g.AddNode(flow.TypeGoal, flow.Position{X: 400, Y: 200})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(src, dst, 3); err != nil {
		t.Fatal(err)
	}
	if err := st.Save(t.Context(), "op1", "g1", graph.FromFlow(g)); err != nil {
		t.Fatal(err)
	}
}

func TestRunExportFormats(t *testing.T) {
	seedExportEnv(t)

	tests := []struct {
		format string
		want   string
	}{
		{"json", `"nodes"`},
		{"svg", "<svg"},
		{"dot", "digraph flow"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			c := New(io.Discard, log.InfoLevel)
			c.operator = "op1"

			out := filepath.Join(t.TempDir(), "out."+tt.format)
			if err := c.runExport(t.Context(), "g1", tt.format, out, 0, false); err != nil {
				t.Fatal(err)
			}

			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("%s output missing %q", tt.format, tt.want)
			}
		})
	}
}

func TestRunExportJSONRoundTrips(t *testing.T) {
	seedExportEnv(t)

	c := New(io.Discard, log.InfoLevel)
	c.operator = "op1"

	out := filepath.Join(t.TempDir(), "backup.json")
	if err := c.runExport(t.Context(), "g1", "json", out, 0, false); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var wire graph.Graph
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatal(err)
	}
	if len(wire.Nodes) != 2 || len(wire.Edges) != 1 {
		t.Errorf("exported %d nodes, %d edges", len(wire.Nodes), len(wire.Edges))
	}
}

func TestRunExportUnknownGraphIsEmpty(t *testing.T) {
	seedExportEnv(t)

	c := New(io.Discard, log.InfoLevel)
	c.operator = "op1"

	out := filepath.Join(t.TempDir(), "empty.json")
	if err := c.runExport(t.Context(), "nope", "json", out, 0, false); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var wire graph.Graph
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatal(err)
	}
	if len(wire.Nodes) != 0 {
		t.Error("unknown graph should export empty")
	}
}
