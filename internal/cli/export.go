package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mistaa/flowstudio/pkg/canvas"
	flowerrors "github.com/mistaa/flowstudio/pkg/errors"
	"github.com/mistaa/flowstudio/pkg/graph"
)

// exportCommand creates the export command for writing graphs as files.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format     string
		output     string
		pixelRatio float64
		dark       bool
	)

	cmd := &cobra.Command{
		Use:   "export <graph-id>",
		Short: "Write a graph as JSON, SVG, DOT, or PNG",
		Long: `Write a graph as JSON, SVG, DOT, or PNG.

JSON emits the canonical wire format, suitable for backup or for loading
into another backend. SVG renders the canvas exactly as the editor shows
it. DOT emits a Graphviz description and PNG rasterizes it.

The default output path is <graph-id>.<format> in the current directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flowerrors.ValidateExportFormat(format); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args[0], format, output, pixelRatio, dark)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, svg, dot, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <graph-id>.<format>)")
	cmd.Flags().Float64Var(&pixelRatio, "pixel-ratio", 0, "SVG resolution multiplier (default from config)")
	cmd.Flags().BoolVar(&dark, "dark", false, "render SVG on a dark background")

	return cmd
}

// runExport loads the graph and writes it in the requested format.
func (c *CLI) runExport(ctx context.Context, graphID, format, output string, pixelRatio float64, dark bool) error {
	if err := flowerrors.ValidateID(graphID); err != nil {
		return err
	}
	operator, err := c.resolveOperator(ctx)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	st, err := c.newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close(context.Background())

	if pixelRatio <= 0 {
		pixelRatio = cfg.Editor.PixelRatio
	}
	if !dark {
		dark = cfg.Editor.Dark
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Exporting %s...", graphID))
	spinner.Start()
	wire, err := st.Load(ctx, operator, graphID)
	if err != nil {
		spinner.StopWithError("Export failed")
		return fmt.Errorf("load graph %s: %w", graphID, err)
	}

	var artifact []byte
	switch format {
	case "json":
		artifact, err = graph.MarshalGraph(wire)
	default:
		g, convErr := graph.ToFlow(wire)
		if convErr != nil {
			spinner.StopWithError("Export failed")
			return fmt.Errorf("graph %s is not renderable: %w", graphID, convErr)
		}
		switch format {
		case "svg":
			engine := canvas.NewEngine(g)
			width, height := canvas.FrameBounds(g)
			opts := []canvas.SVGOption{canvas.WithPixelRatio(pixelRatio)}
			if dark {
				opts = append(opts, canvas.WithDarkBackground())
			}
			artifact = canvas.RenderSVG(engine.BuildFrame(width, height), opts...)
		case "dot":
			artifact = []byte(canvas.ToDOT(g))
		case "png":
			artifact, err = canvas.RenderDOTPNG(ctx, canvas.ToDOT(g))
		}
	}
	if err != nil {
		spinner.StopWithError("Export failed")
		return fmt.Errorf("render %s: %w", format, err)
	}

	if output == "" {
		output = graphID + "." + format
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			spinner.StopWithError("Export failed")
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(output, artifact, 0o644); err != nil {
		spinner.StopWithError("Export failed")
		return fmt.Errorf("write %s: %w", output, err)
	}

	spinner.StopWithSuccess(fmt.Sprintf("Exported %s", graphID))
	printFile(output)
	return nil
}
