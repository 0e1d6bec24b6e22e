package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	flowerrors "github.com/mistaa/flowstudio/pkg/errors"
)

// editCommand creates the edit command for the interactive canvas editor.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <graph-id>",
		Short: "Open a graph in the interactive canvas editor",
		Long: `Open a graph in the interactive canvas editor.

The editor shows the graph as draggable node boxes connected by weighted
curves. Drag a node to move it; drag from a node's output port to another
node to propose a connection, then enter a positive weight to commit it.
Rejected drops show the reason; drops on empty canvas are discarded.

A graph that does not exist yet opens as an empty canvas and is created
on the first save.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0])
		},
	}

	return cmd
}

// runEdit resolves the backend and runs the editor program until quit.
func (c *CLI) runEdit(ctx context.Context, graphID string) error {
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

	model := NewEditorModel(ctx, st, operator, graphID)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if m, ok := final.(EditorModel); ok && m.SaveErr != nil {
		return fmt.Errorf("save graph %s: %w", graphID, m.SaveErr)
	}
	printSuccess("Closed editor for %s", StyleHighlight.Render(graphID))
	return nil
}
