package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mistaa/flowstudio/pkg/graph"
)

// graphsCommand creates the graphs command for listing stored graphs.
func (c *CLI) graphsCommand() *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "graphs",
		Short: "List the operator's stored graphs",
		Long: `List the operator's stored graphs.

With --detailed, each graph is loaded and its node and edge counts are
shown alongside the ID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraphs(cmd.Context(), detailed)
		},
	}

	cmd.Flags().BoolVar(&detailed, "detailed", false, "show node and edge counts per graph")

	return cmd
}

// runGraphs lists graph IDs for the resolved operator.
func (c *CLI) runGraphs(ctx context.Context, detailed bool) error {
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

	spinner := newSpinner(ctx, "Listing graphs...")
	spinner.Start()
	ids, err := st.List(ctx, operator)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("list graphs: %w", err)
	}

	if len(ids) == 0 {
		printInfo("No graphs stored for %s", StyleHighlight.Render(operator))
		printNextStep("Create one", fmt.Sprintf("flowstudio edit <graph-id> --operator %s", operator))
		return nil
	}

	fmt.Println(StyleTitle.Render(fmt.Sprintf("Graphs for %s", operator)))
	for _, id := range ids {
		fmt.Println("  " + StyleValue.Render(id))
		if !detailed {
			continue
		}
		wire, err := st.Load(ctx, operator, id)
		if err != nil {
			fmt.Println("  " + StyleError.Render("  (unreadable: "+err.Error()+")"))
			continue
		}
		g, err := graph.ToFlow(wire)
		if err != nil {
			fmt.Println("  " + StyleError.Render("  (invalid: "+err.Error()+")"))
			continue
		}
		printStats(g.NodeCount(), g.EdgeCount())
	}
	return nil
}
