package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	flowerrors "github.com/mistaa/flowstudio/pkg/errors"
	"github.com/mistaa/flowstudio/pkg/session"
)

// loginCommand creates the login command for starting an operator session.
func (c *CLI) loginCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "login <operator-id>",
		Short: "Start a local operator session",
		Long: `Start a local operator session.

The session is stored under the user config directory and supplies the
default operator for every command, so --operator only needs to be passed
to act as someone else. Local sessions do not expire; log out to end one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLogin(cmd.Context(), args[0], name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name for the session")

	return cmd
}

// logoutCommand creates the logout command for ending the current session.
func (c *CLI) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current operator session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLogout(cmd.Context())
		},
	}
}

func (c *CLI) runLogin(ctx context.Context, operatorID, name string) error {
	if err := flowerrors.ValidateID(operatorID); err != nil {
		return err
	}

	sessions, err := session.NewCLIStore()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	sess := session.Local(operatorID)
	if name != "" {
		sess.Name = name
	}
	if err := sessions.SaveSession(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	printSuccess("Logged in as %s", StyleHighlight.Render(operatorID))
	printNextStep("List graphs", "flowstudio graphs")
	return nil
}

func (c *CLI) runLogout(ctx context.Context) error {
	sessions, err := session.NewCLIStore()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	if err := sessions.DeleteSession(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	printSuccess("Logged out")
	return nil
}
