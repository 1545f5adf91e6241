package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/quarry/internal/core/domain"
)

func (c *CLI) newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Log in offline with a username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.app.Login(args[0])
			if err != nil {
				return err
			}
			printSession(cmd, s)
			return nil
		},
	}
}

func (c *CLI) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Logout(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func (c *CLI) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			s, ok := c.app.Session()
			if !ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return
			}
			printSession(cmd, s)
		},
	}
}

func printSession(cmd *cobra.Command, s domain.Session) {
	mode := "online"
	if s.Offline {
		mode = "offline"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s, uuid %s)\n", s.Username, mode, s.UUID)
}
