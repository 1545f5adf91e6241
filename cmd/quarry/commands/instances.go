package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newInstancesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instances",
		Short: "Manage installed versions and modpacks",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List installed instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			instances, err := c.app.Instances()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(instances) == 0 {
				_, _ = fmt.Fprintln(out, "No instances installed.")
				return nil
			}
			for _, in := range instances {
				_, _ = fmt.Fprintf(out, "%-32s %-32s %s\n", in.Descriptor.ID, in.DisplayName, in.Descriptor.Kind)
			}
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Set the display name of an instance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.RenameInstance(args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q.\n", args[0], args[1])
			return nil
		},
	}

	remove := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an instance, keeping shared libraries and assets",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.DeleteInstance(args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, rename, remove)
	return cmd
}
