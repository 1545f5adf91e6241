package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

func (c *CLI) newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change launcher settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(c.app.Settings())
			if err != nil {
				return zerr.Wrap(err, "failed to encode settings")
			}
			_, _ = cmd.OutOrStdout().Write(data)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting and save it",
		Long: "Keys: java_path, ram, width, height, fullscreen, repo_url, auto_close.\n" +
			"The game directory is chosen with the QUARRY_GAME_DIR environment variable.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.SetSetting(args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.AddCommand(show, set)
	return cmd
}
