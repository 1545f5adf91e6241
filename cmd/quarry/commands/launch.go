package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/quarry/internal/app"
)

func (c *CLI) newLaunchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch [version]",
		Short: "Download everything a version needs and start the game",
		Long: "Launch provisions the client, libraries, assets and Java runtime of a version, then starts the game.\n" +
			"Without a version the last launched one is used, falling back to the latest release.\n" +
			"The aliases latest-release and latest-snapshot are resolved through the version list.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var version string
			if len(args) == 1 {
				version = args[0]
			}
			username, _ := cmd.Flags().GetString("username")
			wait, _ := cmd.Flags().GetBool("wait")

			return c.app.Launch(cmd.Context(), version, app.LaunchOptions{
				Username:   username,
				Wait:       wait,
				OutputMode: outputMode(cmd),
			})
		},
	}
	cmd.Flags().StringP("username", "u", "", "Log in offline with this username before launching")
	cmd.Flags().BoolP("wait", "w", false, "Wait for the game to exit")
	addOutputFlags(cmd)
	return cmd
}
