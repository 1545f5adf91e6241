package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/quarry/internal/app"
	"go.trai.ch/quarry/internal/core/domain"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <archive>",
		Short: "Install a modpack archive from disk",
		Long: "Install unpacks a Modrinth, CurseForge, MultiMC or Technic modpack archive into the cache.\n" +
			"The instance id is the archive file name without its extension.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")

			d, err := c.app.Install(cmd.Context(), args[0], app.InstallOptions{
				Name:       name,
				OutputMode: outputMode(cmd),
			})
			if err != nil {
				return err
			}
			printInstalled(cmd, d)
			return nil
		},
	}
	cmd.Flags().String("name", "", "Display name of the installed instance")
	addOutputFlags(cmd)
	return cmd
}

func (c *CLI) newModpacksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modpacks",
		Short: "Browse and install modpacks from the remote catalog",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the modpacks of the remote catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			packs, err := c.app.Modpacks(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(packs) == 0 {
				_, _ = fmt.Fprintln(out, "The catalog is empty.")
				return nil
			}
			for _, p := range packs {
				_, _ = fmt.Fprintf(out, "%-24s %-32s %s\n", p.ID, p.Name, p.Version)
			}
			return nil
		},
	}

	install := &cobra.Command{
		Use:   "install <id>",
		Short: "Download and install a catalog modpack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")

			d, err := c.app.InstallModpack(cmd.Context(), args[0], app.InstallOptions{
				Name:       name,
				OutputMode: outputMode(cmd),
			})
			if err != nil {
				return err
			}
			printInstalled(cmd, d)
			return nil
		},
	}
	install.Flags().String("name", "", "Display name of the installed instance (defaults to the catalog name)")
	addOutputFlags(install)

	cmd.AddCommand(list, install)
	return cmd
}

func printInstalled(cmd *cobra.Command, d domain.VersionDescriptor) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Installed %s. Start it with: quarry launch %s\n", d.ID, d.ID)
}
