package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/quarry/internal/app"
	"go.trai.ch/quarry/internal/core/domain"
)

func (c *CLI) newVersionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List published or installed game versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, _ := cmd.Flags().GetString("type")
			installed, _ := cmd.Flags().GetBool("installed")

			versions, err := c.app.Versions(cmd.Context(), app.VersionsOptions{
				Kind:      domain.VersionKind(kind),
				Installed: installed,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(versions) == 0 {
				_, _ = fmt.Fprintln(out, "No versions found.")
				return nil
			}
			for _, v := range versions {
				_, _ = fmt.Fprintf(out, "%-32s %s\n", v.ID, v.Kind)
			}
			return nil
		},
	}
	cmd.Flags().StringP("type", "t", "", "Only list versions of this type (release, snapshot, old_beta, old_alpha, modpack)")
	cmd.Flags().Bool("installed", false, "List versions present in the local cache")
	return cmd
}
