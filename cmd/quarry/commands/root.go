// Package commands implements the CLI commands for the quarry launcher.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/quarry/internal/app"
	"go.trai.ch/quarry/internal/build"
	"go.trai.ch/quarry/internal/core/domain"
)

// CLI represents the command line interface for quarry.
type CLI struct {
	app     Application
	logger  jsonLogger
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Launch(ctx context.Context, version string, opts app.LaunchOptions) error
	Versions(ctx context.Context, opts app.VersionsOptions) ([]domain.VersionDescriptor, error)
	Install(ctx context.Context, archivePath string, opts app.InstallOptions) (domain.VersionDescriptor, error)
	Modpacks(ctx context.Context) ([]domain.RemoteModpack, error)
	InstallModpack(ctx context.Context, id string, opts app.InstallOptions) (domain.VersionDescriptor, error)
	Instances() ([]domain.Instance, error)
	RenameInstance(id, name string) error
	DeleteInstance(id string) error
	Login(username string) (domain.Session, error)
	Logout() error
	Session() (domain.Session, bool)
	Settings() domain.Settings
	SetSetting(key, value string) error
}

// jsonLogger is a logger that can switch to JSON output.
type jsonLogger interface {
	SetJSON(enable bool)
}

// Option configures a CLI.
type Option func(*CLI)

// WithLogger lets --json-log switch l to JSON output.
func WithLogger(l any) Option {
	return func(c *CLI) {
		if jl, ok := l.(jsonLogger); ok {
			c.logger = jl
		}
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "quarry",
		Short:         "A command line launcher for Minecraft and modpacks",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("json-log", false, "Write log messages as JSON")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	for _, opt := range opts {
		opt(c)
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if jsonLog, _ := cmd.Flags().GetBool("json-log"); jsonLog && c.logger != nil {
			c.logger.SetJSON(true)
		}
	}

	rootCmd.AddCommand(c.newLaunchCmd())
	rootCmd.AddCommand(c.newVersionsCmd())
	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newModpacksCmd())
	rootCmd.AddCommand(c.newInstancesCmd())
	rootCmd.AddCommand(c.newLoginCmd())
	rootCmd.AddCommand(c.newLogoutCmd())
	rootCmd.AddCommand(c.newWhoamiCmd())
	rootCmd.AddCommand(c.newSettingsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// addOutputFlags registers the rendering flags shared by pipeline commands.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
}

func outputMode(cmd *cobra.Command) string {
	// If --ci is set, override output-mode to "linear"
	if ci, _ := cmd.Flags().GetBool("ci"); ci {
		return "linear"
	}
	mode, _ := cmd.Flags().GetString("output-mode")
	return mode
}
