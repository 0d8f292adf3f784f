package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shelfwise/planogram/pkg/buildinfo"
)

// configFlag is the --config value, read by commands via loadConfig.
var configFlag string

// Execute runs the planogram CLI and returns an error if any command
// fails. This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands, configures
// logging based on the --verbose flag, and executes the command tree.
// The logger is attached to the context and accessible to all commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "planogram",
		Short:        "Planogram is a retail shelf layout engine",
		Long:         `Planogram projects shelf layout configurations into validated, z-ordered render instances. It renders fixtures to SVG, checks placements for collisions and bounds, suggests free positions, and serves the layout engine over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ~/.config/planogram/config.toml)")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newSuggestCmd())
	root.AddCommand(newEditCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
