package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shelfwise/planogram/pkg/authority"
	"github.com/shelfwise/planogram/pkg/io"
	"github.com/shelfwise/planogram/pkg/metadata"
	"github.com/shelfwise/planogram/pkg/placement"
	"github.com/shelfwise/planogram/pkg/processor"
	"github.com/shelfwise/planogram/pkg/snapshot"
)

// newValidateCmd creates the validate command, which projects a
// configuration and reports every placement issue found.
func newValidateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a planogram for collisions, bounds, and missing metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the validation result as JSON")
	return cmd
}

func runValidate(ctx context.Context, input string, asJSON bool) error {
	logger := loggerFromContext(ctx)

	cfg, err := io.ImportConfig(input)
	if err != nil {
		return err
	}

	appCfg, err := loadConfig(configFlag)
	if err != nil {
		return err
	}
	provider, c, err := buildProvider(ctx, appCfg)
	if err != nil {
		return err
	}
	defer c.Close()

	spinner := newSpinner(ctx, "Resolving product metadata...")
	spinner.Start()
	meta, err := metadata.Resolve(ctx, provider, cfg)
	if err != nil {
		spinner.StopWithError("Metadata resolution failed")
		return err
	}
	spinner.Stop()

	projector := snapshot.NewProjector(
		processor.New(placement.NewRegistry(), logger),
		authority.NewChecker(),
	)
	snap, err := projector.Project(cfg, meta, snapshot.SessionInfo{})
	if err != nil {
		return err
	}

	if asJSON {
		return io.WriteJSON(os.Stdout, snap.Validation)
	}

	for _, issue := range snap.Validation.Warnings {
		printWarning("%s", issue.String())
	}
	for _, issue := range snap.Validation.Errors {
		printError("%s", issue.String())
	}

	if !snap.Validation.Valid() {
		printStats(len(cfg.Products), len(snap.Instances), len(snap.Validation.Errors))
		return fmt.Errorf("%d placement errors", len(snap.Validation.Errors))
	}
	printSuccess("Planogram is valid")
	printStats(len(cfg.Products), len(snap.Instances), len(snap.Validation.Warnings))
	return nil
}
