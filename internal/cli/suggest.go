package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shelfwise/planogram/pkg/authority"
	"github.com/shelfwise/planogram/pkg/io"
	"github.com/shelfwise/planogram/pkg/metadata"
)

// suggestOpts holds the command-line flags for the suggest command.
type suggestOpts struct {
	sku     string
	shelf   int
	allowed []int
}

// newSuggestCmd creates the suggest command, which proposes a free
// position for a new product on an existing planogram.
func newSuggestCmd() *cobra.Command {
	opts := suggestOpts{shelf: -1}

	cmd := &cobra.Command{
		Use:   "suggest [file]",
		Short: "Suggest a free position for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.sku == "" {
				return fmt.Errorf("--sku is required")
			}
			return runSuggest(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.sku, "sku", "", "product SKU to place")
	cmd.Flags().IntVar(&opts.shelf, "shelf", -1, "preferred shelf index")
	cmd.Flags().IntSliceVar(&opts.allowed, "allowed", nil, "restrict candidates to these shelf indices")

	return cmd
}

func runSuggest(ctx context.Context, input string, opts *suggestOpts) error {
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

	meta, err := metadata.Resolve(ctx, provider, cfg)
	if err != nil {
		return err
	}

	req := authority.SuggestRequest{SKU: opts.sku, AllowedShelves: opts.allowed}
	if opts.shelf >= 0 {
		req.PreferredShelf = &opts.shelf
	}

	suggestion, err := authority.NewChecker().SuggestPlacement(cfg, meta, req)
	if err != nil {
		return err
	}

	shelf := suggestion.Position.Shelf
	if suggestion.Fallback {
		printWarning("No collision-free slot found; best-effort position")
	} else {
		printSuccess("Found a free slot for %s", opts.sku)
	}
	printKeyValue("shelf", fmt.Sprintf("%d", shelf.ShelfIndex))
	printKeyValue("x", fmt.Sprintf("%.1f mm", shelf.X))
	printKeyValue("depth", fmt.Sprintf("%d", shelf.Depth))
	printNextStep("Place it", fmt.Sprintf("planogram edit %s", input))
	return nil
}
