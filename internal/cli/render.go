package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shelfwise/planogram/pkg/io"
	"github.com/shelfwise/planogram/pkg/metadata"
	"github.com/shelfwise/planogram/pkg/placement"
	"github.com/shelfwise/planogram/pkg/processor"
	"github.com/shelfwise/planogram/pkg/render"
)

const (
	defaultWidth  = 800 // default SVG viewport width
	defaultHeight = 600 // default SVG viewport height
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output string  // output file path
	format string  // output format: "svg" or "json"
	width  float64 // viewport width in pixels
	height float64 // viewport height in pixels
	labels bool    // draw SKU labels on front-row instances
}

// newRenderCmd creates the render command, which projects a planogram
// configuration file into render instances and writes SVG or JSON.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{
		format: "svg",
		width:  defaultWidth,
		height: defaultHeight,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a planogram configuration to SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "svg" && opts.format != "json" {
				return fmt.Errorf("invalid format: %s (must be 'svg' or 'json')", opts.format)
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default derived from input)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), json")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "frame width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "frame height")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "draw SKU labels on front-row facings")

	return cmd
}

// runRender loads the configuration, resolves metadata through the
// configured provider chain, projects it, and writes the output.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	cfg, err := io.ImportConfig(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded planogram: %d products, %d shelves", len(cfg.Products), len(cfg.Fixture.Shelves))

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

	prog := newProgress(logger)
	proc := processor.New(placement.NewRegistry(), logger)
	result, err := proc.Process(cfg, meta)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Projected %d instances", len(result.Instances)))

	for _, issue := range result.Meta.Errors {
		printWarning("%s", issue.String())
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.format
	}

	switch opts.format {
	case "json":
		out, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := io.WriteJSON(out, result); err != nil {
			return err
		}
	case "svg":
		svgOpts := []render.SVGOption{
			render.WithSize(opts.width, opts.height),
			render.WithTitle(cfg.Name),
		}
		if opts.labels {
			svgOpts = append(svgOpts, render.WithLabels())
		}
		data := render.RenderSVG(cfg.Fixture, result.Instances, svgOpts...)
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return err
		}
	}

	printSuccess("Generated %s", outputPath)
	printStats(len(cfg.Products), len(result.Instances), len(result.Meta.Errors))
	return nil
}
