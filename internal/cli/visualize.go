package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/chart"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
	"github.com/matzehuels/sankeyflow/pkg/render/nodelink"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr  string
		output      string
		noCache     bool
		graph       bool
		detailed    bool
		passThrough bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a computed layout",
		Long: `Render a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it to SVG, PNG, PDF or DOT. The layout contains all positioning
information, so this step is purely about drawing.

With --graph the flow network is drawn as a node-link diagram by Graphviz
instead, which helps when debugging column assignment and pass-through links.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := opts.ValidateForRender(); err != nil {
				return err
			}
			l, err := chart.ReadLayoutFile(args[0])
			if err != nil {
				return fmt.Errorf("load layout %s: %w", args[0], err)
			}
			if graph {
				return c.runVisualizeGraph(cmd.Context(), args[0], l, opts, output, nodelink.Options{
					Detailed:    detailed,
					PassThrough: passThrough,
					FormatValue: pipeline.ValueFormatter(l.Unit),
				})
			}
			return c.runVisualize(cmd.Context(), args[0], l, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.Measurer, "measurer", pipeline.DefaultMeasurer, "label text measurer: gofont, table")
	renderFlags(cmd, &opts, &formatsStr)
	cmd.Flags().BoolVar(&graph, "graph", false, "draw a Graphviz node-link diagram instead of ribbons")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show values and columns on graph nodes")
	cmd.Flags().BoolVar(&passThrough, "pass-through", false, "show pass-through nodes on the graph")

	return cmd
}

// runVisualize renders the layout's ribbons.
func (c *CLI) runVisualize(ctx context.Context, input string, l chart.Layout, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering layout...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		stats:     layoutStats(l),
		cacheHit:  cacheHit,
	})
}

// runVisualizeGraph renders the layout as a Graphviz node-link diagram.
func (c *CLI) runVisualizeGraph(ctx context.Context, input string, l chart.Layout, opts pipeline.Options, output string, gopts nodelink.Options) error {
	res, err := l.Result()
	if err != nil {
		return err
	}
	dot := nodelink.ToDOT(res, gopts)
	c.Logger.Debug("generated dot", "bytes", len(dot), "detailed", gopts.Detailed)

	spinner := newSpinnerWithContext(ctx, "Running Graphviz...")
	spinner.Start()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case pipeline.FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case pipeline.FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case pipeline.FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case pipeline.FormatDOT:
			data = []byte(dot)
		default:
			err = fmt.Errorf("format %s is not supported with --graph", format)
		}
		if err != nil {
			spinner.StopWithError("Graph rendering failed")
			return err
		}
		artifacts[format] = data
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		stats:     layoutStats(l),
	})
}

func layoutStats(l chart.Layout) pipeline.Stats {
	return pipeline.Stats{
		NodeCount: len(l.Nodes),
		LinkCount: len(l.Links),
		Columns:   pipeline.Columns(l),
	}
}
