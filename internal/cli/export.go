package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	deperrors "github.com/matzehuels/depends/pkg/errors"
	"github.com/matzehuels/depends/pkg/graph"
	"github.com/matzehuels/depends/pkg/render/nodelink"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// exportOptions holds flags for the export command.
type exportOptions struct {
	analysisFlags
	format         string
	output         string
	hideAssemblies bool
	detailed       bool
}

// exportCommand creates the export command for writing the analyzed graph.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOptions{}

	cmd := &cobra.Command{
		Use:   "export [project]",
		Short: "Write the dependency graph as JSON, DOT, or SVG",
		Long: `Analyze a solution, project, or NuGet package and write the graph
instead of opening the explorer.

JSON output can be reopened later with "depends graph.json".`,
		Example: `  depends export --format svg -o deps.svg
  depends export App.sln --format dot --hide-assemblies
  depends export --package Serilog --version 3.1.1 -o serilog.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			g, name, err := c.analyze(cmd.Context(), &opts.analysisFlags, args)
			if err != nil {
				return err
			}
			return c.runExport(cmd.Context(), g, name, opts, cmd.OutOrStdout())
		},
	}

	opts.analysisFlags.register(cmd)
	cmd.Flags().StringVar(&opts.format, "format", FormatJSON, "output format: json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.hideAssemblies, "hide-assemblies", false, "drop assembly nodes")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show versions in DOT/SVG labels")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, g *graph.Graph, name string, opts exportOptions, stdout io.Writer) error {
	if opts.hideAssemblies {
		g = g.Filter(func(n graph.Node) bool { return !n.IsAssembly() })
	}

	data, err := encodeGraph(ctx, g, opts.format, nodelink.Options{Detailed: opts.detailed})
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	printSuccess("Exported %s", name)
	printStats(g.NodeCount(), g.EdgeCount(), g.CountKind(graph.KindAssembly))
	printFile(opts.output)
	return nil
}

func validateFormat(format string) error {
	switch format {
	case FormatJSON, FormatDOT, FormatSVG:
		return nil
	}
	return deperrors.New(deperrors.ErrCodeInvalidInput, "unsupported format %q (want json, dot, or svg)", format)
}

// encodeGraph serializes g in the requested format.
func encodeGraph(ctx context.Context, g *graph.Graph, format string, opts nodelink.Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := graph.WriteJSON(g, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(g, opts)), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(g, opts))
	}
	return nil, validateFormat(format)
}
