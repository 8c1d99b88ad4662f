// Package cli implements the depends command-line interface.
package cli

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depends/pkg/analyze"
	"github.com/matzehuels/depends/pkg/cache"
	deperrors "github.com/matzehuels/depends/pkg/errors"
	"github.com/matzehuels/depends/pkg/graph"
	"github.com/matzehuels/depends/pkg/integrations/nuget"
	"github.com/matzehuels/depends/pkg/target"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "depends"
)

// LogInfo is the default log level, exported for use in main.go.
const LogInfo = log.InfoLevel

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	// configPath overrides the config file location (tests).
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// analysisFlags are the inputs shared by every command that builds a graph.
type analysisFlags struct {
	framework string
	pkg       string
	version   string
	noCache   bool
	refresh   bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.framework, "framework", "f", "", "target framework to analyze (e.g. net8.0)")
	cmd.Flags().StringVar(&f.pkg, "package", "", "analyze a NuGet package instead of a project")
	cmd.Flags().StringVar(&f.version, "version", "", "package version (default: latest stable)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the registry response cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "refetch registry responses even when cached")
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		flags     analysisFlags
		verbosity string
	)

	root := &cobra.Command{
		Use:   "depends [project]",
		Short: "Depends explores .NET dependency graphs in the terminal",
		Long: `Depends analyzes a solution, project, or NuGet package and opens an
interactive explorer showing, for the selected node, its runtime
assemblies, its package dependencies, and the nodes that depend on it.

When project is a directory it must contain exactly one solution, or
no solution and exactly one project.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd, verbosity)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			g, name, err := c.analyze(cmd.Context(), &flags, args)
			if err != nil {
				return err
			}
			return runExplorer(cmd.Context(), g, name)
		},
	}

	root.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "", "log verbosity: Trace, Debug, Information, Warning, Error, Critical, None")
	flags.register(root)

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration, applies the log level, and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, verbosity string) error {
	path := c.configPath
	if path == "" {
		p, err := configPath()
		if err != nil {
			c.Logger.Debug("no config path", "error", err)
		}
		path = p
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	c.Config = cfg

	if verbosity == "" {
		verbosity = cfg.Verbosity
	}
	level, err := parseVerbosity(verbosity)
	if err != nil {
		return err
	}
	c.SetLogLevel(level)
	registerHooks(c.Logger)

	c.Logger.Debug("config loaded", "path", path, "config", cfg.String())
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// analyze builds the graph selected by flags and args. A package name
// takes priority over the positional project path.
func (c *CLI) analyze(ctx context.Context, flags *analysisFlags, args []string) (*graph.Graph, string, error) {
	logger := loggerFromContext(ctx)

	framework := flags.framework
	if framework == "" {
		framework = c.Config.Framework
	}
	if err := deperrors.ValidateFramework(framework); err != nil {
		return nil, "", err
	}

	if flags.pkg == "" && flags.version != "" {
		return nil, "", deperrors.New(deperrors.ErrCodeInvalidInput, "--version requires --package")
	}

	store := c.newCache(flags.noCache)
	defer store.Close()

	source := nuget.NewClient(store, c.Config.NuGetSource, c.Config.CacheTTL.Duration)
	builder := analyze.New(source, analyze.Options{
		Refresh: flags.refresh,
		Logger:  logger.Warnf,
	})

	if flags.pkg != "" {
		prog := newProgress(logger)
		g, err := builder.AnalyzePackage(ctx, flags.pkg, flags.version, framework)
		if err != nil {
			return nil, "", err
		}
		prog.done("Analyzed package " + flags.pkg)
		return g, flags.pkg, nil
	}

	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	resolved, err := target.Resolve(path)
	if err != nil {
		return nil, "", err
	}
	logger.Debug("resolved target", "path", resolved)

	prog := newProgress(logger)
	g, err := builder.Analyze(ctx, resolved, framework)
	if err != nil {
		return nil, "", err
	}
	name := filepath.Base(resolved)
	prog.done("Analyzed " + name)
	return g, name, nil
}

// newCache opens the registry response cache. When the cache directory is
// unavailable the CLI keeps working uncached.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache || c.Config.NoCache {
		return cache.NewNullCache()
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache()
	}
	mc, err := cache.NewMemoryCache(fc, cache.DefaultMemoryEntries)
	if err != nil {
		return fc
	}
	return mc
}
