// Package cli implements the dotflow command-line interface.
//
// # Commands
//
//   - generate: turn a DSL file (or stdin, or --text) into dot, svg, png, pdf or jpg
//   - themes: list built-in and custom themes
//   - examples: render the bundled example flows
//   - cheatsheet: print the DSL reference
//   - doctor: report which renderers are available
//   - cache: inspect and clear the artifact cache
//   - serve: run the HTTP render API
//
// # Configuration
//
// Flags may also be set in `.dotflow.yaml` (searched in $HOME/.config and the
// working directory) or through DOTFLOW_* environment variables, e.g.
// DOTFLOW_THEME=dark. Flags win over environment, environment over the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/dotflow/pkg/buildinfo"
	"github.com/matzehuels/dotflow/pkg/cache"
	"github.com/matzehuels/dotflow/pkg/export"
	"github.com/matzehuels/dotflow/pkg/observability"
	"github.com/matzehuels/dotflow/pkg/pipeline"
	"github.com/matzehuels/dotflow/pkg/style"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dotflow"

	// envPrefix prefixes environment overrides (DOTFLOW_THEME, ...).
	envPrefix = "DOTFLOW"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfgFile string
	verbose bool
	v       *viper.Viper
	out     io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		v:      viper.New(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (DOT text, tables, status lines).
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "dotflow turns a tiny flow language into Graphviz diagrams",
		Long: `dotflow describes flow diagrams in a line-oriented language and emits
deterministic Graphviz DOT, optionally rendered to SVG, PNG, PDF or JPG.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				hooks := observability.LogHooks{Logger: c.Logger}
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
			}
			if err := c.initConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(contextOf(cmd), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.config/.dotflow.yaml)")
	root.PersistentFlags().String("theme", style.DefaultTheme, "color theme")
	root.PersistentFlags().String("themes-file", "", "TOML file with additional themes")
	root.PersistentFlags().String("renderer", "auto", "renderer: auto, exec or embedded")
	root.PersistentFlags().Bool("no-cache", false, "disable the artifact cache")
	root.PersistentFlags().String("redis-url", "", "share artifacts through Redis instead of the file cache")
	c.bindFlags(root.PersistentFlags())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.themesCommand())
	root.AddCommand(c.examplesCommand())
	root.AddCommand(c.cheatsheetCommand())
	root.AddCommand(c.doctorCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the current configuration.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	reg, err := c.registry()
	if err != nil {
		return nil, err
	}
	rend, err := export.ByName(c.v.GetString("renderer"), c.Logger)
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, nil, rend, c.Logger)
	r.Registry = reg
	return r, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.v.GetBool("no_cache") {
		return cache.NewNullCache(), nil
	}
	if url := c.v.GetString("redis_url"); url != "" {
		return cache.NewRedisCache(ctx, url)
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// registry returns the built-in themes plus any from --themes-file.
func (c *CLI) registry() (*style.Registry, error) {
	reg := style.Builtin()
	if path := c.v.GetString("themes_file"); path != "" {
		if err := reg.LoadThemeFile(path); err != nil {
			return nil, err
		}
		c.Logger.Debug("loaded themes", "file", path)
	}
	return reg, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/dotflow/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
