// Package commands provides the CLI commands for gh-mcp.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/opencode-ai/gh-mcp/internal/catalog"
	"github.com/opencode-ai/gh-mcp/internal/config"
	"github.com/opencode-ai/gh-mcp/internal/event"
	"github.com/opencode-ai/gh-mcp/internal/logging"
	"github.com/opencode-ai/gh-mcp/internal/process"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// ErrSilent signals a failure that has already been reported to the user.
var ErrSilent = errors.New("silent failure")

// Global flags
var (
	printLogs  bool
	logLevel   string
	configPath string
	workDir    string
	program    string
	timeout    time.Duration
)

type settingsKey struct{}

// settingsFrom returns the settings the pre-run hook resolved into ctx.
func settingsFrom(ctx context.Context) config.Settings {
	s, _ := ctx.Value(settingsKey{}).(config.Settings)
	return s.Normalize()
}

var rootCmd = &cobra.Command{
	Use:   "gh-mcp",
	Short: "gh-mcp - GitHub operations for agents, backed by the gh CLI",
	Long: `gh-mcp exposes GitHub issues, pull requests, releases, workflows,
branches and repository metadata as MCP tools. Every tool runs the
already-authenticated gh command-line tool and passes its output through.

Run 'gh-mcp serve' to start an MCP server on stdio, or
'gh-mcp serve --transport http' to serve streamable HTTP.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print logs to stderr instead of the log file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (overrides "+config.EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&workDir, "directory", "", "Project directory for .gh-mcp config files (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&program, "program", "", "Path to the gh binary")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-command timeout")

	rootCmd.SetVersionTemplate(fmt.Sprintf("gh-mcp %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	defer logging.Close()
	return rootCmd.Execute()
}

// setup loads .env, configures logging and resolves settings.
func setup(cmd *cobra.Command, args []string) error {
	initLogging()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Err(err).Msg("failed to load .env")
	}

	dir, err := GetWorkDir(workDir)
	if err != nil {
		return err
	}
	s, err := config.Load(afero.NewOsFs(), dir, configPath)
	if err != nil {
		return err
	}
	if program != "" {
		s.Program = program
	}
	if timeout > 0 {
		s.Timeout = timeout
	}

	logging.Debug().
		Str("program", s.Program).
		Dur("timeout", s.Timeout).
		Str("default_branch", s.DefaultBranch).
		Msg("settings loaded")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, settingsKey{}, s))
	return nil
}

func initLogging() {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(logLevel)
	if printLogs {
		cfg.Pretty = true
	} else {
		cfg.Output = io.Discard
		cfg.LogToFile = true
		cfg.LogDir = config.GetPaths().LogDir()
	}
	logging.Init(cfg)
}

// newCatalog builds the catalog over a process executor wired to bus.
func newCatalog(s config.Settings, bus *event.Bus) *catalog.Catalog {
	opts := []process.Option{
		process.WithTimeout(s.Timeout),
		process.WithDrainGrace(s.DrainGrace),
		process.WithLogger(logging.Component("executor")),
	}
	if bus != nil {
		opts = append(opts, process.WithBus(bus))
	}
	exe := process.NewExecutor(s.Program, opts...)
	return catalog.New(s, exe, catalog.WithLogger(logging.Component("catalog")))
}

// GetWorkDir returns the working directory from flag or current directory.
func GetWorkDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}
