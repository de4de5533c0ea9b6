// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/cache"
	"github.com/aidanlsb/quill/internal/config"
	"github.com/aidanlsb/quill/internal/notes"
	"github.com/aidanlsb/quill/internal/opener"
	"github.com/aidanlsb/quill/internal/ui"
)

var (
	// Global flags
	cachePathFlag string
	configPath    string
	logLevelFlag  string

	// Resolved values
	resolvedCachePath  string
	resolvedConfigPath string
	cfg                *config.Config
	logger             *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "quill - index notes kept anywhere on disk",
	Long: `quill keeps a small cache of notes: a title, a set of tags and the path
of a body document stored anywhere on disk. Notes can be listed, opened,
filtered, updated, dropped, exported and imported.

Queries combine --title (regex), --body (path), --id (hex) and --tags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}

		var err error
		resolvedConfigPath = config.ResolveConfigPath(configPath)
		cfg, err = config.Load(resolvedConfigPath)
		if err != nil {
			return preRunError(ErrConfigInvalid, err, "Fix the file or run 'quill config path' to locate it")
		}

		level := cfg.SlogLevel()
		if strings.TrimSpace(logLevelFlag) != "" {
			level = config.ParseLogLevel(logLevelFlag)
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		ui.ConfigureTheme(cfg.UI.Accent)

		// Config commands work without a cache location.
		if cmd == configCmd || cmd.Parent() == configCmd {
			return nil
		}

		resolvedCachePath, err = config.ResolveCachePath(cachePathFlag, cfg)
		if err != nil {
			return preRunError(ErrHomeDirNotFound, err, "Pass --cache or set "+config.EnvCache)
		}
		logger.Debug("resolved paths", slog.String("cache", resolvedCachePath), slog.String("config", resolvedConfigPath))
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if errors.Is(err, errReported) {
		return nil
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

// errReported stops a command whose failure was already written as JSON.
var errReported = errors.New("error already reported")

// preRunError is handleError for hooks that must stop the command in both
// output modes.
func preRunError(code string, err error, suggestion string) error {
	if jsonOutput {
		outputErrorFromErr(code, err, suggestion)
		return errReported
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cachePathFlag, "cache", "", "Path to the notes cache (overrides $"+config.EnvCache+" and config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (overrides $"+config.EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level on stderr: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for scripts)")
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

func getLogger() *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return logger
}

// newService wires the note service for the resolved cache.
func newService() *notes.Service {
	log := getLogger()
	return notes.NewService(
		cache.NewStore(resolvedCachePath, log),
		opener.New(getConfig().Opener),
		newPromptConfirmer(),
		log,
	)
}

// defaultLimit returns --lines when set, otherwise the configured default.
func defaultLimit(cmd *cobra.Command, flagValue int) int {
	if cmd.Flags().Changed("lines") {
		return flagValue
	}
	return getConfig().Lines
}
