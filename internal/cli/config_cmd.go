package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/config"
	"github.com/aidanlsb/quill/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the quill config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"config_path": resolvedConfigPath}, nil)
			return nil
		}
		fmt.Println(resolvedConfigPath)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file if none exists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := config.CreateDefault(resolvedConfigPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": resolvedConfigPath,
				"created":     created,
			}, nil)
			return nil
		}
		if created {
			fmt.Println(ui.Successf("Created %s", ui.FilePath(resolvedConfigPath)))
		} else {
			fmt.Println(ui.Infof("Config already exists at %s", ui.FilePath(resolvedConfigPath)))
		}
		return nil
	},
}

func configData(c *config.Config, exists bool) map[string]interface{} {
	cachePath, err := config.ResolveCachePath(cachePathFlag, c)
	if err != nil {
		cachePath = ""
	}
	return map[string]interface{}{
		"config_path":   resolvedConfigPath,
		"exists":        exists,
		"cache":         cachePath,
		"opener":        c.Opener,
		"lines":         c.Lines,
		"log_level":     c.LogLevel,
		"export_format": c.ExportFormat,
		"ui": map[string]interface{}{
			"accent": c.UI.Accent,
		},
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	c := getConfig()
	_, statErr := os.Stat(resolvedConfigPath)
	data := configData(c, statErr == nil)

	if isJSONOutput() {
		outputSuccess(data, nil)
		return nil
	}

	if statErr != nil {
		fmt.Printf("Config file does not exist: %s\n", resolvedConfigPath)
		fmt.Println("Run 'quill config init' to create it. Defaults in effect:")
	} else {
		fmt.Printf("config: %s\n", resolvedConfigPath)
	}
	fmt.Printf("cache: %s\n", data["cache"])
	if c.Opener != "" {
		fmt.Printf("opener: %s\n", c.Opener)
	} else {
		fmt.Println("opener: (system default)")
	}
	fmt.Printf("lines: %d\n", c.Lines)
	fmt.Printf("log_level: %s\n", c.LogLevel)
	fmt.Printf("export_format: %s\n", c.ExportFormat)
	if c.UI.Accent != "" {
		fmt.Printf("ui.accent: %s\n", c.UI.Accent)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
