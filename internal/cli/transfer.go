package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/exchange"
	"github.com/aidanlsb/quill/internal/notes"
	"github.com/aidanlsb/quill/internal/ui"
)

var (
	exportQuery    queryFlags
	exportPath     string
	exportRelative bool
	exportFormat   string

	importPath     string
	importRelative bool
	importForce    bool
	importFormat   string
)

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write notes matching a query to a JSON, YAML or TOML file",
	Long: `Writes every note matching the query to a file, replacing it atomically.

The format comes from --format, else the file extension (.json, .yaml, .yml,
.toml), else export_format from the config. With --relative, body paths are
written relative to the export file's directory so the export can travel
with the documents.

Examples:
  quill export notes.json
  quill export --tags work --relative --path ~/sync/work-notes.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := pathArg(args, exportPath)
		if path == "" {
			return handleErrorMsg(ErrMissingArgument, "a file path is required", "Pass it as an argument or with --path")
		}

		fallback, err := exchange.ParseFormat(getConfig().ExportFormat)
		if err != nil {
			fallback = exchange.FormatJSON
		}
		res, err := newService().Export(exportQuery.query(), notes.ExportInput{
			Path:     path,
			Relative: exportRelative,
			Format:   exportFormat,
			Fallback: fallback,
		})
		if err != nil {
			return handleOperationError(err)
		}

		if isJSONOutput() {
			outputSuccess(res, &Meta{Count: res.Count})
			return nil
		}
		fmt.Println(ui.Successf("Exported %s as %s to %s", ui.Count(res.Count, "note", "notes"), res.Format, ui.FilePath(res.Path)))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Read notes from a JSON, YAML or TOML file",
	Long: `Adds the notes in a file to the cache. A note whose id already exists
replaces the existing one only after confirmation, or with --force.

With --relative, body paths are resolved against the import file's directory.
If any body cannot be resolved nothing is imported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := pathArg(args, importPath)
		if path == "" {
			return handleErrorMsg(ErrMissingArgument, "a file path is required", "Pass it as an argument or with --path")
		}

		res, err := newService().Import(notes.ImportInput{
			Path:     path,
			Relative: importRelative,
			Force:    importForce,
			Format:   importFormat,
		})
		if err != nil {
			return handleOperationError(err)
		}

		if isJSONOutput() {
			outputSuccess(res, &Meta{Count: res.Imported})
			return nil
		}
		fmt.Println(ui.Successf("Imported %s %s", ui.Count(res.Imported, "note", "notes"), ui.Hint(fmt.Sprintf("(%d unchanged, %d skipped, %d total)", res.Unchanged, res.Skipped, res.Total))))
		return nil
	},
}

// pathArg picks the positional path, falling back to --path.
func pathArg(args []string, flagValue string) string {
	path := flagValue
	if len(args) == 1 {
		path = args[0]
	}
	return strings.TrimSpace(path)
}

func init() {
	exportQuery.register(exportCmd.Flags())
	exportCmd.Flags().StringVarP(&exportPath, "path", "p", "", "Export file")
	exportCmd.Flags().BoolVarP(&exportRelative, "relative", "r", false, "Write body paths relative to the export file")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "json, yaml or toml (default: from extension)")
	rootCmd.AddCommand(exportCmd)

	importCmd.Flags().StringVarP(&importPath, "path", "p", "", "Import file")
	importCmd.Flags().BoolVarP(&importRelative, "relative", "r", false, "Resolve body paths against the import file's directory")
	importCmd.Flags().BoolVarP(&importForce, "force", "f", false, "Overwrite existing notes without asking")
	importCmd.Flags().StringVar(&importFormat, "format", "", "json, yaml or toml (default: from extension)")
	rootCmd.AddCommand(importCmd)
}
