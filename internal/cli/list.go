package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/note"
	"github.com/aidanlsb/quill/internal/parser"
	"github.com/aidanlsb/quill/internal/ui"
)

var (
	listQuery queryFlags
	listLines int

	openQuery queryFlags
	openLines int

	showQuery queryFlags
	showLines int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List notes matching a query",
	Long: `Lists notes in ascending id order.

Filters combine with AND; repeated --body and --id values are alternatives,
repeated --tags values must all be present.

Examples:
  quill list
  quill list --title '^Week' --tags work
  quill list --id 1F3A --id 77B0 -n 50`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newService().List(listQuery.query(), defaultLimit(cmd, listLines))
		if err != nil {
			return handleOperationError(err)
		}

		if isJSONOutput() {
			outputSuccess(res, &Meta{Count: len(res.Notes)})
			return nil
		}
		printNotes(res.Notes, res.Remaining, "listed")
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "List notes matching a query and open their bodies",
	Long: `Lists notes like 'quill list' and opens each listed body with the
configured opener, or the system handler when none is configured.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newService().Open(openQuery.query(), defaultLimit(cmd, openLines))
		if err != nil {
			return handleOperationError(err)
		}

		if isJSONOutput() {
			outputSuccess(res, &Meta{Count: len(res.Notes)})
			return nil
		}

		listed := make([]note.Note, 0, len(res.Notes))
		for _, n := range res.Notes {
			listed = append(listed, n.Note)
		}
		printNotes(listed, res.Remaining, "opened")
		for _, n := range res.Notes {
			if !n.Opened {
				fmt.Fprintln(os.Stderr, ui.Warningf("could not open %s: %s", n.Body, n.Error))
			}
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the bodies of notes matching a query",
	Long: `Prints each matching note followed by its body. Markdown bodies are
rendered for the terminal unless --json is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newService().Show(showQuery.query(), defaultLimit(cmd, showLines))
		if err != nil {
			return handleOperationError(err)
		}

		if isJSONOutput() {
			outputSuccess(res, &Meta{Count: len(res.Notes)})
			return nil
		}

		display := ui.NewDisplayContext()
		for i, n := range res.Notes {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s %s\n", ui.AccentBold.Render(n.ID.String()), ui.Header(n.Title))
			if len(n.Tags) > 0 {
				fmt.Println(ui.Hint(note.JoinTags(n.Tags)))
			}
			fmt.Println(ui.FilePath(n.Body))
			if n.Error != "" {
				fmt.Println(ui.Warningf("could not read body: %s", n.Error))
				continue
			}
			fmt.Print(renderBody(n.Body, n.Content, display))
		}
		if res.Remaining > 0 {
			fmt.Println(ui.Remaining(res.Remaining))
		}
		return nil
	},
}

// renderBody renders markdown bodies for the terminal and prints anything
// else verbatim.
func renderBody(path, content string, display *ui.DisplayContext) string {
	if parser.IsMarkdown(path) && display.IsTTY {
		rendered, err := ui.RenderMarkdown(content, display.AvailableWidth(ui.MarkdownRenderMargin))
		if err == nil {
			return rendered
		}
		getLogger().Debug("markdown rendering failed", "path", path, "error", err)
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content
}

// printNotes prints the notes table and, when the limit cut the listing
// short, how many matches were left out.
func printNotes(shown []note.Note, remaining int, verb string) {
	if len(shown) == 0 && remaining == 0 {
		fmt.Println(ui.Hint("No matching notes."))
		return
	}

	tbl := ui.NewNotesTable(ui.NewDisplayContext())
	tbl.Add(shown...)
	fmt.Println(tbl.Render())

	if remaining > 0 {
		fmt.Println(ui.Hint(fmt.Sprintf("There are %d matching notes not %s.", remaining, verb)))
	}
}

func init() {
	listQuery.register(listCmd.Flags())
	listCmd.Flags().IntVarP(&listLines, "lines", "n", 10, "Maximum number of notes to list")
	rootCmd.AddCommand(listCmd)

	openQuery.register(openCmd.Flags())
	openCmd.Flags().IntVarP(&openLines, "lines", "n", 10, "Maximum number of notes to open")
	rootCmd.AddCommand(openCmd)

	showQuery.register(showCmd.Flags())
	showCmd.Flags().IntVarP(&showLines, "lines", "n", 10, "Maximum number of notes to show")
	rootCmd.AddCommand(showCmd)
}
