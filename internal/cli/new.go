package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/note"
	"github.com/aidanlsb/quill/internal/notes"
	"github.com/aidanlsb/quill/internal/ui"
)

var (
	newTitle string
	newTags  []string
	newBody  string
)

var newCmd = &cobra.Command{
	Use:   "new [body]",
	Short: "Create a note pointing at a body document",
	Long: `Creates a note with a fresh random id.

The body must exist and is stored as a canonical absolute path. When --title
is omitted and the body is a markdown file, its top heading is used.

Examples:
  quill new --title "Weekly plan" --tags work,planning ~/docs/plan.md
  quill new -b ~/docs/ideas.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := newBody
		if len(args) == 1 {
			body = args[0]
		}
		if strings.TrimSpace(body) == "" {
			return handleErrorMsg(ErrMissingArgument, "a body path is required", "Pass it as an argument or with --body")
		}

		res, err := newService().New(notes.NewInput{
			Title: newTitle,
			Tags:  note.ParseTags(newTags),
			Body:  body,
		})
		if err != nil {
			return handleOperationError(err)
		}

		if isJSONOutput() {
			outputSuccess(res, nil)
			return nil
		}
		fmt.Println(ui.Successf("Created note %s %s", ui.Accent.Render(res.Note.ID.String()), ui.Count(res.Total, "note", "notes")))
		return nil
	},
}

func init() {
	newCmd.Flags().StringVarP(&newTitle, "title", "t", "", "Note title (defaults to the body's top heading)")
	newCmd.Flags().StringArrayVarP(&newTags, "tags", "g", nil, "Comma-separated tags (repeatable)")
	newCmd.Flags().StringVarP(&newBody, "body", "b", "", "Path of the body document")
	rootCmd.AddCommand(newCmd)
}
