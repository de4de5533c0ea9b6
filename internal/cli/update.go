package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/note"
	"github.com/aidanlsb/quill/internal/notes"
	"github.com/aidanlsb/quill/internal/ui"
)

var (
	updateTitle string
	updateTags  []string
	updateBody  string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the title, tags or body of a note",
	Long: `Replaces only the fields that are given. --tags replaces the whole tag
set; pass --tags "" to clear it.

Examples:
  quill update 1F3A9C --title "Renamed"
  quill update 1F3A9C --tags work,archive --body ~/docs/moved.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := notes.UpdateInput{ID: args[0]}
		if cmd.Flags().Changed("title") {
			in.Title = &updateTitle
		}
		if cmd.Flags().Changed("tags") {
			tags := note.ParseTags(updateTags)
			in.Tags = &tags
		}
		if cmd.Flags().Changed("body") {
			in.Body = &updateBody
		}
		if in.Title == nil && in.Tags == nil && in.Body == nil {
			return handleErrorMsg(ErrMissingArgument, "nothing to update", "Pass --title, --tags or --body")
		}

		updated, err := newService().Update(in)
		if err != nil {
			return handleOperationError(err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"note": updated}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Updated note %s", ui.Accent.Render(updated.ID.String())))
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "New title")
	updateCmd.Flags().StringArrayVarP(&updateTags, "tags", "g", nil, "New comma-separated tags (repeatable)")
	updateCmd.Flags().StringVarP(&updateBody, "body", "b", "", "New body path")
	rootCmd.AddCommand(updateCmd)
}
