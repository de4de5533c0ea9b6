package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/ui"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every tag with the number of notes carrying it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := newService().Tags()
		if err != nil {
			return handleOperationError(err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"tags": counts}, &Meta{Count: len(counts)})
			return nil
		}

		if len(counts) == 0 {
			fmt.Println(ui.Hint("No tags."))
			return nil
		}
		width := 0
		for _, c := range counts {
			if len(c.Tag) > width {
				width = len(c.Tag)
			}
		}
		for _, c := range counts {
			fmt.Printf("%-*s  %s\n", width, c.Tag, ui.Hint(fmt.Sprintf("%d", c.Count)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
