package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/ui"
)

var (
	dropQuery queryFlags
	dropForce bool
)

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Remove notes matching a query",
	Long: `Removes every note matching the query, asking for each one unless
--force is given. Only the cache entry is removed; body documents are left
alone. Without filters every note matches.

Examples:
  quill drop --id 1F3A9C
  quill drop --tags scratch --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newService().Drop(dropQuery.query(), dropForce)
		if err != nil {
			return handleOperationError(err)
		}

		if isJSONOutput() {
			outputSuccess(res, &Meta{Count: len(res.Dropped)})
			return nil
		}

		for _, n := range res.Dropped {
			fmt.Println(ui.Successf("Dropped %s %s", ui.Accent.Render(n.ID.String()), n.Title))
		}
		switch {
		case len(res.Dropped) == 0 && res.Kept == 0:
			fmt.Println(ui.Hint("No matching notes."))
		case len(res.Dropped) == 0:
			fmt.Println(ui.Infof("Nothing dropped."))
		default:
			fmt.Println(ui.Hint(fmt.Sprintf("%d notes remain.", res.Remaining)))
		}
		return nil
	},
}

func init() {
	dropQuery.register(dropCmd.Flags())
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "Drop without asking")
	rootCmd.AddCommand(dropCmd)
}
