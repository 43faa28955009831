package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Undo a checkout",
		Long:  "Move a departed visitor record back to IN, clearing its departure time. Used when a checkout was stamped by mistake.",
		Args:  cobra.ExactArgs(1),
		RunE:  runRestore,
	}
}

func runRestore(cmd *cobra.Command, args []string) error {
	c := newAPIClient()

	v, err := c.Restore(args[0])
	if err != nil {
		return fmt.Errorf("restoring: %w", err)
	}

	if isJSON() {
		return printJSON(v)
	}

	fmt.Println("Restored.")
	printVisitorSummary(v)
	return nil
}
