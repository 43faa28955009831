package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <id>",
		Short: "Record a visitor departure",
		Long:  "Stamp a departure time on a visitor record and mark it OUT.",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheckout,
	}
}

func runCheckout(cmd *cobra.Command, args []string) error {
	c := newAPIClient()

	v, err := c.CheckOut(args[0])
	if err != nil {
		return fmt.Errorf("checking out: %w", err)
	}

	if isJSON() {
		return printJSON(v)
	}

	fmt.Println("Checked out.")
	printVisitorSummary(v)
	return nil
}
