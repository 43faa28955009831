package cli

import (
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show visitor details",
		Long:  "Show full details for a single visitor record.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	c := newAPIClient()

	v, err := c.GetVisitor(args[0])
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(v)
	}

	printVisitorSummary(v)
	return nil
}
