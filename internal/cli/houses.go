package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHousesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "houses",
		Short: "List house numbers",
		Long:  "List the house numbers known to the server, for picking at check-in.",
		Args:  cobra.NoArgs,
		RunE:  runHouses,
	}
}

func runHouses(cmd *cobra.Command, args []string) error {
	c := newAPIClient()

	houses, err := c.Houses()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(houses)
	}

	for _, h := range houses {
		fmt.Println(h)
	}
	return nil
}
