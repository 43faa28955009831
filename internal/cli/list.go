package cli

import (
	"github.com/spf13/cobra"

	"github.com/prasong/village-guard/internal/client"
)

func newListCmd() *cobra.Command {
	var (
		filter string
		search string
		reload bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visitor records",
		Long:  "List visitor records from the server. The out bucket is limited to today unless a search term is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(filter, search, reload)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "all", "status bucket (in|out|all)")
	cmd.Flags().StringVar(&search, "search", "", "search by name, plate, or house number")
	cmd.Flags().BoolVar(&reload, "reload", false, "re-fetch from the record store first")

	return cmd
}

func runList(filter, search string, reload bool) error {
	c := newAPIClient()

	visitors, err := c.ListVisitors(client.ListOptions{
		Filter: filter,
		Query:  search,
		Reload: reload,
	})
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(visitors)
	}

	return printVisitorTable(visitors)
}
