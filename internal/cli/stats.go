package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var hourly bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show daily traffic counts",
		Long:  "Show today's visitor counts, or an hourly arrival histogram with --hourly.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(hourly)
		},
	}

	cmd.Flags().BoolVar(&hourly, "hourly", false, "show today's arrivals bucketed by hour")

	return cmd
}

func runStats(hourly bool) error {
	c := newAPIClient()

	if hourly {
		slots, err := c.Hourly()
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(slots)
		}
		printHourly(slots)
		return nil
	}

	stats, err := c.Stats()
	if err != nil {
		return err
	}
	if isJSON() {
		return printJSON(stats)
	}
	printStats(stats)
	return nil
}
