// Package cli defines the cobra command tree for the guard station.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prasong/village-guard/internal/client"
	"github.com/prasong/village-guard/internal/db"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vg",
		Short:         "Visitor register for the village guard station",
		Long:          "Record visitor arrivals and departures at the gate, browse who is inside, and run the guard-station API server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.config/vg/guard.db)")

	root.AddCommand(
		newCheckinCmd(),
		newCheckoutCmd(),
		newRestoreCmd(),
		newUpdateCmd(),
		newListCmd(),
		newShowCmd(),
		newHousesCmd(),
		newStatsCmd(),
		newScanCmd(),
		newKeysCmd(),
		newThemeCmd(),
		newServeCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag or default path.
// Used by the serve and keys commands.
func openDB() (*sql.DB, error) {
	path := flagDB
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// newAPIClient creates an HTTP client for the guard-station API.
func newAPIClient() *client.Client {
	return client.New(getServerURL(), getAPIKey())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
