package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/prasong/village-guard/internal/auth"
)

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
		Long:  "Create, list, and revoke API keys in the local server database. Run on the machine hosting the server.",
	}

	cmd.AddCommand(
		newKeysCreateCmd(),
		newKeysListCmd(),
		newKeysRevokeCmd(),
	)

	return cmd
}

func newKeysCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			raw, key, err := auth.NewAPIKeyStore(database).Create(args[0])
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(map[string]interface{}{"id": key.ID, "name": key.Name, "key": raw})
			}

			fmt.Printf("Created key #%d (%s)\n", key.ID, key.Name)
			fmt.Printf("\n  %s\n\n", raw)
			fmt.Println("Store it now; the key is not shown again.")
			return nil
		},
	}
}

func newKeysListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			keys, err := auth.NewAPIKeyStore(database).List()
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(keys)
			}

			if len(keys) == 0 {
				fmt.Println("No API keys.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			if _, err := fmt.Fprintln(w, "ID\tNAME\tPREFIX\tCREATED\tLAST USED"); err != nil {
				return err
			}
			for _, k := range keys {
				lastUsed := "never"
				if k.LastUsedAt != nil {
					lastUsed = k.LastUsedAt.Format("2006-01-02 15:04")
				}
				if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					k.ID, k.Name, k.KeyPrefix, k.CreatedAt.Format("2006-01-02"), lastUsed); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}
}

func newKeysRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid key ID: %s", args[0])
			}

			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			if err := auth.NewAPIKeyStore(database).Delete(id); err != nil {
				return err
			}

			fmt.Printf("Revoked key #%d\n", id)
			return nil
		},
	}
}
