package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUpdateCmd() *cobra.Command {
	var (
		house   string
		name    string
		idNum   string
		plate   string
		purpose string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a visitor record",
		Long:  "Fetch a visitor record, apply the given field changes, and push the edit through the server.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]string{}
			if cmd.Flags().Changed("house") {
				changed["house"] = house
			}
			if cmd.Flags().Changed("name") {
				changed["name"] = name
			}
			if cmd.Flags().Changed("id-number") {
				changed["id-number"] = idNum
			}
			if cmd.Flags().Changed("plate") {
				changed["plate"] = plate
			}
			if cmd.Flags().Changed("purpose") {
				changed["purpose"] = purpose
			}
			return runUpdate(args[0], changed)
		},
	}

	cmd.Flags().StringVar(&house, "house", "", "house number being visited")
	cmd.Flags().StringVar(&name, "name", "", "visitor name")
	cmd.Flags().StringVar(&idNum, "id-number", "", "ID card number")
	cmd.Flags().StringVar(&plate, "plate", "", "vehicle license plate")
	cmd.Flags().StringVar(&purpose, "purpose", "", "purpose of visit")

	return cmd
}

func runUpdate(id string, changed map[string]string) error {
	if len(changed) == 0 {
		return fmt.Errorf("nothing to update; pass at least one field flag")
	}

	c := newAPIClient()

	v, err := c.GetVisitor(id)
	if err != nil {
		return err
	}

	for field, value := range changed {
		switch field {
		case "house":
			v.HouseNumber = value
		case "name":
			v.Name = value
		case "id-number":
			v.IDNumber = value
		case "plate":
			v.LicensePlate = value
		case "purpose":
			v.Purpose = value
		}
	}

	updated, err := c.UpdateVisitor(v)
	if err != nil {
		return fmt.Errorf("updating: %w", err)
	}

	if isJSON() {
		return printJSON(updated)
	}

	fmt.Println("Updated.")
	printVisitorSummary(updated)
	return nil
}
