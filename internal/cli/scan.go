package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <photo>",
		Short: "Extract visitor fields from a photo",
		Long:  "Send an ID card or vehicle photo to the server and print the extracted name, ID number, and license plate. Fields the vision service cannot read come back empty.",
		Args:  cobra.ExactArgs(1),
		RunE:  runScan,
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	encoded, err := encodePhoto(args[0])
	if err != nil {
		return err
	}

	c := newAPIClient()

	fields, err := c.Scan(encoded)
	if err != nil {
		return fmt.Errorf("scanning photo: %w", err)
	}

	if isJSON() {
		return printJSON(fields)
	}

	printField := func(label, value string) {
		if value == "" {
			value = "(not read)"
		}
		fmt.Printf("%s %s\n", label, value)
	}
	printField("Name:  ", fields.Name)
	printField("ID No: ", fields.IDNumber)
	printField("Plate: ", fields.LicensePlate)
	return nil
}
