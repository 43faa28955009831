package cli

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prasong/village-guard/internal/visitor"
)

func newCheckinCmd() *cobra.Command {
	var (
		house   string
		name    string
		idNum   string
		plate   string
		purpose string
		photo   string
		scan    bool
	)

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record a visitor arrival",
		Long:  "Record a visitor arrival at the gate. Only the house number is required; with --photo and --scan the server fills in name, ID number, and plate from the photo.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckin(house, name, idNum, plate, purpose, photo, scan)
		},
	}

	cmd.Flags().StringVar(&house, "house", "", "house number being visited (required)")
	cmd.Flags().StringVar(&name, "name", "", "visitor name")
	cmd.Flags().StringVar(&idNum, "id-number", "", "ID card number")
	cmd.Flags().StringVar(&plate, "plate", "", "vehicle license plate")
	cmd.Flags().StringVar(&purpose, "purpose", "", "purpose of visit")
	cmd.Flags().StringVar(&photo, "photo", "", "path to an ID card or vehicle photo")
	cmd.Flags().BoolVar(&scan, "scan", false, "extract fields from the photo before check-in")

	if err := cmd.MarkFlagRequired("house"); err != nil {
		panic(err)
	}

	return cmd
}

func runCheckin(house, name, idNum, plate, purpose, photoPath string, scan bool) error {
	c := newAPIClient()

	d := visitor.Draft{
		Name:         name,
		IDNumber:     idNum,
		LicensePlate: plate,
		HouseNumber:  house,
		Purpose:      purpose,
	}

	if photoPath != "" {
		encoded, err := encodePhoto(photoPath)
		if err != nil {
			return err
		}
		d.Photo = encoded

		if scan {
			fields, err := c.Scan(encoded)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: photo scan failed: %v\n", err)
			} else {
				fields.MergeInto(&d)
			}
		}
	}

	v, err := c.CheckIn(d)
	if err != nil {
		return fmt.Errorf("checking in: %w", err)
	}

	if isJSON() {
		return printJSON(v)
	}

	fmt.Println("Checked in.")
	printVisitorSummary(v)
	return nil
}

// encodePhoto reads an image file and encodes it as a base64 data URL.
func encodePhoto(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading photo: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}
