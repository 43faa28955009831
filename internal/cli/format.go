package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/prasong/village-guard/internal/visitor"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printVisitorSummary prints a single visitor record in text format.
func printVisitorSummary(v *visitor.Visitor) {
	fmt.Printf("Visitor %s\n", v.ID)
	fmt.Printf("  Name:     %s\n", v.Name)
	fmt.Printf("  House:    %s\n", v.HouseNumber)
	fmt.Printf("  Status:   %s\n", v.Status.Label())
	fmt.Printf("  Arrived:  %s\n", formatClock(v.CheckInTime))
	if v.CheckOutTime != nil {
		fmt.Printf("  Departed: %s\n", formatClock(*v.CheckOutTime))
	}
	fmt.Printf("  Stayed:   %s\n", visitor.FormatDuration(visitor.Duration(v, time.Now())))
	if v.IDNumber != "" {
		fmt.Printf("  ID No:    %s\n", v.IDNumber)
	}
	if v.LicensePlate != "" {
		fmt.Printf("  Plate:    %s\n", v.LicensePlate)
	}
	if v.Purpose != "" {
		fmt.Printf("  Purpose:  %s\n", v.Purpose)
	}
}

// printVisitorTable prints a list of visitor records as a formatted table.
func printVisitorTable(visitors []*visitor.Visitor) error {
	if len(visitors) == 0 {
		fmt.Println("No visitors found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tHOUSE\tPLATE\tIN\tOUT\tSTAYED\tSTATUS"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t-----\t-----\t--\t---\t------\t------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	now := time.Now()
	for _, v := range visitors {
		out := "-"
		if v.CheckOutTime != nil {
			out = formatClock(*v.CheckOutTime)
		}
		plate := v.LicensePlate
		if plate == "" {
			plate = "-"
		}

		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, truncate(v.Name, 24), v.HouseNumber, plate,
			formatClock(v.CheckInTime), out,
			visitor.FormatDuration(visitor.Duration(v, now)), v.Status.Label()); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d visitors\n", len(visitors))
	return nil
}

// formatClock renders a timestamp for table display. Same-day timestamps
// show as HH:MM, older ones carry the date.
func formatClock(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	local := t.Local()
	if visitor.SameDay(time.Now(), local) {
		return local.Format("15:04")
	}
	return local.Format("2006-01-02 15:04")
}

// printStats prints daily traffic counts in text format.
func printStats(s *visitor.Stats) {
	fmt.Printf("Today:   %d visitors\n", s.TotalToday)
	fmt.Printf("Inside:  %d\n", s.CurrentlyInside)
	fmt.Printf("Left:    %d\n", s.TotalOutToday)
}

// printHourly prints a text histogram of today's arrivals by hour.
func printHourly(slots []int) {
	max := 0
	for _, n := range slots {
		if n > max {
			max = n
		}
	}
	if max == 0 {
		fmt.Println("No arrivals today.")
		return
	}

	for hour, n := range slots {
		if n == 0 {
			continue
		}
		bar := ""
		for i := 0; i < n; i++ {
			bar += "█"
		}
		fmt.Printf("%02d:00  %s %d\n", hour, bar, n)
	}
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
