package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [dark|light]",
		Short: "Show or set the display theme",
		Long:  "Show the stored display theme, or set it to dark or light. The theme is kept in the CLI config for screens that render the register.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTheme,
	}
}

func runTheme(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println(getTheme())
		return nil
	}

	theme := args[0]
	if theme != "dark" && theme != "light" {
		return fmt.Errorf("theme must be dark or light")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Theme = theme
	if err := saveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("Theme set to %s\n", theme)
	return nil
}
