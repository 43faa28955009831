package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/prasong/village-guard/internal/auth"
	"github.com/prasong/village-guard/internal/config"
	"github.com/prasong/village-guard/internal/db"
	"github.com/prasong/village-guard/internal/logging"
	"github.com/prasong/village-guard/internal/notify"
	"github.com/prasong/village-guard/internal/ocr"
	"github.com/prasong/village-guard/internal/register"
	"github.com/prasong/village-guard/internal/sheets"
	"github.com/prasong/village-guard/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port       int
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the guard-station API server",
		Long:  "Start the HTTP API server backed by the spreadsheet record store. Configuration comes from the YAML config file and VG_* environment variables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, configFile)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides config)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (default: ~/.config/vg/server.yaml)")

	return cmd
}

func runServe(port int, configFile string) error {
	if configFile == "" {
		var err error
		configFile, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Port = port
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}

	logging.Setup(cfg.DevMode)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeDB(database)

	store, err := sheets.NewClient(cfg.SheetURL)
	if err != nil {
		return err
	}

	scanner := ocr.NewClient(cfg.OCRURL, cfg.OCRKey)
	notifier := notify.NewClient(cfg.LineToken, cfg.LineRecipient)

	reg := register.New(store, notifier, register.Options{
		NamePlaceholder: cfg.NamePlaceholder,
		StrictHouses:    cfg.StrictHouses,
	})

	// Load the record set and house registry before taking traffic. A store
	// outage at startup is logged, not fatal; the first reload=1 request
	// recovers.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := reg.Reload(ctx); err != nil {
		slog.Warn("initial record load failed", "error", err)
	}
	reg.ReloadHouses(ctx)

	srv := web.NewServer(reg, scanner)
	handler := logging.RequestLogger(auth.RequireAPIKey(auth.NewAPIKeyStore(database), srv))

	slog.Info("guard station ready",
		"port", cfg.Port,
		"ocr", scanner.Enabled(),
		"notify", notifier.Enabled(),
		"strict_houses", cfg.StrictHouses,
	)

	if err := web.ListenAndServe(cfg.Port, handler); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
