// Command import runs one import cycle from the command line. Useful
// for cron jobs that run on the host instead of hitting the HTTP
// trigger.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gravadigital/lineup-api/internal/config"
	"github.com/gravadigital/lineup-api/internal/importer"
	"github.com/gravadigital/lineup-api/internal/logger"
	"github.com/gravadigital/lineup-api/internal/storage/postgres"
	"github.com/gravadigital/lineup-api/internal/ticketmaster"
)

func main() {
	cfg := config.Load()

	logger.Initialize("info")
	log := logger.Importer()

	daysAhead := flag.Int("days", cfg.Import.DaysAhead, "How many days ahead to import")
	asJSON := flag.Bool("json", false, "Print results as JSON")
	flag.Parse()

	db, err := postgres.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer postgres.Close(db)

	venueRepo := postgres.NewPostgresVenueRepository(db)
	eventRepo := postgres.NewPostgresEventRepository(db)

	tmClient := ticketmaster.NewClient(ticketmaster.Config{
		BaseURL: cfg.Ticketmaster.BaseURL,
		APIKey:  cfg.Ticketmaster.APIKey,
		Timeout: cfg.Ticketmaster.Timeout,
	})

	orchestrator := importer.NewOrchestrator(
		venueRepo,
		tmClient,
		importer.NewReconciler(eventRepo),
		importer.Options{
			DaysAhead:  *daysAhead,
			VenueDelay: cfg.Import.VenueDelay,
			PageSize:   cfg.Import.PageSize,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, err := orchestrator.RunAll(ctx)
	if err != nil {
		log.Error("Import run failed", "error", err)
		os.Exit(1)
	}

	if *asJSON {
		out, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(out))
		return
	}

	for _, r := range results {
		fmt.Printf("%s: imported=%d updated=%d errors=%d\n",
			r.VenueName, r.EventsImported, r.EventsUpdated, len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}
