package main

import (
	"log"

	"geo-accessor/pkg/accessor"
	"geo-accessor/pkg/api"
	"geo-accessor/pkg/config"
	"geo-accessor/pkg/flight"
)

func main() {
	// Load .env and environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	notifier := accessor.Notifier(accessor.LogNotifier{})
	if !cfg.Notices {
		notifier = accessor.Discard
	}
	a := accessor.New(accessor.WithNotifier(notifier))

	// Start REST API server in goroutine
	apiServer := api.NewAPIServer(a, cfg.RESTPort)
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Printf("REST API server error: %v", err)
		}
	}()

	// Start Flight server
	opts := flight.ServerOptions{
		SpillRows: cfg.SpillRows,
		DataDir:   cfg.DataDir,
	}
	if err := flight.StartFlightServer(a, cfg.FlightPort, opts); err != nil {
		log.Fatal("Flight server failed:", err)
	}
}
