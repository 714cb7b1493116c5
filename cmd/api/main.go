package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"enviroops.org/internal/audit"
	"enviroops.org/internal/config"
	"enviroops.org/internal/gate"
	"enviroops.org/internal/httpapi"
	"enviroops.org/internal/inspection"
	"enviroops.org/internal/obs"
	"enviroops.org/internal/store/pg"
)

var version = "0.3.1"

func main() {
	obs.Init()

	cfg := config.Load()
	if cfg.AuthSecret == "" {
		log.Fatal("ENVIROOPS_AUTH_SECRET must be set")
	}

	// Postgres when a DSN is configured, in-memory otherwise.
	var (
		inspections inspection.Store = inspection.NewInMemory()
		ledger      audit.Ledger     = audit.NewInMemory()
		store       *pg.Store
	)
	if cfg.PostgresDSN != "" {
		var err error
		store, err = pg.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		inspections = store.Inspections()
		ledger = store.Ledger()
	}

	g, err := gate.New(inspections, ledger)
	if err != nil {
		log.Fatalf("gate: %v", err)
	}

	probe := httpapi.ReadyProbe{}
	if store != nil {
		probe.DB = store.DB()
	}
	api := httpapi.New(g, probe, version,
		httpapi.WithTokenTTL(cfg.TokenTTL),
		httpapi.WithRateLimit(cfg.RateBurst, cfg.RatePerSec),
		httpapi.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting enviroops-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if store != nil {
		_ = store.Close()
	}
	log.Println("Stopped")
}
