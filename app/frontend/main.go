// The flightview service: fuses the two live feeds and serves the
// per-flight view to dashboards and alerting.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/skypies/flightview/aex"
	"github.com/skypies/flightview/config"
	"github.com/skypies/flightview/fa"
	"github.com/skypies/flightview/fuser"
	"github.com/skypies/flightview/metrics"
	"github.com/skypies/flightview/ui"
)

var fConfigPath = flag.String("config", "", "path to YAML config (optional; env vars override)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*fConfigPath)
	if err != nil {
		log.Fatalf("main: %v", err)
	}

	positions := aex.New(nil, cfg.Aex.URL, cfg.Aex.APIKey)
	positions.CacheTTL = cfg.Aex.CacheTTL.D()

	schedules := fa.New(nil, cfg.Fa.URL, cfg.Fa.Username, cfg.Fa.APIKey)
	schedules.CacheTTL = cfg.Fa.CacheTTL.D()

	f := fuser.New(positions, schedules)
	cache := fuser.NewServiceCache(f, cfg.Cache.TTL.D())
	cache.StaleCeiling = cfg.Cache.StaleCeiling.D()

	handlers := ui.UI{Cache: cache, Fuser: f}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/flights", handlers.FlightsHandler)
	mux.HandleFunc("/api/flight", handlers.FlightLookupHandler)
	mux.HandleFunc("/api/health", handlers.HealthHandler)
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("flightview: listening on %s (aex live:%v, fa live:%v)",
			cfg.Server.Addr, cfg.Aex.APIKey != "", cfg.Fa.APIKey != "")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("flightview: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("flightview: shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
