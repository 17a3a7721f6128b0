// Command seedrandd serves seedrand draws over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-seedrand"
	"github.com/opd-ai/go-seedrand/internal/config"
	"github.com/opd-ai/go-seedrand/internal/logging"
	"github.com/opd-ai/go-seedrand/internal/server"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seedrandd: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seedrandd: %v\n", err)
		os.Exit(1)
	}
	seedrand.SetLogger(log.With().Str("component", "engine").Logger())

	srv := server.New(cfg.Server, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Run() }()

	select {
	case err := <-errc:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
		return
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	if err := <-errc; err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}
