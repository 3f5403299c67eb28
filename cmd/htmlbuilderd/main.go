// A small web server rendering the pages described by a YAML file, each one
// filling the same page skeleton with its own title, content and sidebar.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"impractical.co/htmlbuilder"
)

func main() {
	var (
		configFile = flag.String("c", "site.yaml", "site configuration filename (YAML)")
		listen     = flag.String("l", "", "address to listen on, overriding the configuration")
		verbose    = flag.Bool("v", false, "log debug messages")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Error("error loading configuration", "file", *configFile, "error", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		log.Error("error declaring blocks", "error", err)
		os.Exit(1)
	}

	handler := newHandler(cfg, registry)
	server := &http.Server{
		Addr:              cfg.Listen,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler.ServeHTTP(w, r.WithContext(htmlbuilder.LoggingContext(r.Context(), log)))
		}),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down", "error", err)
		}
	}()

	log.Info("listening", "addr", cfg.Listen, "pages", len(cfg.Pages))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("error serving", "error", err)
		os.Exit(1)
	}
}
