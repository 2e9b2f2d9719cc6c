// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/danielhkuo/chowsr/cliparse"
	"github.com/danielhkuo/chowsr/db"
	"github.com/danielhkuo/chowsr/finalize"
	"github.com/danielhkuo/chowsr/logging"
	"github.com/danielhkuo/chowsr/lookup"
	"github.com/danielhkuo/chowsr/notify"
	"github.com/danielhkuo/chowsr/ratelimit"
	"github.com/danielhkuo/chowsr/router"
	"github.com/danielhkuo/chowsr/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing flags:", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building logger:", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	// Connect and verify
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.String("type", cfg.DatabaseType), zap.Error(err))
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		log.Fatal("schema creation failed", zap.Error(err))
	}
	log.Info("database schema ready", zap.String("type", cfg.DatabaseType))

	st := store.New(dbConn, cfg.DatabaseType)
	finder := lookup.New(lookup.Config{
		GeocodeURL:   cfg.GeocodeURL,
		OverpassURLs: cfg.OverpassURLs,
		Timeout:      cfg.LookupTimeout,
		UserAgent:    cfg.LookupUserAgent,
	}, log.Named("lookup"))
	dispatcher := notify.FromConfig(cfg, log.Named("notify"))

	mux := router.NewRouter(router.Deps{
		Store:     st,
		Finalizer: finalize.New(st, dispatcher, log.Named("finalize")),
		Finder:    finder,
		Notifier:  dispatcher,
		Limiter:   ratelimit.New(cfg.RateLimit, cfg.RateLimitWindow),
		StaticDir: cfg.StaticDir,
		Log:       log,

		TrustProxy: cfg.TrustProxy,
	})

	// Create server
	server := http.Server{
		Handler:           mux,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Warn("graceful shutdown failed", zap.Error(err))
			server.Close()
		}
	}()

	// Start server
	log.Info("listening", zap.Int("port", cfg.Port), zap.String("public_url", cfg.PublicBaseURL))
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server closed", zap.Error(err))
	} else {
		log.Info("server closed")
	}
}
