package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"safesearch-analyzer/internal/analyzer"
	"safesearch-analyzer/internal/api"
	"safesearch-analyzer/internal/config"
	"safesearch-analyzer/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().Errorf("config: %v", err)
		os.Exit(1)
	}
	l := logger.NewWithLevel(os.Stderr, cfg.LogLevel)

	an, err := analyzer.FromConfig(cfg, nil, l)
	if err != nil {
		l.Errorf("setup: %v", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.NewRouter(an, l, api.Options{
			RatePerMinute: cfg.RatePerMinute,
			Burst:         cfg.RateBurst,
		}),
		ReadTimeout: 10 * time.Second,
		// a query can spend MaxResults * RequestDelay queued at the limiter
		WriteTimeout: 60*time.Second + time.Duration(cfg.MaxResults)*(cfg.RequestDelay+cfg.FetchTimeout),
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		l.Infof("server listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("server error: %v", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	_ = an.Close()
	l.Infof("bye")
}
