package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquametrics/strokecore/internal/adapters/http/api"
	app "github.com/aquametrics/strokecore/internal/app"
	"github.com/aquametrics/strokecore/internal/config"
	"github.com/aquametrics/strokecore/internal/domain/estimator"
	"github.com/aquametrics/strokecore/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	est, err := buildEstimator(cfg)
	if err != nil {
		os.Stderr.WriteString("failed to build estimator: " + err.Error() + "\n")
		return
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithEstimator(est),
		app.WithFrameRate(cfg.FrameRate),
		app.WithQueueCapacity(cfg.QueueCapacity),
		app.WithBufferCapacity(cfg.BufferCapacity),
		app.WithConfidenceThreshold(cfg.ConfidenceThreshold),
		app.WithMinProminence(cfg.MinProminence),
		app.WithMinPeakSpacing(time.Duration(cfg.MinPeakDistanceMS)*time.Millisecond),
		app.WithRateWindow(time.Duration(cfg.RateWindowSeconds)*time.Second),
		app.WithSampleInterval(time.Duration(cfg.SampleIntervalSeconds)*time.Second),
		app.WithHistoryCapacity(cfg.HistoryCapacity),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start pipeline: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildEstimator selects the estimator implementation from configuration.
func buildEstimator(cfg *config.Config) (estimator.Estimator, error) {
	switch cfg.Estimator {
	case estimator.KindReplay:
		return estimator.NewReplay(cfg.ReplayPath)
	default:
		return estimator.NewSynthetic(
			estimator.WithFrameRate(cfg.FrameRate),
			estimator.WithCyclesPerMinute(cfg.SyntheticCPM),
		), nil
	}
}
