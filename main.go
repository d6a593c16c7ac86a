package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Stryxus/WebTools/internal/dispatch"
	"github.com/Stryxus/WebTools/internal/encoder"
	"github.com/Stryxus/WebTools/internal/logging"
	"github.com/Stryxus/WebTools/internal/media"
	"github.com/Stryxus/WebTools/internal/metrics"
	"github.com/Stryxus/WebTools/internal/pathmap"
	"github.com/Stryxus/WebTools/internal/startup"
)

func main() {
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	if err := startup.EnsureDirs(config); err != nil {
		startup.LogFatal("Directory setup failed: %v", err)
	}

	if err := media.InitVips(); err != nil {
		startup.LogFatal("libvips initialization failed: %v", err)
	}
	defer media.ShutdownVips()

	startup.LogFFmpegAvailability()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lister := encoder.NewLister()
	logging.Info("AV1 encoder for this host: %s", encoder.Probe(ctx, lister))

	mapper := pathmap.New(config.SourceDir, config.OutputDir)
	strategists := dispatch.NewStrategists(config, mapper, lister)
	dispatcher := dispatch.New(config.SourceDir, mapper, strategists)

	var metricsServer *http.Server
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		metricsServer = startMetricsServer(config.MetricsPort, dispatcher)
	}

	go handleShutdown(cancel, metricsServer)

	startup.LogPipelineStarted(config)

	if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		startup.LogFatal("Pipeline failed: %v", err)
	}

	startup.LogShutdownComplete()
}

// startMetricsServer serves Prometheus metrics and a readiness endpoint that
// reports healthy only once the backfill has finished.
func startMetricsServer(port string, dispatcher *dispatch.Dispatcher) *http.Server {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if dispatcher.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
			return
		}
		http.Error(w, "backfill in progress", http.StatusServiceUnavailable)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Metrics server listening on :%s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Metrics server error: %v", err)
		}
	}()
	return server
}

// handleShutdown waits for SIGINT or SIGTERM, then stops the pipeline and
// the metrics server in order.
func handleShutdown(cancel context.CancelFunc, metricsServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	cancel()
	startup.LogShutdownStepComplete("Pipeline stop requested")

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn("Metrics server shutdown: %v", err)
		}
		startup.LogShutdownStepComplete("Metrics server stopped")
	}
}
