package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/neervazh/ward-monitor/internal/alerts"
	"github.com/neervazh/ward-monitor/internal/api"
	"github.com/neervazh/ward-monitor/internal/config"
	"github.com/neervazh/ward-monitor/internal/events"
	"github.com/neervazh/ward-monitor/internal/gateway"
	"github.com/neervazh/ward-monitor/internal/ingest"
	"github.com/neervazh/ward-monitor/internal/logging"
	"github.com/neervazh/ward-monitor/internal/repository"
	"github.com/neervazh/ward-monitor/internal/sla"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Seed(ctx); err != nil {
		logging.Fatalf("Failed to seed ward data: %v", err)
	}

	// Broadcaster for the alert event stream
	bus := events.NewBroadcaster()

	// Acknowledgment notifications run through a bounded worker pool so a
	// slow gateway never blocks store transitions.
	gw := gateway.NewHTTPGateway(cfg.Gateway.URL, cfg.Gateway.Timeout)
	notifier := alerts.NewGatewayNotifier(gw, cfg.Gateway.Timeout, cfg.Notifier.Workers, cfg.Notifier.BufferSize)
	store := alerts.NewStore(notifier, bus)
	notifier.Bind(store)
	notifier.Start(ctx)

	// SLA countdown monitor
	monitor := sla.NewMonitor(cfg.SLA.CheckInterval, store, bus)
	monitor.Start(ctx)

	// Simulated sensor sweep
	var sim *ingest.Simulator
	if cfg.Sim.Enabled {
		sim = ingest.NewSimulator(cfg, db, store)
		sim.Start(ctx)
	}

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(5)) // 5 req/s global limit

	handler := api.NewHandler(store, db, bus)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	if sim != nil {
		sim.Stop()
	}
	monitor.Stop()
	notifier.Stop()
	bus.Close() // Close all streams gracefully

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
