package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atelier-dashboard/config"
	"atelier-dashboard/internal/api"
	"atelier-dashboard/internal/broker"
	"atelier-dashboard/internal/redisclient"
	"atelier-dashboard/internal/service"
	"atelier-dashboard/internal/sheet"
	"atelier-dashboard/internal/store"
	"atelier-dashboard/internal/util"
	"atelier-dashboard/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if cfg.Sheet.CSVURL == "" {
		log.Fatal("SHEET_CSV_URL is required")
	}

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting atelier dashboard")

	tp, err := util.InitTracer("atelier-dashboard", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Store.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}
	defer db.Close()
	log.Printf("Local store opened: %s", cfg.Store.SQLitePath)

	var cache *redisclient.Client
	if cfg.Redis.Addr != "" {
		cache, err = redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer cache.Close()
		log.Println("Redis snapshot cache connected")
	}

	var publisher broker.Publisher = broker.NewNoopPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
		publisher = broker.NewEventPublisher(producer)
		log.Println("Kafka event publisher initialized")
	}
	defer publisher.Close()

	fetcher := sheet.NewFetcher(cfg.Sheet.CSVURL, cfg.Sheet.FetchTimeout, cfg.Sheet.MinPayloadBytes)
	dashboard := service.NewDashboard(fetcher, db, cache, publisher)

	// stale-but-valid data is visible immediately, before the first sync
	if err := dashboard.Restore(context.Background()); err != nil {
		log.Printf("Failed to restore cached snapshot: %v", err)
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	syncWorker := worker.NewSyncWorker(dashboard, cfg.Sheet.SyncInterval)
	go func() {
		if err := syncWorker.Start(workerCtx); err != nil && err != context.Canceled {
			log.Printf("Sync worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(dashboard)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()

	log.Println("Server exited")
}
