package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/codyseavey/tcg-catalog/internal/api"
	"github.com/codyseavey/tcg-catalog/internal/catalog"
	"github.com/codyseavey/tcg-catalog/internal/config"
	"github.com/codyseavey/tcg-catalog/internal/database"
	"github.com/codyseavey/tcg-catalog/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	// Initialize database (cert cache and refresh history)
	if err := database.Initialize(cfg.DBPath, cfg.GormLogLevel); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize services
	loader := services.NewDatasetLoader(
		services.NewSource(cfg.CardsSource, cfg.FetchTimeout),
		services.NewSource(cfg.SlabsSource, cfg.FetchTimeout),
		services.NewSource(cfg.ValueLogSource, cfg.FetchTimeout),
	)
	partitioner := catalog.NewPartitioner(cfg.PriorityCategories)
	log.Printf("Category priority: %s", strings.Join(partitioner.Priority(), ", "))
	store := services.NewSnapshotStore(loader, partitioner, services.NewRefreshHistory(database.GetDB()))

	sessions, err := services.NewSessionStore(cfg.SessionCapacity, cfg.DefaultPageSize)
	if err != nil {
		log.Fatalf("Failed to initialize sessions: %v", err)
	}

	catalogService := services.NewCatalogService(store)
	certService := services.NewCertLookupService(cfg.PSABaseURL, cfg.PSAAPIToken, cfg.PSARequestsPerSecond, database.GetDB(), cfg.CertCacheTTL)
	if !certService.Enabled() {
		log.Println("PSA_API_TOKEN not set: cert lookups will only be served from cache")
	}
	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set: admin routes are disabled")
	}

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initial load; a failure leaves the empty snapshot serving until the next refresh
	if err := store.Refresh(ctx, services.TriggerStartup); err != nil {
		log.Printf("Initial dataset load failed: %v", err)
	}

	// Start the refresh worker in background with panic recovery
	if cfg.RefreshInterval > 0 {
		go func() {
			for {
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in refresh worker: %v - restarting in 30 seconds", r)
						}
					}()
					store.Start(ctx, cfg.RefreshInterval)
				}()

				select {
				case <-ctx.Done():
					return // Graceful shutdown
				case <-time.After(30 * time.Second):
					log.Println("Refresh worker restarting after panic recovery...")
				}
			}
		}()
	}

	router := api.SetupRouter(api.RouterOptions{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AdminPassword:    cfg.AdminPassword,
		FrontendDistPath: cfg.FrontendDistPath,
	}, store, sessions, catalogService, certService)

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel the context to stop the refresh worker
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
