package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/tcg-catalog/internal/api/handlers"
	"github.com/codyseavey/tcg-catalog/internal/metrics"
	"github.com/codyseavey/tcg-catalog/internal/services"
)

// RouterOptions holds the non-service settings of the router
type RouterOptions struct {
	AllowedOrigins   []string
	AdminPassword    string
	FrontendDistPath string
}

func SetupRouter(opts RouterOptions, store *services.SnapshotStore, sessions *services.SessionStore, catalogService *services.CatalogService, certService *services.CertLookupService) *gin.Engine {
	router := gin.Default()
	router.Use(metrics.Middleware())

	serveFrontend := opts.FrontendDistPath != "" && dirExists(opts.FrontendDistPath)

	config := cors.DefaultConfig()
	config.AllowOrigins = opts.AllowedOrigins
	if len(config.AllowOrigins) == 0 {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", handlers.SessionHeader, handlers.AdminPasswordHeader}
	config.ExposeHeaders = []string{handlers.SessionHeader, "Content-Disposition"}
	config.AllowCredentials = false
	router.Use(cors.New(config))

	catalogHandler := handlers.NewCatalogHandler(catalogService)
	refreshHandler := handlers.NewRefreshHandler(store)
	adminHandler := handlers.NewAdminHandler(catalogService, certService)

	api := router.Group("/api")
	{
		// Browsing routes keep per-session view state
		browse := api.Group("", handlers.SessionMiddleware(sessions))
		{
			browse.GET("/categories", catalogHandler.GetCategories)
			browse.GET("/categories/:key/items", catalogHandler.GetCategoryItems)
			browse.POST("/categories/:key/page/:action", catalogHandler.PageCategory)
			browse.GET("/slabs", catalogHandler.GetSlabs)
			browse.POST("/slabs/page/:action", catalogHandler.PageSlabs)
		}

		api.GET("/tracking", catalogHandler.GetTracking)
		api.GET("/stats", catalogHandler.GetStats)

		refresh := api.Group("/refresh")
		{
			refresh.POST("", refreshHandler.Refresh)
			refresh.GET("/status", refreshHandler.GetStatus)
			refresh.GET("/history", refreshHandler.GetHistory)
		}

		admin := api.Group("/admin", handlers.AdminAuth(opts.AdminPassword))
		{
			admin.GET("/cards", adminHandler.GetCards)
			admin.GET("/certs/:cert", adminHandler.LookupCert)
			admin.POST("/certs", adminHandler.UploadCerts)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if serveFrontend {
		indexPath := filepath.Join(opts.FrontendDistPath, "index.html")

		router.Static("/assets", filepath.Join(opts.FrontendDistPath, "assets"))
		router.StaticFile("/vite.svg", filepath.Join(opts.FrontendDistPath, "vite.svg"))

		router.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})

		// SPA fallback - serve index.html for all non-API routes
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.File(indexPath)
		})
	}

	return router
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
