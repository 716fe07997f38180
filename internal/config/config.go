package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/codyseavey/tcg-catalog/internal/catalog"
	"github.com/codyseavey/tcg-catalog/internal/models"
)

type Config struct {
	Port         string
	DBPath       string
	GormLogLevel string

	// Dataset sources: http(s) URLs or local file paths
	CardsSource    string
	SlabsSource    string
	ValueLogSource string

	FetchTimeout    time.Duration
	RefreshInterval time.Duration // 0 disables the periodic refresh

	PriorityCategories []string
	DefaultPageSize    int
	SessionCapacity    int

	AdminPassword string

	PSAAPIToken          string
	PSABaseURL           string
	PSARequestsPerSecond float64
	CertCacheTTL         time.Duration

	CORSAllowedOrigins []string
	FrontendDistPath   string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		DBPath:       getEnv("DB_PATH", "./catalog.db"),
		GormLogLevel: getEnv("GORM_LOG_LEVEL", "warn"),

		CardsSource:    getEnv("CARDS_SOURCE", ""),
		SlabsSource:    getEnv("SLABS_SOURCE", ""),
		ValueLogSource: getEnv("VALUE_LOG_SOURCE", ""),

		FetchTimeout:    getDuration("FETCH_TIMEOUT", 30*time.Second),
		RefreshInterval: getDuration("REFRESH_INTERVAL", 0),

		PriorityCategories: getList("PRIORITY_CATEGORIES", catalog.DefaultPriorityCategories),
		DefaultPageSize:    getInt("DEFAULT_PAGE_SIZE", models.DefaultPageSize),
		SessionCapacity:    getInt("SESSION_CAPACITY", 1024),

		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		PSAAPIToken:          getEnv("PSA_API_TOKEN", ""),
		PSABaseURL:           getEnv("PSA_BASE_URL", "https://api.psacard.com/publicapi"),
		PSARequestsPerSecond: getFloat("PSA_REQUESTS_PER_SECOND", 2),
		CertCacheTTL:         getDuration("CERT_CACHE_TTL", 7*24*time.Hour),

		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		FrontendDistPath:   getEnv("FRONTEND_DIST_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Config: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getFloat(key string, defaultValue float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		log.Printf("Config: invalid %s=%q, using %g", key, value, defaultValue)
		return defaultValue
	}
	return f
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		log.Printf("Config: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// getList splits a comma separated value, dropping blank entries.
func getList(key string, defaultValue []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
