package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"serqo/internal/config"
	"serqo/internal/handler"
	"serqo/internal/middleware"
	"serqo/internal/repository/postgres"
	"serqo/internal/search"
	"serqo/internal/telemetry"
	"serqo/internal/wingman"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"search_configured", cfg.SearchConfigured(),
		"redis_configured", cfg.RedisConfigured(),
	)

	// The durable query log is mandatory; everything else degrades.
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL must be set. Did you forget to provision a database?")
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	queryLog := postgres.NewQueryLogRepository(pool, logger)
	if err := queryLog.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure query log schema: %v", err)
	}
	logger.Info("database connected")

	accelerator := newAccelerator(ctx, cfg, logger)
	telemetryStore := telemetry.NewStore(queryLog, accelerator, logger)

	searchClient := search.NewGoogleClient(cfg.GoogleAPIKey, cfg.GoogleEngineID, logger)
	suggestClient := search.NewSuggestClient(cfg.SearchConfigured(), logger)
	responseCache := search.NewResponseCache()
	searchService := search.NewService(searchClient, responseCache, telemetryStore, logger)

	assistant := wingman.New(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, logger)

	searchHandler := handler.NewSearchHandler(searchService, suggestClient, telemetryStore, logger)
	statusHandler := handler.NewStatusHandler(cfg.SearchConfigured(), searchClient, pool, assistant, logger)
	wingmanHandler := handler.NewWingManHandler(assistant, logger)

	logger.Info("services initialized")

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", searchHandler.HealthCheck)

	mux.HandleFunc("GET /api/search", searchHandler.Search)
	mux.HandleFunc("GET /api/suggestions", searchHandler.Suggestions)
	mux.HandleFunc("GET /api/popular-searches", searchHandler.PopularSearches)
	mux.HandleFunc("GET /api/recent-searches", searchHandler.RecentSearches)
	mux.HandleFunc("GET /api/status", statusHandler.Status)

	mux.HandleFunc("GET /api/wingman/enhance-query", wingmanHandler.EnhanceQuery)
	mux.HandleFunc("GET /api/wingman/smart-suggestions", wingmanHandler.SmartSuggestions)
	mux.HandleFunc("POST /api/wingman/summarize", wingmanHandler.Summarize)
	mux.HandleFunc("POST /api/wingman/ask", wingmanHandler.Ask)

	// Apply middleware in reverse order (they wrap each other)
	var h http.Handler = mux
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newAccelerator connects to Redis when configured, degrading to the no-op
// accelerator when unconfigured or unreachable. The accelerator is an
// optimization, never a startup requirement.
func newAccelerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) telemetry.Accelerator {
	if !cfg.RedisConfigured() {
		logger.Info("redis not configured, telemetry views served from database")
		return telemetry.NewNoopAccelerator()
	}

	var client *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid REDIS_URL, telemetry views served from database", "error", err)
			return telemetry.NewNoopAccelerator()
		}
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisHost + ":" + cfg.RedisPort,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
		})
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, telemetry views served from database", "error", err)
		return telemetry.NewNoopAccelerator()
	}

	logger.Info("connected to redis")
	return telemetry.NewRedisAccelerator(client, logger)
}
