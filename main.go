package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/auth"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/config"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/database"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/handlers"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/llm"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/logging"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/middleware"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/prompts"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/repositories"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("ai_model", cfg.AI.Model))

	ctx := context.Background()

	// Database
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Migrations run on a database/sql connection (required by golang-migrate).
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	// Redis is optional; nil disables the job status mirror and generation locks.
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient == nil {
		logger.Info("Redis not configured, job status mirror disabled")
	}

	// Auth
	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	defer jwksClient.Close()

	auth.InitSessionStore(cfg.Auth.SessionSecret)

	authService := auth.NewAuthService(jwksClient, logger)
	authMiddleware := auth.NewMiddleware(authService)
	tenantMiddleware := handlers.TenantMiddleware(database.WithTenantContext(db, logger))

	// LLM provider for suggestions and website parsing
	llmClient, err := llm.NewClient(cfg.AI.Provider, &llm.Config{
		Endpoint: cfg.AI.Endpoint,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	promptLib, err := prompts.LoadLibrary(cfg.AI.PromptsPath)
	if err != nil {
		logger.Fatal("Failed to load prompt library", zap.Error(err))
	}

	// Repositories
	prdRepo := repositories.NewPRDRepository()
	itemRepo := repositories.NewItemRepository()
	linkRepo := repositories.NewLinkRepository()
	jobRepo := repositories.NewParseJobRepository()

	// Services
	prdService := services.NewPRDService(prdRepo, logger)
	itemService := services.NewItemService(&services.ItemServiceDeps{
		ItemRepo: itemRepo,
		LinkRepo: linkRepo,
		Logger:   logger,
	})
	lifecycleService := services.NewLifecycleService(&services.LifecycleServiceDeps{
		ItemRepo: itemRepo,
		LinkRepo: linkRepo,
		Logger:   logger,
	})
	suggestionService := services.NewSuggestionService(&services.SuggestionServiceDeps{
		ItemRepo:    itemRepo,
		PRDRepo:     prdRepo,
		LLMClient:   llmClient,
		PromptLib:   promptLib,
		RedisClient: redisClient,
		Logger:      logger,
	})
	exportService := services.NewExportService(&services.ExportServiceDeps{
		ItemRepo: itemRepo,
		Logger:   logger,
	})
	parseJobService := services.NewParseJobService(&services.ParseJobServiceDeps{
		DB:          db,
		JobRepo:     jobRepo,
		PRDRepo:     prdRepo,
		LLMClient:   llmClient,
		RedisClient: redisClient,
		Config:      &cfg.Jobs,
		Logger:      logger,
	})

	// Handlers
	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewPRDHandler(prdService, logger).RegisterRoutes(mux, authMiddleware, tenantMiddleware)
	handlers.NewItemHandler(itemService, lifecycleService, logger).RegisterRoutes(mux, authMiddleware, tenantMiddleware)
	handlers.NewSuggestionHandler(suggestionService, logger).RegisterRoutes(mux, authMiddleware, tenantMiddleware)
	handlers.NewExportHandler(exportService, logger).RegisterRoutes(mux, authMiddleware, tenantMiddleware)
	handlers.NewJobHandler(parseJobService, logger).RegisterRoutes(mux, authMiddleware, tenantMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting brainbuild-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
