package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/PranavPrasannaV/satapp/internal/adapter"
	llmadapter "github.com/PranavPrasannaV/satapp/internal/adapter/llm"
	"github.com/PranavPrasannaV/satapp/internal/cache"
	"github.com/PranavPrasannaV/satapp/internal/config"
	"github.com/PranavPrasannaV/satapp/internal/domain"
	"github.com/PranavPrasannaV/satapp/internal/genpipe"
	"github.com/PranavPrasannaV/satapp/internal/handler"
	"github.com/PranavPrasannaV/satapp/internal/logger"
	"github.com/PranavPrasannaV/satapp/internal/middleware"
	"github.com/PranavPrasannaV/satapp/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Initialize the text generator. A missing credential is a
	// configuration error: fatal, before any generation is attempted.
	generator, err := llmadapter.New(cfg.LLM, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	// Redis is optional: without it the sync path regenerates every batch.
	var batchCache domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		batchCache = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis")
	} else {
		appLogger.Warn("Redis address not configured, sync batch cache disabled")
	}

	// Initialize the generation pipeline
	prompts := &genpipe.PromptBuilder{BulkTemplates: cfg.Generation.BulkPromptTemplates}
	orchestrator := genpipe.NewOrchestrator(generator, prompts, appLogger)
	generationService := service.NewGenerationService(orchestrator, batchCache, cfg.Generation.CacheTTL)
	appLogger.Info("GenerationService initialized")

	// Initialize handlers
	generationHandler := handler.NewGenerationHandler(generationService, batchCache)
	validationMiddleware := middleware.NewValidationMiddleware()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	// API group
	apiGroup := app.Group("/api")
	apiGroup.Get("/health", generationHandler.Health)

	questionsGroup := apiGroup.Group("/questions")
	questionsGroup.Post("/generate", validationMiddleware.ValidateGenerationRequest(), generationHandler.StreamQuestions)
	questionsGroup.Post("/generate/sync", validationMiddleware.ValidateGenerationRequest(), generationHandler.GenerateQuestions)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
