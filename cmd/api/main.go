package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"veda-quiz/internal/adapter"
	"veda-quiz/internal/cache"
	"veda-quiz/internal/config"
	"veda-quiz/internal/database"
	"veda-quiz/internal/docx"
	"veda-quiz/internal/fetcher"
	"veda-quiz/internal/handler"
	"veda-quiz/internal/logger"
	"veda-quiz/internal/middleware"
	"veda-quiz/internal/parser"
	"veda-quiz/internal/repository"
	"veda-quiz/internal/service"

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
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize repositories
	attemptRepository := repository.NewSQLXAttemptRepository(db)
	missedPoolRepository := repository.NewSQLXMissedPoolRepository(db)

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Initialize services
	documentFetcher := fetcher.New(nil, cfg.Library.BaseURLs, cfg.Library.Folders)
	libraryService := service.NewLibraryService(
		documentFetcher,
		docx.NewExtractor(),
		parser.New(),
		cacheAdapter,
		&cfg.Quiz,
		cfg.Library.Documents,
	)
	sessionService := service.NewSessionService(
		libraryService,
		attemptRepository,
		missedPoolRepository,
		cacheAdapter,
		cfg.Quiz,
	)
	appLogger.Info("Services initialized",
		zap.Int("documents", len(cfg.Library.Documents)),
		zap.Int("set_size", cfg.Quiz.SetSize))

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(libraryService, sessionService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Player-Token",
		MaxAge:       300,
	}))
	app.Use(recover.New())
	app.Use(middleware.PlayerIdentity(cfg.Auth))

	apiGroup := app.Group("/api")
	quizHandler.RegisterRoutes(apiGroup)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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
