package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/rs/zerolog"

	"github.com/continuum-journal/continuum/internal/config"
	"github.com/continuum-journal/continuum/internal/database"
	"github.com/continuum-journal/continuum/internal/enrichment"
	"github.com/continuum-journal/continuum/internal/handlers"
	"github.com/continuum-journal/continuum/internal/middleware"
	"github.com/continuum-journal/continuum/internal/services"
	"github.com/continuum-journal/continuum/internal/types"

	_ "github.com/continuum-journal/continuum/docs/api" // Swagger docs
)

// @title Continuum API
// @version 1.0.0
// @description Personal journaling service with per-object access control and background thought analysis
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/continuum-journal/continuum

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Enrichment pipeline
	queue := enrichment.NewQueue(cfg.QueueCapacity)
	classifier := enrichment.NewOpenAIClassifier(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	pool := enrichment.NewPool(db, classifier, queue, zlog, cfg.WorkerCount, cfg.WorkerMaxRetries)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	// Services
	content := services.NewContent(db, queue, zlog)
	auth, err := services.NewAuthenticator(cfg, content, zlog)
	if err != nil {
		log.Fatalf("Failed to initialize authenticator: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("continuum")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	healthHandler := &handlers.HealthHandler{Config: cfg, DB: db, Queue: queue}
	tagHandler := &handlers.TagHandler{Content: content}
	entryHandler := &handlers.EntryHandler{Content: content}
	thoughtHandler := &handlers.ThoughtHandler{Content: content}
	taskHandler := &handlers.TaskHandler{Content: content}

	// Health route (unauthenticated)
	api.Get("/health", healthHandler.GetHealth)

	// Authenticated journal routes
	user := middleware.AuthUser(auth)

	api.Post("/tags", user, tagHandler.CreateTag)
	api.Get("/tags", user, tagHandler.ListTags)
	api.Get("/tags/:tag", user, tagHandler.GetTag)
	api.Put("/tags/:tag", user, tagHandler.UpdateTag)
	api.Delete("/tags/:tag", user, tagHandler.DeleteTag)

	api.Post("/entries", user, entryHandler.CreateEntry)
	api.Get("/entries", user, entryHandler.ListEntries)
	api.Get("/entries/:entry", user, entryHandler.GetEntry)
	api.Delete("/entries/:entry", user, entryHandler.DeleteEntry)
	api.Post("/entries/:entry/thoughts", user, entryHandler.AddThought)
	api.Put("/entries/:entry/thoughts/:thought", user, entryHandler.EditThought)
	api.Delete("/entries/:entry/thoughts/:thought", user, entryHandler.DeleteThought)

	api.Get("/thoughts", user, thoughtHandler.ListThoughts)
	api.Get("/thoughts/:thought", user, thoughtHandler.GetThought)
	api.Put("/thoughts/:thought", user, thoughtHandler.UpdateThought)
	api.Delete("/thoughts/:thought", user, thoughtHandler.DeleteThought)

	api.Post("/tasks", user, taskHandler.CreateTask)
	api.Get("/tasks", user, taskHandler.ListActiveTasks)
	api.Get("/tasks/:task", user, taskHandler.GetTask)
	api.Put("/tasks/:task", user, taskHandler.UpdateTask)
	api.Delete("/tasks/:task", user, taskHandler.DeleteTask)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Drain the enrichment queue before exit
	pool.Stop()
	cancel()

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
