package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/chatda/chatda-api/internal/config"
	"github.com/chatda/chatda-api/internal/database"
	"github.com/chatda/chatda-api/internal/handler"
	"github.com/chatda/chatda-api/internal/logging"
	"github.com/chatda/chatda-api/internal/middleware"
	"github.com/chatda/chatda-api/internal/repository"
	"github.com/chatda/chatda-api/internal/service"
)

// main is the single entry‑point for the REST API.
func main() {
	ctx := context.Background()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	logger.Printf("Configuration loaded:")
	logger.Printf("  - Generator backend: %s", cfg.GeneratorBackend)
	logger.Printf("  - Database: %s", cfg.DBName)
	logger.Printf("  - Usage log: %s", cfg.UsageLogPath)

	// Usage telemetry always goes to the rotating file; Mongo is added below.
	usageFile, err := logging.NewRotatingWriter(cfg.UsageLogPath, cfg.UsageLogMaxBytes)
	if err != nil {
		logger.Fatalf("Failed to open usage log: %v", err)
	}
	defer usageFile.Close()
	recorders := service.MultiRecorder{service.NewLogRecorder(log.New(usageFile, "", 0))}

	// Connect to MongoDB (feedback, usage logs, product catalog)
	var (
		mongoClient  *mongo.Client
		db           *mongo.Database
		feedbackRepo service.FeedbackRepository
	)
	if cfg.MongoURI != "" {
		mongoClient, err = database.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			logger.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoClient.Disconnect(context.Background())
		logger.Printf("Connected to MongoDB")

		db = mongoClient.Database(cfg.DBName)
		recorders = append(recorders, repository.NewUsageRepository(db))
		feedbackRepo = repository.NewFeedbackRepository(db, logger)
	} else {
		logger.Printf("MONGODB_URI not set; running without persistence")
	}

	// Initialize the generation engine
	gen, closeGen, err := newGenerator(ctx, cfg, db, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize %s generator: %v", cfg.GeneratorBackend, err)
	}
	defer closeGen()

	examples, err := service.LoadExamples()
	if err != nil {
		logger.Fatalf("Failed to load example data: %v", err)
	}

	// Initialize services
	chatSvc := service.NewChatService(gen, examples, cfg.MaxCandidates, logger)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, logger)
	relay := service.NewRelay(recorders, cfg.TokenDelay, cfg.MaxCandidates, logger)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "chatda-api",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: handler.ErrorHandler(logger),
	})

	// Add middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logging(logger))
	app.Use(recover.New())
	app.Use(cors.New())

	// Register routes
	handler.RegisterRoutes(app, chatSvc, feedbackSvc, relay, logger)
	handler.NewHealthHandler(mongoClient, cfg.GeneratorBackend).Register(app)

	// Start server
	logger.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatalf("Server failed to start: %v", err)
	}
}

// newGenerator builds the configured backend. The returned func releases its clients.
func newGenerator(ctx context.Context, cfg config.Config, db *mongo.Database, logger *log.Logger) (service.Generator, func(), error) {
	switch cfg.GeneratorBackend {
	case config.BackendVertex:
		llm, err := service.NewVertexLLM(ctx, cfg.ProjectID, cfg.Location, cfg.VertexModel, cfg.CredentialsFile, logger)
		if err != nil {
			return nil, nil, err
		}
		embedder, err := service.NewVertexEmbedder(ctx, cfg.ProjectID, cfg.Location, cfg.VertexEmbeddingModel, cfg.CredentialsFile)
		if err != nil {
			_ = llm.Close()
			return nil, nil, err
		}
		gen := service.NewRAGGenerator(llm, embedder, repository.NewProductRepository(db), cfg.MaxCandidates, cfg.SearchCandidates, logger)
		return gen, closeAll(logger, llm, embedder), nil

	case config.BackendOpenAI:
		client := service.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)
		llm := service.NewOpenAILLM(client, cfg.OpenAIModel, logger)
		embedder := service.NewOpenAIEmbedder(client, cfg.OpenAIEmbeddingModel)
		gen := service.NewRAGGenerator(llm, embedder, repository.NewProductRepository(db), cfg.MaxCandidates, cfg.SearchCandidates, logger)
		return gen, func() {}, nil

	default:
		return service.NewEchoGenerator(), func() {}, nil
	}
}

func closeAll(logger *log.Logger, closers ...io.Closer) func() {
	return func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Printf("Warning: close failed: %v", err)
			}
		}
	}
}
