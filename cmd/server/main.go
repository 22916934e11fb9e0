package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/Kross8/rag-api/internal/adapter/ai"
	"github.com/Kross8/rag-api/internal/adapter/store"
	"github.com/Kross8/rag-api/internal/handler"
	"github.com/Kross8/rag-api/internal/port"
	"github.com/Kross8/rag-api/internal/service"
	"github.com/Kross8/rag-api/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting RAG API",
		"port", cfg.Port,
		"ai_embed", cfg.AIEmbedURL,
		"ai_chat", cfg.AIChatURL,
		"vector_store", cfg.VectorStore,
		"top_k", cfg.TopK,
	)

	if cfg.EmbeddingDimension <= 0 {
		slog.Error("invalid embedding dimension", "dimension", cfg.EmbeddingDimension)
		os.Exit(1)
	}

	// ── AI provider (embed + chat endpoints) ─────────────────────────────
	aiProvider := ai.NewOllamaProvider(
		ai.EndpointConfig{
			BaseURL: cfg.AIEmbedURL,
			Model:   cfg.AIEmbedModel,
			Token:   cfg.AIEmbedToken,
		},
		ai.EndpointConfig{
			BaseURL: cfg.AIChatURL,
			Model:   cfg.AIChatModel,
			Token:   cfg.AIChatToken,
		},
		cfg.EmbeddingDimension,
	)

	// ── Vector store ─────────────────────────────────────────────────────
	var vectorStore port.VectorStore
	switch cfg.VectorStore {
	case "memory":
		vectorStore = store.NewMemoryStore(cfg.EmbeddingDimension)
	default:
		pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pgStore.Close()

		if err := pgStore.EnsureSchema(context.Background(), cfg.EmbeddingDimension); err != nil {
			slog.Error("failed to prepare schema", "error", err)
			os.Exit(1)
		}
		vectorStore = store.NewPgVectorStore(pgStore, cfg.EmbeddingDimension)
	}

	// ── Services ─────────────────────────────────────────────────────────
	ingestService := service.NewIngestService(aiProvider, vectorStore, cfg.MinChunkChars)
	queryService := service.NewQueryService(
		aiProvider, vectorStore, aiProvider,
		cfg.TopK, cfg.GenTemperature, cfg.VerifyTemperature,
	)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"app":    cfg.AppName,
		})
	})

	api := app.Group("/api/v1")

	ingestHandler := handler.NewIngestHandler(ingestService)
	ingestHandler.Register(api)

	queryHandler := handler.NewQueryHandler(queryService)
	queryHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
