package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"hogenchat/internal/config"
	"hogenchat/internal/database"
	"hogenchat/internal/handlers"
	"hogenchat/internal/middleware"
	"hogenchat/internal/observability"
	"hogenchat/internal/repository"
	"hogenchat/internal/routes"
	"hogenchat/internal/voicevox"
)

func main() {
	// JSON structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting hogenchat backend", "version", handlers.Version)

	// ─── Config ──────────────────────────────────────────────────────────
	cfg := config.Load()

	// ─── Database ────────────────────────────────────────────────────────
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	// ─── Metrics ────────────────────────────────────────────────────────
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	// ─── Repositories ───────────────────────────────────────────────────
	conversationRepo := repository.NewConversationRepository(db)
	userRepo := repository.NewUserRepository(db)

	// ─── Synthesis engine ───────────────────────────────────────────────
	engine := voicevox.NewClient(cfg.VoicevoxURL)

	// ─── Handlers ───────────────────────────────────────────────────────
	systemHandler := handlers.NewSystemHandler(db)
	userHandler := handlers.NewUserHandler(userRepo)
	conversationHandler := handlers.NewConversationHandler(conversationRepo)
	synthesisHandler := handlers.NewSynthesisHandler(db, engine, metrics, cfg.VoicevoxDefaultSpeaker)

	// ─── Fiber App ──────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      "hogenchat v" + handlers.Version,
		ServerHeader: "hogenchat",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": message,
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	app.Use(recover.New(recover.Config{
		EnableStackTrace: false,
	}))

	app.Use(middleware.RequestLog(metrics))

	// ─── Routes ─────────────────────────────────────────────────────────
	routes.Setup(app, systemHandler, userHandler, conversationHandler, synthesisHandler)

	// ─── Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down hogenchat backend...")

		if err := app.Shutdown(); err != nil {
			slog.Error("Fiber shutdown error", "error", err)
		}

		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// ─── Start ──────────────────────────────────────────────────────────
	listenAddr := ":" + cfg.Port
	slog.Info("hogenchat backend listening", "addr", listenAddr)

	if err := app.Listen(listenAddr); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
