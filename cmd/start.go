package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tailor-preview/core/config"
	"tailor-preview/core/database"
	"tailor-preview/core/loader"
	"tailor-preview/core/logger"
	"tailor-preview/core/metrics"
	"tailor-preview/core/middleware/auth"
	"tailor-preview/core/middleware/rayid"
	"tailor-preview/core/storage"
	"tailor-preview/feature/compositor"
	"tailor-preview/feature/outfits"
	previewfeature "tailor-preview/feature/preview"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "tailor-preview/docs/swagger"
)

// @title Tailor Preview API
// @version 1.0
// @description API for rendering outfit previews from texture maps.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the preview server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to the outfit catalog (optional)
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed, outfit catalog disabled", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to outfit catalog", zap.String("driver", cfg.Database.Driver))
		}

		// 4. Initialize Storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := storage.EnsureBucket(ctx, store, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			logg.Warn("Storage bucket check failed", zap.Error(err))
		}
		cancel()

		// 5. Rendering engine and sessions
		factory, err := compositor.NewFactory(store, cfg.Storage.Bucket, cfg.Engine, logg)
		if err != nil {
			logg.Fatal("Failed to create rendering engine", zap.Error(err))
		}
		m := metrics.New()

		outfitFeature := outfits.NewFeature(db, logg)
		var catalog previewfeature.OutfitSource
		if outfitFeature.IsEnabled() {
			catalog = outfitFeature.Service()
		}
		sessions := previewfeature.NewService(factory, catalog, store, m, logg, previewfeature.Settings{
			Defaults:    cfg.Preview,
			MaxSessions: cfg.Server.MaxSessions,
			Bucket:      cfg.Storage.Bucket,
			ImageKey:    factory.OutputKey,
		})
		defer sessions.Close()

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimitKB * 1024,
		})

		// 7. Initialize Feature Loader
		mgr := loader.NewManager(logg)
		mgr.Register(outfitFeature)
		mgr.Register(previewfeature.NewFeature(sessions, logg, time.Duration(cfg.Preview.WaitTimeoutSeconds)*time.Second))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Request logging with RayID
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", m.Handler())

		// 4. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/swagger", "/metrics"}}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
