package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"location-manager/core/config"
	"location-manager/core/database"
	"location-manager/core/fetch"
	"location-manager/core/loader"
	"location-manager/core/logger"
	"location-manager/core/middleware/auth"
	"location-manager/core/middleware/rayid"
	"location-manager/core/snapshot"
	"location-manager/core/storage"
	"location-manager/feature/comparison"
	"location-manager/feature/corrections"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title Location Manager API
// @version 1.0
// @description API for comparing location snapshots and managing corrections.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the location manager server",
	Long:  `Starts the HTTP server serving the correction store and the comparison API.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Optional)
		// Update history falls back to memory only when unavailable.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed, audit persistence disabled", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to audit database")
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize the correction store backend
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		store := corrections.NewObjectStore(client, cfg.Storage.Bucket, cfg.Storage.Object)
		ensureCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := store.EnsureBucket(ensureCtx); err != nil {
			logg.Fatal("Failed to prepare corrections bucket", zap.Error(err))
		}

		// 6. Initialize the snapshot store
		snapStore := snapshot.NewStore(fetch.NewHTTPClient(cfg.Snapshot.TimeoutSeconds), logg)

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		compFeature, err := comparison.NewFeature(snapStore, cfg.Snapshot, db, logg)
		if err != nil {
			logg.Fatal("Failed to initialize comparison feature", zap.Error(err))
		}
		mgr.Register(compFeature)
		mgr.Register(corrections.NewFeature(store, cfg.Server, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
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

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth. Skipped when no token is configured, and never applied
		// to CORS preflight.
		app.Use(auth.New(auth.Config{Token: cfg.Server.WorkerToken}))

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful Shutdown
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
