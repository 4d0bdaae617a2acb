package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"snapshot-sync/core/config"
	"snapshot-sync/core/database"
	"snapshot-sync/core/loader"
	"snapshot-sync/core/logger"
	"snapshot-sync/core/middleware/auth"
	"snapshot-sync/core/middleware/rayid"
	"snapshot-sync/core/storage"

	"snapshot-sync/feature/products"
	"snapshot-sync/feature/records"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "snapshot-sync/docs/swagger"
)

// @title snapshot-sync API
// @version 1.0
// @description Reconcile keyed snapshots against a catalog database.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the snapshot-sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
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
		// Without it the products routes answer 503; records still work.
		var store *products.Store
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			store = products.NewStore(db)
			if cfg.Database.Driver == database.DriverSQLite {
				if err := store.Migrate(context.Background()); err != nil {
					logg.Fatal("Failed to migrate catalog database", zap.Error(err))
				}
			}
			if err := store.CheckSchema(context.Background()); err != nil {
				logg.Fatal("Catalog database schema check failed", zap.Error(err))
			}
			logg.Info("Connected to catalog database", zap.String("driver", cfg.Database.Driver))
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		// 5. Initialize Storage
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// 6. Initialize Feature Loader
		mgr := loader.NewManager(logg)

		// Register Features
		mgr.Register(products.NewFeature(products.ServiceConfig{
			Store:        store,
			Client:       client,
			Bucket:       cfg.Storage.Bucket,
			ReportPrefix: cfg.Storage.ReportPrefix,
			Region:       cfg.Storage.Region,
			Reconcile:    cfg.Reconcile,
			Logger:       logg,
		}))
		mgr.Register(records.NewFeature(cfg.Reconcile, logg))

		// Middleware Registration
		// RayID first so every log line carries it
		app.Use(rayid.New())

		// Request logging with the ray id
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

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// Auth protects every route registered after it
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))
		if cfg.Server.ApiKey == "" {
			logg.Warn("SERVER_API_KEY is empty, API authentication is disabled")
		}

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
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
