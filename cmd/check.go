package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"snapshot-sync/core/config"
	"snapshot-sync/core/database"
	"snapshot-sync/core/logger"
	"snapshot-sync/core/reconcile"
	"snapshot-sync/core/snapshot"
	"snapshot-sync/core/storage"
	"snapshot-sync/feature/products"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that storage, schema and snapshots are ready for reconciliation",
	Long:  `Runs every readiness check: the snapshot bucket exists, the products table has the expected columns and the configured snapshot object decodes without duplicate keys.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			cmd.Help()
			return
		}
		runChecks(cmd.Context(), true, true, true)
	},
}

var checkStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check the snapshot bucket",
	Run: func(cmd *cobra.Command, args []string) {
		runChecks(cmd.Context(), true, false, false)
	},
}

var checkSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the products table columns",
	Run: func(cmd *cobra.Command, args []string) {
		runChecks(cmd.Context(), false, true, false)
	},
}

var checkSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Check the configured snapshot object for duplicate keys",
	Run: func(cmd *cobra.Command, args []string) {
		runChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)
	checkCmd.AddCommand(checkStorageCmd, checkSchemaCmd, checkSnapshotCmd)

	checkStorageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when it is missing")
	checkSchemaCmd.Flags().BoolVar(&fixFlag, "fix", false, "Migrate the products table")
}

func runChecks(ctx context.Context, runStorage, runSchema, runSnapshot bool) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	failed := false

	if runStorage || runSnapshot {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		if runStorage && !checkBucket(ctx, logg, client, cfg.Storage) {
			failed = true
		}
		if runSnapshot && !checkSnapshot(ctx, logg, client, cfg) {
			failed = true
		}
	}

	if runSchema && !checkSchema(ctx, logg, cfg.Database) {
		failed = true
	}

	if failed {
		os.Exit(1)
	}
}

func checkBucket(ctx context.Context, logg *zap.Logger, client storage.Client, cfg storage.Config) bool {
	logg.Info("Checking snapshot bucket...", zap.String("bucket", cfg.Bucket))
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		logg.Error("Bucket check failed", zap.Error(err))
		return false
	}
	if exists {
		logg.Info("Bucket is present.")
		return true
	}

	if !fixFlag {
		logg.Warn("Bucket is missing. Run with --fix to create it.")
		return false
	}
	if err := storage.EnsureBucket(ctx, client, cfg.Bucket, cfg.Region); err != nil {
		logg.Error("Failed to create bucket", zap.Error(err))
		return false
	}
	logg.Info("Bucket created.")
	return true
}

func checkSchema(ctx context.Context, logg *zap.Logger, cfg database.Config) bool {
	logg.Info("Checking products schema...", zap.String("driver", cfg.Driver))
	db, err := database.Connect(cfg)
	if err != nil {
		logg.Error("Database connection failed", zap.Error(err))
		return false
	}

	store := products.NewStore(db)
	if fixFlag {
		if err := store.Migrate(ctx); err != nil {
			logg.Error("Migration failed", zap.Error(err))
			return false
		}
	}
	if err := store.CheckSchema(ctx); err != nil {
		logg.Warn("Schema mismatch", zap.Error(err))
		return false
	}
	logg.Info("Schema matches the products model.")
	return true
}

func checkSnapshot(ctx context.Context, logg *zap.Logger, client storage.Client, cfg *config.Config) bool {
	object := cfg.Reconcile.SnapshotObject
	logg.Info("Checking snapshot object...", zap.String("object", object))

	incoming, err := snapshot.ReadObject[products.Product](ctx, client, cfg.Storage.Bucket, object)
	if err != nil {
		logg.Error("Snapshot could not be read", zap.Error(err))
		return false
	}

	opts, err := reconcile.OptionsFrom[products.Product](cfg.Reconcile, logg)
	if err != nil {
		logg.Error("Invalid reconcile configuration", zap.Error(err))
		return false
	}

	// Reconciling against an empty side surfaces duplicate keys without touching the database.
	result, err := reconcile.Reconcile[int](nil, incoming, opts)
	if errors.Is(err, reconcile.ErrDuplicateKey) {
		logg.Warn("Snapshot has duplicate keys", zap.Error(err))
		return false
	}
	if err != nil {
		logg.Error("Snapshot check failed", zap.Error(err))
		return false
	}
	logg.Info("Snapshot is valid.", zap.Int("entities", result.InsertCount()))
	return true
}
