package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"snapshot-sync/core/apply"
	"snapshot-sync/core/config"
	"snapshot-sync/core/database"
	"snapshot-sync/core/logger"
	"snapshot-sync/core/snapshot"
	"snapshot-sync/core/storage"
	"snapshot-sync/feature/products"
	"snapshot-sync/feature/records"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags shared by the reconcile subcommands
	policyFlag   string
	existingFile string
	incomingFile string

	// Flags for reconcile products
	incomingObject string
	batchSize      int
	dryRun         bool
	yesConfirm     bool
	uploadReport   bool

	// Flags for reconcile records
	keyPath       string
	timestampPath string
	excludeFields []string
	outputFile    string
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile an incoming snapshot against an existing one",
	Long: `Classify the entities of an incoming snapshot into inserts, updates and deletes
relative to an existing snapshot, and optionally apply the result.`,
}

// productsReconcileCmd reconciles products against the catalog database.
var productsReconcileCmd = &cobra.Command{
	Use:   "products",
	Short: "Reconcile products (report + optionally apply)",
	Long: `Reconcile a product snapshot against the catalog database.

The incoming snapshot is read from a JSON or YAML file, or streamed from the bucket.
Without --existing the result is applied to the database after confirmation.

Examples:
  # Report only
  reconcile products --incoming products.json --dry-run

  # Apply with a different policy, auto-confirmed
  reconcile products --incoming products.yaml --policy newer-wins --yes

  # Stream from the bucket in batches of 1000 and upload a report
  reconcile products --object snapshots/products.json --batch-size 1000 --report --yes

  # Diff two files without a database
  reconcile products --existing old.json --incoming new.json`,
	RunE: runProductsReconcile,
}

// recordsReconcileCmd diffs two schemaless JSON files.
var recordsReconcileCmd = &cobra.Command{
	Use:   "records",
	Short: "Diff two JSON arrays keyed by a gjson path",
	Long: `Diff two JSON arrays of arbitrary objects. The key and optional timestamp
of each element are read with gjson paths.

Examples:
  reconcile records --existing a.json --incoming b.json --key-path sku
  reconcile records --existing a.json --incoming b.json --key-path meta.id \
    --timestamp-path meta.updated_at --policy newer-wins --output diff.json`,
	RunE: runRecordsReconcile,
}

func init() {
	reconcileCmd.AddCommand(productsReconcileCmd)
	reconcileCmd.AddCommand(recordsReconcileCmd)

	for _, c := range []*cobra.Command{productsReconcileCmd, recordsReconcileCmd} {
		c.Flags().StringVar(&policyFlag, "policy", "", "Update policy (defaults to RECONCILE_POLICY)")
		c.Flags().StringVar(&existingFile, "existing", "", "Existing snapshot file")
		c.Flags().StringVar(&incomingFile, "incoming", "", "Incoming snapshot file")
	}

	productsReconcileCmd.Flags().StringVar(&incomingObject, "object", "", "Incoming snapshot object in the bucket")
	productsReconcileCmd.Flags().IntVar(&batchSize, "batch-size", 0, "Batch size when streaming from the bucket (defaults to RECONCILE_BATCH_SIZE)")
	productsReconcileCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	productsReconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm mutations (non-interactive)")
	productsReconcileCmd.Flags().BoolVar(&uploadReport, "report", false, "Upload the outcome to the bucket")
	productsReconcileCmd.MarkFlagsMutuallyExclusive("incoming", "object")

	recordsReconcileCmd.Flags().StringVar(&keyPath, "key-path", records.DefaultKeyPath, "gjson path of the record key")
	recordsReconcileCmd.Flags().StringVar(&timestampPath, "timestamp-path", "", "gjson path of the record timestamp")
	recordsReconcileCmd.Flags().StringSliceVar(&excludeFields, "exclude", nil, "Fields ignored by content comparison")
	recordsReconcileCmd.Flags().StringVar(&outputFile, "output", "", "Write the diff as JSON to this file")
	_ = recordsReconcileCmd.MarkFlagRequired("existing")
	_ = recordsReconcileCmd.MarkFlagRequired("incoming")

	RootCmd.AddCommand(reconcileCmd)
}

func runProductsReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	req := products.Request{Policy: policyFlag, BatchSize: batchSize, DryRun: true}

	// File to file diff, no database involved
	if existingFile != "" {
		if incomingFile == "" {
			return fmt.Errorf("--existing requires --incoming")
		}
		existing, err := snapshot.ReadFile[products.Product](existingFile)
		if err != nil {
			return err
		}
		incoming, err := snapshot.ReadFile[products.Product](incomingFile)
		if err != nil {
			return err
		}
		svc := products.NewService(products.ServiceConfig{Reconcile: cfg.Reconcile, Logger: l})
		result, err := svc.Diff(existing, incoming, req)
		if err != nil {
			return err
		}
		printReconcileReport(l, apply.BuildPlan("", result, products.Product.EntityKey))
		return nil
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	store := products.NewStore(db)
	if cfg.Database.Driver == database.DriverSQLite {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
	}
	if err := store.CheckSchema(ctx); err != nil {
		return err
	}

	var client storage.Client
	if incomingFile == "" || uploadReport {
		if client, err = storage.NewClient(cfg.Storage); err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	svc := products.NewService(products.ServiceConfig{
		Store:        store,
		Client:       client,
		Bucket:       cfg.Storage.Bucket,
		ReportPrefix: cfg.Storage.ReportPrefix,
		Region:       cfg.Storage.Region,
		Reconcile:    cfg.Reconcile,
		Logger:       l,
	})

	// Step 1: Plan (always runs)
	l.Info("Planning reconciliation...")
	var outcome *products.Outcome
	source := incomingFile
	if incomingFile != "" {
		incoming, err := snapshot.ReadFile[products.Product](incomingFile)
		if err != nil {
			return err
		}
		outcome, err = svc.Reconcile(ctx, incoming, req)
		if err != nil {
			return err
		}
	} else {
		source = incomingObject
		if source == "" {
			source = cfg.Reconcile.SnapshotObject
		}
		outcome, err = svc.ReconcileObject(ctx, source, req)
		if err != nil {
			return err
		}
	}

	l = logger.WithRunID(l, outcome.RunID)
	printReconcileReport(l, outcome.Plan)

	// Step 2: Apply (if confirmed)
	switch {
	case dryRun:
		l.Info("Dry-run mode: No changes were made.")
	case !outcome.Result.HasChanges():
		l.Info("No actions required.")
	case !confirmDestructiveAction():
		l.Warn("Operation cancelled by user. No changes were made.")
	default:
		l.Info("Applying actions...")
		if err := svc.Apply(ctx, outcome); err != nil {
			return fmt.Errorf("failed to apply plan: %w", err)
		}
		l.Info("Successfully executed actions", zap.Int("count", outcome.Applied))
	}

	if uploadReport {
		key, err := svc.UploadReport(ctx, source, outcome)
		if err != nil {
			return fmt.Errorf("failed to upload report: %w", err)
		}
		l.Info("Report uploaded", zap.String("bucket", cfg.Storage.Bucket), zap.String("object", key))
	}

	return nil
}

func runRecordsReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	existing, err := os.ReadFile(existingFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", existingFile, err)
	}
	incoming, err := os.ReadFile(incomingFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", incomingFile, err)
	}

	svc := records.NewService(cfg.Reconcile, l)
	resp, err := svc.Diff(records.DiffRequest{
		Existing:       existing,
		Incoming:       incoming,
		KeyPath:        keyPath,
		TimestampPath:  timestampPath,
		Policy:         policyFlag,
		ExcludedFields: excludeFields,
	})
	if err != nil {
		return err
	}

	l.Info("Records diff",
		zap.String("policy", resp.Summary.Policy),
		zap.Int("inserts", resp.Summary.Inserts),
		zap.Int("updates", resp.Summary.Updates),
		zap.Int("deletes", resp.Summary.Deletes),
		zap.Int("unchanged", resp.Summary.Unchanged),
	)

	if outputFile == "" {
		return nil
	}
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode diff: %w", err)
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputFile, err)
	}
	l.Info("Diff written", zap.String("file", outputFile))
	return nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, plan *apply.Plan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("inserts", s.Inserts),
		zap.Int("updates", s.Updates),
		zap.Int("deletes", s.Deletes),
		zap.Int("total_actions", len(plan.Actions)),
	)

	// Show sample of actions (max 5 for logger)
	maxShow := min(5, len(plan.Actions))
	for _, action := range plan.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("key", action.Key),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm changes: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
