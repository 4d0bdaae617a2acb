package products

import (
	"context"
	"errors"
	"time"

	"snapshot-sync/core/apply"
	"snapshot-sync/core/logger"
	"snapshot-sync/core/reconcile"
	"snapshot-sync/core/snapshot"
	"snapshot-sync/core/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// cacheKey is the snapshot cache entry holding the database snapshot.
const cacheKey = "products"

// ErrNoDatabase is returned by operations that need the catalog database when the
// server started without one.
var ErrNoDatabase = errors.New("catalog database is not available")

// Request carries the per-call overrides of the configured reconcile options.
type Request struct {
	// Policy overrides the configured policy when not empty.
	Policy string `json:"policy,omitempty"`
	// BatchSize overrides the configured batch size when positive.
	BatchSize int `json:"batch_size,omitempty"`
	// DryRun computes the result without writing it.
	DryRun bool `json:"dry_run"`
	// Report uploads the outcome to object storage.
	Report bool `json:"report"`
}

// Outcome is what a reconciliation run produced.
type Outcome struct {
	RunID   string                          `json:"run_id"`
	DryRun  bool                            `json:"dry_run"`
	Applied int                             `json:"applied"`
	Plan    *apply.Plan                     `json:"plan"`
	Result  *reconcile.Result[int, Product] `json:"result"`
	Report  string                          `json:"report,omitempty"`
}

// Report is the document uploaded for a run.
type Report struct {
	RunID     string            `json:"run_id"`
	CreatedAt time.Time         `json:"created_at"`
	Source    string            `json:"source"`
	DryRun    bool              `json:"dry_run"`
	Applied   int               `json:"applied"`
	Summary   reconcile.Summary `json:"summary"`
	Plan      *apply.Plan       `json:"plan"`
}

// Service reconciles incoming product snapshots against the catalog database.
type Service struct {
	store   *Store
	client  storage.Client
	bucket  string
	prefix  string
	region  string
	config  reconcile.Config
	cache   *snapshot.Cache[Product]
	logger  *zap.Logger
	newID   func() string
	nowFunc func() time.Time
}

// ServiceConfig groups the service dependencies.
type ServiceConfig struct {
	Store        *Store
	Client       storage.Client
	Bucket       string
	ReportPrefix string
	Region       string
	Reconcile    reconcile.Config
	Logger       *zap.Logger
}

// NewService creates a products service. A nil store disables database operations.
func NewService(cfg ServiceConfig) *Service {
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{
		store:   cfg.Store,
		client:  cfg.Client,
		bucket:  cfg.Bucket,
		prefix:  cfg.ReportPrefix,
		region:  cfg.Region,
		config:  cfg.Reconcile,
		cache:   snapshot.NewCache[Product](cfg.Reconcile.CacheTTL()),
		logger:  l,
		newID:   uuid.NewString,
		nowFunc: time.Now,
	}
}

// Options resolves the engine options for a request.
func (s *Service) Options(req Request, l *zap.Logger) (reconcile.Options[Product], error) {
	cfg := s.config
	if req.Policy != "" {
		cfg.Policy = req.Policy
	}
	return reconcile.OptionsFrom[Product](cfg, l)
}

// Diff reconciles two in-memory snapshots without touching the database.
func (s *Service) Diff(existing, incoming []Product, req Request) (*reconcile.Result[int, Product], error) {
	opts, err := s.Options(req, s.logger)
	if err != nil {
		return nil, err
	}
	return reconcile.Reconcile[int](existing, incoming, opts)
}

// Reconcile diffs incoming against the database and applies the result unless
// the request is a dry run.
func (s *Service) Reconcile(ctx context.Context, incoming []Product, req Request) (*Outcome, error) {
	return s.run(ctx, "request", req, func(engine *reconcile.Engine[int, Product], existing []Product) (*reconcile.Result[int, Product], error) {
		return engine.Reconcile(existing, incoming)
	})
}

// ReconcileObject streams the incoming snapshot from object storage and diffs it
// in batches. An empty object name uses the configured snapshot object.
func (s *Service) ReconcileObject(ctx context.Context, object string, req Request) (*Outcome, error) {
	if object == "" {
		object = s.config.SnapshotObject
	}
	batchSize := s.config.BatchSize
	if req.BatchSize > 0 {
		batchSize = req.BatchSize
	}

	return s.run(ctx, object, req, func(engine *reconcile.Engine[int, Product], existing []Product) (*reconcile.Result[int, Product], error) {
		stream := snapshot.StreamObject[Product](ctx, s.client, s.bucket, object)
		return engine.ReconcileBatched(ctx, existing, stream, batchSize)
	})
}

type diffFunc func(engine *reconcile.Engine[int, Product], existing []Product) (*reconcile.Result[int, Product], error)

func (s *Service) run(ctx context.Context, source string, req Request, diff diffFunc) (*Outcome, error) {
	if s.store == nil {
		return nil, ErrNoDatabase
	}

	runID := s.newID()
	l := logger.WithRunID(s.logger, runID)

	opts, err := s.Options(req, l)
	if err != nil {
		return nil, err
	}
	engine, err := reconcile.New[int](opts)
	if err != nil {
		return nil, err
	}

	existing, err := s.cache.Get(ctx, cacheKey, s.store.Load)
	if err != nil {
		return nil, err
	}

	result, err := diff(engine, existing)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		RunID:  runID,
		DryRun: req.DryRun,
		Plan:   apply.BuildPlan(runID, result, Product.EntityKey),
		Result: result,
	}

	if !req.DryRun {
		if err := s.Apply(ctx, outcome); err != nil {
			return nil, err
		}
	}

	l.Info("Products reconciled",
		zap.String("source", source),
		zap.String("policy", result.Summary.Policy),
		zap.Int("inserts", result.InsertCount()),
		zap.Int("updates", result.UpdateCount()),
		zap.Int("deletes", result.DeleteCount()),
		zap.Int("unchanged", result.UnchangedCount()),
		zap.Bool("dry_run", req.DryRun),
		zap.Int("applied", outcome.Applied),
	)

	if req.Report {
		key, err := s.UploadReport(ctx, source, outcome)
		if err != nil {
			// Report upload failures do not fail the run.
			l.Error("Failed to upload reconciliation report", zap.Error(err))
		} else {
			outcome.Report = key
		}
	}

	return outcome, nil
}

// Apply writes the result of a planned outcome to the database.
func (s *Service) Apply(ctx context.Context, outcome *Outcome) error {
	if s.store == nil {
		return ErrNoDatabase
	}
	n, err := s.store.ApplyResult(ctx, outcome.Result, apply.Options{Confirmed: true})
	if err != nil {
		return err
	}
	outcome.Applied = n
	outcome.DryRun = false
	if n > 0 {
		s.cache.Invalidate(cacheKey)
	}
	return nil
}

// UploadReport stores the outcome under the report prefix and returns its key.
func (s *Service) UploadReport(ctx context.Context, source string, outcome *Outcome) (string, error) {
	if s.client == nil {
		return "", errors.New("object storage is not configured")
	}
	if err := storage.EnsureBucket(ctx, s.client, s.bucket, s.region); err != nil {
		return "", err
	}

	key := s.prefix + outcome.RunID + ".json"
	report := Report{
		RunID:     outcome.RunID,
		CreatedAt: s.nowFunc().UTC(),
		Source:    source,
		DryRun:    outcome.DryRun,
		Applied:   outcome.Applied,
		Summary:   outcome.Result.Summary,
		Plan:      outcome.Plan,
	}
	if err := snapshot.WriteObject(ctx, s.client, s.bucket, key, report); err != nil {
		return "", err
	}
	return key, nil
}

// Reports lists uploaded reports.
func (s *Service) Reports(ctx context.Context) ([]storage.ObjectSummary, error) {
	if s.client == nil {
		return nil, errors.New("object storage is not configured")
	}
	return storage.ListPrefix(ctx, s.client, s.bucket, s.prefix)
}
