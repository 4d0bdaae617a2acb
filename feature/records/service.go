package records

import (
	"encoding/json"
	"fmt"

	"snapshot-sync/core/reconcile"

	"go.uber.org/zap"
)

// DiffRequest describes two raw snapshots and how to read them.
type DiffRequest struct {
	Existing       json.RawMessage `json:"existing" swaggertype:"array,object"`
	Incoming       json.RawMessage `json:"incoming" swaggertype:"array,object"`
	KeyPath        string          `json:"key_path"`
	TimestampPath  string          `json:"timestamp_path"`
	Policy         string          `json:"policy"`
	ExcludedFields []string        `json:"excluded_fields"`
	IgnoreInserts  bool            `json:"ignore_inserts"`
	IgnoreUpdates  bool            `json:"ignore_updates"`
	IgnoreDeletes  bool            `json:"ignore_deletes"`
}

// DiffResponse is the classification of a records diff. Digests maps the key of
// every inserted or updated record to the SHA-256 of its canonical form.
type DiffResponse struct {
	Summary  reconcile.Summary `json:"summary"`
	ToInsert []Record          `json:"to_insert" swaggertype:"array,object"`
	ToUpdate []Record          `json:"to_update" swaggertype:"array,object"`
	ToDelete []string          `json:"to_delete"`
	Digests  map[string]string `json:"digests"`
}

// Service diffs schemaless JSON snapshots.
type Service struct {
	defaults reconcile.Config
	logger   *zap.Logger
}

// NewService creates a records service. defaults supply the canonicalization options
// and the policy used when a request does not name one.
func NewService(defaults reconcile.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{defaults: defaults, logger: logger}
}

// Diff parses both snapshots and reconciles them.
func (s *Service) Diff(req DiffRequest) (*DiffResponse, error) {
	existing, err := Parse(req.Existing, req.KeyPath, req.TimestampPath)
	if err != nil {
		return nil, fmt.Errorf("existing snapshot: %w", err)
	}
	incoming, err := Parse(req.Incoming, req.KeyPath, req.TimestampPath)
	if err != nil {
		return nil, fmt.Errorf("incoming snapshot: %w", err)
	}
	return s.DiffRecords(existing, incoming, req)
}

// DiffRecords reconciles already parsed records using the options of req.
func (s *Service) DiffRecords(existing, incoming []Record, req DiffRequest) (*DiffResponse, error) {
	cfg := s.defaults
	if req.Policy != "" {
		cfg.Policy = req.Policy
	}
	cfg.ExcludedFields = append(append([]string(nil), cfg.ExcludedFields...), req.ExcludedFields...)
	cfg.IgnoreInserts = cfg.IgnoreInserts || req.IgnoreInserts
	cfg.IgnoreUpdates = cfg.IgnoreUpdates || req.IgnoreUpdates
	cfg.IgnoreDeletes = cfg.IgnoreDeletes || req.IgnoreDeletes

	opts, err := reconcile.OptionsFrom[Record](cfg, s.logger)
	if err != nil {
		return nil, err
	}
	engine, err := reconcile.New[string](opts)
	if err != nil {
		return nil, err
	}

	result, err := engine.Reconcile(existing, incoming)
	if err != nil {
		return nil, err
	}

	digests := make(map[string]string, len(result.ToInsert)+len(result.ToUpdate))
	canon := engine.Canonicalizer()
	for _, rec := range append(append([]Record(nil), result.ToInsert...), result.ToUpdate...) {
		digest, err := canon.Digest(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to digest record %s: %w", rec.EntityKey(), err)
		}
		digests[rec.EntityKey()] = digest
	}

	return &DiffResponse{
		Summary:  result.Summary,
		ToInsert: result.ToInsert,
		ToUpdate: result.ToUpdate,
		ToDelete: result.ToDelete,
		Digests:  digests,
	}, nil
}
