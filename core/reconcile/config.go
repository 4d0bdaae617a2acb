package reconcile

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config is the reconcile section of the application configuration.
type Config struct {
	// Policy is the update policy name, see ParsePolicy.
	Policy string `mapstructure:"policy" default:"content-changed"`
	// BatchSize is the incoming batch size used by streamed reconciliations.
	BatchSize int `mapstructure:"batch_size" default:"500"`
	// Workers bounds concurrent batch classification. Zero uses DefaultWorkers.
	Workers int `mapstructure:"workers" default:"0"`
	// IgnoreInserts drops insert candidates.
	IgnoreInserts bool `mapstructure:"ignore_inserts" default:"false"`
	// IgnoreUpdates drops update candidates.
	IgnoreUpdates bool `mapstructure:"ignore_updates" default:"false"`
	// IgnoreDeletes drops delete candidates.
	IgnoreDeletes bool `mapstructure:"ignore_deletes" default:"false"`
	// ExcludedFields is a comma separated list of fields ignored by content comparison.
	ExcludedFields []string `mapstructure:"excluded_fields" default:""`
	// Naming is the canonical field naming: camel, snake, lower or empty.
	Naming string `mapstructure:"naming" default:""`
	// Precision rounds numbers before comparison. Negative disables rounding.
	Precision int32 `mapstructure:"precision" default:"-1"`
	// KeepNulls keeps null fields in canonical documents.
	KeepNulls bool `mapstructure:"keep_nulls" default:"false"`
	// NormalizeUnicode applies NFC to strings before comparison.
	NormalizeUnicode bool `mapstructure:"normalize_unicode" default:"false"`
	// LogComparisons logs every matched-key decision at debug level.
	LogComparisons bool `mapstructure:"log_comparisons" default:"false"`
	// CacheTTLSeconds is how long loaded existing snapshots are reused. Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"30"`
	// SnapshotObject is the default incoming snapshot object in the bucket.
	SnapshotObject string `mapstructure:"snapshot_object" default:"snapshots/products.json"`
}

// CacheTTL returns the snapshot cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// OptionsFrom builds engine options from the configuration section. The predicate of
// the custom policy cannot come from configuration, so callers that need it set it on
// the returned options.
func OptionsFrom[E any](c Config, logger *zap.Logger) (Options[E], error) {
	policy, err := ParsePolicy(c.Policy)
	if err != nil {
		return Options[E]{}, err
	}
	naming, err := ParseNaming(c.Naming)
	if err != nil {
		return Options[E]{}, err
	}

	opts := Options[E]{
		Policy:         policy,
		IgnoreInserts:  c.IgnoreInserts,
		IgnoreUpdates:  c.IgnoreUpdates,
		IgnoreDeletes:  c.IgnoreDeletes,
		ExcludedFields: cleanFields(c.ExcludedFields),
		Canonical: CanonicalConfig{
			Naming:           naming,
			KeepNulls:        c.KeepNulls,
			NormalizeUnicode: c.NormalizeUnicode,
		},
		LogComparisons: c.LogComparisons,
		Workers:        c.Workers,
		Logger:         logger,
	}
	if c.Precision >= 0 {
		opts.Canonical.Precision = Precision(c.Precision)
	}
	return opts, nil
}

func cleanFields(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		for _, part := range strings.Split(f, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
