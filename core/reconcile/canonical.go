package reconcile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Naming selects how serialized field names are rewritten before ordering.
type Naming string

const (
	// NamingAsIs keeps field names exactly as serialized.
	NamingAsIs Naming = ""
	// NamingCamel lowers the leading capital run ("ID" -> "id", "CategoryID" -> "categoryID").
	NamingCamel Naming = "camel"
	// NamingSnake converts to snake_case ("CategoryID" -> "category_id").
	NamingSnake Naming = "snake"
	// NamingLower lowercases the whole name.
	NamingLower Naming = "lower"
)

// ParseNaming converts a configuration value into a Naming.
func ParseNaming(s string) (Naming, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "as-is", "asis", "none":
		return NamingAsIs, nil
	case "camel", "camelcase":
		return NamingCamel, nil
	case "snake", "snake_case":
		return NamingSnake, nil
	case "lower", "lowercase":
		return NamingLower, nil
	default:
		return NamingAsIs, &InvalidConfigurationError{Field: "naming", Reason: fmt.Sprintf("unknown naming %q", s)}
	}
}

// CanonicalConfig holds the fixed policies applied to both operands of a comparison.
type CanonicalConfig struct {
	// Naming rewrites object keys before ordering.
	Naming Naming `json:"naming,omitempty"`
	// Precision rounds every number to this many decimal places when set.
	// Numbers are always normalized, so 1, 1.0 and 1e0 are equal.
	Precision *int32 `json:"precision,omitempty"`
	// KeepNulls keeps object fields whose value is null. By default they are omitted.
	KeepNulls bool `json:"keep_nulls,omitempty"`
	// NormalizeUnicode applies NFC normalization to string values.
	NormalizeUnicode bool `json:"normalize_unicode,omitempty"`
}

// Precision returns a pointer suitable for CanonicalConfig.Precision.
func Precision(places int32) *int32 {
	return &places
}

// Canonicalizer produces deterministic, field-filtered JSON for content comparison.
// It is safe for concurrent use.
type Canonicalizer struct {
	config   CanonicalConfig
	excluded []string
}

// NewCanonicalizer creates a canonicalizer. excluded names are removed in addition to
// the entity's own exclusions.
func NewCanonicalizer(config CanonicalConfig, excluded ...string) *Canonicalizer {
	return &Canonicalizer{config: config, excluded: excluded}
}

// Canonicalize returns the canonical form of entity. Object keys are ordered
// lexicographically, excluded fields are omitted and numbers are rendered through
// decimal normalization. Failures are returned as *ContentComparisonError.
func (c *Canonicalizer) Canonicalize(entity any) ([]byte, error) {
	config := c.config
	if p, ok := entity.(CanonicalConfigProvider); ok {
		config = p.CanonicalConfig()
	}

	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, &ContentComparisonError{Err: fmt.Errorf("serialize: %w", err)}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &ContentComparisonError{Err: fmt.Errorf("decode: %w", err)}
	}

	w := walker{config: config, excluded: c.exclusionsFor(entity)}
	doc, err = w.normalize(doc, "")
	if err != nil {
		return nil, &ContentComparisonError{Err: err}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, &ContentComparisonError{Err: fmt.Errorf("encode: %w", err)}
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Equal reports whether existing and incoming are content-equal.
// Identical references and two absent values are equal; exactly one absent value is not.
// A canonicalization failure returns false together with a *ContentComparisonError.
func (c *Canonicalizer) Equal(existing, incoming any) (bool, error) {
	existingAbsent, incomingAbsent := isAbsent(existing), isAbsent(incoming)
	if existingAbsent || incomingAbsent {
		return existingAbsent && incomingAbsent, nil
	}
	if sameReference(existing, incoming) {
		return true, nil
	}

	left, err := c.canonicalizeSide(existing, SnapshotExisting)
	if err != nil {
		return false, err
	}
	right, err := c.canonicalizeSide(incoming, SnapshotIncoming)
	if err != nil {
		return false, err
	}

	return bytes.Equal(left, right), nil
}

// Digest returns the hex encoded SHA-256 of the canonical form.
func (c *Canonicalizer) Digest(entity any) (string, error) {
	form, err := c.Canonicalize(entity)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(form)
	return hex.EncodeToString(sum[:]), nil
}

func (c *Canonicalizer) canonicalizeSide(entity any, side string) ([]byte, error) {
	form, err := c.Canonicalize(entity)
	if err != nil {
		if cce, ok := err.(*ContentComparisonError); ok {
			cce.Side = side
		}
		return nil, err
	}
	return form, nil
}

// exclusionsFor resolves the folded exclusion paths for one entity.
func (c *Canonicalizer) exclusionsFor(entity any) map[string]struct{} {
	names := []string{DefaultTimestampField}
	if p, ok := entity.(ExclusionProvider); ok {
		names = p.ExcludedFields()
	}

	set := make(map[string]struct{}, len(names)+len(c.excluded))
	for _, name := range slices.Concat(names, c.excluded) {
		if name == "" {
			continue
		}
		set[foldPath(name)] = struct{}{}
	}
	return set
}

type walker struct {
	config   CanonicalConfig
	excluded map[string]struct{}
}

func (w walker) normalize(v any, path string) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		origin := make(map[string]string, len(t))
		for key, val := range t {
			p := joinPath(path, foldName(key))
			if _, skip := w.excluded[p]; skip {
				continue
			}
			if val == nil && !w.config.KeepNulls {
				continue
			}

			name := w.config.Naming.apply(key)
			if prev, clash := origin[name]; clash {
				a, b := min(prev, key), max(prev, key)
				return nil, fmt.Errorf("fields %q and %q both map to %q", a, b, name)
			}

			n, err := w.normalize(val, p)
			if err != nil {
				return nil, err
			}
			out[name] = n
			origin[name] = key
		}
		return out, nil

	case []any:
		for i := range t {
			n, err := w.normalize(t[i], path)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil

	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return nil, fmt.Errorf("number %q at %q: %w", t.String(), path, err)
		}
		if w.config.Precision != nil {
			d = d.Round(*w.config.Precision)
		}
		return json.Number(d.String()), nil

	case string:
		if w.config.NormalizeUnicode {
			return norm.NFC.String(t), nil
		}
		return t, nil

	default:
		return t, nil
	}
}

func (n Naming) apply(name string) string {
	switch n {
	case NamingCamel:
		return camelCase(name)
	case NamingSnake:
		return snakeCase(name)
	case NamingLower:
		return strings.ToLower(name)
	default:
		return name
	}
}

func camelCase(s string) string {
	r := []rune(s)
	for i := range r {
		if !unicode.IsUpper(r[i]) {
			break
		}
		// Keep the last capital of a run when it starts the next word ("URLValue" -> "urlValue").
		if i > 0 && i+1 < len(r) && !unicode.IsUpper(r[i+1]) {
			break
		}
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

func snakeCase(s string) string {
	r := []rune(s)
	var b strings.Builder
	for i, c := range r {
		if unicode.IsUpper(c) {
			if i > 0 && r[i-1] != '_' {
				prevLower := unicode.IsLower(r[i-1]) || unicode.IsDigit(r[i-1])
				nextLower := i+1 < len(r) && unicode.IsLower(r[i+1])
				if prevLower || (nextLower && unicode.IsUpper(r[i-1])) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(c))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// foldName makes field matching insensitive to case and to '_' or '-' separators,
// so "LastModified" also matches "lastModified" and "last_modified".
func foldName(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c == '_' || c == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(c))
	}
	return b.String()
}

func foldPath(s string) string {
	parts := strings.Split(s, ".")
	for i, p := range parts {
		parts[i] = foldName(p)
	}
	return strings.Join(parts, ".")
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func sameReference(a, b any) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() != reflect.Pointer || rb.Kind() != reflect.Pointer || ra.Type() != rb.Type() {
		return false
	}
	return ra.Pointer() == rb.Pointer()
}
