package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"snapshot-sync/core/utils"

	"github.com/tidwall/gjson"
)

// DefaultKeyPath is used when no key path is given.
const DefaultKeyPath = "id"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Record is one element of a schemaless JSON snapshot. It serializes back to the
// original document, so content comparison sees exactly what was received.
type Record struct {
	key           string
	modified      *time.Time
	timestampPath string
	raw           json.RawMessage
}

// EntityKey returns the value found at the key path, rendered by utils.KeyString.
func (r Record) EntityKey() string { return r.key }

// EntityModified returns the value found at the timestamp path, if any.
func (r Record) EntityModified() *time.Time { return r.modified }

// ExcludedFields keeps the timestamp out of content comparison.
func (r Record) ExcludedFields() []string {
	if r.timestampPath == "" {
		return nil
	}
	return []string{r.timestampPath}
}

// MarshalJSON returns the original document.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}

// Raw returns the original document.
func (r Record) Raw() json.RawMessage { return r.raw }

// Parse splits a JSON array into records. keyPath and timestampPath are gjson paths
// evaluated against each element; an empty keyPath uses DefaultKeyPath and an empty
// timestampPath leaves records without a timestamp.
func Parse(data []byte, keyPath, timestampPath string) ([]Record, error) {
	if keyPath == "" {
		keyPath = DefaultKeyPath
	}
	if len(data) == 0 {
		return []Record{}, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New("snapshot is not valid json")
	}

	doc := gjson.ParseBytes(data)
	if doc.Type == gjson.Null {
		return []Record{}, nil
	}
	if !doc.IsArray() {
		return nil, errors.New("snapshot is not a json array")
	}

	records := make([]Record, 0, len(doc.Array()))
	var parseErr error
	index := 0
	doc.ForEach(func(_, el gjson.Result) bool {
		rec, err := parseRecord(el, keyPath, timestampPath)
		if err != nil {
			parseErr = fmt.Errorf("record %d: %w", index, err)
			return false
		}
		records = append(records, rec)
		index++
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return records, nil
}

// keyString renders the key from its exact JSON text so large integers keep their
// digits and a string id never collides with a numeric one.
func keyString(key gjson.Result) string {
	switch key.Type {
	case gjson.Number:
		return utils.KeyString(json.Number(key.Raw))
	case gjson.String:
		return utils.KeyString(key.Str)
	default:
		return utils.KeyString(key.Bool())
	}
}

func parseRecord(el gjson.Result, keyPath, timestampPath string) (Record, error) {
	if !el.IsObject() {
		return Record{}, errors.New("not a json object")
	}

	key := el.Get(keyPath)
	if !key.Exists() || key.Type == gjson.Null {
		return Record{}, fmt.Errorf("no key at %q", keyPath)
	}
	if key.IsObject() || key.IsArray() {
		return Record{}, fmt.Errorf("key at %q is not a scalar", keyPath)
	}

	rec := Record{
		key:           keyString(key),
		timestampPath: timestampPath,
		raw:           json.RawMessage(el.Raw),
	}

	if timestampPath != "" {
		modified, err := parseTimestamp(el.Get(timestampPath))
		if err != nil {
			return Record{}, fmt.Errorf("timestamp at %q: %w", timestampPath, err)
		}
		rec.modified = modified
	}
	return rec, nil
}

// parseTimestamp accepts RFC 3339 strings, plain dates and unix seconds or milliseconds.
// A missing or null value is not an error.
func parseTimestamp(v gjson.Result) (*time.Time, error) {
	switch v.Type {
	case gjson.Null:
		return nil, nil
	case gjson.Number:
		n := v.Int()
		var t time.Time
		if n > 1e12 || n < -1e12 {
			t = time.UnixMilli(n).UTC()
		} else {
			t = time.Unix(n, 0).UTC()
		}
		return &t, nil
	case gjson.String:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, v.Str); err == nil {
				return &t, nil
			}
		}
		return nil, fmt.Errorf("unrecognized time %q", v.Str)
	default:
		return nil, fmt.Errorf("unsupported value %s", v.Raw)
	}
}
