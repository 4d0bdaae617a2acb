package records

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data := []byte(`[
		{"sku": "a-1", "qty": 3, "meta": {"updated_at": "2024-05-01T10:00:00Z"}},
		{"sku": 12, "qty": 1, "meta": {"updated_at": 1714557600}},
		{"sku": "c-3", "qty": 0}
	]`)

	records, err := Parse(data, "sku", "meta.updated_at")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "a-1", records[0].EntityKey())
	require.NotNil(t, records[0].EntityModified())
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), *records[0].EntityModified())

	assert.Equal(t, "12", records[1].EntityKey())
	require.NotNil(t, records[1].EntityModified())
	assert.Equal(t, int64(1714557600), records[1].EntityModified().Unix())

	assert.Nil(t, records[2].EntityModified())
	assert.Equal(t, []string{"meta.updated_at"}, records[2].ExcludedFields())

	out, err := json.Marshal(records[2])
	require.NoError(t, err)
	assert.JSONEq(t, `{"sku": "c-3", "qty": 0}`, string(out))
}

func TestParse_DefaultKeyPath(t *testing.T) {
	records, err := Parse([]byte(`[{"id": 7}]`), "", "")
	require.NoError(t, err)
	assert.Equal(t, "7", records[0].EntityKey())
	assert.Nil(t, records[0].ExcludedFields())
}

func TestParse_KeyRendering(t *testing.T) {
	records, err := Parse([]byte(`[
		{"id": 1234567890123456789},
		{"id": 1234567890123456788},
		{"id": 12.50},
		{"id": "1"},
		{"id": 1},
		{"id": true}
	]`), "id", "")
	require.NoError(t, err)

	keys := make([]string, 0, len(records))
	for _, r := range records {
		keys = append(keys, r.EntityKey())
	}
	assert.Equal(t, []string{"1234567890123456789", "1234567890123456788", "12.5", `"1"`, "1", "true"}, keys)
}

func TestParse_Empty(t *testing.T) {
	for _, in := range []string{"", "null", "[]"} {
		records, err := Parse([]byte(in), "id", "")
		require.NoError(t, err, in)
		assert.Empty(t, records, in)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		ts      string
		wantErr string
	}{
		{"Invalid json", `[{"id": 1}`, "", "not valid json"},
		{"Not an array", `{"id": 1}`, "", "not a json array"},
		{"Element not object", `[1, 2]`, "", "record 0: not a json object"},
		{"Missing key", `[{"id": 1}, {"name": "x"}]`, "", `record 1: no key at "id"`},
		{"Null key", `[{"id": null}]`, "", `no key at "id"`},
		{"Composite key", `[{"id": {"a": 1}}]`, "", "not a scalar"},
		{"Bad timestamp", `[{"id": 1, "ts": "yesterday"}]`, "ts", `unrecognized time "yesterday"`},
		{"Boolean timestamp", `[{"id": 1, "ts": true}]`, "ts", "unsupported value true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "id", tt.ts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseTimestamp_Layouts(t *testing.T) {
	records, err := Parse([]byte(`[
		{"id": 1, "ts": "2024-05-01 10:00:00"},
		{"id": 2, "ts": "2024-05-01"},
		{"id": 3, "ts": 1714557600000}
	]`), "id", "ts")
	require.NoError(t, err)

	assert.Equal(t, 10, records[0].EntityModified().Hour())
	assert.Equal(t, time.May, records[1].EntityModified().Month())
	assert.Equal(t, int64(1714557600), records[2].EntityModified().Unix())
}
