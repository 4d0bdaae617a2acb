package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a snapshot document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file or object name extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported snapshot extension %q", filepath.Ext(path))
	}
}

// ReadFile decodes a snapshot stored as a JSON or YAML array.
func ReadFile[E any](path string) ([]E, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	return Decode[E](f, format)
}

// Decode reads a whole snapshot. YAML documents are mapped through JSON so entities
// only need json tags.
func Decode[E any](r io.Reader, format Format) ([]E, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml snapshot: %w", err)
		}
		if doc == nil {
			return []E{}, nil
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("failed to convert yaml snapshot: %w", err)
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []E{}, nil
	}

	var entities []E
	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, fmt.Errorf("failed to parse json snapshot: %w", err)
	}
	if entities == nil {
		entities = []E{}
	}
	return entities, nil
}
