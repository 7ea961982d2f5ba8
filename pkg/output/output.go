// Package output serializes plans.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goblinsan/fplan/pkg/fplan"
	"github.com/goblinsan/fplan/pkg/types"
	"github.com/invopop/jsonschema"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Encode writes plan to w in the given format.
func Encode(w io.Writer, plan *types.Plan, format Format) error {
	return encode(w, plan, format, "")
}

// EncodeFeatures writes features alone, with indented JSON.
func EncodeFeatures(w io.Writer, features []fplan.Feature, format Format) error {
	return encode(w, features, format, "  ")
}

func encode(w io.Writer, v any, format Format, jsonIndent string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", jsonIndent)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

// WriteFile encodes plan and atomically replaces the file at path.
func WriteFile(path string, plan *types.Plan, format Format) error {
	var buf bytes.Buffer
	if err := Encode(&buf, plan, format); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Schema returns the JSON Schema of the plan document.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	s := r.Reflect(&types.Plan{})
	s.Title = "fplan plan document"
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	return data, nil
}
