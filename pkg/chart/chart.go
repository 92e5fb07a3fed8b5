package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tailscale/hujson"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// =============================================================================
// Chart Serialization API
// =============================================================================

// MarshalChart converts a chart to indented JSON bytes.
func MarshalChart(c Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeChartTo(c, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalChart decodes a chart from JSON or HuJSON (JSON with comments
// and trailing commas) and validates it.
func UnmarshalChart(data []byte) (Chart, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Chart{}, errors.Wrap(errors.ErrCodeInvalidChart, err, "standardize HuJSON")
	}

	var c Chart
	if err := json.Unmarshal(standardized, &c); err != nil {
		return Chart{}, errors.Wrap(errors.ErrCodeInvalidChart, err, "decode chart")
	}
	if err := c.Validate(); err != nil {
		return Chart{}, err
	}
	return c, nil
}

// WriteChartFile writes a chart to a JSON file.
// The file is created with 0644 permissions.
func WriteChartFile(c Chart, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeChartTo(c, f)
}

// WriteChart writes a chart as JSON to an io.Writer.
// Use MarshalChart for in-memory serialization or WriteChartFile for files.
func WriteChart(c Chart, w io.Writer) error {
	return writeChartTo(c, w)
}

// ReadChartFile reads a JSON or HuJSON chart file.
func ReadChartFile(path string) (Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Chart{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return Chart{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalChart(data)
}

// ReadChart decodes a chart from an io.Reader.
// Use ReadChartFile for files or pass bytes.NewReader for in-memory data.
func ReadChart(r io.Reader) (Chart, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Chart{}, fmt.Errorf("read chart: %w", err)
	}
	return UnmarshalChart(data)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeChartTo(c Chart, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
