package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/chart"
	"github.com/matzehuels/sankeyflow/pkg/energy"
	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// Input kinds accepted by Parse.
const (
	InputChart  = "chart"  // chart document, JSON or HuJSON
	InputEnergy = "energy" // energy summary, TOML
)

// DetectInput picks the input kind from a file name: .toml files are energy
// summaries, everything else is a chart document.
func DetectInput(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		return InputEnergy
	}
	return InputChart
}

// Parse reads input of the given kind into a chart. width decides the
// orientation of energy summaries with an "auto" layout.
func Parse(data []byte, kind string, width float64) (chart.Chart, error) {
	switch kind {
	case InputChart, "":
		return chart.UnmarshalChart(data)
	case InputEnergy:
		s, err := energy.Parse(bytes.NewReader(data))
		if err != nil {
			return chart.Chart{}, err
		}
		c := energy.Build(s, width)
		if !energy.HasData(c) {
			return chart.Chart{}, errors.New(errors.ErrCodeInvalidInput, "energy summary has no consumption data")
		}
		return c, nil
	}
	return chart.Chart{}, errors.New(errors.ErrCodeInvalidInput, "unknown input kind %q (must be chart or energy)", kind)
}

// ParseFile reads a chart or energy summary from path, choosing the kind by
// extension.
func ParseFile(path string, width float64) (chart.Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return chart.Chart{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return chart.Chart{}, err
	}
	return Parse(data, DetectInput(path), width)
}
