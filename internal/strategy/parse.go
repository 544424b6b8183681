package strategy

import (
	"encoding/json"
	"os"

	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ParseJSON parses a strategy document from JSON, applies the per-kind
// defaults against the given base timeframe and validates the result.
func ParseJSON(data []byte, baseTimeframe types.Timeframe) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse strategy JSON", err)
	}

	return finalize(&g, baseTimeframe)
}

// ParseYAML parses a strategy document from YAML, applies defaults and
// validates.
func ParseYAML(data []byte, baseTimeframe types.Timeframe) (*Graph, error) {
	var g Graph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse strategy YAML", err)
	}

	return finalize(&g, baseTimeframe)
}

// ParseFile loads a strategy document from a .json or .yaml/.yml file.
func ParseFile(path string, baseTimeframe types.Timeframe) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read strategy file", err)
	}

	if json.Valid(data) {
		return ParseJSON(data, baseTimeframe)
	}

	return ParseYAML(data, baseTimeframe)
}

func finalize(g *Graph, baseTimeframe types.Timeframe) (*Graph, error) {
	ApplyDefaults(g, baseTimeframe)

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}
