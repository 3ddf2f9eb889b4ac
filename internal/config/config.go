// Package config loads the driver's tunable parameters (iteration
// bound, adjacency gap bounds, trivia handling, relaxed extraction)
// from a YAML document, validated against a JSON Schema before use —
// the one place outside pkgs/pattern's pack loader that YAML/JSON
// Schema touch the module, kept out of the core packages entirely
// (SPEC_FULL.md §6 FULL addition).
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/latticec/wfc/core/types"
	"github.com/latticec/wfc/pkgs/wfc"
)

// schemaJSON is the JSON Schema a driver configuration document must
// satisfy. YAML is decoded to a generic document first so the same
// jsonschema.Schema validates both YAML and JSON callers.
const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "maxIterations": {"type": "integer", "minimum": 1},
    "adjacencyGeneralBound": {"type": "integer", "minimum": 0},
    "adjacencyStructuralBound": {"type": "integer", "minimum": 0},
    "stripTrivia": {"type": "boolean"},
    "relaxedExtraction": {"type": "boolean"},
    "telemetry": {"enum": ["off", "basic", "timing"]},
    "debug": {"enum": ["off", "paths", "detailed"]}
  },
  "additionalProperties": false
}`

// Driver is the decoded, validated configuration document.
type Driver struct {
	MaxIterations            int    `yaml:"maxIterations"`
	AdjacencyGeneralBound    int    `yaml:"adjacencyGeneralBound"`
	AdjacencyStructuralBound int    `yaml:"adjacencyStructuralBound"`
	StripTrivia              bool   `yaml:"stripTrivia"`
	RelaxedExtraction        bool   `yaml:"relaxedExtraction"`
	Telemetry                string `yaml:"telemetry"`
	Debug                    string `yaml:"debug"`
}

// Default returns the driver's built-in defaults, matching
// pkgs/wfc.defaultConfig and the adjacency bounds named in spec.md
// §4.3.
func Default() Driver {
	return Driver{
		MaxIterations:            100,
		AdjacencyGeneralBound:    200,
		AdjacencyStructuralBound: 500,
		Telemetry:                "off",
		Debug:                    "off",
	}
}

// Load decodes and schema-validates a YAML configuration document,
// overlaying it onto Default().
func Load(data []byte) (Driver, error) {
	d := Default()

	var generic interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return Driver{}, fmt.Errorf("config: parsing YAML: %w", err)
	}
	generic = normalizeForJSONSchema(generic)

	validator := types.NewValidator(types.DefaultValidationConfig())
	if err := validator.Validate([]byte(schemaJSON), generic); err != nil {
		return Driver{}, fmt.Errorf("config: schema validation: %w", err)
	}

	if err := yaml.Unmarshal(data, &d); err != nil {
		return Driver{}, fmt.Errorf("config: decoding into Driver: %w", err)
	}
	return d, nil
}

// normalizeForJSONSchema converts the map[string]interface{} shape
// yaml.v3 produces into map[string]interface{} with string keys at
// every level, since yaml.v3 decodes mapping keys as interface{} by
// default and jsonschema requires string-keyed maps.
func normalizeForJSONSchema(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(vv))
		for k, val := range vv {
			out[k] = normalizeForJSONSchema(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(vv))
		for k, val := range vv {
			out[fmt.Sprintf("%v", k)] = normalizeForJSONSchema(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(vv))
		for i, item := range vv {
			out[i] = normalizeForJSONSchema(item)
		}
		return out
	default:
		return v
	}
}

// Opts converts a validated Driver document into the wfc.Opt values
// Compile expects.
func (d Driver) Opts() []wfc.Opt {
	opts := []wfc.Opt{wfc.WithMaxIterations(d.MaxIterations)}
	if d.AdjacencyGeneralBound > 0 || d.AdjacencyStructuralBound > 0 {
		opts = append(opts, wfc.WithAdjacencyBounds(d.AdjacencyGeneralBound, d.AdjacencyStructuralBound))
	}
	if d.StripTrivia {
		opts = append(opts, wfc.WithStripTrivia())
	}
	switch d.Telemetry {
	case "basic":
		opts = append(opts, wfc.WithTelemetry(wfc.TelemetryBasic))
	case "timing":
		opts = append(opts, wfc.WithTelemetry(wfc.TelemetryTiming))
	}
	switch d.Debug {
	case "paths":
		opts = append(opts, wfc.WithDebug(wfc.DebugPaths))
	case "detailed":
		opts = append(opts, wfc.WithDebug(wfc.DebugDetailed))
	}
	return opts
}

// ExtractOpts converts a validated Driver document into the
// wfc.ExtractOpt values Extract expects, so relaxedExtraction in a
// config file actually reaches output extraction.
func (d Driver) ExtractOpts() []wfc.ExtractOpt {
	var opts []wfc.ExtractOpt
	if d.RelaxedExtraction {
		opts = append(opts, wfc.Relaxed())
	}
	return opts
}
