package portal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-kbadmin/components/portal/chart"
)

const chartConfigSchemaName = "chart_config.json"

// chartConfigSchema bounds the chart layout overrides accepted over HTTP.
const chartConfigSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "width": {"type": "integer", "minimum": 100, "maximum": 4096},
    "height": {"type": "integer", "minimum": 100, "maximum": 4096},
    "padding": {"type": "integer", "minimum": 0, "maximum": 400},
    "grid_lines": {"type": "integer", "minimum": 1, "maximum": 20},
    "scale": {"type": "number", "exclusiveMinimum": 0, "maximum": 4}
  }
}`

// ChartRequest is a validated chart override: layout plus device scale.
type ChartRequest struct {
	Config chart.Config
	Scale  float64
}

// ChartConfigValidator validates chart override payloads against a JSON schema.
type ChartConfigValidator struct {
	once     sync.Once
	schema   *jsonschema.Schema
	compiled error
}

// NewChartConfigValidator builds a validator backed by jsonschema v5.
func NewChartConfigValidator() *ChartConfigValidator {
	return &ChartConfigValidator{}
}

// Validate checks a decoded payload. Failures wrap ErrInvalidInput.
func (v *ChartConfigValidator) Validate(payload map[string]any) error {
	schema, err := v.schemaFor()
	if err != nil {
		return err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("%w: chart config: %w", ErrInvalidInput, err)
	}
	return nil
}

// Parse validates raw JSON and merges it over base. Missing fields keep the
// base values, the merged layout must still fit and its backing image must
// stay within chart.MaxBackingSide.
func (v *ChartConfigValidator) Parse(raw []byte, base chart.Config) (ChartRequest, error) {
	req := ChartRequest{Config: base}
	if len(bytes.TrimSpace(raw)) == 0 {
		return req, nil
	}
	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return req, fmt.Errorf("%w: decode chart config: %w", ErrInvalidInput, err)
	}
	if err := v.Validate(payload); err != nil {
		return req, err
	}

	var overrides struct {
		Width     *int     `json:"width"`
		Height    *int     `json:"height"`
		Padding   *int     `json:"padding"`
		GridLines *int     `json:"grid_lines"`
		Scale     *float64 `json:"scale"`
	}
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return req, fmt.Errorf("%w: decode chart config: %w", ErrInvalidInput, err)
	}
	if overrides.Width != nil {
		req.Config.Width = *overrides.Width
	}
	if overrides.Height != nil {
		req.Config.Height = *overrides.Height
	}
	if overrides.Padding != nil {
		req.Config.Padding = *overrides.Padding
	}
	if overrides.GridLines != nil {
		req.Config.GridLines = *overrides.GridLines
	}
	if overrides.Scale != nil {
		req.Scale = *overrides.Scale
	}
	if err := req.Config.Validate(); err != nil {
		return req, err
	}
	if err := chart.CheckBacking(req.Config, req.Scale); err != nil {
		return req, err
	}
	return req, nil
}

func (v *ChartConfigValidator) schemaFor() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(chartConfigSchemaName, strings.NewReader(chartConfigSchema)); err != nil {
			v.compiled = fmt.Errorf("portal: load chart schema: %w", err)
			return
		}
		v.schema, v.compiled = compiler.Compile(chartConfigSchemaName)
		if v.compiled != nil {
			v.compiled = fmt.Errorf("portal: compile chart schema: %w", v.compiled)
		}
	})
	return v.schema, v.compiled
}
