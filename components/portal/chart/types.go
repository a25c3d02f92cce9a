package chart

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput reports a sample sequence or layout that cannot be plotted.
var ErrInvalidInput = errors.New("chart: invalid input")

// Sample is one labelled data point in a plotted series.
type Sample struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// Config holds the layout parameters of a chart.
type Config struct {
	Width     int `json:"width" yaml:"width"`
	Height    int `json:"height" yaml:"height"`
	Padding   int `json:"padding" yaml:"padding"`
	GridLines int `json:"grid_lines" yaml:"grid_lines"`
}

// DefaultConfig mirrors the usage chart shown on the dashboard.
func DefaultConfig() Config {
	return Config{
		Width:     600,
		Height:    300,
		Padding:   40,
		GridLines: 4,
	}
}

// Validate checks the config against its own width/height.
func (c Config) Validate() error {
	return c.fits(float64(c.Width), float64(c.Height))
}

func (c Config) fits(width, height float64) error {
	if c.Padding < 0 {
		return fmt.Errorf("%w: padding must not be negative, got %d", ErrInvalidInput, c.Padding)
	}
	if c.GridLines < 1 {
		return fmt.Errorf("%w: grid lines must be at least 1, got %d", ErrInvalidInput, c.GridLines)
	}
	pad := float64(c.Padding) * 2
	if pad >= width || pad >= height {
		return fmt.Errorf("%w: padding %d does not fit a %gx%g surface", ErrInvalidInput, c.Padding, width, height)
	}
	return nil
}

func validateSamples(samples []Sample) error {
	if len(samples) < 2 {
		return fmt.Errorf("%w: at least 2 samples required, got %d", ErrInvalidInput, len(samples))
	}
	for i, s := range samples {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return fmt.Errorf("%w: sample %d (%q) is not a finite number", ErrInvalidInput, i, s.Label)
		}
		if s.Value < 0 {
			return fmt.Errorf("%w: sample %d (%q) is negative", ErrInvalidInput, i, s.Label)
		}
	}
	return nil
}
