package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekSamples() []Sample {
	return []Sample{
		{Label: "Oct 11", Value: 1210},
		{Label: "Oct 12", Value: 1530},
		{Label: "Oct 13", Value: 1388},
		{Label: "Oct 14", Value: 1699},
		{Label: "Oct 15", Value: 1250},
		{Label: "Oct 16", Value: 1402},
		{Label: "Oct 17", Value: 1311},
	}
}

func TestLayoutSpacesMarkersEvenly(t *testing.T) {
	cfg := DefaultConfig()
	geo, err := Layout(600, 300, weekSamples(), cfg)
	require.NoError(t, err)
	require.Len(t, geo.Points, 7)

	plotWidth := 600.0 - 2*40
	assert.InDelta(t, plotWidth/6, geo.Step, 1e-9)
	for i := 1; i < len(geo.Points); i++ {
		assert.InDelta(t, geo.Step, geo.Points[i].X-geo.Points[i-1].X, 1e-9)
	}
	assert.InDelta(t, 40, geo.Points[0].X, 1e-9)
	assert.InDelta(t, 560, geo.Points[6].X, 1e-9)
}

func TestLayoutPlacesMaximumAtTop(t *testing.T) {
	geo, err := Layout(600, 300, weekSamples(), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1699.0, geo.MaxValue)
	assert.InDelta(t, geo.Plot.Top, geo.Points[3].Y, 1e-9)
	for _, p := range geo.Points {
		assert.GreaterOrEqual(t, p.Y, geo.Plot.Top)
		assert.LessOrEqual(t, p.Y, geo.Plot.Bottom)
	}
}

func TestLayoutZeroSeriesSitsOnBaseline(t *testing.T) {
	geo, err := Layout(600, 300, []Sample{{Label: "A"}, {Label: "B"}}, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, geo.Points, 2)
	for _, p := range geo.Points {
		assert.Equal(t, geo.Plot.Bottom, p.Y)
	}
}

func TestLayoutGridLines(t *testing.T) {
	cfg := DefaultConfig()
	geo, err := Layout(600, 300, weekSamples(), cfg)
	require.NoError(t, err)
	require.Len(t, geo.GridLines, cfg.GridLines+1)
	assert.Equal(t, []float64{40, 95, 150, 205, 260}, geo.GridLines)
	assert.Equal(t, 280.0, geo.LabelBaseline)
}

func TestLayoutRejectsInvalidInput(t *testing.T) {
	cases := map[string]struct {
		samples []Sample
		cfg     Config
		w, h    float64
	}{
		"empty":            {samples: nil, cfg: DefaultConfig(), w: 600, h: 300},
		"single":           {samples: []Sample{{Label: "A", Value: 1}}, cfg: DefaultConfig(), w: 600, h: 300},
		"negative":         {samples: []Sample{{Value: 1}, {Value: -1}}, cfg: DefaultConfig(), w: 600, h: 300},
		"padding too wide": {samples: weekSamples(), cfg: Config{Padding: 300, GridLines: 4}, w: 600, h: 300},
		"no grid lines":    {samples: weekSamples(), cfg: Config{Padding: 10}, w: 600, h: 300},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Layout(tc.w, tc.h, tc.samples, tc.cfg)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	err := Config{Width: 80, Height: 300, Padding: 40, GridLines: 4}.Validate()
	require.ErrorIs(t, err, ErrInvalidInput)
}
