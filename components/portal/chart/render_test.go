package chart

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNilSurfaceIsNoop(t *testing.T) {
	geo, err := Render(nil, nil, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, geo.Points)
}

func TestRenderScalesBackingImage(t *testing.T) {
	surface := NewSurface(600, 300, 2)
	_, err := Render(surface, weekSamples(), DefaultConfig())
	require.NoError(t, err)

	img := surface.Image()
	require.NotNil(t, img)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
	w, h := surface.Size()
	assert.Equal(t, 600, w)
	assert.Equal(t, 300, h)
}

func TestRenderIsIdempotent(t *testing.T) {
	surface := NewSurface(600, 300, 2)
	_, err := Render(surface, weekSamples(), DefaultConfig())
	require.NoError(t, err)
	first := append([]byte(nil), surface.Image().Pix...)

	_, err = Render(surface, weekSamples(), DefaultConfig())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, surface.Image().Pix), "second render differs from the first")
}

func TestRenderDrawsMarkers(t *testing.T) {
	surface := NewSurface(600, 300, 1)
	geo, err := Render(surface, weekSamples(), DefaultConfig())
	require.NoError(t, err)

	img := surface.Image()
	for _, p := range geo.Points {
		_, _, b, a := img.At(int(p.X), int(p.Y)).RGBA()
		assert.NotZero(t, a, "marker at %v is transparent", p)
		assert.NotZero(t, b)
	}
	_, _, _, a := img.At(2, 2).RGBA()
	assert.Zero(t, a, "corner outside the plot should stay transparent")
}

func TestRenderAllZeroSeries(t *testing.T) {
	surface := NewSurface(600, 300, 1)
	geo, err := Render(surface, []Sample{{Label: "A", Value: 0}, {Label: "B", Value: 0}}, DefaultConfig())
	require.NoError(t, err)
	for _, p := range geo.Points {
		assert.Equal(t, geo.Plot.Bottom, p.Y)
	}
}

func TestRenderInvalidInputLeavesSurfaceUntouched(t *testing.T) {
	surface := NewSurface(600, 300, 1)
	_, err := Render(surface, []Sample{{Label: "A", Value: 1}}, DefaultConfig())
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, surface.Image())
}

func TestRenderRejectsOversizedBacking(t *testing.T) {
	cfg := Config{Width: 4096, Height: 4096, Padding: 40, GridLines: 4}
	surface := NewSurfaceFor(cfg, 4)
	_, err := Render(surface, weekSamples(), cfg)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, surface.Image())

	require.NoError(t, CheckBacking(cfg, 1))
	require.ErrorIs(t, CheckBacking(Config{Width: 2049, Height: 300}, 2), ErrInvalidInput)
}

func TestSurfaceClear(t *testing.T) {
	surface := NewSurface(600, 300, 1)
	_, err := Render(surface, weekSamples(), DefaultConfig())
	require.NoError(t, err)

	surface.Clear()
	assert.ErrorIs(t, surface.EncodePNG(&bytes.Buffer{}), ErrNotRendered)
}

func TestRenderWithBackgroundEncodesPNG(t *testing.T) {
	bg := color.RGBA{R: 20, G: 24, B: 36, A: 255}
	surface := NewSurface(300, 200, 1)
	_, err := NewRenderer(Config{Padding: 20, GridLines: 2}, WithBackground(bg)).Render(surface, weekSamples())
	require.NoError(t, err)
	assert.Equal(t, bg, surface.Image().RGBAAt(0, 0))

	var buf bytes.Buffer
	require.NoError(t, surface.EncodePNG(&buf))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 300, decoded.Bounds().Dx())
}

func TestEncodePNGBeforeRender(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewSurface(10, 10, 1).EncodePNG(&buf))
}
