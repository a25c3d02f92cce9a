package chart

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

// Style controls colors and stroke sizes.
type Style struct {
	Background   color.Color
	Grid         color.Color
	GridWidth    float64
	Line         color.Color
	LineWidth    float64
	Marker       color.Color
	MarkerRadius float64
	Label        color.Color
	LabelFace    font.Face
}

// DefaultStyle is the dark dashboard palette.
func DefaultStyle() Style {
	accent := drawing.ColorFromHex("00bcf2")
	return Style{
		Grid:         drawing.Color{R: 255, G: 255, B: 255, A: 26},
		GridWidth:    1,
		Line:         accent,
		LineWidth:    3,
		Marker:       accent,
		MarkerRadius: 4,
		Label:        color.NRGBA{R: 255, G: 255, B: 255, A: 153},
		LabelFace:    basicfont.Face7x13,
	}
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithStyle replaces the default style.
func WithStyle(style Style) Option {
	return func(r *Renderer) {
		r.style = style
	}
}

// WithBackground fills the surface before drawing. The default is transparent.
func WithBackground(c color.Color) Option {
	return func(r *Renderer) {
		r.style.Background = c
	}
}

// Renderer draws line charts onto surfaces.
type Renderer struct {
	cfg   Config
	style Style
}

// NewRenderer builds a renderer for the given layout config.
func NewRenderer(cfg Config, opts ...Option) *Renderer {
	r := &Renderer{cfg: cfg, style: DefaultStyle()}
	for _, opt := range opts {
		opt(r)
	}
	if r.style.LabelFace == nil {
		r.style.LabelFace = basicfont.Face7x13
	}
	return r
}

// Config returns the layout config.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Render draws the samples onto the surface using the default style.
func Render(surface *Surface, samples []Sample, cfg Config) (Geometry, error) {
	return NewRenderer(cfg).Render(surface, samples)
}

// Render draws grid lines, the series path, markers and labels, in that
// order. A nil surface is a no-op.
func (r *Renderer) Render(surface *Surface, samples []Sample) (Geometry, error) {
	if surface == nil {
		return Geometry{}, nil
	}
	width, height := surface.Size()
	geo, err := Layout(float64(width), float64(height), samples, r.cfg)
	if err != nil {
		return Geometry{}, err
	}
	if err := surface.checkBacking(); err != nil {
		return Geometry{}, err
	}

	img := surface.reset(r.style.Background)
	gc, err := drawing.NewRasterGraphicContext(img)
	if err != nil {
		return Geometry{}, fmt.Errorf("chart: graphic context: %w", err)
	}
	scale := surface.Scale()
	gc.Scale(scale, scale)

	gc.SetStrokeColor(r.style.Grid)
	gc.SetLineWidth(r.style.GridWidth)
	for _, y := range geo.GridLines {
		gc.BeginPath()
		gc.MoveTo(geo.Plot.Left, y)
		gc.LineTo(geo.Plot.Right, y)
		gc.Stroke()
	}

	gc.SetStrokeColor(r.style.Line)
	gc.SetLineWidth(r.style.LineWidth)
	gc.SetLineJoin(drawing.RoundJoin)
	gc.BeginPath()
	for i, p := range geo.Points {
		if i == 0 {
			gc.MoveTo(p.X, p.Y)
			continue
		}
		gc.LineTo(p.X, p.Y)
	}
	gc.Stroke()

	gc.SetFillColor(r.style.Marker)
	for _, p := range geo.Points {
		gc.BeginPath()
		gc.ArcTo(p.X, p.Y, r.style.MarkerRadius, r.style.MarkerRadius, 0, 2*math.Pi)
		gc.Close()
		gc.Fill()
	}

	for _, p := range geo.Points {
		r.drawLabel(img, p.Label, p.X, geo.LabelBaseline, scale)
	}
	return geo, nil
}

// drawLabel rasterizes text at logical size and scales it onto the surface,
// centered on x with its baseline at y.
func (r *Renderer) drawLabel(dst *image.RGBA, text string, x, y, scale float64) {
	if text == "" {
		return
	}
	face := r.style.LabelFace
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	w := font.MeasureString(face, text).Ceil()
	h := ascent + metrics.Descent.Ceil()
	if w <= 0 || h <= 0 {
		return
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(r.style.Label),
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)

	left := x - float64(w)/2
	top := y - float64(ascent)
	target := image.Rect(
		int(math.Round(left*scale)),
		int(math.Round(top*scale)),
		int(math.Round((left+float64(w))*scale)),
		int(math.Round((top+float64(h))*scale)),
	)
	xdraw.ApproxBiLinear.Scale(dst, target, glyphs, glyphs.Bounds(), xdraw.Over, nil)
}
