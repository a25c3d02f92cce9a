package chart

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
)

// ErrNotRendered is returned when encoding a surface before any render.
var ErrNotRendered = errors.New("chart: surface has not been rendered")

// MaxBackingSide caps either side of a backing image, in device pixels.
const MaxBackingSide = 4096

// Surface is a drawing target with a logical (CSS) size and a device pixel
// scale. The backing image is sized logical*scale and is replaced on every
// render.
type Surface struct {
	width  int
	height int
	scale  float64
	img    *image.RGBA
}

// NewSurface builds a surface. A non-positive scale is treated as 1.
func NewSurface(width, height int, scale float64) *Surface {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	return &Surface{width: width, height: height, scale: scale}
}

// NewSurfaceFor sizes a surface from the chart config.
func NewSurfaceFor(cfg Config, scale float64) *Surface {
	return NewSurface(cfg.Width, cfg.Height, scale)
}

// Size returns the logical size.
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// Scale returns the device pixel scale.
func (s *Surface) Scale() float64 {
	return s.scale
}

// BackingSize returns the device pixel size of the backing image.
func (s *Surface) BackingSize() (int, int) {
	return backing(s.width, s.scale), backing(s.height, s.scale)
}

// Clear drops the backing image so the surface reads as not rendered.
func (s *Surface) Clear() {
	if s != nil {
		s.img = nil
	}
}

// Image returns the backing image, or nil before the first render.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// EncodePNG writes the backing image as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	if s == nil || s.img == nil {
		return ErrNotRendered
	}
	return png.Encode(w, s.img)
}

// CheckBacking reports whether a cfg-sized surface at scale stays within
// MaxBackingSide. A non-positive scale is treated as 1.
func CheckBacking(cfg Config, scale float64) error {
	return NewSurfaceFor(cfg, scale).checkBacking()
}

func (s *Surface) checkBacking() error {
	w, h := s.BackingSize()
	if w > MaxBackingSide || h > MaxBackingSide {
		return fmt.Errorf("%w: backing image %dx%d exceeds %d pixels per side", ErrInvalidInput, w, h, MaxBackingSide)
	}
	return nil
}

func backing(size int, scale float64) int {
	return int(math.Round(float64(size) * scale))
}

// reset allocates a fresh backing image, discarding prior content.
func (s *Surface) reset(background color.Color) *image.RGBA {
	w, h := s.BackingSize()
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	if background != nil {
		draw.Draw(s.img, s.img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	}
	return s.img
}
