package chart

// Rect is an axis-aligned box in logical pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width of the box.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height of the box.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Point is a sample projected into the plot area.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Geometry is the resolved layout of a chart in logical pixels.
type Geometry struct {
	Plot          Rect      `json:"plot"`
	Step          float64   `json:"step"`
	MaxValue      float64   `json:"max_value"`
	GridLines     []float64 `json:"grid_lines"`
	Points        []Point   `json:"points"`
	LabelBaseline float64   `json:"label_baseline"`
}

// labelOffset is the distance from the plot bottom to the label baseline.
const labelOffset = 20

// Layout projects samples onto a width x height surface without drawing.
func Layout(width, height float64, samples []Sample, cfg Config) (Geometry, error) {
	if err := cfg.fits(width, height); err != nil {
		return Geometry{}, err
	}
	if err := validateSamples(samples); err != nil {
		return Geometry{}, err
	}

	pad := float64(cfg.Padding)
	plot := Rect{Left: pad, Top: pad, Right: width - pad, Bottom: height - pad}

	geo := Geometry{
		Plot:          plot,
		Step:          plot.Width() / float64(len(samples)-1),
		GridLines:     make([]float64, cfg.GridLines+1),
		Points:        make([]Point, len(samples)),
		LabelBaseline: plot.Bottom + labelOffset,
	}

	gap := plot.Height() / float64(cfg.GridLines)
	for i := range geo.GridLines {
		geo.GridLines[i] = plot.Top + gap*float64(i)
	}

	for _, s := range samples {
		if s.Value > geo.MaxValue {
			geo.MaxValue = s.Value
		}
	}

	for i, s := range samples {
		y := plot.Bottom
		if geo.MaxValue > 0 {
			y = plot.Top + plot.Height() - (s.Value/geo.MaxValue)*plot.Height()
		}
		geo.Points[i] = Point{
			X:     plot.Left + geo.Step*float64(i),
			Y:     y,
			Label: s.Label,
			Value: s.Value,
		}
	}
	return geo, nil
}
