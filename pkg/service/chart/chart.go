package chart

import (
	"io"
	"math"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Error tags for categorization
var (
	ErrTagNoData        = goerr.NewTag("no_data")
	ErrTagUnknownView   = goerr.NewTag("unknown_view")
	ErrTagUnknownFormat = goerr.NewTag("unknown_format")
)

// Format is the image format of a rendered chart
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat parses "png" or "svg"
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	default:
		return "", goerr.New("unsupported chart format",
			goerr.V("format", s),
			goerr.T(ErrTagUnknownFormat))
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() gochart.RendererProvider {
	if f == FormatSVG {
		return gochart.SVG
	}
	return gochart.PNG
}

// Renderer draws the chart views of a frame with go-chart
type Renderer struct {
	palette *model.Palette
	width   int
	height  int
}

// Option is a functional option for configuring Renderer
type Option func(*Renderer)

// WithSize sets the image size in pixels
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		r.width = width
		r.height = height
	}
}

// New creates a chart renderer. A nil palette uses the default palette.
func New(palette *model.Palette, opts ...Option) *Renderer {
	if palette == nil {
		palette = model.DefaultPalette()
	}
	r := &Renderer{
		palette: palette,
		width:   960,
		height:  480,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes one view of the frame to w
func (r *Renderer) Render(w io.Writer, view model.ViewName, views *model.Views, format Format) error {
	if views == nil {
		return goerr.New("no data to draw", goerr.V("view", view), goerr.T(ErrTagNoData))
	}

	switch view {
	case model.ViewBars:
		return r.Bars(w, views, format)
	case model.ViewShares:
		return r.Shares(w, views, format)
	case model.ViewSpreads:
		return r.Spreads(w, views, format)
	default:
		return goerr.New("unknown chart view", goerr.V("view", view), goerr.T(ErrTagUnknownView))
	}
}

// Bars draws marks of every record as one bar, colored by subject
func (r *Renderer) Bars(w io.Writer, views *model.Views, format Format) error {
	if len(views.Bars) == 0 {
		return goerr.New("no bars to draw", goerr.T(ErrTagNoData))
	}

	colors := r.subjectColors(views.Subjects)
	lo, hi := math.Inf(1), math.Inf(-1)
	bars := make([]gochart.Value, 0, len(views.Bars))
	for _, b := range views.Bars {
		lo = math.Min(lo, b.Marks)
		hi = math.Max(hi, b.Marks)
		bars = append(bars, gochart.Value{
			Label: b.Subject,
			Value: b.Marks,
			Style: gochart.Style{
				FillColor:   colors[b.Subject],
				StrokeColor: outlineColor,
				StrokeWidth: 1.5,
			},
		})
	}

	bc := gochart.BarChart{
		Title:    "Performance by Subject",
		Width:    r.width,
		Height:   r.height,
		BarWidth: barWidth(r.width, len(bars)),
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		YAxis: gochart.YAxis{
			Range: valueRange(lo, hi),
		},
		Bars: bars,
	}

	if err := bc.Render(format.provider(), w); err != nil {
		return goerr.Wrap(err, "failed to render bar chart", goerr.V("bars", len(bars)))
	}
	return nil
}

// Shares draws the proportion of total marks per subject as a donut
func (r *Renderer) Shares(w io.Writer, views *model.Views, format Format) error {
	colors := r.subjectColors(views.Subjects)

	var values []gochart.Value
	for _, s := range views.Shares {
		// go-chart cannot draw zero or negative slices
		if s.Sum <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: s.Subject,
			Value: s.Sum,
			Style: gochart.Style{
				FillColor:   colors[s.Subject],
				StrokeColor: drawing.ColorWhite,
			},
		})
	}
	if len(values) == 0 {
		return goerr.New("no positive marks to draw", goerr.T(ErrTagNoData))
	}

	dc := gochart.DonutChart{
		Title:  "Marks Distribution by Subject",
		Width:  r.height,
		Height: r.height,
		Values: values,
	}

	if err := dc.Render(format.provider(), w); err != nil {
		return goerr.Wrap(err, "failed to render donut chart", goerr.V("slices", len(values)))
	}
	return nil
}

// Spreads draws a box per subject (min to max whiskers, q1 to q3 box, median line) and
// every individual score as a dot.
func (r *Renderer) Spreads(w io.Writer, views *model.Views, format Format) error {
	if len(views.Spreads) == 0 {
		return goerr.New("no spreads to draw", goerr.T(ErrTagNoData))
	}

	colors := r.subjectColors(views.Subjects)
	lo, hi := math.Inf(1), math.Inf(-1)
	var series []gochart.Series
	ticks := make([]gochart.Tick, 0, len(views.Spreads))

	for i, s := range views.Spreads {
		x := float64(i)
		lo = math.Min(lo, s.Min)
		hi = math.Max(hi, s.Max)
		ticks = append(ticks, gochart.Tick{Value: x, Label: s.Subject})
		color := colors[s.Subject]

		series = append(series,
			gochart.ContinuousSeries{
				Name:    s.Subject + " whisker",
				XValues: []float64{x, x},
				YValues: []float64{s.Min, s.Max},
				Style:   gochart.Style{StrokeColor: color, StrokeWidth: 1},
			},
			gochart.ContinuousSeries{
				Name:    s.Subject,
				XValues: []float64{x - boxHalfWidth, x + boxHalfWidth, x + boxHalfWidth, x - boxHalfWidth, x - boxHalfWidth},
				YValues: []float64{s.Q1, s.Q1, s.Q3, s.Q3, s.Q1},
				Style: gochart.Style{
					StrokeColor: color,
					StrokeWidth: 2,
					FillColor:   color.WithAlpha(96),
				},
			},
			gochart.ContinuousSeries{
				Name:    s.Subject + " median",
				XValues: []float64{x - boxHalfWidth, x + boxHalfWidth},
				YValues: []float64{s.Median, s.Median},
				Style:   gochart.Style{StrokeColor: outlineColor, StrokeWidth: 2},
			},
		)

		xs := make([]float64, len(s.Points))
		for j := range xs {
			xs[j] = x
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Subject + " points",
			XValues: xs,
			YValues: s.Points,
			Style: gochart.Style{
				StrokeColor: drawing.ColorTransparent,
				DotColor:    color,
				DotWidth:    3,
			},
		})
	}

	c := gochart.Chart{
		Title:  "Performance Distribution Analysis",
		Width:  r.width,
		Height: r.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(len(views.Spreads)) - 0.5},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Range: valueRange(lo, hi),
		},
		Series: series,
	}

	if err := c.Render(format.provider(), w); err != nil {
		return goerr.Wrap(err, "failed to render spread chart", goerr.V("subjects", len(views.Spreads)))
	}
	return nil
}

const boxHalfWidth = 0.25

var outlineColor = drawing.Color{R: 8, G: 48, B: 107, A: 255}

func (r *Renderer) subjectColors(subjects []string) map[string]drawing.Color {
	colors := make(map[string]drawing.Color, len(subjects))
	for i, s := range subjects {
		colors[s] = drawing.ColorFromHex(strings.TrimPrefix(r.palette.SubjectColor(i), "#"))
	}
	return colors
}

// valueRange pads the data range and always includes zero for non-negative marks so that
// a single value or identical values still produce a drawable axis.
func valueRange(lo, hi float64) *gochart.ContinuousRange {
	if lo > 0 {
		lo = 0
	}
	if hi <= lo {
		hi = lo + 1
	}
	return &gochart.ContinuousRange{
		Min: lo,
		Max: hi + (hi-lo)*0.1,
	}
}

func barWidth(width, bars int) int {
	if bars == 0 {
		return 0
	}
	w := width / (bars * 2)
	switch {
	case w < 8:
		return 8
	case w > 80:
		return 80
	default:
		return w
	}
}
