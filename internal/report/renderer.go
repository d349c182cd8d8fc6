package report

import (
	"bytes"
	"fmt"
	"html"
	"image/color"
	"log/slog"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"nuclearfleet/internal/config"
	apperrors "nuclearfleet/internal/errors"
	"nuclearfleet/pkg/contracts/domain"
)

const (
	// colorbarHeight is the strip above the chart reserved for the legend
	colorbarHeight = vg.Length(64)

	// yHeadroom scales the tallest bar when the y maximum is automatic
	yHeadroom = 1.05

	// yearTickStep labels every fifth year
	yearTickStep = 5
)

var gridColor = color.Gray{Y: 224}

// Options configures the chart
type Options struct {
	Title         string
	YAxisTitle    string
	ColorbarTitle string
	// SeriesName captions the data table
	SeriesName string
	ColorScale string

	// Width and Height are in points
	Width  float64
	Height float64

	YMin float64
	// YMax of 0 scales the axis to the tallest bar
	YMax float64

	Logger *slog.Logger
}

// DefaultOptions returns the stock chart layout
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().Chart)
}

// OptionsFromConfig maps the chart section of the configuration
func OptionsFromConfig(cfg config.ChartConfig) Options {
	return Options{
		Title:         cfg.Title,
		YAxisTitle:    cfg.YAxisTitle,
		ColorbarTitle: cfg.ColorbarTitle,
		SeriesName:    cfg.SeriesName,
		ColorScale:    cfg.ColorScale,
		Width:         cfg.Width,
		Height:        cfg.Height,
		YMin:          cfg.YMin,
		YMax:          cfg.YMax,
	}
}

// Renderer draws yearly aggregates as a colour-coded bar chart
type Renderer struct {
	opts   Options
	logger *slog.Logger
}

// NewRenderer creates a renderer; zero-valued geometry falls back to the defaults
func NewRenderer(opts Options) *Renderer {
	def := config.Default().Chart
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{opts: opts, logger: logger}
}

// Render builds the chart document. It fails when there is nothing to draw
// or the chart cannot be produced.
func (r *Renderer) Render(aggs []domain.YearlyAggregate) (doc *Document, err error) {
	if len(aggs) == 0 {
		return nil, apperrors.NewRenderError("no yearly aggregates to render", nil)
	}

	cm, err := NewColorMap(r.opts.ColorScale)
	if err != nil {
		return nil, apperrors.NewRenderError("invalid color scale", err).
			WithContext("color_scale", r.opts.ColorScale)
	}
	lo, hi := ageRange(aggs)
	cm.SetMin(lo)
	cm.SetMax(hi)

	// gonum/plot reports drawing faults by panicking
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = apperrors.NewRenderError(fmt.Sprintf("chart drawing failed: %v", rec), nil)
		}
	}()

	bars := newAgeBars(aggs, cm)
	chart := r.newChart(bars, aggs)
	legend := r.newColorbar(cm)

	width, height := vg.Points(r.opts.Width), vg.Points(r.opts.Height)
	canvas := vgsvg.New(width, height)
	dc := draw.New(canvas)

	legend.Draw(draw.Crop(dc, width*0.62, -width*0.03, height-colorbarHeight, 0))
	chart.Draw(draw.Crop(dc, 0, 0, 0, -colorbarHeight))

	var buf bytes.Buffer
	if _, err := canvas.WriteTo(&buf); err != nil {
		return nil, apperrors.NewRenderError("failed to encode chart as SVG", err)
	}

	svg, err := injectOverlay(buf.Bytes(), hoverOverlay(bars.hits, height))
	if err != nil {
		return nil, apperrors.NewRenderError("failed to add hover targets", err)
	}

	doc = &Document{
		Title:      r.opts.Title,
		SeriesName: r.opts.SeriesName,
		SVG:        svg,
		Aggregates: aggs,
		fills:      fillsByYear(bars.hits),
	}
	if err := doc.build(); err != nil {
		return nil, apperrors.NewRenderError("failed to build HTML document", err)
	}

	r.logger.Info("Chart rendered",
		slog.Int("years", len(aggs)),
		slog.Float64("min_average_age", lo),
		slog.Float64("max_average_age", hi),
		slog.Int("svg_bytes", len(svg)))

	return doc, nil
}

func (r *Renderer) newChart(bars *ageBars, aggs []domain.YearlyAggregate) *plot.Plot {
	p := plot.New()
	p.Title.Text = r.opts.Title
	p.Title.Padding = vg.Points(10)
	p.Title.TextStyle.Font.Size = vg.Points(13)
	p.Y.Label.Text = r.opts.YAxisTitle
	p.X.Tick.Marker = yearTicks(yearTickStep)

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	p.Add(grid, bars)

	p.Y.Min = r.opts.YMin
	p.Y.Max = yAxisMax(aggs, r.opts.YMin, r.opts.YMax)
	return p
}

func (r *Renderer) newColorbar(cm palette.ColorMap) *plot.Plot {
	p := plot.New()
	p.Title.Text = r.opts.ColorbarTitle
	p.Title.TextStyle.Font.Size = vg.Points(10)
	p.BackgroundColor = color.Transparent
	p.HideY()
	p.X.Padding = 0
	p.Add(&plotter.ColorBar{ColorMap: cm})
	return p
}

// yAxisMax returns the fixed maximum when one is set above yMin, otherwise
// the tallest bar plus headroom.
func yAxisMax(aggs []domain.YearlyAggregate, yMin, fixed float64) float64 {
	if fixed > 0 && fixed > yMin {
		return fixed
	}
	tallest := 0
	for _, a := range aggs {
		if a.Count > tallest {
			tallest = a.Count
		}
	}
	if tallest == 0 {
		return math.Max(1, yMin+1)
	}
	return float64(tallest) * yHeadroom
}

// yearTicks labels whole years divisible by step and marks the rest as minor ticks
func yearTicks(step int) plot.Ticker {
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		var ticks []plot.Tick
		for y := int(math.Ceil(min)); y <= int(math.Floor(max)); y++ {
			t := plot.Tick{Value: float64(y)}
			if y%step == 0 {
				t.Label = fmt.Sprintf("%d", y)
			}
			ticks = append(ticks, t)
		}
		return ticks
	})
}

// Tooltip is the hover text of one year
func Tooltip(a domain.YearlyAggregate) string {
	return fmt.Sprintf("Year: %d\nNumber of Reactors: %d\nAverage Age of Reactors: %.2f Years",
		a.Year, a.Count, a.AverageAge)
}

// hoverOverlay emits one transparent rectangle per year column carrying the
// tooltip. Canvas coordinates have their origin at the bottom left; SVG user
// space has it at the top left.
func hoverOverlay(hits []hitBox, height vg.Length) []byte {
	var b bytes.Buffer
	b.WriteString(`<g class="bar-hits">` + "\n")
	for _, h := range hits {
		col := h.Column
		fmt.Fprintf(&b,
			`<rect class="bar-hit" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="transparent" data-year="%d" data-count="%d" data-average-age="%.2f"><title>%s</title></rect>`+"\n",
			col.Min.X.Points(),
			(height - col.Max.Y).Points(),
			(col.Max.X - col.Min.X).Points(),
			(col.Max.Y - col.Min.Y).Points(),
			h.Aggregate.Year, h.Aggregate.Count, h.Aggregate.AverageAge,
			html.EscapeString(Tooltip(h.Aggregate)))
	}
	b.WriteString("</g>\n")
	return b.Bytes()
}

// injectOverlay places overlay just before the closing svg tag so it is
// drawn last and outside the flipped coordinate group.
func injectOverlay(svg, overlay []byte) ([]byte, error) {
	i := bytes.LastIndex(svg, []byte("</svg>"))
	if i < 0 {
		return nil, fmt.Errorf("closing svg tag not found")
	}
	out := make([]byte, 0, len(svg)+len(overlay))
	out = append(out, svg[:i]...)
	out = append(out, overlay...)
	out = append(out, svg[i:]...)
	return out, nil
}

func fillsByYear(hits []hitBox) map[int]string {
	m := make(map[int]string, len(hits))
	for _, h := range hits {
		m[h.Aggregate.Year] = h.Fill
	}
	return m
}
