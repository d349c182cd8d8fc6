package report

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"nuclearfleet/pkg/contracts/domain"
)

// barFraction is the share of a year slot covered by its bar
const barFraction = 0.8

// hitBox is the drawn area of one year, in canvas points with the origin at
// the bottom left.
type hitBox struct {
	Aggregate domain.YearlyAggregate
	Bar       vg.Rectangle
	Column    vg.Rectangle
	Fill      string
}

// ageBars draws one bar per year whose height is the reactor count and whose
// fill encodes the average age. It remembers where each bar landed so the
// SVG can be given hover targets afterwards.
type ageBars struct {
	aggregates []domain.YearlyAggregate
	colors     palette.ColorMap
	hits       []hitBox
}

func newAgeBars(aggs []domain.YearlyAggregate, cm palette.ColorMap) *ageBars {
	return &ageBars{aggregates: aggs, colors: cm}
}

// Plot implements the plot.Plotter interface.
func (b *ageBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	b.hits = b.hits[:0]

	slot := trX(1) - trX(0)
	width := slot * barFraction

	for _, a := range b.aggregates {
		x := trX(float64(a.Year))
		if !c.ContainsX(x) {
			continue
		}
		xmin := x - width/2
		xmax := x + width/2
		bottom := trY(0)
		top := trY(float64(a.Count))

		fill := colorAt(b.colors, a.AverageAge)
		pts := []vg.Point{
			{X: xmin, Y: bottom},
			{X: xmin, Y: top},
			{X: xmax, Y: top},
			{X: xmax, Y: bottom},
		}
		if a.Count > 0 {
			c.FillPolygon(fill, c.ClipPolygonY(pts))
		}

		b.hits = append(b.hits, hitBox{
			Aggregate: a,
			Bar: vg.Rectangle{
				Min: vg.Point{X: xmin, Y: clampLength(bottom, c.Min.Y, c.Max.Y)},
				Max: vg.Point{X: xmax, Y: clampLength(top, c.Min.Y, c.Max.Y)},
			},
			Column: vg.Rectangle{
				Min: vg.Point{X: x - slot/2, Y: c.Min.Y},
				Max: vg.Point{X: x + slot/2, Y: c.Max.Y},
			},
			Fill: cssColor(fill),
		})
	}
}

// DataRange implements the plot.DataRanger interface. The x range leaves half
// a slot on either side so the outer bars are not cut.
func (b *ageBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	if len(b.aggregates) == 0 {
		return 0, 1, 0, 1
	}
	xmin, xmax = math.Inf(1), math.Inf(-1)
	for _, a := range b.aggregates {
		xmin = math.Min(xmin, float64(a.Year))
		xmax = math.Max(xmax, float64(a.Year))
		ymax = math.Max(ymax, float64(a.Count))
	}
	return xmin - 0.5, xmax + 0.5, 0, ymax
}

// ageRange returns the span of average ages, widened when every year has the same value
func ageRange(aggs []domain.YearlyAggregate) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, a := range aggs {
		lo = math.Min(lo, a.AverageAge)
		hi = math.Max(hi, a.AverageAge)
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func clampLength(v, lo, hi vg.Length) vg.Length {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
