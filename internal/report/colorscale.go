package report

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// Color scale names accepted by NewColorMap
const (
	ScaleEmrld     = "emrld"
	ScaleKindlmann = "kindlmann"
	ScaleBlackBody = "blackbody"
)

// emrldStops runs from light green to dark teal
var emrldStops = []string{
	"#d3f2a3", "#97e196", "#6cc08b", "#4c9b82", "#217a79", "#105965", "#074050",
}

// NewColorMap returns the named continuous color scale with the range [0, 1].
// An empty name selects Emrld.
func NewColorMap(name string) (palette.ColorMap, error) {
	var cm palette.ColorMap
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ScaleEmrld:
		m, err := Emrld()
		if err != nil {
			return nil, err
		}
		cm = m
	case ScaleKindlmann:
		cm = moreland.Kindlmann()
	case ScaleBlackBody:
		cm = moreland.BlackBody()
	default:
		return nil, fmt.Errorf("unknown color scale %q", name)
	}
	cm.SetMin(0)
	cm.SetMax(1)
	return cm, nil
}

// Emrld builds the light-to-dark green scale. The stops fall in luminance,
// so they are interpolated as a rising luminance map read backwards.
func Emrld() (palette.ColorMap, error) {
	controls := make([]color.Color, len(emrldStops))
	for i, hex := range emrldStops {
		c, err := parseHexColor(hex)
		if err != nil {
			return nil, err
		}
		controls[len(emrldStops)-1-i] = c
	}
	lum, err := moreland.NewLuminance(controls)
	if err != nil {
		return nil, fmt.Errorf("emrld: %w", err)
	}
	return &reversedMap{ColorMap: lum}, nil
}

// reversedMap maps Min to the color its wrapped map gives Max and vice versa
type reversedMap struct {
	palette.ColorMap
}

func (r *reversedMap) At(v float64) (color.Color, error) {
	return r.ColorMap.At(r.Min() + r.Max() - v)
}

func (r *reversedMap) Palette(n int) palette.Palette {
	colors := r.ColorMap.Palette(n).Colors()
	out := make([]color.Color, len(colors))
	for i, c := range colors {
		out[len(colors)-1-i] = c
	}
	return colorList(out)
}

type colorList []color.Color

func (c colorList) Colors() []color.Color { return c }

// colorAt returns the color for v, clamping v into the map's range
func colorAt(cm palette.ColorMap, v float64) color.Color {
	if v < cm.Min() {
		v = cm.Min()
	}
	if v > cm.Max() {
		v = cm.Max()
	}
	c, err := cm.At(v)
	if err != nil {
		return color.Gray{Y: 128}
	}
	return c
}

func parseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// cssColor formats c as a #rrggbb string
func cssColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
