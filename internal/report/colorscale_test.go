package report

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmrld(t *testing.T) {
	cm, err := NewColorMap(ScaleEmrld)
	require.NoError(t, err)
	cm.SetMin(2)
	cm.SetMax(30)

	assertNearColor(t, "#d3f2a3", colorAt(cm, 2), "youngest fleet is light green")
	assertNearColor(t, "#074050", colorAt(cm, 30), "oldest fleet is dark teal")

	// values outside the range are clamped instead of failing
	assert.Equal(t, cssColor(colorAt(cm, 2)), cssColor(colorAt(cm, -10)))
	assert.Equal(t, cssColor(colorAt(cm, 30)), cssColor(colorAt(cm, 99)))

	colors := cm.Palette(7).Colors()
	require.Len(t, colors, 7)
	assertNearColor(t, "#d3f2a3", colors[0])
	assertNearColor(t, "#074050", colors[6])
}

// assertNearColor allows for rounding in the Lab round trip
func assertNearColor(t *testing.T, hex string, got color.Color, msgAndArgs ...interface{}) {
	t.Helper()
	want, err := parseHexColor(hex)
	require.NoError(t, err)
	g := color.NRGBAModel.Convert(got).(color.NRGBA)
	assert.InDelta(t, float64(want.R), float64(g.R), 2, msgAndArgs...)
	assert.InDelta(t, float64(want.G), float64(g.G), 2, msgAndArgs...)
	assert.InDelta(t, float64(want.B), float64(g.B), 2, msgAndArgs...)
}

func TestNewColorMap(t *testing.T) {
	for _, name := range []string{"", "Emrld", ScaleKindlmann, ScaleBlackBody} {
		cm, err := NewColorMap(name)
		require.NoError(t, err, name)
		assert.Equal(t, 0.0, cm.Min())
		assert.Equal(t, 1.0, cm.Max())
	}

	_, err := NewColorMap("jet")
	assert.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#217a79")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x21, G: 0x7a, B: 0x79, A: 0xff}, c)

	_, err = parseHexColor("#fff")
	assert.Error(t, err)
	_, err = parseHexColor("#zzzzzz")
	assert.Error(t, err)
}
