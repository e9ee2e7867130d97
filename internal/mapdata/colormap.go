package mapdata

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

type rgb struct{ r, g, b uint8 }

// Palette is the choropleth color ramp, low to high.
var Palette = []string{"#808080", "#ffa500", "#add8e6", "#008000", "#006400"}

// TransparentFill is used for features that carry no country code.
const TransparentFill = "transparent"

// Colormap linearly interpolates evenly spaced color stops over [Min, Max].
type Colormap struct {
	Min, Max float64
	stops    []rgb
}

// NewColormap builds a colormap from "#rrggbb" stops.
func NewColormap(colors []string, lo, hi float64) (Colormap, error) {
	if len(colors) == 0 {
		return Colormap{}, errors.New("colormap needs at least one color")
	}
	stops := make([]rgb, 0, len(colors))
	for _, c := range colors {
		v, err := parseHex(c)
		if err != nil {
			return Colormap{}, err
		}
		stops = append(stops, v)
	}
	return Colormap{Min: lo, Max: hi, stops: stops}, nil
}

// Color maps v to a hex color. Values outside the domain are clamped. A
// degenerate domain maps everything to the first stop.
func (c Colormap) Color(v float64) string {
	if len(c.stops) == 1 || c.Max <= c.Min || math.IsNaN(v) {
		return c.stops[0].hex()
	}
	t := (v - c.Min) / (c.Max - c.Min)
	t = math.Max(0, math.Min(1, t))

	pos := t * float64(len(c.stops)-1)
	i := int(math.Floor(pos))
	if i >= len(c.stops)-1 {
		return c.stops[len(c.stops)-1].hex()
	}
	frac := pos - float64(i)
	a, b := c.stops[i], c.stops[i+1]
	return rgb{
		r: lerp(a.r, b.r, frac),
		g: lerp(a.g, b.g, frac),
		b: lerp(a.b, b.b, frac),
	}.hex()
}

func parseHex(s string) (rgb, error) {
	if len(s) != 7 || s[0] != '#' {
		return rgb{}, fmt.Errorf("parse color %q: want #rrggbb", s)
	}
	n, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return rgb{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return rgb{r: uint8(n >> 16), g: uint8(n >> 8), b: uint8(n)}, nil
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}
