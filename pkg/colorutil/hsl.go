// Package colorutil converts between #RRGGBB hex strings and HSL triples for
// the live color picker. Every function is pure and tolerates malformed input.
package colorutil

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"
)

var hexPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{2})([0-9a-fA-F]{2})([0-9a-fA-F]{2})$`)

// Fallback triple returned by HexToHSL for input it cannot parse.
const (
	FallbackHue        = 0
	FallbackSaturation = 100
	FallbackLightness  = 50
)

// ParseHex parses "#RRGGBB" (the '#' is optional, digits are case-insensitive).
func ParseHex(hex string) (color.RGBA, bool) {
	m := hexPattern.FindStringSubmatch(hex)
	if m == nil {
		return color.RGBA{}, false
	}
	channel := func(s string) uint8 {
		v, _ := strconv.ParseUint(s, 16, 8)
		return uint8(v)
	}
	return color.RGBA{R: channel(m[1]), G: channel(m[2]), B: channel(m[3]), A: 255}, true
}

// HexToHSL returns hue in degrees and saturation/lightness in percent, each
// rounded to the nearest integer. Unparseable input yields (0, 100, 50).
func HexToHSL(hex string) (h, s, l int) {
	c, ok := ParseHex(hex)
	if !ok {
		return FallbackHue, FallbackSaturation, FallbackLightness
	}

	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))

	var hue, sat float64
	light := (maxC + minC) / 2

	if maxC != minC {
		d := maxC - minC
		if light > 0.5 {
			sat = d / (2 - maxC - minC)
		} else {
			sat = d / (maxC + minC)
		}

		switch maxC {
		case r:
			hue = (g - b) / d
			if g < b {
				hue += 6
			}
		case g:
			hue = (b-r)/d + 2
		default:
			hue = (r-g)/d + 4
		}
		hue /= 6
	}

	return round(hue * 360), round(sat * 100), round(light * 100)
}

// HSLToHex renders hue (degrees) and saturation/lightness (percent) as a
// lowercase "#rrggbb" string. Hue is wrapped into [0,360); saturation and
// lightness are clamped to [0,100].
func HSLToHex(h, s, l float64) string {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s = clamp(s, 0, 100) / 100
	l = clamp(l, 0, 100) / 100

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return fmt.Sprintf("#%02x%02x%02x", toByte(r+m), toByte(g+m), toByte(b+m))
}

// round matches half-up rounding for the non-negative values used here.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func toByte(v float64) uint8 {
	return uint8(clamp(float64(round(v*255)), 0, 255))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
