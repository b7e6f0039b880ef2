package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors used by the scene renderer.
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorCyan    = color.RGBA{0, 255, 255, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}

	// ColorBackground is the default clear color.
	ColorBackground = ColorWhite
	// ColorBoundingBox is the bounding box overlay.
	ColorBoundingBox = RGBf(0.3, 0.7, 0.3)
	// ColorBoundary is the boundary edge overlay.
	ColorBoundary = Gray(0.1)
	// ColorPoints is the Points draw mode.
	ColorPoints = RGBf(1.0, 0.5, 0.5)
	// ColorWire is the wireframe of Wireframe and FlatLines.
	ColorWire = Gray(0.2)
	// ColorHiddenLine is the outline color of HiddenLines.
	ColorHiddenLine = Gray(0.3)
	// ColorSurface is the fill color of Flat and Smooth.
	ColorSurface = Gray(0.8)
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}

// RGBf creates an opaque color from components in [0, 1].
func RGBf(r, g, b float64) color.RGBA {
	return color.RGBA{unit(r), unit(g), unit(b), 255}
}

// Gray creates an opaque gray of intensity v in [0, 1].
func Gray(v float64) color.RGBA {
	return RGBf(v, v, v)
}

// Floats returns the components of c in [0, 1].
func Floats(c color.RGBA) (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}

func unit(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// lerpColor linearly interpolates between two colors.
func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + t*(float64(b.B)-float64(a.B))),
		A: uint8(float64(a.A) + t*(float64(b.A)-float64(a.A))),
	}
}

// interpolateColor3 interpolates between 3 colors using barycentric coords.
func interpolateColor3(c0, c1, c2 color.RGBA, w0, w1, w2 float64) color.RGBA {
	return color.RGBA{
		R: clampByte(float64(c0.R)*w0 + float64(c1.R)*w1 + float64(c2.R)*w2),
		G: clampByte(float64(c0.G)*w0 + float64(c1.G)*w1 + float64(c2.G)*w2),
		B: clampByte(float64(c0.B)*w0 + float64(c1.B)*w1 + float64(c2.B)*w2),
		A: 255,
	}
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
