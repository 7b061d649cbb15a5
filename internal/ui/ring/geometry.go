package ring

import (
	"image"
	"image/color"
	"math"
)

// band is an annulus expressed as fractions of the widget half-size.
type band struct {
	Inner float64
	Outer float64
}

var (
	workBand  = band{Inner: 0.80, Outer: 0.98}
	breakBand = band{Inner: 0.56, Outer: 0.74}
)

var (
	workColor  = color.NRGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff}
	breakColor = color.NRGBA{R: 0x43, G: 0xa0, B: 0x47, A: 0xff}
	trackColor = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x40}
)

// sweep returns the clockwise position of a point around the centre, where
// 0 is twelve o'clock and 1 is a full turn. dy grows downwards.
func sweep(dx, dy float64) float64 {
	angle := math.Atan2(dx, -dy)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle / (2 * math.Pi)
}

// ringPixel colours one raster pixel of a ring showing fraction remaining.
func ringPixel(x, y, width, height int, ring band, fraction float64, fill color.Color) color.Color {
	radius := math.Min(float64(width), float64(height)) / 2
	if radius <= 0 {
		return color.Transparent
	}
	dx := float64(x) + 0.5 - float64(width)/2
	dy := float64(y) + 0.5 - float64(height)/2
	distance := math.Hypot(dx, dy) / radius
	if distance < ring.Inner || distance > ring.Outer {
		return color.Transparent
	}
	if fraction > 0 && sweep(dx, dy) <= fraction {
		return fill
	}
	return trackColor
}

// ringImage draws a whole ring in one pass.
func ringImage(width, height int, ring band, fraction float64, fill color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, ringPixel(x, y, width, height, ring, fraction, fill))
		}
	}
	return img
}

// lighten mixes c towards white for the flash highlight.
func lighten(c color.NRGBA) color.NRGBA {
	mix := func(value uint8) uint8 {
		return value + (0xff-value)/2
	}
	return color.NRGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}
