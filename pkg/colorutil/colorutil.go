// Package colorutil provides shared colors for report overlays and tables.
package colorutil

import (
	"image/color"
)

// Overlay colors drawn onto the acquisition image. Orange and Red mark
// passing and failing edge midpoints.
var (
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Lime    = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Orange  = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	Red     = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Table fill colors for verdict cells.
var (
	// PassFill is the light green used behind PASS cells.
	PassFill = color.RGBA{R: 0xd0, G: 0xf0, B: 0xc0, A: 255}
	// FailFill is the light red used behind FAIL cells.
	FailFill = color.RGBA{R: 0xf8, G: 0xd7, B: 0xda, A: 255}
)
