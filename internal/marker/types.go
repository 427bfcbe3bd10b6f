// Package marker provides BB (ball-bearing) marker detection on enhanced
// EPID images. The four BBs sit at a fixed standoff from the light-field
// edges and act as a light-field position proxy.
package marker

import (
	"errors"

	"field-qa/pkg/geometry"
)

// Quorum is the number of markers required to reconstruct the light field.
const Quorum = 4

// ErrInsufficientMarkers reports that too few BBs were found in an image.
// The condition is per-image and non-fatal for a batch.
var ErrInsufficientMarkers = errors.New("insufficient BB markers")

// Marker is one detected circular blob, quantized to pixel coordinates.
// Markers are ephemeral: produced for one image and never shared across images.
type Marker struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Radius int `json:"radius"`
}

// Center returns the marker center as a floating-point pixel coordinate.
func (m Marker) Center() geometry.Point2D {
	return geometry.Point2D{X: float64(m.X), Y: float64(m.Y)}
}
