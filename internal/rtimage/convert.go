package rtimage

import (
	"field-qa/pkg/geometry"
)

// PxToMM converts a pixel-space point to image-plane millimeters, applying
// row and column spacing independently.
func (p PixelGeometry) PxToMM(pt geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{X: pt.X * p.ColSpacingMM, Y: pt.Y * p.RowSpacingMM}
}

// MMToPx converts an image-plane millimeter point back to pixel coordinates.
func (p PixelGeometry) MMToPx(pt geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{X: pt.X / p.ColSpacingMM, Y: pt.Y / p.RowSpacingMM}
}
