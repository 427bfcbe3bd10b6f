// Package lightfield reconstructs the light-field boundary from detected BB
// markers. Each edge's BB pair sits a fixed physical standoff outside the
// true edge, so the pair midpoint is shifted back toward the edge before the
// boundary is assembled.
package lightfield

import (
	"fmt"
	"sort"

	"field-qa/internal/marker"
	"field-qa/internal/rtimage"
	"field-qa/pkg/geometry"
)

// StandoffMM is the physical distance between a BB's mounted position and
// the light-field edge it marks, at the isocenter plane.
const StandoffMM = 15.0

// Field is the reconstructed light field. All coordinates are image-plane
// (SID) millimeters.
type Field struct {
	Top    geometry.Point2D
	Bottom geometry.Point2D
	Left   geometry.Point2D
	Right  geometry.Point2D
	Center geometry.Point2D
}

// Box returns the light-field bounding rectangle. X extents come from the
// Left/Right edges, Y extents from Top/Bottom.
func (f Field) Box() geometry.Rect {
	return geometry.NewRect(f.Left.X, f.Top.Y, f.Right.X-f.Left.X, f.Bottom.Y-f.Top.Y)
}

// Corners returns the light-field box TL, TR, BR, BL.
func (f Field) Corners() [4]geometry.Point2D {
	return f.Box().Corners()
}

// Reconstruct pairs markers into edge groups and derives the light-field
// edges, center and box. standoffMM is the BB-to-edge distance at the
// isocenter plane; scale (SID/SAD) projects it to the image plane.
//
// Groups are selected independently per axis: the two smallest and two
// largest Y for Top/Bottom, likewise on X for Left/Right. With exactly four
// markers in a cardinal layout each group is distinct; with unusual layouts
// one marker can appear in two groups. Groups are never deduplicated.
func Reconstruct(markers []marker.Marker, px rtimage.PixelGeometry, scale, standoffMM float64) (Field, error) {
	if len(markers) < marker.Quorum {
		return Field{}, fmt.Errorf("%w: found %d of %d", marker.ErrInsufficientMarkers,
			len(markers), marker.Quorum)
	}

	byY := append([]marker.Marker(nil), markers...)
	sort.SliceStable(byY, func(i, j int) bool { return byY[i].Y < byY[j].Y })
	byX := append([]marker.Marker(nil), markers...)
	sort.SliceStable(byX, func(i, j int) bool { return byX[i].X < byX[j].X })

	top := byY[:2]
	bottom := byY[len(byY)-2:]
	left := byX[:2]
	right := byX[len(byX)-2:]

	shift := standoffMM * scale

	f := Field{
		Top:    shiftedMidpoint(top, px, 0, -shift),
		Bottom: shiftedMidpoint(bottom, px, 0, +shift),
		Left:   shiftedMidpoint(left, px, -shift, 0),
		Right:  shiftedMidpoint(right, px, +shift, 0),
	}
	f.Center = f.Box().Center()
	return f, nil
}

// shiftedMidpoint converts the pixel midpoint of a marker pair to
// image-plane millimeters and applies the standoff shift along one axis.
func shiftedMidpoint(pair []marker.Marker, px rtimage.PixelGeometry, dxMM, dyMM float64) geometry.Point2D {
	mid := geometry.Midpoint(pair[0].Center(), pair[1].Center())
	mm := px.PxToMM(mid)
	return geometry.Point2D{X: mm.X + dxMM, Y: mm.Y + dyMM}
}
