package qa

import (
	"field-qa/internal/compare"
	"field-qa/internal/lightfield"
	"field-qa/internal/marker"
	"field-qa/internal/plane"
	"field-qa/internal/radfield"
	"field-qa/internal/report"
	"field-qa/internal/rtimage"
	"field-qa/pkg/geometry"
)

// buildOverlay converts the comparison geometry to image pixels for the
// page renderer. The radiation box is defined at the isocenter plane and is
// magnified back into the image plane about the beam center so both boxes
// are drawn in the same frame. Edge marks carry the per-row verdicts.
func buildOverlay(markers []marker.Marker, lf lightfield.Field, rf radfield.Result,
	mapper plane.Mapper, px rtimage.PixelGeometry, outcome compare.Outcome) report.Overlay {

	var lfBox [4]geometry.Point2D
	for i, c := range lf.Corners() {
		lfBox[i] = px.MMToPx(c)
	}

	c := rf.BeamCenterMM
	left := c.X - mapper.ToImageDistance(rf.CenterToLeftMM)
	right := c.X + mapper.ToImageDistance(rf.CenterToRightMM)
	top := c.Y - mapper.ToImageDistance(rf.CenterToTopMM)
	bottom := c.Y + mapper.ToImageDistance(rf.CenterToBottomMM)

	rfBox := [4]geometry.Point2D{
		px.MMToPx(geometry.Point2D{X: left, Y: top}),
		px.MMToPx(geometry.Point2D{X: right, Y: top}),
		px.MMToPx(geometry.Point2D{X: right, Y: bottom}),
		px.MMToPx(geometry.Point2D{X: left, Y: bottom}),
	}

	edgePts := map[string]geometry.Point2D{
		"Top":    lf.Top,
		"Bottom": lf.Bottom,
		"Left":   lf.Left,
		"Right":  lf.Right,
	}
	marks := make([]report.EdgeMark, 0, len(outcome.Edges))
	for _, row := range outcome.Edges {
		marks = append(marks, report.EdgeMark{
			Pos:     px.MMToPx(edgePts[row.Label]),
			Verdict: row.Verdict,
		})
	}

	return report.Overlay{
		Markers:          markers,
		LightFieldBox:    lfBox,
		RadiationBox:     rfBox,
		LightFieldCenter: px.MMToPx(lf.Center),
		BeamCenter:       rf.BeamCenterPx,
		EdgeMarks:        marks,
	}
}
