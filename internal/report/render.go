// Package report renders QA pages: an annotated acquisition image plus the
// comparison table, assembled into a multi-page PDF and a CSV summary.
package report

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"field-qa/internal/compare"
	"field-qa/internal/marker"
	"field-qa/pkg/colorutil"
	"field-qa/pkg/geometry"
)

// EdgeMark is one light-field edge midpoint with its comparison verdict.
type EdgeMark struct {
	Pos     geometry.Point2D
	Verdict compare.Verdict
}

// Overlay is the geometry drawn on top of the acquisition image. All
// coordinates are image pixels.
type Overlay struct {
	Markers          []marker.Marker
	LightFieldBox    [4]geometry.Point2D
	RadiationBox     [4]geometry.Point2D
	LightFieldCenter geometry.Point2D
	BeamCenter       geometry.Point2D
	EdgeMarks        []EdgeMark
}

const (
	boxThickness    = 2
	markerThickness = 2
	crossHalfPx     = 8
)

// RenderOverlay draws the overlay onto a display copy of the acquisition
// image and returns it PNG-encoded. Marker circles are lime, the light
// field box blue, the radiation field box magenta; the light-field center
// is a cyan cross and the beam center a magenta cross. Edge midpoints are
// drawn as diagonal crosses, orange for passing rows and red for failing.
func RenderOverlay(pixels gocv.Mat, ov Overlay) ([]byte, error) {
	if pixels.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	// Display copy: normalize to 8-bit and promote to color.
	norm := gocv.NewMat()
	defer norm.Close()
	gocv.Normalize(pixels, &norm, 0, 255, gocv.NormMinMax)

	gray := gocv.NewMat()
	defer gray.Close()
	norm.ConvertTo(&gray, gocv.MatTypeCV8U)

	canvas := gocv.NewMat()
	defer canvas.Close()
	gocv.CvtColor(gray, &canvas, gocv.ColorGrayToBGR)

	for _, m := range ov.Markers {
		gocv.Circle(&canvas, image.Pt(m.X, m.Y), m.Radius, colorutil.Lime, markerThickness)
	}
	drawBox(&canvas, ov.LightFieldBox, colorutil.Blue)
	drawBox(&canvas, ov.RadiationBox, colorutil.Magenta)
	drawCross(&canvas, ov.LightFieldCenter, colorutil.Cyan)
	drawCross(&canvas, ov.BeamCenter, colorutil.Magenta)
	for _, em := range ov.EdgeMarks {
		c := colorutil.Orange
		if em.Verdict != compare.Pass {
			c = colorutil.Red
		}
		drawDiagonalCross(&canvas, em.Pos, c)
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, canvas)
	if err != nil {
		return nil, fmt.Errorf("encode overlay: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

func drawBox(canvas *gocv.Mat, corners [4]geometry.Point2D, c color.RGBA) {
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%len(corners)]
		gocv.Line(canvas, toPt(a), toPt(b), c, boxThickness)
	}
}

func drawCross(canvas *gocv.Mat, p geometry.Point2D, c color.RGBA) {
	pt := toPt(p)
	gocv.Line(canvas, image.Pt(pt.X-crossHalfPx, pt.Y), image.Pt(pt.X+crossHalfPx, pt.Y), c, markerThickness)
	gocv.Line(canvas, image.Pt(pt.X, pt.Y-crossHalfPx), image.Pt(pt.X, pt.Y+crossHalfPx), c, markerThickness)
}

func drawDiagonalCross(canvas *gocv.Mat, p geometry.Point2D, c color.RGBA) {
	pt := toPt(p)
	gocv.Line(canvas, image.Pt(pt.X-crossHalfPx, pt.Y-crossHalfPx), image.Pt(pt.X+crossHalfPx, pt.Y+crossHalfPx), c, markerThickness)
	gocv.Line(canvas, image.Pt(pt.X-crossHalfPx, pt.Y+crossHalfPx), image.Pt(pt.X+crossHalfPx, pt.Y-crossHalfPx), c, markerThickness)
}

func toPt(p geometry.Point2D) image.Point {
	return image.Pt(int(p.X+0.5), int(p.Y+0.5))
}
