// Package compare reconciles the reconstructed light field with the
// radiation-field analysis and produces the QA verdict. It is a pure
// function of its geometric inputs and the tolerance.
package compare

import (
	"math"

	"field-qa/internal/lightfield"
	"field-qa/internal/plane"
	"field-qa/internal/radfield"
)

// DefaultToleranceMM is the action threshold for every comparison row.
// The interval is closed: a value of exactly the tolerance passes.
const DefaultToleranceMM = 2.0

// Verdict is a per-row or overall pass/fail result.
type Verdict string

// Verdict values.
const (
	Pass Verdict = "PASS"
	Fail Verdict = "FAIL"
)

// EdgeRow compares one edge's distance-to-center between the two fields.
// Both distances are isocenter-plane millimeters.
type EdgeRow struct {
	Label        string
	LightFieldMM float64 // light-field edge to light-field center
	RadiationMM  float64 // radiation-field edge to beam center
	DeltaMM      float64
	Verdict      Verdict
}

// CenterRow compares the two field centers directly. Unlike the edge rows
// it carries a single absolute distance, not a delta of two distances; the
// distance itself is the tested quantity.
type CenterRow struct {
	DistanceMM float64
	Verdict    Verdict
}

// Outcome is the full QA result for one image.
type Outcome struct {
	Filename   string
	Edges      []EdgeRow // Top, Bottom, Left, Right
	Center     CenterRow
	MaxDeltaMM float64 // max across the four edge deltas and the center distance
	Verdict    Verdict
}

// Compare builds the per-edge and center rows and the overall verdict.
// lf is in image-plane millimeters; rf distances are already in the
// isocenter plane; mapper carries the SID/SAD ratio between them.
func Compare(filename string, lf lightfield.Field, rf radfield.Result, mapper plane.Mapper, tolMM float64) Outcome {
	edges := []struct {
		label string
		pos   func() float64 // light-field edge distance to center, image plane
		rad   float64        // radiation distance, isocenter plane
	}{
		{"Top", func() float64 { return lf.Top.Distance(lf.Center) }, math.Abs(rf.CenterToTopMM)},
		{"Bottom", func() float64 { return lf.Bottom.Distance(lf.Center) }, math.Abs(rf.CenterToBottomMM)},
		{"Left", func() float64 { return lf.Left.Distance(lf.Center) }, math.Abs(rf.CenterToLeftMM)},
		{"Right", func() float64 { return lf.Right.Distance(lf.Center) }, math.Abs(rf.CenterToRightMM)},
	}

	out := Outcome{Filename: filename}
	for _, e := range edges {
		lfDist := mapper.ToIsocenterDistance(e.pos())
		delta := math.Abs(lfDist - e.rad)
		out.Edges = append(out.Edges, EdgeRow{
			Label:        e.label,
			LightFieldMM: lfDist,
			RadiationMM:  e.rad,
			DeltaMM:      delta,
			Verdict:      verdictFor(delta, tolMM),
		})
		if delta > out.MaxDeltaMM {
			out.MaxDeltaMM = delta
		}
	}

	centerDist := mapper.ToIsocenterDistance(lf.Center.Distance(rf.BeamCenterMM))
	out.Center = CenterRow{
		DistanceMM: centerDist,
		Verdict:    verdictFor(centerDist, tolMM),
	}
	if centerDist > out.MaxDeltaMM {
		out.MaxDeltaMM = centerDist
	}

	out.Verdict = verdictFor(out.MaxDeltaMM, tolMM)
	return out
}

func verdictFor(value, tolMM float64) Verdict {
	if value <= tolMM {
		return Pass
	}
	return Fail
}
