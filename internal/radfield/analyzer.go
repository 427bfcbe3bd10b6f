package radfield

import (
	"fmt"

	"gocv.io/x/gocv"

	"field-qa/internal/rtimage"
	"field-qa/pkg/geometry"
)

// centralBandLines is the number of rows/columns averaged into each profile.
const centralBandLines = 5

// Result is the radiation-field analysis for one image.
//
// BeamCenter values are in the image plane; the four edge-to-center
// distances are isocenter-plane millimeters, matching the plane clinical
// tolerances are expressed in.
type Result struct {
	BeamCenterPx geometry.Point2D // pixel coordinates
	BeamCenterMM geometry.Point2D // image-plane (SID) millimeters

	CenterToTopMM    float64
	CenterToBottomMM float64
	CenterToLeftMM   float64
	CenterToRightMM  float64

	FieldWidthXMM float64 // isocenter plane
	FieldWidthYMM float64

	// Protocol metadata for the report; not part of the coincidence verdict.
	FlatnessXPct float64
	FlatnessYPct float64
	SymmetryXPct float64
	SymmetryYPct float64
}

// Analyzer is the boundary the comparison pipeline depends on. The rest of
// the system treats the analysis as opaque: any implementation returning a
// Result in the documented planes will do.
type Analyzer interface {
	Analyze(pixels gocv.Mat, px rtimage.PixelGeometry, scale float64) (Result, error)
}

// ProfileAnalyzer locates the field from central-band intensity profiles.
type ProfileAnalyzer struct {
	cfg Config
}

// NewProfileAnalyzer validates the configuration and rejects recognized
// options this implementation does not support.
func NewProfileAnalyzer(cfg Config) (*ProfileAnalyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Centering != CenteringBeamCenter {
		return nil, fmt.Errorf("centering %q not supported by the profile analyzer", cfg.Centering)
	}
	if cfg.EdgeDetection != EdgeInflectionDerivative {
		return nil, fmt.Errorf("edge detection %q not supported by the profile analyzer", cfg.EdgeDetection)
	}
	return &ProfileAnalyzer{cfg: cfg}, nil
}

// Analyze extracts horizontal and vertical central-band profiles from the
// raw acquisition, locates the field edges on each, and derives the beam
// center and edge-to-center distances. scale is SID/SAD.
func (a *ProfileAnalyzer) Analyze(pixels gocv.Mat, px rtimage.PixelGeometry, scale float64) (Result, error) {
	if pixels.Empty() {
		return Result{}, fmt.Errorf("empty image")
	}
	if scale <= 0 {
		return Result{}, fmt.Errorf("scale must be positive, got %g", scale)
	}

	f64 := gocv.NewMat()
	defer f64.Close()
	pixels.ConvertTo(&f64, gocv.MatTypeCV64F)

	rows := f64.Rows()
	cols := f64.Cols()

	// Horizontal profile: one sample per column, averaged over the central rows.
	horiz := centralBandMean(rows, cols, rows/2, centralBandLines, func(line, i int) float64 {
		return f64.GetDoubleAt(line, i)
	})
	// Vertical profile: one sample per row, averaged over the central columns.
	vert := centralBandMean(cols, rows, cols/2, centralBandLines, func(line, i int) float64 {
		return f64.GetDoubleAt(i, line)
	})

	xAxis, err := analyzeProfile(horiz, px.ColSpacingMM, a.cfg)
	if err != nil {
		return Result{}, fmt.Errorf("horizontal profile: %w", err)
	}
	yAxis, err := analyzeProfile(vert, px.RowSpacingMM, a.cfg)
	if err != nil {
		return Result{}, fmt.Errorf("vertical profile: %w", err)
	}

	centerMM := geometry.Point2D{X: xAxis.CenterMM, Y: yAxis.CenterMM}

	return Result{
		BeamCenterPx: px.MMToPx(centerMM),
		BeamCenterMM: centerMM,

		CenterToLeftMM:   (xAxis.CenterMM - xAxis.LeftMM) / scale,
		CenterToRightMM:  (xAxis.RightMM - xAxis.CenterMM) / scale,
		CenterToTopMM:    (yAxis.CenterMM - yAxis.LeftMM) / scale,
		CenterToBottomMM: (yAxis.RightMM - yAxis.CenterMM) / scale,

		FieldWidthXMM: xAxis.widthMM() / scale,
		FieldWidthYMM: yAxis.widthMM() / scale,

		FlatnessXPct: xAxis.flatnessPct(),
		FlatnessYPct: yAxis.flatnessPct(),
		SymmetryXPct: xAxis.symmetryPct(),
		SymmetryYPct: yAxis.symmetryPct(),
	}, nil
}
