package marker

import (
	"fmt"
	"math"
)

// DetectionParams configures BB detection. Pixel-level fields are derived
// from the machine geometry with WithGeometry before detection.
type DetectionParams struct {
	// Physical BB size and search band
	BBRadiusMM      float64 // nominal BB radius at the isocenter plane
	RadiusTolerance float64 // fraction of expected radius allowed either way
	MinDistFactor   float64 // fraction of one diameter required between centers

	// Hough circle transform tuning
	HoughDP     float64
	HoughParam1 float64
	HoughParam2 float64

	// Derived pixel values (set by WithGeometry)
	ExpectedRadiusPixels float64
	MinRadiusPixels      int
	MaxRadiusPixels      int
	MinDistPixels        int
}

// DefaultParams returns detection parameters for the standard 7.5 mm BB
// phantom. param1/param2 are tuned for the soft edges of EPID acquisitions.
func DefaultParams() DetectionParams {
	return DetectionParams{
		BBRadiusMM:      7.5,
		RadiusTolerance: 0.15,
		// 90% of one diameter; tolerates near-touching markers without
		// letting one BB register twice.
		MinDistFactor: 0.9,

		HoughDP:     1.2,
		HoughParam1: 20,
		HoughParam2: 40,
	}
}

// WithGeometry returns a copy of params with the pixel-level search band
// derived from pixel spacing and the SID/SAD magnification. The expected BB
// radius is projected from the isocenter plane to the image plane, then
// converted to pixels.
func (p DetectionParams) WithGeometry(pixelSpacingMM, sidMM, sadMM float64) (DetectionParams, error) {
	if pixelSpacingMM <= 0 {
		return p, fmt.Errorf("pixel spacing must be positive, got %g", pixelSpacingMM)
	}
	if sidMM <= 0 || sadMM <= 0 {
		return p, fmt.Errorf("SID and SAD must be positive, got sid=%g sad=%g", sidMM, sadMM)
	}

	scale := sidMM / sadMM
	radiusPx := p.BBRadiusMM * scale / pixelSpacingMM

	p.ExpectedRadiusPixels = radiusPx
	p.MinRadiusPixels = int(radiusPx * (1 - p.RadiusTolerance))
	p.MaxRadiusPixels = int(radiusPx * (1 + p.RadiusTolerance))
	p.MinDistPixels = int(radiusPx * 2 * p.MinDistFactor)

	if p.MinRadiusPixels < 1 {
		p.MinRadiusPixels = 1
	}
	if p.MaxRadiusPixels < p.MinRadiusPixels {
		p.MaxRadiusPixels = p.MinRadiusPixels
	}
	if p.MinDistPixels < 1 {
		p.MinDistPixels = 1
	}
	return p, nil
}

func quantize(v float32) int {
	q := int(math.Round(float64(v)))
	if q < 0 {
		q = 0
	}
	return q
}
