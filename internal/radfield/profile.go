package radfield

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"
)

// profileAnalysis is one axis of the field: a resampled profile with its
// located edges. Positions are image-plane millimeters from the first pixel.
type profileAnalysis struct {
	xs []float64 // sample positions, mm
	ys []float64 // normalized intensities, 0..1

	fit interp.PiecewiseLinear // fitted over xs/ys for point evaluation

	LeftMM   float64 // rising edge (top edge for the vertical axis)
	RightMM  float64 // falling edge
	CenterMM float64
}

// analyzeProfile normalizes a raw intensity profile, resamples it per the
// configuration, and locates the field edges by the inflection-derivative
// method: the rising edge at the maximum of the first derivative and the
// falling edge at its minimum.
func analyzeProfile(raw []float64, spacingMM float64, cfg Config) (profileAnalysis, error) {
	if len(raw) < 4 {
		return profileAnalysis{}, fmt.Errorf("profile too short: %d samples", len(raw))
	}

	lo := floats.Min(raw)
	hi := floats.Max(raw)
	if hi <= lo {
		return profileAnalysis{}, fmt.Errorf("flat profile, no field visible")
	}

	srcXs := make([]float64, len(raw))
	srcYs := make([]float64, len(raw))
	for i, v := range raw {
		srcXs[i] = float64(i) * spacingMM
		srcYs[i] = (v - lo) / (hi - lo)
	}

	var pa profileAnalysis
	if err := pa.fit.Fit(srcXs, srcYs); err != nil {
		return profileAnalysis{}, fmt.Errorf("fit profile: %w", err)
	}

	switch cfg.Interpolation {
	case InterpolationLinear:
		step := cfg.InterpolationResolutionMM
		span := srcXs[len(srcXs)-1]
		n := int(span/step) + 1
		pa.xs = make([]float64, n)
		pa.ys = make([]float64, n)
		for i := 0; i < n; i++ {
			x := float64(i) * step
			pa.xs[i] = x
			pa.ys[i] = pa.fit.Predict(x)
		}
	default: // InterpolationNone
		pa.xs = srcXs
		pa.ys = srcYs
	}

	if err := pa.locateEdges(); err != nil {
		return profileAnalysis{}, err
	}
	pa.CenterMM = (pa.LeftMM + pa.RightMM) / 2
	return pa, nil
}

// locateEdges finds the extrema of the first derivative. Each edge position
// is the midpoint of the steepest sample step.
func (pa *profileAnalysis) locateEdges() error {
	maxD, minD := 0.0, 0.0
	maxI, minI := -1, -1
	for i := 0; i+1 < len(pa.ys); i++ {
		d := (pa.ys[i+1] - pa.ys[i]) / (pa.xs[i+1] - pa.xs[i])
		if maxI < 0 || d > maxD {
			maxD, maxI = d, i
		}
		if minI < 0 || d < minD {
			minD, minI = d, i
		}
	}
	if maxI < 0 || minI < 0 || maxD <= 0 || minD >= 0 {
		return fmt.Errorf("no field edges found")
	}

	left := (pa.xs[maxI] + pa.xs[maxI+1]) / 2
	right := (pa.xs[minI] + pa.xs[minI+1]) / 2
	if left >= right {
		return fmt.Errorf("degenerate edges: rising at %.2f mm, falling at %.2f mm", left, right)
	}
	pa.LeftMM = left
	pa.RightMM = right
	return nil
}

// at evaluates the fitted profile at position x mm, clamped to the grid.
func (pa *profileAnalysis) at(x float64) float64 {
	if x < pa.xs[0] {
		x = pa.xs[0]
	}
	if last := pa.xs[len(pa.xs)-1]; x > last {
		x = last
	}
	return pa.fit.Predict(x)
}

// widthMM is the field width between the located edges.
func (pa *profileAnalysis) widthMM() float64 {
	return pa.RightMM - pa.LeftMM
}

// flatnessPct is the variation over the central 80% of the field,
// 100*(max-min)/(max+min), per the Varian convention.
func (pa *profileAnalysis) flatnessPct() float64 {
	lo := pa.CenterMM - 0.4*pa.widthMM()
	hi := pa.CenterMM + 0.4*pa.widthMM()

	var vals []float64
	for _, x := range pa.xs {
		if x >= lo && x <= hi {
			vals = append(vals, pa.at(x))
		}
	}
	if len(vals) == 0 {
		return 0
	}
	mx := floats.Max(vals)
	mn := floats.Min(vals)
	if mx+mn == 0 {
		return 0
	}
	return 100 * (mx - mn) / (mx + mn)
}

// symmetryPct is the maximum point difference between mirrored positions
// over the central 80% of the field, as a percentage of the CAX value.
func (pa *profileAnalysis) symmetryPct() float64 {
	cax := pa.at(pa.CenterMM)
	if cax == 0 {
		return 0
	}
	worst := 0.0
	half := 0.4 * pa.widthMM()
	step := pa.xs[1] - pa.xs[0]
	for d := 0.0; d <= half; d += step {
		diff := pa.at(pa.CenterMM+d) - pa.at(pa.CenterMM-d)
		if diff < 0 {
			diff = -diff
		}
		if diff > worst {
			worst = diff
		}
	}
	return 100 * worst / cax
}

// centralBandMean averages a band of lines into one profile. get(line, i)
// returns sample i of a given line; the band covers `width` lines centered
// on `center`.
func centralBandMean(lines, samples, center, width int, get func(line, i int) float64) []float64 {
	half := width / 2
	lo := center - half
	hi := center + half
	if lo < 0 {
		lo = 0
	}
	if hi > lines-1 {
		hi = lines - 1
	}

	profile := make([]float64, samples)
	band := make([]float64, 0, hi-lo+1)
	for i := 0; i < samples; i++ {
		band = band[:0]
		for l := lo; l <= hi; l++ {
			band = append(band, get(l, i))
		}
		profile[i] = stat.Mean(band, nil)
	}
	return profile
}
