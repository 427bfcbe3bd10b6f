// Package radfield analyzes the radiation field of an EPID acquisition:
// beam center and edge-to-center distances derived from intensity profiles.
package radfield

import (
	"fmt"
)

// Centering selects how the analysis centers its profiles.
type Centering string

// Recognized centering strategies.
const (
	CenteringBeamCenter      Centering = "beam-center"
	CenteringGeometricCenter Centering = "geometric-center"
	CenteringManual          Centering = "manual"
)

// EdgeDetection selects how field edges are located on a profile.
type EdgeDetection string

// Recognized edge-detection methods.
const (
	EdgeInflectionDerivative EdgeDetection = "inflection-derivative"
	EdgeInflectionHill       EdgeDetection = "inflection-hill"
	EdgeFWHM                 EdgeDetection = "fwhm"
)

// Interpolation selects profile resampling before edge detection.
type Interpolation string

// Recognized interpolation modes.
const (
	InterpolationNone   Interpolation = "none"
	InterpolationLinear Interpolation = "linear"
)

// Protocol selects the vendor preset for flatness/symmetry reporting.
type Protocol string

// Recognized protocol presets.
const (
	ProtocolNone    Protocol = "none"
	ProtocolVarian  Protocol = "varian"
	ProtocolElekta  Protocol = "elekta"
	ProtocolSiemens Protocol = "siemens"
)

// Config is the closed option set for field analysis. Unrecognized values
// fail validation instead of silently defaulting.
type Config struct {
	Centering                 Centering
	EdgeDetection             EdgeDetection
	Interpolation             Interpolation
	InterpolationResolutionMM float64
	Protocol                  Protocol
}

// DefaultConfig returns the configuration fixed by this QA protocol.
func DefaultConfig() Config {
	return Config{
		Centering:                 CenteringBeamCenter,
		EdgeDetection:             EdgeInflectionDerivative,
		Interpolation:             InterpolationLinear,
		InterpolationResolutionMM: 0.1,
		Protocol:                  ProtocolVarian,
	}
}

// Validate rejects any option value outside the recognized sets.
func (c Config) Validate() error {
	switch c.Centering {
	case CenteringBeamCenter, CenteringGeometricCenter, CenteringManual:
	default:
		return fmt.Errorf("unrecognized centering %q", c.Centering)
	}
	switch c.EdgeDetection {
	case EdgeInflectionDerivative, EdgeInflectionHill, EdgeFWHM:
	default:
		return fmt.Errorf("unrecognized edge detection method %q", c.EdgeDetection)
	}
	switch c.Interpolation {
	case InterpolationNone, InterpolationLinear:
	default:
		return fmt.Errorf("unrecognized interpolation mode %q", c.Interpolation)
	}
	if c.Interpolation != InterpolationNone && c.InterpolationResolutionMM <= 0 {
		return fmt.Errorf("interpolation resolution must be positive, got %g mm",
			c.InterpolationResolutionMM)
	}
	switch c.Protocol {
	case ProtocolNone, ProtocolVarian, ProtocolElekta, ProtocolSiemens:
	default:
		return fmt.Errorf("unrecognized protocol %q", c.Protocol)
	}
	return nil
}
