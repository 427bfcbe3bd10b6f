// Package plane converts geometry between the image plane (at SID) and the
// isocenter plane (at SAD). The two planes are related by the similarity
// ratio SID/SAD about the beam axis.
package plane

import (
	"fmt"
	"math"

	"field-qa/pkg/geometry"
)

// Mapper converts distances and points between the image and isocenter
// planes. The zero value is unusable; construct with NewMapper.
type Mapper struct {
	scale float64
}

// NewMapper builds a Mapper from source-to-image and source-to-axis
// distances. Both must be strictly positive and finite.
func NewMapper(sidMM, sadMM float64) (Mapper, error) {
	if sadMM <= 0 || math.IsNaN(sadMM) || math.IsInf(sadMM, 0) {
		return Mapper{}, fmt.Errorf("SAD must be positive, got %g", sadMM)
	}
	if sidMM <= 0 || math.IsNaN(sidMM) || math.IsInf(sidMM, 0) {
		return Mapper{}, fmt.Errorf("SID must be positive, got %g", sidMM)
	}
	return Mapper{scale: sidMM / sadMM}, nil
}

// NewMapperFromScale builds a Mapper from a precomputed SID/SAD ratio.
func NewMapperFromScale(scale float64) (Mapper, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return Mapper{}, fmt.Errorf("scale must be positive and finite, got %g", scale)
	}
	return Mapper{scale: scale}, nil
}

// Scale returns the SID/SAD ratio. A scale of 1.0 means no magnification.
func (m Mapper) Scale() float64 {
	return m.scale
}

// ToIsocenterDistance converts an image-plane distance to the isocenter plane.
func (m Mapper) ToIsocenterDistance(dImageMM float64) float64 {
	return dImageMM / m.scale
}

// ToImageDistance converts an isocenter-plane distance to the image plane.
func (m Mapper) ToImageDistance(dIsoMM float64) float64 {
	return dIsoMM * m.scale
}

// ToImagePoint magnifies an isocenter-plane point into the image plane,
// scaling about the given field center.
func (m Mapper) ToImagePoint(p, center geometry.Point2D) geometry.Point2D {
	return center.Add(p.Sub(center).Scale(m.scale))
}

// ToIsocenterPoint demagnifies an image-plane point into the isocenter
// plane, scaling about the given field center.
func (m Mapper) ToIsocenterPoint(p, center geometry.Point2D) geometry.Point2D {
	return center.Add(p.Sub(center).Scale(1 / m.scale))
}
