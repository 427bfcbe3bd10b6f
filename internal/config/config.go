// Package config provides run configuration for the field-coincidence QA
// tool. Values default to the standard protocol and may be overridden from
// a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"field-qa/internal/lightfield"
	"field-qa/internal/marker"
	"field-qa/internal/radfield"
)

// Config is the full run configuration.
type Config struct {
	// Detection parameters for the BB markers
	Detection struct {
		// BBRadiusMM is the nominal BB radius at the isocenter plane
		BBRadiusMM float64 `yaml:"bbRadiusMM"`

		// RadiusTolerance is the search band around the expected radius
		RadiusTolerance float64 `yaml:"radiusTolerance"`

		// MinDistFactor controls the minimum separation between detections
		MinDistFactor float64 `yaml:"minDistFactor"`
	} `yaml:"detection"`

	// LightField parameters for boundary reconstruction
	LightField struct {
		// StandoffMM is the BB-to-edge distance at the isocenter plane
		StandoffMM float64 `yaml:"standoffMM"`
	} `yaml:"lightField"`

	// Comparison parameters
	Comparison struct {
		// ToleranceMM is the pass/fail threshold for every row
		ToleranceMM float64 `yaml:"toleranceMM"`
	} `yaml:"comparison"`

	// Field analysis options (closed option sets, validated on load)
	Field struct {
		Centering                 string  `yaml:"centering"`
		EdgeDetection             string  `yaml:"edgeDetection"`
		Interpolation             string  `yaml:"interpolation"`
		InterpolationResolutionMM float64 `yaml:"interpolationResolutionMM"`
		Protocol                  string  `yaml:"protocol"`
	} `yaml:"field"`

	// Output file paths
	Output struct {
		PDFPath string `yaml:"pdfPath"`
		CSVPath string `yaml:"csvPath"`
	} `yaml:"output"`
}

// Default returns the configuration fixed by the standard QA protocol.
func Default() Config {
	var c Config

	d := marker.DefaultParams()
	c.Detection.BBRadiusMM = d.BBRadiusMM
	c.Detection.RadiusTolerance = d.RadiusTolerance
	c.Detection.MinDistFactor = d.MinDistFactor

	c.LightField.StandoffMM = lightfield.StandoffMM
	c.Comparison.ToleranceMM = 2.0

	f := radfield.DefaultConfig()
	c.Field.Centering = string(f.Centering)
	c.Field.EdgeDetection = string(f.EdgeDetection)
	c.Field.Interpolation = string(f.Interpolation)
	c.Field.InterpolationResolutionMM = f.InterpolationResolutionMM
	c.Field.Protocol = string(f.Protocol)

	c.Output.PDFPath = "FieldCoincidenceQA_Report.pdf"
	c.Output.CSVPath = "FieldCoincidenceQA_Results.csv"
	return c
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Validate checks numeric ranges and the field-analysis option sets.
func (c Config) Validate() error {
	if c.Detection.BBRadiusMM <= 0 {
		return fmt.Errorf("detection.bbRadiusMM must be positive, got %g", c.Detection.BBRadiusMM)
	}
	if c.Detection.RadiusTolerance <= 0 || c.Detection.RadiusTolerance >= 1 {
		return fmt.Errorf("detection.radiusTolerance must be in (0, 1), got %g", c.Detection.RadiusTolerance)
	}
	if c.Detection.MinDistFactor <= 0 {
		return fmt.Errorf("detection.minDistFactor must be positive, got %g", c.Detection.MinDistFactor)
	}
	if c.LightField.StandoffMM <= 0 {
		return fmt.Errorf("lightField.standoffMM must be positive, got %g", c.LightField.StandoffMM)
	}
	if c.Comparison.ToleranceMM <= 0 {
		return fmt.Errorf("comparison.toleranceMM must be positive, got %g", c.Comparison.ToleranceMM)
	}
	if c.Output.PDFPath == "" || c.Output.CSVPath == "" {
		return fmt.Errorf("output paths must not be empty")
	}
	return c.FieldConfig().Validate()
}

// FieldConfig converts the field section into the analyzer's option struct.
func (c Config) FieldConfig() radfield.Config {
	return radfield.Config{
		Centering:                 radfield.Centering(c.Field.Centering),
		EdgeDetection:             radfield.EdgeDetection(c.Field.EdgeDetection),
		Interpolation:             radfield.Interpolation(c.Field.Interpolation),
		InterpolationResolutionMM: c.Field.InterpolationResolutionMM,
		Protocol:                  radfield.Protocol(c.Field.Protocol),
	}
}

// DetectionParams converts the detection section into marker parameters.
// The pixel-level fields still require WithGeometry per image.
func (c Config) DetectionParams() marker.DetectionParams {
	p := marker.DefaultParams()
	p.BBRadiusMM = c.Detection.BBRadiusMM
	p.RadiusTolerance = c.Detection.RadiusTolerance
	p.MinDistFactor = c.Detection.MinDistFactor
	return p
}
