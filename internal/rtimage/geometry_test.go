package rtimage

import (
	"math"
	"testing"

	"field-qa/pkg/geometry"
)

func TestPixelGeometryValidate(t *testing.T) {
	tests := []struct {
		name     string
		row, col float64
		wantErr  bool
	}{
		{"square", 0.336, 0.336, false},
		{"rectangular", 0.5, 0.25, false},
		{"zero row", 0, 0.336, true},
		{"negative col", 0.336, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PixelGeometry{RowSpacingMM: tt.row, ColSpacingMM: tt.col}
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPxToMMRoundTrip(t *testing.T) {
	p := PixelGeometry{RowSpacingMM: 0.5, ColSpacingMM: 0.25}
	pt := geometry.Point2D{X: 123, Y: 456}

	mm := p.PxToMM(pt)
	if mm.X != 123*0.25 || mm.Y != 456*0.5 {
		t.Errorf("PxToMM: got %+v", mm)
	}

	back := p.MMToPx(mm)
	if math.Abs(back.X-pt.X) > 1e-9 || math.Abs(back.Y-pt.Y) > 1e-9 {
		t.Errorf("round trip: got %+v, want %+v", back, pt)
	}
}

func TestAcquisitionGeometry(t *testing.T) {
	a := AcquisitionGeometry{SIDMM: 1500, SADMM: 1000}
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if got := a.Scale(); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("Scale: got %g, want 1.5", got)
	}

	bad := []AcquisitionGeometry{
		{SIDMM: 0, SADMM: 1000},
		{SIDMM: 1500, SADMM: 0},
		{SIDMM: -1, SADMM: 1000},
		{SIDMM: math.Inf(1), SADMM: 1000},
	}
	for _, a := range bad {
		if err := a.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", a)
		}
	}
}
