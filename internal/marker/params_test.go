package marker

import (
	"math"
	"testing"
)

func TestWithGeometryDerivation(t *testing.T) {
	p, err := DefaultParams().WithGeometry(0.336, 1500, 1000)
	if err != nil {
		t.Fatalf("WithGeometry failed: %v", err)
	}

	// 7.5 mm * 1.5 magnification / 0.336 mm per px
	wantRadius := 7.5 * 1.5 / 0.336
	if math.Abs(p.ExpectedRadiusPixels-wantRadius) > 1e-9 {
		t.Errorf("ExpectedRadiusPixels: got %g, want %g", p.ExpectedRadiusPixels, wantRadius)
	}
	if p.MinRadiusPixels != int(wantRadius*0.85) {
		t.Errorf("MinRadiusPixels: got %d, want %d", p.MinRadiusPixels, int(wantRadius*0.85))
	}
	if p.MaxRadiusPixels != int(wantRadius*1.15) {
		t.Errorf("MaxRadiusPixels: got %d, want %d", p.MaxRadiusPixels, int(wantRadius*1.15))
	}
	if p.MinDistPixels != int(wantRadius*1.8) {
		t.Errorf("MinDistPixels: got %d, want %d", p.MinDistPixels, int(wantRadius*1.8))
	}
}

func TestWithGeometryScaleInvariance(t *testing.T) {
	// Same SID/SAD ratio must derive identical pixel bounds.
	a, err := DefaultParams().WithGeometry(0.336, 1500, 1000)
	if err != nil {
		t.Fatalf("WithGeometry failed: %v", err)
	}
	b, err := DefaultParams().WithGeometry(0.336, 3000, 2000)
	if err != nil {
		t.Fatalf("WithGeometry failed: %v", err)
	}

	if a.MinRadiusPixels != b.MinRadiusPixels ||
		a.MaxRadiusPixels != b.MaxRadiusPixels ||
		a.MinDistPixels != b.MinDistPixels {
		t.Errorf("pixel bounds differ for equal SID/SAD ratios: %+v vs %+v", a, b)
	}
}

func TestWithGeometryRejectsDegenerateInputs(t *testing.T) {
	tests := []struct {
		name              string
		spacing, sid, sad float64
	}{
		{"zero spacing", 0, 1500, 1000},
		{"negative spacing", -0.3, 1500, 1000},
		{"zero SID", 0.336, 0, 1000},
		{"zero SAD", 0.336, 1500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DefaultParams().WithGeometry(tt.spacing, tt.sid, tt.sad); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestWithGeometryClampsTinyRadii(t *testing.T) {
	// Huge pixels make the expected radius fractions of a pixel.
	p, err := DefaultParams().WithGeometry(50, 1000, 1000)
	if err != nil {
		t.Fatalf("WithGeometry failed: %v", err)
	}
	if p.MinRadiusPixels < 1 || p.MaxRadiusPixels < p.MinRadiusPixels || p.MinDistPixels < 1 {
		t.Errorf("derived bounds not clamped: %+v", p)
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		in   float32
		want int
	}{
		{0, 0},
		{1.4, 1},
		{1.5, 2},
		{-3.2, 0}, // negative coordinates clamp to the image origin
		{511.9, 512},
	}
	for _, tt := range tests {
		if got := quantize(tt.in); got != tt.want {
			t.Errorf("quantize(%g): got %d, want %d", tt.in, got, tt.want)
		}
	}
}
