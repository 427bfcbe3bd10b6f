package lightfield

import (
	"errors"
	"math"
	"testing"

	"field-qa/internal/marker"
	"field-qa/internal/rtimage"
	"field-qa/pkg/geometry"
)

const eps = 1e-9

func squarePixels(spacing float64) rtimage.PixelGeometry {
	return rtimage.PixelGeometry{RowSpacingMM: spacing, ColSpacingMM: spacing}
}

func TestReconstructPerfectSquare(t *testing.T) {
	// Four markers on a square, pixel spacing 0.336 mm, SID 1500 / SAD 1000.
	markers := []marker.Marker{
		{X: 100, Y: 100, Radius: 33},
		{X: 300, Y: 100, Radius: 33},
		{X: 100, Y: 300, Radius: 33},
		{X: 300, Y: 300, Radius: 33},
	}
	spacing := 0.336
	scale := 1.5

	f, err := Reconstruct(markers, squarePixels(spacing), scale, StandoffMM)
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}

	shift := StandoffMM * scale // 22.5 mm in image-plane terms

	wantTopY := 100*spacing - shift
	wantBottomY := 300*spacing + shift
	wantLeftX := 100*spacing - shift
	wantRightX := 300*spacing + shift

	if math.Abs(f.Top.Y-wantTopY) > eps {
		t.Errorf("Top.Y: got %g, want %g", f.Top.Y, wantTopY)
	}
	if math.Abs(f.Bottom.Y-wantBottomY) > eps {
		t.Errorf("Bottom.Y: got %g, want %g", f.Bottom.Y, wantBottomY)
	}
	if math.Abs(f.Left.X-wantLeftX) > eps {
		t.Errorf("Left.X: got %g, want %g", f.Left.X, wantLeftX)
	}
	if math.Abs(f.Right.X-wantRightX) > eps {
		t.Errorf("Right.X: got %g, want %g", f.Right.X, wantRightX)
	}

	// Opposing shifts cancel: the center is the marker centroid.
	wantCenter := 200 * spacing
	if math.Abs(f.Center.X-wantCenter) > eps || math.Abs(f.Center.Y-wantCenter) > eps {
		t.Errorf("Center: got %+v, want (%g, %g)", f.Center, wantCenter, wantCenter)
	}

	// Center-to-edge distance = half the marker square plus one standoff.
	wantHalf := 100*spacing + shift
	if got := f.Center.Y - f.Top.Y; math.Abs(got-wantHalf) > eps {
		t.Errorf("center-to-top distance: got %g, want %g", got, wantHalf)
	}
}

func TestReconstructVerticalReflection(t *testing.T) {
	markers := []marker.Marker{
		{X: 100, Y: 100}, {X: 300, Y: 100},
		{X: 100, Y: 300}, {X: 300, Y: 300},
	}
	const height = 600 // px
	spacing := 0.5
	scale := 1.2

	mirrored := make([]marker.Marker, len(markers))
	for i, m := range markers {
		mirrored[i] = marker.Marker{X: m.X, Y: height - m.Y, Radius: m.Radius}
	}

	f, err := Reconstruct(markers, squarePixels(spacing), scale, StandoffMM)
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}
	g, err := Reconstruct(mirrored, squarePixels(spacing), scale, StandoffMM)
	if err != nil {
		t.Fatalf("Reconstruct mirrored failed: %v", err)
	}

	axis := height * spacing
	if math.Abs(g.Top.Y-(axis-f.Bottom.Y)) > eps {
		t.Errorf("mirrored Top.Y: got %g, want %g", g.Top.Y, axis-f.Bottom.Y)
	}
	if math.Abs(g.Bottom.Y-(axis-f.Top.Y)) > eps {
		t.Errorf("mirrored Bottom.Y: got %g, want %g", g.Bottom.Y, axis-f.Top.Y)
	}
	if math.Abs(g.Left.X-f.Left.X) > eps || math.Abs(g.Right.X-f.Right.X) > eps {
		t.Errorf("horizontal edges moved under vertical reflection")
	}
	if math.Abs(g.Center.Y-(axis-f.Center.Y)) > eps {
		t.Errorf("mirrored Center.Y: got %g, want %g", g.Center.Y, axis-f.Center.Y)
	}
}

func TestReconstructSharedCornerMarkers(t *testing.T) {
	// The top-left marker is simultaneously the topmost and leftmost; the
	// extremal selection keeps it in both groups without deduplication.
	markers := []marker.Marker{
		{X: 100, Y: 100},
		{X: 200, Y: 150},
		{X: 250, Y: 160},
		{X: 300, Y: 300},
	}
	spacing := 1.0
	scale := 1.0

	f, err := Reconstruct(markers, squarePixels(spacing), scale, StandoffMM)
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}

	// Top group: (100,100) and (200,150). Left group: the same two markers.
	wantTopY := (100.0+150.0)/2 - StandoffMM
	wantLeftX := (100.0+200.0)/2 - StandoffMM
	if math.Abs(f.Top.Y-wantTopY) > eps {
		t.Errorf("Top.Y: got %g, want %g", f.Top.Y, wantTopY)
	}
	if math.Abs(f.Left.X-wantLeftX) > eps {
		t.Errorf("Left.X: got %g, want %g", f.Left.X, wantLeftX)
	}
}

func TestReconstructInsufficientMarkers(t *testing.T) {
	markers := []marker.Marker{
		{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 100, Y: 300},
	}
	_, err := Reconstruct(markers, squarePixels(0.336), 1.5, StandoffMM)
	if err == nil {
		t.Fatal("expected error for 3 markers, got nil")
	}
	if !errors.Is(err, marker.ErrInsufficientMarkers) {
		t.Errorf("error = %v, want ErrInsufficientMarkers", err)
	}
}

func TestBoxSpansEdges(t *testing.T) {
	f := Field{
		Top:    pt(50, 10),
		Bottom: pt(50, 90),
		Left:   pt(10, 50),
		Right:  pt(90, 50),
	}
	b := f.Box()
	if b.X != 10 || b.Y != 10 || b.Width != 80 || b.Height != 80 {
		t.Errorf("Box = %+v, want x=10 y=10 w=80 h=80", b)
	}
	if c := b.Center(); c.X != 50 || c.Y != 50 {
		t.Errorf("Box center = %+v, want (50, 50)", c)
	}
}

func TestCornersOrdering(t *testing.T) {
	f := Field{
		Top:    pt(50, 10),
		Bottom: pt(50, 90),
		Left:   pt(10, 50),
		Right:  pt(90, 50),
	}
	c := f.Corners()
	want := [4][2]float64{{10, 10}, {90, 10}, {90, 90}, {10, 90}}
	for i, w := range want {
		if c[i].X != w[0] || c[i].Y != w[1] {
			t.Errorf("corner %d: got %+v, want %v", i, c[i], w)
		}
	}
}

func TestRectangularFieldRespectsRowColumnSpacing(t *testing.T) {
	// Non-square pixels: X uses column spacing, Y uses row spacing.
	markers := []marker.Marker{
		{X: 100, Y: 100}, {X: 300, Y: 100},
		{X: 100, Y: 300}, {X: 300, Y: 300},
	}
	px := rtimage.PixelGeometry{RowSpacingMM: 0.5, ColSpacingMM: 0.25}

	f, err := Reconstruct(markers, px, 1.0, StandoffMM)
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}
	if math.Abs(f.Top.X-200*0.25) > eps {
		t.Errorf("Top.X: got %g, want %g", f.Top.X, 200*0.25)
	}
	if math.Abs(f.Top.Y-(100*0.5-StandoffMM)) > eps {
		t.Errorf("Top.Y: got %g, want %g", f.Top.Y, 100*0.5-StandoffMM)
	}
}

func pt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}
