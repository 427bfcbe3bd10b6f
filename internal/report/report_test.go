package report

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"

	"field-qa/internal/compare"
	"field-qa/internal/marker"
	"field-qa/pkg/geometry"
)

func sampleOutcome(verdict compare.Verdict) compare.Outcome {
	return compare.Outcome{
		Filename: "RI_g0.dcm",
		Edges: []compare.EdgeRow{
			{Label: "Top", LightFieldMM: 100.1, RadiationMM: 100.0, DeltaMM: 0.1, Verdict: compare.Pass},
			{Label: "Bottom", LightFieldMM: 99.7, RadiationMM: 100.0, DeltaMM: 0.3, Verdict: compare.Pass},
			{Label: "Left", LightFieldMM: 100.4, RadiationMM: 100.0, DeltaMM: 0.4, Verdict: compare.Pass},
			{Label: "Right", LightFieldMM: 99.9, RadiationMM: 100.0, DeltaMM: 0.1, Verdict: compare.Pass},
		},
		Center:     compare.CenterRow{DistanceMM: 0.5, Verdict: compare.Pass},
		MaxDeltaMM: 0.5,
		Verdict:    verdict,
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	outcomes := []compare.Outcome{sampleOutcome(compare.Pass), {
		Filename: "RI_90_couch.dcm", MaxDeltaMM: 2.31, Verdict: compare.Fail,
	}}

	if err := WriteCSV(path, outcomes); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	wantHeader := []string{"Filename", "QA Result", "Max Delta (mm)"}
	for i, h := range wantHeader {
		if records[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}
	if records[1][0] != "RI_g0.dcm" || records[1][1] != "PASS" || records[1][2] != "0.50" {
		t.Errorf("row 1 = %v", records[1])
	}
	if records[2][1] != "FAIL" || records[2][2] != "2.31" {
		t.Errorf("row 2 = %v", records[2])
	}
}

func TestRenderOverlayEncodesAnnotatedImage(t *testing.T) {
	rows, cols := 64, 96
	buf := make([]byte, rows*cols*2)
	for i := 0; i < rows*cols; i++ {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(i%4096))
	}
	pixels, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV16U, buf)
	if err != nil {
		t.Fatalf("build mat: %v", err)
	}
	defer pixels.Close()

	ov := Overlay{
		Markers:          []marker.Marker{{X: 20, Y: 20, Radius: 5}},
		LightFieldBox:    [4]geometry.Point2D{{X: 10, Y: 10}, {X: 80, Y: 10}, {X: 80, Y: 50}, {X: 10, Y: 50}},
		RadiationBox:     [4]geometry.Point2D{{X: 12, Y: 12}, {X: 78, Y: 12}, {X: 78, Y: 48}, {X: 12, Y: 48}},
		LightFieldCenter: geometry.Point2D{X: 45, Y: 30},
		BeamCenter:       geometry.Point2D{X: 46, Y: 31},
		EdgeMarks: []EdgeMark{
			{Pos: geometry.Point2D{X: 45, Y: 10}, Verdict: compare.Pass},
			{Pos: geometry.Point2D{X: 10, Y: 30}, Verdict: compare.Fail},
		},
	}

	data, err := RenderOverlay(pixels, ov)
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode overlay png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != cols || b.Dy() != rows {
		t.Errorf("overlay dims = %dx%d, want %dx%d", b.Dx(), b.Dy(), cols, rows)
	}
}

func TestRenderOverlayEmptyImage(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()
	if _, err := RenderOverlay(empty, Overlay{}); err == nil {
		t.Error("expected error for empty image")
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 64, 48))
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 251)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestPDFBuilderWritesPages(t *testing.T) {
	b := NewPDFBuilder()

	page := Page{
		Meta: PageMeta{
			Filename:     "RI_g0.dcm",
			MachineName:  "TB0001",
			Description:  "6x",
			GantryDeg:    0,
			CouchDeg:     -90,
			RowSpacingMM: 0.336,
			ColSpacingMM: 0.336,
		},
		PNG:     testPNG(t),
		Outcome: sampleOutcome(compare.Pass),
	}

	if err := b.AddPage(page); err != nil {
		t.Fatalf("AddPage failed: %v", err)
	}
	page.Outcome = sampleOutcome(compare.Fail)
	if err := b.AddPage(page); err != nil {
		t.Fatalf("AddPage (second) failed: %v", err)
	}
	if b.PageCount() != 2 {
		t.Errorf("PageCount = %d, want 2", b.PageCount())
	}

	out := filepath.Join(t.TempDir(), "report.pdf")
	if err := b.WriteFile(out); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat report: %v", err)
	}
	if info.Size() == 0 {
		t.Error("report file is empty")
	}
}
