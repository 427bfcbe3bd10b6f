package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"field-qa/internal/compare"
	"field-qa/pkg/colorutil"
)

// PageMeta labels one report page. Values come from DICOM metadata and the
// filename; none of them influence the geometry.
type PageMeta struct {
	Filename     string
	MachineName  string
	Description  string
	GantryDeg    float64
	CouchDeg     float64
	RowSpacingMM float64
	ColSpacingMM float64
}

// Page is everything needed to render one report page.
type Page struct {
	Meta    PageMeta
	PNG     []byte // annotated acquisition image
	Outcome compare.Outcome
}

// PDFBuilder accumulates report pages. It is not safe for concurrent use;
// the batch loop is the single writer.
type PDFBuilder struct {
	pdf   *fpdf.Fpdf
	pages int
}

// NewPDFBuilder creates an empty A4 portrait report.
func NewPDFBuilder() *PDFBuilder {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 10)
	return &PDFBuilder{pdf: pdf}
}

// PageCount returns the number of pages added so far.
func (b *PDFBuilder) PageCount() int {
	return b.pages
}

// AddPage appends one QA page: a three-line header, the annotated image,
// and the comparison table with verdict-colored cells.
func (b *PDFBuilder) AddPage(p Page) error {
	b.pages++
	pdf := b.pdf
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, fmt.Sprintf("Field Coincidence QA: %s", p.Meta.Filename), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("Machine: %s | Energy: %s", p.Meta.MachineName, p.Meta.Description), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Gantry: %.1f deg | Couch: %.1f deg | Pixel Spacing: %.3f mm (X), %.3f mm (Y)",
		p.Meta.GantryDeg, p.Meta.CouchDeg, p.Meta.ColSpacingMM, p.Meta.RowSpacingMM), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	imgName := fmt.Sprintf("overlay-%03d", b.pages)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(p.PNG))
	// Width-constrained placement; height follows the image aspect ratio.
	pdf.ImageOptions(imgName, 30, pdf.GetY(), 150, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.Ln(6)

	b.writeTable(p.Outcome)

	if pdf.Err() {
		return fmt.Errorf("render page %d: %w", b.pages, pdf.Error())
	}
	return nil
}

func (b *PDFBuilder) writeTable(out compare.Outcome) {
	pdf := b.pdf

	widths := []float64{30, 42, 42, 28, 28}
	headers := []string{"Edge", "LF to LF-Center (mm)", "RF to CAX (mm)", "Delta (mm)", "Result"}

	tableX := (210 - sum(widths)) / 2
	pdf.SetX(tableX)
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range out.Edges {
		pdf.SetX(tableX)
		pdf.CellFormat(widths[0], 7, row.Label, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%.2f", row.LightFieldMM), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%.2f", row.RadiationMM), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%.2f", row.DeltaMM), "1", 0, "C", false, 0, "")
		b.verdictCell(widths[4], row.Verdict)
		pdf.Ln(-1)
	}

	// Center row: a single absolute distance, no radiation column or delta.
	pdf.SetX(tableX)
	pdf.CellFormat(widths[0], 7, "Center Dist", "1", 0, "C", false, 0, "")
	pdf.CellFormat(widths[1], 7, fmt.Sprintf("%.2f", out.Center.DistanceMM), "1", 0, "C", false, 0, "")
	pdf.CellFormat(widths[2], 7, "-", "1", 0, "C", false, 0, "")
	pdf.CellFormat(widths[3], 7, "-", "1", 0, "C", false, 0, "")
	b.verdictCell(widths[4], out.Center.Verdict)
	pdf.Ln(-1)

	pdf.Ln(3)
	pdf.SetX(tableX)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Overall: %s (max delta %.2f mm)", out.Verdict, out.MaxDeltaMM), "", 1, "L", false, 0, "")
}

func (b *PDFBuilder) verdictCell(width float64, v compare.Verdict) {
	fill := colorutil.PassFill
	if v != compare.Pass {
		fill = colorutil.FailFill
	}
	b.pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
	b.pdf.CellFormat(width, 7, string(v), "1", 0, "C", true, 0, "")
}

// WriteFile finalizes the document and writes it to path.
func (b *PDFBuilder) WriteFile(path string) error {
	if err := b.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func sum(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}
