// Package rtimage reads EPID-acquired RT DICOM images and the acquisition
// geometry needed for field-coincidence analysis.
package rtimage

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
	"gocv.io/x/gocv"
)

// Default geometry applied when the corresponding DICOM tags are absent.
const (
	DefaultSIDMM = 1500.0
	DefaultSADMM = 1000.0
)

// RT-specific tags not exported by name from the tag package.
var (
	tagRTImageDescription     = tag.Tag{Group: 0x3002, Element: 0x0004}
	tagImagePlanePixelSpacing = tag.Tag{Group: 0x3002, Element: 0x0011}
	tagRadiationMachineName   = tag.Tag{Group: 0x3002, Element: 0x0020}
	tagRadiationMachineSAD    = tag.Tag{Group: 0x3002, Element: 0x0022}
	tagRTImageSID             = tag.Tag{Group: 0x3002, Element: 0x0026}
	tagGantryAngle            = tag.Tag{Group: 0x300A, Element: 0x011E}
)

// PixelGeometry describes the detector pixel grid in millimeters.
type PixelGeometry struct {
	RowSpacingMM float64 // vertical (Y) spacing
	ColSpacingMM float64 // horizontal (X) spacing
}

// Validate returns an error unless both spacings are strictly positive.
func (p PixelGeometry) Validate() error {
	if p.RowSpacingMM <= 0 || p.ColSpacingMM <= 0 {
		return fmt.Errorf("pixel spacing must be positive, got row=%g col=%g",
			p.RowSpacingMM, p.ColSpacingMM)
	}
	return nil
}

// AcquisitionGeometry describes the beam/detector arrangement for one image.
type AcquisitionGeometry struct {
	SIDMM     float64 // source-to-image distance
	SADMM     float64 // source-to-axis distance
	GantryDeg float64
	CouchDeg  float64
}

// Scale returns the similarity ratio between the isocenter plane and the
// image plane (SID/SAD).
func (a AcquisitionGeometry) Scale() float64 {
	return a.SIDMM / a.SADMM
}

// Validate returns an error unless SID and SAD are strictly positive and finite.
func (a AcquisitionGeometry) Validate() error {
	if a.SIDMM <= 0 || math.IsNaN(a.SIDMM) || math.IsInf(a.SIDMM, 0) {
		return fmt.Errorf("SID must be positive, got %g", a.SIDMM)
	}
	if a.SADMM <= 0 || math.IsNaN(a.SADMM) || math.IsInf(a.SADMM, 0) {
		return fmt.Errorf("SAD must be positive, got %g", a.SADMM)
	}
	return nil
}

// Image is one parsed RT acquisition. Pixels is a 16-bit single-channel Mat
// owned by the Image; callers must Close it when done.
type Image struct {
	Path   string
	Pixels gocv.Mat
	Rows   int
	Cols   int

	Pixel PixelGeometry
	Acq   AcquisitionGeometry

	// Labels for the report header only; geometry never depends on these.
	MachineName string
	Description string
}

// Close releases the pixel Mat.
func (im *Image) Close() {
	if !im.Pixels.Empty() {
		im.Pixels.Close()
	}
}

// Read parses the DICOM file at path and extracts the pixel grid and
// acquisition geometry. Missing SID/SAD/gantry tags fall back to defaults;
// degenerate spacing or distances are a fatal configuration error.
func Read(path string) (*Image, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	pixels, rows, cols, err := pixelMat(ds)
	if err != nil {
		return nil, fmt.Errorf("pixel data %s: %w", path, err)
	}

	im := &Image{
		Path:   path,
		Pixels: pixels,
		Rows:   rows,
		Cols:   cols,
		Pixel:  pixelGeometry(ds),
		Acq: AcquisitionGeometry{
			SIDMM:     floatValue(ds, tagRTImageSID, DefaultSIDMM),
			SADMM:     floatValue(ds, tagRadiationMachineSAD, DefaultSADMM),
			GantryDeg: floatValue(ds, tagGantryAngle, 0),
			CouchDeg:  CouchAngleFromFilename(path),
		},
		MachineName: stringValue(ds, tagRadiationMachineName),
		Description: stringValue(ds, tagRTImageDescription),
	}

	if err := im.Pixel.Validate(); err != nil {
		im.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := im.Acq.Validate(); err != nil {
		im.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return im, nil
}

// pixelMat decodes the first frame of the pixel data element into a CV16U Mat.
func pixelMat(ds dicom.Dataset) (gocv.Mat, int, int, error) {
	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return gocv.NewMat(), 0, 0, fmt.Errorf("no pixel data element: %w", err)
	}
	info := dicom.MustGetPixelDataInfo(el.Value)
	if len(info.Frames) == 0 {
		return gocv.NewMat(), 0, 0, fmt.Errorf("pixel data has no frames")
	}

	native, err := info.Frames[0].GetNativeFrame()
	if err != nil {
		return gocv.NewMat(), 0, 0, fmt.Errorf("native frame: %w", err)
	}

	rows, cols := native.Rows, native.Cols
	if rows <= 0 || cols <= 0 || len(native.Data) < rows*cols {
		return gocv.NewMat(), 0, 0, fmt.Errorf("malformed frame: %dx%d with %d samples",
			rows, cols, len(native.Data))
	}

	buf := make([]byte, rows*cols*2)
	for i := 0; i < rows*cols; i++ {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(native.Data[i][0]))
	}

	mat, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV16U, buf)
	if err != nil {
		return gocv.NewMat(), 0, 0, fmt.Errorf("build mat: %w", err)
	}
	return mat, rows, cols, nil
}

// pixelGeometry reads PixelSpacing, falling back to ImagePlanePixelSpacing,
// then to 1.0 mm square pixels.
func pixelGeometry(ds dicom.Dataset) PixelGeometry {
	if row, col, ok := floatPair(ds, tag.PixelSpacing); ok {
		return PixelGeometry{RowSpacingMM: row, ColSpacingMM: col}
	}
	if row, col, ok := floatPair(ds, tagImagePlanePixelSpacing); ok {
		return PixelGeometry{RowSpacingMM: row, ColSpacingMM: col}
	}
	return PixelGeometry{RowSpacingMM: 1.0, ColSpacingMM: 1.0}
}

func floatValue(ds dicom.Dataset, t tag.Tag, def float64) float64 {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return def
	}
	if vals := numericValues(el.Value.GetValue()); len(vals) > 0 {
		return vals[0]
	}
	return def
}

func floatPair(ds dicom.Dataset, t tag.Tag) (row, col float64, ok bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return 0, 0, false
	}
	vals := numericValues(el.Value.GetValue())
	if len(vals) < 2 {
		return 0, 0, false
	}
	return vals[0], vals[1], true
}

func stringValue(ds dicom.Dataset, t tag.Tag) string {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return ""
	}
	if ss, ok := el.Value.GetValue().([]string); ok && len(ss) > 0 {
		return strings.TrimSpace(ss[0])
	}
	return ""
}

// numericValues normalizes the decoded representations the dicom library
// produces for numeric tags (DS strings, ints, floats).
func numericValues(v interface{}) []float64 {
	switch vals := v.(type) {
	case []string:
		out := make([]float64, 0, len(vals))
		for _, s := range vals {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				continue
			}
			out = append(out, f)
		}
		return out
	case []float64:
		return vals
	case []int:
		out := make([]float64, len(vals))
		for i, n := range vals {
			out[i] = float64(n)
		}
		return out
	}
	return nil
}
