// Package enhance prepares raw acquisition images for BB detection.
package enhance

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

const (
	claheClipLimit = 2.0
	claheTileGrid  = 8
	blurKernel     = 5
)

// Enhance rescales a single-channel image of any bit depth to the full 8-bit
// range, applies CLAHE to even out exposure variance, and finishes with a
// light Gaussian blur so pixel noise does not seed false circle detections.
// The returned Mat is CV8U with the input's spatial dimensions; the caller
// owns it.
func Enhance(src gocv.Mat) (gocv.Mat, error) {
	if src.Empty() {
		return gocv.NewMat(), fmt.Errorf("empty image")
	}

	norm := gocv.NewMat()
	defer norm.Close()
	gocv.Normalize(src, &norm, 0, 255, gocv.NormMinMax)

	norm8 := gocv.NewMat()
	defer norm8.Close()
	norm.ConvertTo(&norm8, gocv.MatTypeCV8U)

	clahe := gocv.NewCLAHEWithParams(claheClipLimit, image.Pt(claheTileGrid, claheTileGrid))
	defer clahe.Close()

	equalized := gocv.NewMat()
	defer equalized.Close()
	clahe.Apply(norm8, &equalized)

	out := gocv.NewMat()
	gocv.GaussianBlur(equalized, &out, image.Pt(blurKernel, blurKernel), 0, 0, gocv.BorderDefault)
	return out, nil
}
