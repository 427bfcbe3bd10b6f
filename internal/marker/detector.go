package marker

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Detect runs a Hough circle transform over the enhanced image and returns
// the detected markers, quantized to non-negative integer pixel coordinates.
// The result may hold fewer than Quorum markers, or none; the caller decides
// whether that is acceptable.
func Detect(enhanced gocv.Mat, params DetectionParams) ([]Marker, error) {
	if enhanced.Empty() {
		return nil, fmt.Errorf("empty image")
	}
	if params.MinRadiusPixels <= 0 || params.MaxRadiusPixels <= 0 {
		return nil, fmt.Errorf("invalid radius parameters: min=%d max=%d (call WithGeometry first)",
			params.MinRadiusPixels, params.MaxRadiusPixels)
	}

	circles := gocv.NewMat()
	defer circles.Close()

	gocv.HoughCirclesWithParams(enhanced, &circles, gocv.HoughGradient,
		params.HoughDP, float64(params.MinDistPixels),
		params.HoughParam1, params.HoughParam2,
		params.MinRadiusPixels, params.MaxRadiusPixels)

	if circles.Empty() || circles.Cols() == 0 {
		return nil, nil
	}

	markers := make([]Marker, 0, circles.Cols())
	for i := 0; i < circles.Cols(); i++ {
		markers = append(markers, Marker{
			X:      quantize(circles.GetFloatAt(0, i*3)),
			Y:      quantize(circles.GetFloatAt(0, i*3+1)),
			Radius: quantize(circles.GetFloatAt(0, i*3+2)),
		})
	}
	return markers, nil
}
