// Command bbtest runs BB marker detection on a plain image file and prints
// the detections. Useful for tuning detection parameters against exported
// PNG/TIFF/JPEG snapshots without a full DICOM acquisition.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"gocv.io/x/gocv"

	_ "golang.org/x/image/tiff"

	"field-qa/internal/enhance"
	"field-qa/internal/marker"
)

func main() {
	imagePath := flag.String("image", "", "Path to image (PNG, TIFF, or JPEG)")
	spacing := flag.Float64("spacing", 0.336, "Pixel spacing in mm")
	sid := flag.Float64("sid", 1500, "Source-to-image distance in mm")
	sad := flag.Float64("sad", 1000, "Source-to-axis distance in mm")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: bbtest -image <path> [-spacing 0.336] [-sid 1500] [-sad 1000]")
		os.Exit(1)
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}

	bounds := img.Bounds()
	fmt.Printf("Loaded %s image: %dx%d pixels\n", format, bounds.Dx(), bounds.Dy())

	mat, err := imageToGrayMat(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to convert image: %v\n", err)
		os.Exit(1)
	}
	defer mat.Close()

	params, err := marker.DefaultParams().WithGeometry(*spacing, *sid, *sad)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid geometry: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nDetection parameters:\n")
	fmt.Printf("  Expected BB radius: %.1f px (band %d-%d px)\n",
		params.ExpectedRadiusPixels, params.MinRadiusPixels, params.MaxRadiusPixels)
	fmt.Printf("  Min separation: %d px\n", params.MinDistPixels)
	fmt.Printf("  Hough: dp=%.1f param1=%.0f param2=%.0f\n",
		params.HoughDP, params.HoughParam1, params.HoughParam2)

	enhanced, err := enhance.Enhance(mat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Enhancement failed: %v\n", err)
		os.Exit(1)
	}
	defer enhanced.Close()

	markers, err := marker.Detect(enhanced, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Detection failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nDetected %d markers:\n", len(markers))
	fmt.Printf("%-8s %8s %8s %8s\n", "ID", "X", "Y", "Radius")
	for i, m := range markers {
		fmt.Printf("bb-%03d  %8d %8d %8d\n", i+1, m.X, m.Y, m.Radius)
	}
	if len(markers) < marker.Quorum {
		fmt.Printf("\nInsufficient markers: need %d for light-field reconstruction\n", marker.Quorum)
	}
}

// imageToGrayMat converts a decoded Go image to a single-channel 8-bit Mat.
func imageToGrayMat(srcImg image.Image) (gocv.Mat, error) {
	bounds := srcImg.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := srcImg.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Rec. 601 luma from 16-bit channel values
			gray := (299*r + 587*g + 114*b) / 1000
			mat.SetUCharAt(y, x, uint8(gray>>8))
		}
	}
	return mat, nil
}
