package imageprocessor

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gocv.io/x/gocv"
)

// Candidate image extensions. Everything else is ignored silently.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsCandidateImage reports whether the filename extension marks the file as a
// candidate for pairing.
func IsCandidateImage(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// LoadImage loads an image in grayscale. A missing, truncated or otherwise
// undecodable file is reported as an error, never a panic.
func LoadImage(path string) (gocv.Mat, error) {
	if _, err := os.Stat(path); err != nil {
		return gocv.NewMat(), fmt.Errorf("cannot stat image %s: %w", path, err)
	}

	img := gocv.IMRead(path, gocv.IMReadGrayScale)
	if img.Empty() {
		img.Close()
		return gocv.NewMat(), fmt.Errorf("failed to decode image: %s", path)
	}
	return img, nil
}

// ComputePerceptualHash computes a DCT-based perceptual hash (pHash) as a
// 64-character bit string. The image is scaled to 32x32 grayscale, transformed
// with a discrete cosine transform, and the top-left 8x8 block of coefficients
// (the lowest frequencies) is thresholded against its median.
func ComputePerceptualHash(img gocv.Mat) (string, error) {
	if img.Empty() {
		return "", fmt.Errorf("cannot hash an empty image")
	}

	// Resize to 32x32
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(img, &resized, image.Point{X: 32, Y: 32}, 0, 0, gocv.InterpolationArea)

	// Convert to grayscale if not already
	gray := gocv.NewMat()
	defer gray.Close()
	if resized.Channels() > 1 {
		gocv.CvtColor(resized, &gray, gocv.ColorBGRToGray)
	} else {
		resized.CopyTo(&gray)
	}

	// DCT needs a floating point matrix
	floats := gocv.NewMat()
	defer floats.Close()
	gray.ConvertTo(&floats, gocv.MatTypeCV32F)

	dct := gocv.NewMat()
	defer dct.Close()
	gocv.DCT(floats, &dct, gocv.DftForward)

	// Keep the 8x8 low-frequency block and threshold against its median
	coeffs := make([]float32, 0, 64)
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			coeffs = append(coeffs, dct.GetFloatAt(i, j))
		}
	}

	sorted := make([]float32, len(coeffs))
	copy(sorted, coeffs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	median := sorted[len(sorted)/2]

	var hash strings.Builder
	for _, c := range coeffs {
		if c > median {
			hash.WriteString("1")
		} else {
			hash.WriteString("0")
		}
	}
	return hash.String(), nil
}

// CalculateHammingDistance counts differing bits between two hash strings.
func CalculateHammingDistance(hash1, hash2 string) int {
	var distance int
	minLen := len(hash1)
	if len(hash2) < minLen {
		minLen = len(hash2)
	}

	for i := 0; i < minLen; i++ {
		if hash1[i] != hash2[i] {
			distance++
		}
	}
	return distance
}
