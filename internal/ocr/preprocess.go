package ocr

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// enhanceForRecognition applies grayscale/contrast/sharpen passes that make
// scanned document text easier for the engine to read. Returns the path of
// the processed copy and a cleanup func that removes it.
func enhanceForRecognition(imagePath, workDir string) (string, func(), error) {
	src, err := imaging.Open(imagePath)
	if err != nil {
		return "", nil, fmt.Errorf("open image: %w", err)
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)
	img = imaging.AdjustBrightness(img, 10)
	img = imaging.AdjustGamma(img, 1.2)

	out := filepath.Join(workDir, "enhanced-"+uuid.NewString()+".png")
	if err := imaging.Save(img, out); err != nil {
		return "", nil, fmt.Errorf("save enhanced image: %w", err)
	}
	return out, func() { _ = os.Remove(out) }, nil
}
