//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"

	"pcb-inspector/internal/domain/entity"
)

// GoCVDetector заглушка для сборки без OpenCV.
type GoCVDetector struct{}

// NewGoCVDetector возвращает ошибку, если сборка без тега gocv.
func NewGoCVDetector(modelPath string, size int, classNames []string) (*GoCVDetector, error) {
	return nil, ErrBackendDisabled
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) Detect(ctx context.Context, img image.Image, opts entity.DetectOptions) (*entity.InspectionResult, error) {
	return nil, ErrBackendDisabled
}

// HighlightDefects возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) HighlightDefects(img image.Image, result *entity.InspectionResult) ([]byte, error) {
	return nil, ErrBackendDisabled
}

func (d *GoCVDetector) Close() error {
	return nil
}
