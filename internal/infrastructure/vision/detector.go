//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"

	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
)

// GoCVDetector та же модель YOLOv8 через DNN-модуль OpenCV.
type GoCVDetector struct {
	mu         sync.Mutex
	net        gocv.Net
	size       int
	classNames []string
}

// NewGoCVDetector загружает ONNX-модель в OpenCV.
func NewGoCVDetector(modelPath string, size int, classNames []string) (*GoCVDetector, error) {
	if len(classNames) == 0 {
		classNames = DefaultClassNames()
	}
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model %q", modelPath)
	}
	return &GoCVDetector{net: net, size: size, classNames: classNames}, nil
}

// Detect запускает анализ изображения и возвращает найденные дефекты.
func (d *GoCVDetector) Detect(ctx context.Context, img image.Image, opts entity.DetectOptions) (*entity.InspectionResult, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}

	// Поля добавляем сами, чтобы координаты совпадали с ONNX-бэкендом.
	canvas, fr := letterbox(img, d.size)
	mat, err := gocv.ImageToMatRGB(canvas)
	if err != nil {
		return nil, fmt.Errorf("image to mat: %w", err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(d.size, d.size), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	defer out.Close()

	dims := out.Size()
	if len(dims) != 3 || dims[1] != 4+len(d.classNames) {
		return nil, fmt.Errorf("unexpected model output shape %v", dims)
	}
	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read model output: %w", err)
	}

	raw := decodeOutput(data, d.classNames, dims[2], fr, opts.ConfidenceThreshold)
	detections := nonMaxSuppression(raw, opts.IoUThreshold)

	return &entity.InspectionResult{
		ImageWidth:  fr.width,
		ImageHeight: fr.height,
		Detections:  detections,
		HasDefects:  len(detections) > 0,
	}, nil
}

// HighlightDefects рисует прямоугольники вокруг дефектов и возвращает новую картинку.
func (d *GoCVDetector) HighlightDefects(img image.Image, result *entity.InspectionResult) ([]byte, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("empty image")
	}

	for _, defect := range result.Detections {
		c := classColor(defect)
		col := color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
		rect := defect.Box.Rect()
		gocv.Rectangle(&mat, rect, col, boxThickness)
		gocv.PutText(&mat, caption(defect), image.Pt(rect.Min.X, maxInt(rect.Min.Y-4, 12)), gocv.FontHersheySimplex, 0.5, col, 1)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// Close освобождает сеть OpenCV.
func (d *GoCVDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

// Проверка реализации интерфейса
var _ port.DefectDetector = (*GoCVDetector)(nil)
