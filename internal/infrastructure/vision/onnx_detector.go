package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
)

// ONNXConfig параметры загрузки модели
type ONNXConfig struct {
	ModelPath   string
	LibraryPath string // путь к libonnxruntime, если пусто, ищется по умолчанию
	ImageSize   int
	ClassNames  []string
}

// ONNXDetector YOLOv8, экспортированная в ONNX.
// Тензоры переиспользуются, поэтому запуски идут строго по одному.
type ONNXDetector struct {
	mu         sync.Mutex
	session    *ort.AdvancedSession
	input      *ort.Tensor[float32]
	output     *ort.Tensor[float32]
	size       int
	anchors    int
	classNames []string
}

// NewONNXDetector поднимает окружение onnxruntime и создаёт сессию.
func NewONNXDetector(cfg ONNXConfig) (*ONNXDetector, error) {
	if len(cfg.ClassNames) == 0 {
		cfg.ClassNames = DefaultClassNames()
	}
	if cfg.ImageSize <= 0 || cfg.ImageSize%32 != 0 {
		return nil, fmt.Errorf("image size %d must be a positive multiple of 32", cfg.ImageSize)
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("model file %q: %w", cfg.ModelPath, err)
	}

	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", err)
	}

	d := &ONNXDetector{
		size:       cfg.ImageSize,
		anchors:    anchorCount(cfg.ImageSize),
		classNames: cfg.ClassNames,
	}
	if err := d.initSession(cfg.ModelPath); err != nil {
		ort.DestroyEnvironment()
		return nil, err
	}
	return d, nil
}

func (d *ONNXDetector) initSession(modelPath string) error {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return fmt.Errorf("error creating session options: %w", err)
	}
	defer options.Destroy()

	options.SetIntraOpNumThreads(runtime.NumCPU())

	inputShape := ort.NewShape(1, 3, int64(d.size), int64(d.size))
	outputShape := ort.NewShape(1, int64(4+len(d.classNames)), int64(d.anchors))

	d.input, err = ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return fmt.Errorf("error creating input tensor: %w", err)
	}
	d.output, err = ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		d.input.Destroy()
		return fmt.Errorf("error creating output tensor: %w", err)
	}

	d.session, err = ort.NewAdvancedSession(
		modelPath,
		[]string{"images"},
		[]string{"output0"},
		[]ort.ArbitraryTensor{d.input},
		[]ort.ArbitraryTensor{d.output},
		options,
	)
	if err != nil {
		d.input.Destroy()
		d.output.Destroy()
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// Detect запускает модель и возвращает дефекты по убыванию уверенности.
func (d *ONNXDetector) Detect(ctx context.Context, img image.Image, opts entity.DetectOptions) (*entity.InspectionResult, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}
	if opts.ImageSize != 0 && opts.ImageSize != d.size {
		return nil, fmt.Errorf("model input is %dpx, requested %dpx", d.size, opts.ImageSize)
	}

	canvas, fr := letterbox(img, d.size)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fillTensor(d.input.GetData(), canvas, d.size)
	if err := d.session.Run(); err != nil {
		return nil, fmt.Errorf("model inference: %w", err)
	}

	raw := decodeOutput(d.output.GetData(), d.classNames, d.anchors, fr, opts.ConfidenceThreshold)
	detections := nonMaxSuppression(raw, opts.IoUThreshold)

	return &entity.InspectionResult{
		ImageWidth:  fr.width,
		ImageHeight: fr.height,
		Detections:  detections,
		HasDefects:  len(detections) > 0,
	}, nil
}

// HighlightDefects рисует рамки вокруг дефектов и возвращает JPEG.
func (d *ONNXDetector) HighlightDefects(img image.Image, result *entity.InspectionResult) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}
	return encodeJPEG(annotate(img, result))
}

// Close освобождает сессию и окружение onnxruntime.
func (d *ONNXDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session != nil {
		d.session.Destroy()
		d.session = nil
	}
	if d.input != nil {
		d.input.Destroy()
		d.input = nil
	}
	if d.output != nil {
		d.output.Destroy()
		d.output = nil
	}
	return ort.DestroyEnvironment()
}

// DefaultClassNames порядок классов, в котором обучалась модель
func DefaultClassNames() []string {
	classes := entity.AllDefectClasses()
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.Key()
	}
	return names
}

// Проверка реализации интерфейса
var _ port.DefectDetector = (*ONNXDetector)(nil)
