package port

import (
	"context"
	"image"

	"pcb-inspector/internal/domain/entity"
)

// DefectDetector интерфейс детектора дефектов
type DefectDetector interface {
	// Detect прогоняет модель по изображению и возвращает найденные дефекты
	Detect(ctx context.Context, img image.Image, opts entity.DetectOptions) (*entity.InspectionResult, error)

	// HighlightDefects создаёт JPEG с рамками вокруг дефектов
	HighlightDefects(img image.Image, result *entity.InspectionResult) ([]byte, error)
}

// ImageDecoder интерфейс декодера загруженных файлов
type ImageDecoder interface {
	// Decode превращает байты файла в RGB-изображение
	Decode(data []byte) (image.Image, error)
}
