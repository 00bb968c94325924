package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // регистрация формата bmp
	_ "golang.org/x/image/tiff" // регистрация формата tiff

	"pcb-inspector/internal/domain/port"
)

// Форматы, которые принимает загрузчик
var allowedFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"bmp":  true,
	"tiff": true,
}

// Предел площади изображения. Размер читается из заголовка до декодирования:
// маленький сжатый файл может объявить гигантский растр.
const maxPixels = 50_000_000

// Decoder декодирует загруженные файлы в RGB
type Decoder struct{}

// Decode проверяет формат, поворачивает по EXIF и отбрасывает альфа-канал.
func (Decoder) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if !allowedFormats[format] {
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	rgb := imaging.Clone(img)
	for i := 3; i < len(rgb.Pix); i += 4 {
		rgb.Pix[i] = 0xff
	}
	return rgb, nil
}

// Проверка реализации интерфейса
var _ port.ImageDecoder = Decoder{}
