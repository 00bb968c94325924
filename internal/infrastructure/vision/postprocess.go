package vision

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/disintegration/imaging"

	"pcb-inspector/internal/domain/entity"
)

// letterboxFill цвет полей, которым обучалась модель
var letterboxFill = color.NRGBA{R: 114, G: 114, B: 114, A: 255}

// frame параметры вписывания исходного изображения во вход модели
type frame struct {
	scale  float64
	padX   float64
	padY   float64
	width  int
	height int
}

// letterbox вписывает изображение в квадрат size×size с сохранением пропорций.
func letterbox(img image.Image, size int) (*image.NRGBA, frame) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	scale := math.Min(float64(size)/float64(w), float64(size)/float64(h))

	nw := maxInt(1, int(math.Round(float64(w)*scale)))
	nh := maxInt(1, int(math.Round(float64(h)*scale)))
	padX := (size - nw) / 2
	padY := (size - nh) / 2

	resized := imaging.Resize(img, nw, nh, imaging.Linear)
	canvas := imaging.New(size, size, letterboxFill)
	canvas = imaging.Paste(canvas, resized, image.Pt(padX, padY))

	return canvas, frame{
		scale:  scale,
		padX:   float64(padX),
		padY:   float64(padY),
		width:  w,
		height: h,
	}
}

// fillTensor раскладывает пиксели в NCHW, значения в [0,1].
func fillTensor(dst []float32, img *image.NRGBA, size int) {
	plane := size * size
	for y := 0; y < size; y++ {
		row := img.Pix[y*img.Stride:]
		offset := y * size
		for x := 0; x < size; x++ {
			p := row[x*4:]
			i := offset + x
			dst[i] = float32(p[0]) / 255.0
			dst[plane+i] = float32(p[1]) / 255.0
			dst[2*plane+i] = float32(p[2]) / 255.0
		}
	}
}

// anchorCount число предсказаний YOLOv8 для входа size (страйды 8, 16, 32).
func anchorCount(size int) int {
	n := 0
	for _, stride := range []int{8, 16, 32} {
		side := size / stride
		n += side * side
	}
	return n
}

// decodeOutput разбирает выход [1, 4+nc, N]: cx, cy, w, h и оценки классов.
func decodeOutput(out []float32, classNames []string, anchors int, fr frame, conf float64) []entity.Detection {
	nc := len(classNames)
	if anchors <= 0 || len(out) < (4+nc)*anchors {
		return nil
	}

	detections := make([]entity.Detection, 0, 32)
	for i := 0; i < anchors; i++ {
		best, bestScore := -1, float32(0)
		for c := 0; c < nc; c++ {
			score := out[(4+c)*anchors+i]
			if score > bestScore {
				best, bestScore = c, score
			}
		}
		if best < 0 || float64(bestScore) < conf {
			continue
		}

		cx := float64(out[i])
		cy := float64(out[anchors+i])
		w := float64(out[2*anchors+i])
		h := float64(out[3*anchors+i])

		box := entity.BoundingBox{
			X1: clamp((cx-w/2-fr.padX)/fr.scale, 0, float64(fr.width)),
			Y1: clamp((cy-h/2-fr.padY)/fr.scale, 0, float64(fr.height)),
			X2: clamp((cx+w/2-fr.padX)/fr.scale, 0, float64(fr.width)),
			Y2: clamp((cy+h/2-fr.padY)/fr.scale, 0, float64(fr.height)),
		}
		if box.Area() <= 0 {
			continue
		}

		detections = append(detections, entity.Detection{
			Label:      classNames[best],
			Confidence: float64(bestScore),
			Box:        box,
		})
	}
	return detections
}

// nonMaxSuppression жадное подавление внутри каждого класса.
// Результат отсортирован по убыванию уверенности.
func nonMaxSuppression(detections []entity.Detection, iou float64) []entity.Detection {
	sorted := make([]entity.Detection, len(detections))
	copy(sorted, detections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	kept := make([]entity.Detection, 0, len(sorted))
	for _, d := range sorted {
		suppressed := false
		for _, k := range kept {
			if k.Label == d.Label && k.Box.IoU(d.Box) > iou {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, d)
		}
	}
	return kept
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
