package entity

import (
	"image"
	"math"
	"strings"
)

// DefectClass класс дефекта печатной платы
type DefectClass int

const (
	DefectUnknown DefectClass = iota
	MissingHole
	MouseBite
	OpenCircuit
	Short
	Spur
	SpuriousCopper
)

var defectKeys = [...]string{
	DefectUnknown:  "",
	MissingHole:    "Missing_hole",
	MouseBite:      "Mouse_bite",
	OpenCircuit:    "Open_circuit",
	Short:          "Short",
	Spur:           "Spur",
	SpuriousCopper: "Spurious_copper",
}

// AllDefectClasses возвращает известные классы в каноническом порядке.
// Этот же порядок используется как порядок индексов классов модели.
func AllDefectClasses() []DefectClass {
	return []DefectClass{MissingHole, MouseBite, OpenCircuit, Short, Spur, SpuriousCopper}
}

// Key возвращает канонический ключ класса (например, "Missing_hole")
func (c DefectClass) Key() string {
	if c < 0 || int(c) >= len(defectKeys) {
		return ""
	}
	return defectKeys[c]
}

// DisplayName возвращает имя для показа пользователю
func (c DefectClass) DisplayName() string {
	if c == DefectUnknown {
		return "Unknown"
	}
	return DisplayName(c.Key())
}

func (c DefectClass) String() string {
	if c == DefectUnknown {
		return "unknown"
	}
	return c.Key()
}

// Normalize приводит произвольную метку к известному классу.
// Сначала точное совпадение, затем сравнение в нижнем регистре.
func Normalize(label string) DefectClass {
	for _, c := range AllDefectClasses() {
		if c.Key() == label {
			return c
		}
	}
	lower := strings.ToLower(label)
	for _, c := range AllDefectClasses() {
		if strings.ToLower(c.Key()) == lower {
			return c
		}
	}
	return DefectUnknown
}

// DisplayName заменяет подчёркивания пробелами: "Mouse_bite" -> "Mouse bite"
func DisplayName(label string) string {
	return strings.ReplaceAll(label, "_", " ")
}

// BoundingBox рамка дефекта в пикселях исходного изображения
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (b BoundingBox) Width() float64 {
	if b.X2 < b.X1 {
		return 0
	}
	return b.X2 - b.X1
}

func (b BoundingBox) Height() float64 {
	if b.Y2 < b.Y1 {
		return 0
	}
	return b.Y2 - b.Y1
}

func (b BoundingBox) Area() float64 {
	return b.Width() * b.Height()
}

// Rect округляет рамку до целых пикселей
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(
		int(math.Floor(b.X1)), int(math.Floor(b.Y1)),
		int(math.Ceil(b.X2)), int(math.Ceil(b.Y2)),
	)
}

// IoU отношение площади пересечения к площади объединения
func (b BoundingBox) IoU(o BoundingBox) float64 {
	inter := BoundingBox{
		X1: maxFloat(b.X1, o.X1),
		Y1: maxFloat(b.Y1, o.Y1),
		X2: minFloat(b.X2, o.X2),
		Y2: minFloat(b.Y2, o.Y2),
	}.Area()
	union := b.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Detection один найденный моделью дефект
type Detection struct {
	Label      string      `json:"label"`
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"box"`
}

// Class возвращает нормализованный класс метки
func (d Detection) Class() DefectClass {
	return Normalize(d.Label)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
