package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"pcb-inspector/internal/domain/entity"
)

const boxThickness = 2

// Цвет рамки для каждого класса, неизвестные рисуются серым
var palette = map[entity.DefectClass]color.NRGBA{
	entity.MissingHole:    {R: 255, G: 56, B: 56, A: 255},
	entity.MouseBite:      {R: 255, G: 157, B: 151, A: 255},
	entity.OpenCircuit:    {R: 255, G: 112, B: 31, A: 255},
	entity.Short:          {R: 255, G: 178, B: 29, A: 255},
	entity.Spur:           {R: 207, G: 210, B: 49, A: 255},
	entity.SpuriousCopper: {R: 72, G: 249, B: 10, A: 255},
}

func classColor(d entity.Detection) color.NRGBA {
	if c, ok := palette[d.Class()]; ok {
		return c
	}
	return color.NRGBA{R: 160, G: 160, B: 160, A: 255}
}

// caption подпись над рамкой: "Short 0.91"
func caption(d entity.Detection) string {
	return fmt.Sprintf("%s %.2f", d.Label, d.Confidence)
}

// annotate рисует рамки и подписи поверх копии изображения.
func annotate(img image.Image, result *entity.InspectionResult) *image.NRGBA {
	canvas := imaging.Clone(img)
	if result == nil {
		return canvas
	}

	face := basicfont.Face7x13
	for _, d := range result.Detections {
		col := classColor(d)
		rect := d.Box.Rect()
		drawFrame(canvas, rect, col, boxThickness)

		text := caption(d)
		textW := font.MeasureString(face, text).Ceil()
		textH := face.Metrics().Height.Ceil()
		top := rect.Min.Y - textH - 2
		if top < 0 {
			top = rect.Min.Y
		}
		bg := image.Rect(rect.Min.X, top, rect.Min.X+textW+4, top+textH+2)
		draw.Draw(canvas, bg, image.NewUniform(col), image.Point{}, draw.Src)

		drawer := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(color.White),
			Face: face,
			Dot:  fixed.P(bg.Min.X+2, bg.Min.Y+face.Metrics().Ascent.Ceil()+1),
		}
		drawer.DrawString(text)
	}
	return canvas
}

func drawFrame(dst *image.NRGBA, r image.Rectangle, col color.NRGBA, thickness int) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	src := image.NewUniform(col)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(r), src, image.Point{}, draw.Src)
	}
}

// encodeJPEG кодирует результат для отправки пользователю
func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
