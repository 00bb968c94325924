package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundingBoxIoU(t *testing.T) {
	a := BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10}
	require.InDelta(t, 1.0, a.IoU(a), 1e-9)

	b := BoundingBox{X1: 5, Y1: 0, X2: 15, Y2: 10}
	require.InDelta(t, 50.0/150.0, a.IoU(b), 1e-9)

	far := BoundingBox{X1: 100, Y1: 100, X2: 110, Y2: 110}
	require.Zero(t, a.IoU(far))
	require.Zero(t, BoundingBox{}.IoU(BoundingBox{}))
}

func TestNormalize(t *testing.T) {
	cases := map[string]DefectClass{
		"Missing_hole":    MissingHole,
		"missing_hole":    MissingHole,
		"MOUSE_BITE":      MouseBite,
		"Open_circuit":    OpenCircuit,
		"short":           Short,
		"Spur":            Spur,
		"spurious_copper": SpuriousCopper,
		"Spurious copper": DefectUnknown,
		"":                DefectUnknown,
		"Unknown_defect":  DefectUnknown,
	}
	for label, want := range cases {
		require.Equal(t, want, Normalize(label), label)
	}
}

func TestDefectClassKeysRoundTrip(t *testing.T) {
	classes := AllDefectClasses()
	require.Len(t, classes, 6)
	for _, c := range classes {
		require.NotEmpty(t, c.Key())
		require.Equal(t, c, Normalize(c.Key()))
	}
	require.Equal(t, "Mouse bite", MouseBite.DisplayName())
	require.Equal(t, "unknown", DefectUnknown.String())
	require.Equal(t, "", DefectClass(42).Key())
}

func TestDetectionClass(t *testing.T) {
	d := Detection{Label: "open_circuit", Confidence: 0.5}
	require.Equal(t, OpenCircuit, d.Class())
}

func TestBoundingBoxRect(t *testing.T) {
	r := BoundingBox{X1: 1.4, Y1: 2.6, X2: 10.2, Y2: 20.0}.Rect()
	require.Equal(t, 1, r.Min.X)
	require.Equal(t, 2, r.Min.Y)
	require.Equal(t, 11, r.Max.X)
	require.Equal(t, 20, r.Max.Y)
}
