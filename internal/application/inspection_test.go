package app

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
	"pcb-inspector/internal/infrastructure/remediation"
)

type fakeDecoder struct{}

func (fakeDecoder) Decode(data []byte) (image.Image, error) {
	if string(data) != "png" {
		return nil, errors.New("unknown format")
	}
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

type fakeDetector struct {
	detections   []entity.Detection
	detectErr    error
	highlightErr error
	calls        int
	gotOpts      entity.DetectOptions
}

func (d *fakeDetector) Detect(ctx context.Context, img image.Image, opts entity.DetectOptions) (*entity.InspectionResult, error) {
	d.calls++
	d.gotOpts = opts
	if d.detectErr != nil {
		return nil, d.detectErr
	}
	return &entity.InspectionResult{
		ImageWidth:  img.Bounds().Dx(),
		ImageHeight: img.Bounds().Dy(),
		Detections:  d.detections,
		HasDefects:  len(d.detections) > 0,
	}, nil
}

func (d *fakeDetector) HighlightDefects(img image.Image, result *entity.InspectionResult) ([]byte, error) {
	if d.highlightErr != nil {
		return nil, d.highlightErr
	}
	return []byte("jpeg"), nil
}

func newInspection(t *testing.T, det *fakeDetector) (*InspectionService, *SessionService) {
	t.Helper()
	sessions := newSessionService(t)
	var detector port.DefectDetector
	if det != nil {
		detector = det
	}
	svc := NewInspectionService(sessions, fakeDecoder{}, detector, remediation.Default(), entity.DefaultDetectOptions())
	return svc, sessions
}

func TestInspectionService_ProcessDefectPhoto(t *testing.T) {
	det := &fakeDetector{detections: []entity.Detection{
		{Label: "Short", Confidence: 0.91},
		{Label: "Unknown_defect", Confidence: 0.30},
	}}
	svc, _ := newInspection(t, det)

	out, err := svc.ProcessDefectPhoto(context.Background(), []byte("png"))
	require.NoError(t, err)
	require.True(t, out.Result.HasDefects)
	require.Equal(t, []byte("jpeg"), out.Highlighted)
	require.Len(t, out.Report.Resolved, 1)
	require.Equal(t, []string{"Unknown_defect"}, out.Report.Unresolved)
	require.Equal(t, 640, det.gotOpts.ImageSize)
	require.Equal(t, 0.25, det.gotOpts.ConfidenceThreshold)
}

func TestInspectionService_NoDefects(t *testing.T) {
	det := &fakeDetector{}
	svc, _ := newInspection(t, det)

	out, err := svc.ProcessDefectPhoto(context.Background(), []byte("png"))
	require.NoError(t, err)
	require.False(t, out.Result.HasDefects)
	require.Nil(t, out.Highlighted)
	require.Empty(t, out.Report.UniqueLabels)
}

func TestInspectionService_ModelUnavailable(t *testing.T) {
	svc, _ := newInspection(t, nil)
	require.False(t, svc.Available())

	// Модель проверяется раньше, чем декодируется файл
	_, err := svc.ProcessDefectPhoto(context.Background(), []byte("garbage"))
	require.ErrorIs(t, err, ErrModelUnavailable)
}

func TestInspectionService_MalformedImageNeverReachesDetector(t *testing.T) {
	det := &fakeDetector{}
	svc, _ := newInspection(t, det)

	_, err := svc.ProcessDefectPhoto(context.Background(), []byte("garbage"))
	require.ErrorIs(t, err, ErrMalformedImage)
	require.Zero(t, det.calls)
}

func TestInspectionService_DetectorErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	svc, _ := newInspection(t, &fakeDetector{detectErr: boom})

	_, err := svc.ProcessDefectPhoto(context.Background(), []byte("png"))
	require.ErrorIs(t, err, boom)
}

func TestInspectionService_HighlightFailureIsNotFatal(t *testing.T) {
	det := &fakeDetector{
		detections:   []entity.Detection{{Label: "Spur", Confidence: 0.8}},
		highlightErr: errors.New("encode failed"),
	}
	svc, _ := newInspection(t, det)

	out, err := svc.ProcessDefectPhoto(context.Background(), []byte("png"))
	require.NoError(t, err)
	require.Nil(t, out.Highlighted)
	require.Len(t, out.Report.Resolved, 1)
}

func TestInspectionService_InspectRequiresLogin(t *testing.T) {
	det := &fakeDetector{}
	svc, sessions := newInspection(t, det)
	ctx := context.Background()

	_, err := svc.Inspect(ctx, "1", []byte("png"))
	require.ErrorIs(t, err, ErrNotAuthenticated)
	require.Zero(t, det.calls)

	_, err = sessions.LogIn(ctx, "1", "testuser", "password123")
	require.NoError(t, err)

	out, err := svc.Inspect(ctx, "1", []byte("png"))
	require.NoError(t, err)
	require.NotNil(t, out.Report)
	require.Equal(t, 1, det.calls)

	_, err = sessions.Navigate(ctx, "1", entity.EventOpenHome)
	require.NoError(t, err)
	_, err = svc.Inspect(ctx, "1", []byte("png"))
	require.ErrorIs(t, err, ErrNotAuthenticated)
}
