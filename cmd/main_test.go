package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pcb-inspector/config"
	app "pcb-inspector/internal/application"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MODEL_PATH", filepath.Join(t.TempDir(), "missing.onnx"))
	t.Setenv("MODEL_BACKEND", "onnx")
	t.Setenv("REMEDIATION_FILE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("IMAGE_SIZE", "")
	t.Setenv("CONF_THRESHOLD", "")
	t.Setenv("IOU_THRESHOLD", "")
	t.Setenv("BCRYPT_COST", "4")
}

func TestDefectsCommand(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "defects")
	require.NoError(t, err)
	require.Contains(t, out, "What Our Model Detects")
	require.Contains(t, out, "Missing hole")
	require.Contains(t, out, "Spurious copper")
}

func TestInspectCommand_MissingFile(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "inspect", "board.jpg")
	require.Error(t, err)
}

func TestNewDetector_MissingModelIsNil(t *testing.T) {
	isolateEnv(t)
	cfg, err := config.Load()
	require.NoError(t, err)

	detector, closer := newDetector(cfg)
	require.Nil(t, detector)
	require.Nil(t, closer)
}

func TestOffline_ModelUnavailable(t *testing.T) {
	isolateEnv(t)

	d, err := offline()
	require.NoError(t, err)
	defer d.Close()

	require.False(t, d.services.InspectionService.Available())
	_, err = d.services.InspectionService.ProcessDefectPhoto(context.Background(), []byte("x"))
	require.ErrorIs(t, err, app.ErrModelUnavailable)
}

func TestAnnotatedPath(t *testing.T) {
	require.Equal(t, "out.jpg", annotatedPath("out.jpg", 0, 1))
	require.Equal(t, "out_2.jpg", annotatedPath("out.jpg", 1, 3))
	require.Equal(t, "dir/out_1", annotatedPath("dir/out", 0, 2))
}
