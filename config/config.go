package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendONNX = "onnx"
	BackendGoCV = "gocv"
)

type Config struct {
	TelegramToken       string
	HTTPAddr            string
	ModelPath           string
	ModelBackend        string
	ONNXRuntimeLib      string
	ModelClasses        []string
	ImageSize           int
	ConfidenceThreshold float64
	IoUThreshold        float64
	RemediationFile     string
	DatabaseURL         string
	BcryptCost          int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		ModelPath:       getEnv("MODEL_PATH", "pcb_defect_detection_model.onnx"),
		ModelBackend:    strings.ToLower(getEnv("MODEL_BACKEND", BackendONNX)),
		ONNXRuntimeLib:  os.Getenv("ONNXRUNTIME_LIB"),
		ModelClasses:    splitAndTrim(os.Getenv("MODEL_CLASSES")),
		RemediationFile: os.Getenv("REMEDIATION_FILE"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
	}

	var err error
	if cfg.ImageSize, err = getInt("IMAGE_SIZE", 640); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.ConfidenceThreshold, err = getFraction("CONF_THRESHOLD", 0.25); err != nil {
		return nil, err
	}
	if cfg.IoUThreshold, err = getFraction("IOU_THRESHOLD", 0.7); err != nil {
		return nil, err
	}

	switch cfg.ModelBackend {
	case BackendONNX, BackendGoCV:
	default:
		return nil, fmt.Errorf("MODEL_BACKEND: unknown backend %q", cfg.ModelBackend)
	}
	if cfg.ImageSize <= 0 || cfg.ImageSize%32 != 0 {
		return nil, fmt.Errorf("IMAGE_SIZE: %d is not a positive multiple of 32", cfg.ImageSize)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid int %q", key, raw)
	}
	return v, nil
}

// getFraction число в диапазоне [0,1]
func getFraction(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 1 {
		return 0, fmt.Errorf("%s: expected a number in [0,1], got %q", key, raw)
	}
	return v, nil
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
