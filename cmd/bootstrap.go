package main

import (
	"context"
	"io"
	"log"

	"pcb-inspector/config"
	"pcb-inspector/internal/container"
	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
	"pcb-inspector/internal/infrastructure/remediation"
	"pcb-inspector/internal/infrastructure/storage"
	"pcb-inspector/internal/infrastructure/vision"
)

// deps зависимости процесса и функция их освобождения
type deps struct {
	cfg      *config.Config
	services *container.Container
	closers  []io.Closer
}

func (a *deps) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			log.Printf("Error closing resource: %v", err)
		}
	}
}

func bootstrap(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	table, err := loadTable(cfg)
	if err != nil {
		return nil, err
	}

	a := &deps{cfg: cfg}

	credentials, db := newCredentialStore(ctx, cfg)
	if db != nil {
		a.closers = append(a.closers, db)
	}
	if err := storage.Seed(ctx, credentials, storage.DefaultAccounts()); err != nil {
		a.Close()
		return nil, err
	}

	detector, closer := newDetector(cfg)
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	a.services = container.New(
		storage.NewMemorySessionRepository(),
		credentials,
		detector,
		table,
		detectOptions(cfg),
	)
	return a, nil
}

func loadTable(cfg *config.Config) (*entity.RemediationTable, error) {
	if cfg.RemediationFile == "" {
		return remediation.Default(), nil
	}
	return remediation.Load(cfg.RemediationFile)
}

func detectOptions(cfg *config.Config) entity.DetectOptions {
	return entity.DetectOptions{
		ImageSize:           cfg.ImageSize,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		IoUThreshold:        cfg.IoUThreshold,
	}
}

// newCredentialStore PostgreSQL при заданном DATABASE_URL, иначе память.
// Недоступная база не роняет процесс.
func newCredentialStore(ctx context.Context, cfg *config.Config) (port.CredentialStore, io.Closer) {
	memory := storage.NewMemoryCredentialStore(cfg.BcryptCost)
	if cfg.DatabaseURL == "" {
		return memory, nil
	}

	db, err := storage.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("Failed to connect database, falling back to memory: %v", err)
		return memory, nil
	}
	if err := storage.RunMigrations(ctx, db); err != nil {
		log.Printf("Failed to run migrations, falling back to memory: %v", err)
		db.Close()
		return memory, nil
	}
	return &storage.PGCredentialStore{DB: db, Cost: cfg.BcryptCost}, db
}

// newDetector загружает модель. При ошибке возвращает nil:
// сервис продолжает работать, детекция отвечает "модель недоступна".
func newDetector(cfg *config.Config) (port.DefectDetector, io.Closer) {
	classNames := cfg.ModelClasses
	if len(classNames) == 0 {
		classNames = vision.DefaultClassNames()
	}

	switch cfg.ModelBackend {
	case config.BackendGoCV:
		d, err := vision.NewGoCVDetector(cfg.ModelPath, cfg.ImageSize, classNames)
		if err != nil {
			log.Printf("Failed to load model %s (gocv): %v", cfg.ModelPath, err)
			return nil, nil
		}
		log.Printf("Model loaded: %s (gocv)", cfg.ModelPath)
		return d, d
	default:
		d, err := vision.NewONNXDetector(vision.ONNXConfig{
			ModelPath:   cfg.ModelPath,
			LibraryPath: cfg.ONNXRuntimeLib,
			ImageSize:   cfg.ImageSize,
			ClassNames:  classNames,
		})
		if err != nil {
			log.Printf("Failed to load model %s (onnx): %v", cfg.ModelPath, err)
			return nil, nil
		}
		log.Printf("Model loaded: %s (onnx)", cfg.ModelPath)
		return d, d
	}
}

// offline зависимости без базы данных: для команд inspect и defects
func offline() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	table, err := loadTable(cfg)
	if err != nil {
		return nil, err
	}

	a := &deps{cfg: cfg}
	detector, closer := newDetector(cfg)
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	a.services = container.New(
		storage.NewMemorySessionRepository(),
		storage.NewMemoryCredentialStore(cfg.BcryptCost),
		detector,
		table,
		detectOptions(cfg),
	)
	return a, nil
}
