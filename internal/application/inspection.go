package app

import (
	"context"
	"fmt"
	"log"

	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
)

type InspectionService struct {
	sessions *SessionService
	decoder  port.ImageDecoder
	detector port.DefectDetector
	table    *entity.RemediationTable
	opts     entity.DetectOptions
}

// InspectionOutput содержит результат поиска дефектов, отчёт и картинку с подсветкой.
type InspectionOutput struct {
	Result      *entity.InspectionResult
	Report      *entity.DefectReport
	Highlighted []byte
}

// NewInspectionService создаёт сервис, который управляет проверкой дефектов.
// detector == nil означает, что модель не загрузилась.
func NewInspectionService(
	sessions *SessionService,
	decoder port.ImageDecoder,
	detector port.DefectDetector,
	table *entity.RemediationTable,
	opts entity.DetectOptions,
) *InspectionService {
	return &InspectionService{
		sessions: sessions,
		decoder:  decoder,
		detector: detector,
		table:    table,
		opts:     opts,
	}
}

// Available сообщает, загружена ли модель
func (s *InspectionService) Available() bool {
	return s.detector != nil
}

// Table возвращает таблицу рекомендаций
func (s *InspectionService) Table() *entity.RemediationTable {
	return s.table
}

// Inspect проверяет фото от имени сессии: детектор доступен только после входа.
func (s *InspectionService) Inspect(ctx context.Context, sessionID string, photo []byte) (*InspectionOutput, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Effective() != entity.PagePrediction {
		return nil, ErrNotAuthenticated
	}
	return s.ProcessDefectPhoto(ctx, photo)
}

// ProcessDefectPhoto запускает детектор и возвращает результат с подсветкой и отчётом.
func (s *InspectionService) ProcessDefectPhoto(ctx context.Context, photo []byte) (*InspectionOutput, error) {
	if s.detector == nil {
		return nil, ErrModelUnavailable
	}

	img, err := s.decoder.Decode(photo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}

	result, err := s.detector.Detect(ctx, img, s.opts)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	report := Synthesize(result.Detections, s.table)

	var highlighted []byte
	if result.HasDefects {
		highlighted, err = s.detector.HighlightDefects(img, result)
		if err != nil {
			log.Printf("Error highlighting defects: %v", err)
			highlighted = nil
		}
	}

	return &InspectionOutput{Result: result, Report: report, Highlighted: highlighted}, nil
}
