package port

import (
	"context"

	"pcb-inspector/internal/domain/entity"
)

// ReportDescriber интерфейс описателя результатов проверки
type ReportDescriber interface {
	// Describe строит текстовый отчёт по найденным дефектам и рекомендациям
	Describe(ctx context.Context, result *entity.InspectionResult, report *entity.DefectReport) (*entity.Description, error)
}
