package container

import (
	app "pcb-inspector/internal/application"
	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
	"pcb-inspector/internal/infrastructure/describer"
	"pcb-inspector/internal/infrastructure/storage"
	"pcb-inspector/internal/infrastructure/vision"
)

type Container struct {
	SessionService    *app.SessionService
	InspectionService *app.InspectionService
	Describer         port.ReportDescriber
	Table             *entity.RemediationTable
}

// New собирает сервисы приложения. При detector == nil модель недоступна.
func New(
	sessions port.SessionRepository,
	credentials port.CredentialStore,
	detector port.DefectDetector,
	table *entity.RemediationTable,
	opts entity.DetectOptions,
) *Container {
	sessionService := app.NewSessionService(sessions, credentials)
	inspectionService := app.NewInspectionService(sessionService, vision.Decoder{}, detector, table, opts)

	return &Container{
		SessionService:    sessionService,
		InspectionService: inspectionService,
		Describer:         describer.New(),
		Table:             table,
	}
}

// NewInMemory контейнер без внешних хранилищ, удобен для тестов и CLI
func NewInMemory(credentials port.CredentialStore, detector port.DefectDetector, table *entity.RemediationTable) *Container {
	return New(storage.NewMemorySessionRepository(), credentials, detector, table, entity.DefaultDetectOptions())
}
