package rest

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"pcb-inspector/internal/container"
)

// NewRouter собирает gin с middleware и маршрутами /api/v1
func NewRouter(services *container.Container, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadSize

	r.Use(
		RequestID(),
		Logging(logger),
		Recovery(logger),
		Session(),
	)

	api := r.Group("/api/v1")
	NewHandler(services).RegisterRoutes(api)

	return r
}
