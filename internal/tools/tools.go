// Package tools assembles the business tool module: CRM lead
// management, sales forecasting and streaming chat support.
package tools

import (
	"corpsuite/internal/shared/logger"
	toolshttp "corpsuite/internal/tools/adapter/http"
	"corpsuite/internal/tools/adapter/persistence/mongodb"
	"corpsuite/internal/tools/usecase"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Module wires the tool usecases to their adapters.
type Module struct {
	handler *toolshttp.ToolsHTTPHandler
}

// NewModule constructs the tools module on top of the given database.
func NewModule(db *mongo.Database, log logger.Logger, streamLog *zap.Logger) (*Module, error) {
	leadRepo, err := mongodb.NewMongoLeadRepository(db)
	if err != nil {
		return nil, err
	}

	crmUC := usecase.NewCRMUsecase(leadRepo, log)
	forecastUC := usecase.NewForecastUsecase()
	chatUC := usecase.NewChatUsecase()

	handler := toolshttp.NewToolsHTTPHandler(crmUC, forecastUC, chatUC, leadRepo, streamLog)

	return &Module{handler: handler}, nil
}

// RegisterRoutes mounts the tool endpoints behind the guard.
func (m *Module) RegisterRoutes(router fiber.Router, guard toolshttp.Guard) {
	m.handler.RegisterRoutes(router, guard)
}
