package http

import (
	"errors"
	"time"

	"corpsuite/internal/shared/contextkeys"
	apperrors "corpsuite/internal/shared/errors"
	"corpsuite/internal/tools/domain/model"
	"corpsuite/internal/tools/domain/repository"
	"corpsuite/internal/tools/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Guard is the authentication middleware the tools routes mount. It is
// satisfied by the auth module's middleware.
type Guard interface {
	Protect() fiber.Handler
	RequireRole(role string) fiber.Handler
	RequirePlan(tool string) fiber.Handler
}

// ToolsHTTPHandler exposes the business tool endpoints.
type ToolsHTTPHandler struct {
	crm      *usecase.CRMUsecase
	forecast *usecase.ForecastUsecase
	chat     *usecase.ChatUsecase
	leads    repository.LeadRepository
	log      *zap.Logger

	startedAt time.Time
}

// NewToolsHTTPHandler creates a new tools HTTP handler.
func NewToolsHTTPHandler(
	crm *usecase.CRMUsecase,
	forecast *usecase.ForecastUsecase,
	chat *usecase.ChatUsecase,
	leads repository.LeadRepository,
	log *zap.Logger,
) *ToolsHTTPHandler {
	return &ToolsHTTPHandler{
		crm:       crm,
		forecast:  forecast,
		chat:      chat,
		leads:     leads,
		log:       log,
		startedAt: time.Now(),
	}
}

// RegisterRoutes registers the tool endpoints behind the guard.
func (h *ToolsHTTPHandler) RegisterRoutes(router fiber.Router, guard Guard) {
	tools := router.Group("/tools", guard.Protect())

	crm := tools.Group("/crm", guard.RequirePlan("crm"))
	crm.Post("/", h.CreateLead)
	crm.Get("/leads", h.ListLeads)
	crm.Put("/leads/:id/status", h.UpdateLeadStatus)
	crm.Delete("/leads/:id", h.DeleteLead)

	tools.Post("/sales_forecast", guard.RequirePlan("sales-forecast"), h.SalesForecast)

	h.registerChatStream(tools, guard)

	admin := router.Group("/admin", guard.Protect(), guard.RequireRole("admin"))
	admin.Get("/metrics", h.Metrics)
}

// CreateLead handles POST /tools/crm
func (h *ToolsHTTPHandler) CreateLead(c *fiber.Ctx) error {
	var lead model.Lead
	if err := c.BodyParser(&lead); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	created, err := h.crm.CreateLead(c.UserContext(), callerID(c), &lead)
	if err != nil {
		return detail(c, apperrors.HTTPStatus(err), err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListLeads handles GET /tools/crm/leads
func (h *ToolsHTTPHandler) ListLeads(c *fiber.Ctx) error {
	leads, err := h.crm.ListLeads(c.UserContext(), callerID(c))
	if err != nil {
		return detail(c, fiber.StatusInternalServerError, "Failed to list leads")
	}
	if leads == nil {
		leads = []*model.Lead{}
	}
	return c.JSON(fiber.Map{"leads": leads})
}

// UpdateLeadStatus handles PUT /tools/crm/leads/:id/status
func (h *ToolsHTTPHandler) UpdateLeadStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	lead, err := h.crm.UpdateLeadStatus(c.UserContext(), callerID(c), c.Params("id"), req.Status)
	if err != nil {
		if errors.Is(err, model.ErrLeadNotFound) {
			return detail(c, fiber.StatusNotFound, "Lead not found")
		}
		return detail(c, apperrors.HTTPStatus(err), err.Error())
	}
	return c.JSON(lead)
}

// DeleteLead handles DELETE /tools/crm/leads/:id
func (h *ToolsHTTPHandler) DeleteLead(c *fiber.Ctx) error {
	if err := h.crm.DeleteLead(c.UserContext(), callerID(c), c.Params("id")); err != nil {
		if errors.Is(err, model.ErrLeadNotFound) {
			return detail(c, fiber.StatusNotFound, "Lead not found")
		}
		return detail(c, fiber.StatusInternalServerError, "Failed to delete lead")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SalesForecast handles POST /tools/sales_forecast
func (h *ToolsHTTPHandler) SalesForecast(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"product_id"`
		Period    string `json:"period"`
	}
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Period == "" {
		req.Period = model.PeriodMonthly
	}

	forecast, err := h.forecast.Forecast(req.ProductID, req.Period)
	if err != nil {
		return detail(c, apperrors.HTTPStatus(err), err.Error())
	}
	return c.JSON(forecast)
}

// Metrics handles GET /admin/metrics
func (h *ToolsHTTPHandler) Metrics(c *fiber.Ctx) error {
	totalLeads, err := h.leads.CountLeads(c.UserContext())
	if err != nil {
		h.log.Error("Failed to count leads", zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, "Failed to collect metrics")
	}

	return c.JSON(fiber.Map{
		"total_leads":    totalLeads,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"started_at":     h.startedAt.UTC().Format(time.RFC3339),
	})
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.UserContext().Value(contextkeys.UserIDKey).(string)
	return id
}

func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"detail": msg})
}
