package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rfarias/obras-backoffice/internal/custody"
	"github.com/rfarias/obras-backoffice/internal/http/middleware"
	"github.com/rfarias/obras-backoffice/internal/ledger"
	"github.com/rfarias/obras-backoffice/internal/service"
)

type Handler struct {
	backoffice *service.BackofficeService
	log        zerolog.Logger
}

func NewHandler(backoffice *service.BackofficeService, log zerolog.Logger) *Handler {
	return &Handler{backoffice: backoffice, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/employees/:id/balance", h.employeeBalance)
	protected.GET("/employees/:id/statement.pdf", h.employeeStatement)
	protected.GET("/contracts/:id/settlement", h.contractSettlement)
	protected.POST("/tools/:id/checkout", h.checkoutTool)
	protected.POST("/tools/:id/checkin", h.checkinTool)
	protected.POST("/tools/:id/maintenance", h.toolMaintenance)
	protected.PATCH("/tools/:id", h.updateTool)
	protected.GET("/tools/:id/history", h.toolHistory)
	protected.GET("/reports/dashboard", h.dashboard)
	protected.POST("/reports/dashboard/export", h.exportDashboard)
}

func (h *Handler) employeeBalance(c *gin.Context) {
	employeeID, ok := parseID(c)
	if !ok {
		return
	}

	summary, err := h.backoffice.EmployeeBalance(c.Request.Context(), employeeID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) contractSettlement(c *gin.Context) {
	contractID, ok := parseID(c)
	if !ok {
		return
	}

	summary, err := h.backoffice.ContractSettlement(c.Request.Context(), contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type checkoutToolRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required"`
	Site          *string `json:"site"`
	CondominiumID *string `json:"condominium_id"`
}

func (h *Handler) checkoutTool(c *gin.Context) {
	toolID, ok := parseID(c)
	if !ok {
		return
	}

	var req checkoutToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employeeID, err := uuid.Parse(strings.TrimSpace(req.EmployeeID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee_id"})
		return
	}

	var condominiumID *uuid.UUID
	if req.CondominiumID != nil {
		parsed, err := uuid.Parse(strings.TrimSpace(*req.CondominiumID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid condominium_id"})
			return
		}
		condominiumID = &parsed
	}

	tool, err := h.backoffice.CheckoutTool(c.Request.Context(), service.CheckoutToolInput{
		ToolID:        toolID,
		EmployeeID:    employeeID,
		Site:          req.Site,
		CondominiumID: condominiumID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool)
}

type noteRequest struct {
	Note *string `json:"note"`
}

func (h *Handler) checkinTool(c *gin.Context) {
	toolID, ok := parseID(c)
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tool, err := h.backoffice.CheckinTool(c.Request.Context(), toolID, req.Note)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool)
}

func (h *Handler) toolMaintenance(c *gin.Context) {
	toolID, ok := parseID(c)
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tool, err := h.backoffice.SendToolToMaintenance(c.Request.Context(), toolID, req.Note)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool)
}

type updateToolRequest struct {
	Name         *string `json:"name"`
	Brand        *string `json:"brand"`
	Category     *string `json:"category"`
	Description  *string `json:"description"`
	LocationNote *string `json:"location_note"`
}

func (h *Handler) updateTool(c *gin.Context) {
	toolID, ok := parseID(c)
	if !ok {
		return
	}

	var req updateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tool, err := h.backoffice.UpdateTool(c.Request.Context(), toolID, custody.Update{
		Name:         req.Name,
		Brand:        req.Brand,
		Category:     req.Category,
		Description:  req.Description,
		LocationNote: req.LocationNote,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool)
}

func (h *Handler) toolHistory(c *gin.Context) {
	toolID, ok := parseID(c)
	if !ok {
		return
	}

	history, err := h.backoffice.ToolHistory(c.Request.Context(), toolID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) dashboard(c *gin.Context) {
	summary, err := h.backoffice.Dashboard(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) exportDashboard(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	result, err := h.backoffice.ExportDashboard(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

func (h *Handler) employeeStatement(c *gin.Context) {
	employeeID, ok := parseID(c)
	if !ok {
		return
	}

	principal, pok := middleware.MustPrincipal(c)
	if !pok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	result, err := h.backoffice.EmployeeStatement(c.Request.Context(), employeeID, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInconsistentOwnership):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrAmbiguousBillingMode):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, custody.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
