package decisions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"decision-backend/internal/shared/server/respond"
)

// shortPromptMessage is the guidance returned when a prompt fails validation.
const shortPromptMessage = "La descripción es muy corta. Agrega propósito, presupuesto y prioridades."

// Handler wires HTTP handlers to the decisions service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches decision routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/decision/analyze", h.analyze)
	rg.GET("/decision/routes", h.list)
	rg.GET("/decision/routes/:id", h.get)
}

type analyzeRequest struct {
	Prompt string `json:"prompt"`
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, ErrPromptTooShort):
			respond.Error(c, http.StatusBadRequest, "validation_error", shortPromptMessage, nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze decision", nil)
		}
		return
	}

	if result.DecisionID != "" {
		c.Set("decisionId", result.DecisionID)
	}

	respond.JSON(c, http.StatusOK, toAnalyzeResponse(result))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "decision id is required", nil)
		return
	}

	route, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "decision route not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch decision route", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toRouteRecordResponse(route))
}

func (h *Handler) list(c *gin.Context) {
	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	routes, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list decision routes", nil)
		return
	}

	resp := make([]gin.H, 0, len(routes))
	for _, route := range routes {
		resp = append(resp, gin.H{
			"decision_id": route.ID,
			"prompt":      route.Prompt,
			"created_at":  route.CreatedAt,
		})
	}

	respond.JSON(c, http.StatusOK, resp)
}
