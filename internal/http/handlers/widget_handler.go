// README: Widget lifecycle and routing query handlers.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"voyago/internal/modules/history"
	"voyago/internal/modules/routing"
	"voyago/internal/service"
	"voyago/internal/types"
)

type WidgetHandler struct {
	assistant *service.Assistant
}

func NewWidgetHandler(assistant *service.Assistant) *WidgetHandler {
	return &WidgetHandler{assistant: assistant}
}

type interactionReq struct {
	SessionID  string         `json:"session_id"`
	WidgetKind string         `json:"widget_kind"`
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload"`
	Summary    string         `json:"summary"`
}

// RecordInteraction handles POST /api/widgets/interactions.
func (h *WidgetHandler) RecordInteraction(c *gin.Context) {
	var req interactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	if !isValidID(req.SessionID) {
		writeError(c, http.StatusBadRequest, "invalid session_id")
		return
	}
	if !history.IsValidType(history.InteractionType(req.Type)) {
		writeError(c, http.StatusBadRequest, "unknown interaction type")
		return
	}

	err := h.assistant.RecordInteraction(c.Request.Context(), service.InteractionCommand{
		SessionID:  types.ID(req.SessionID),
		WidgetKind: routing.WidgetKind(req.WidgetKind),
		Type:       history.InteractionType(req.Type),
		Payload:    req.Payload,
		Summary:    req.Summary,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, map[string]any{"status": "recorded"})
}

// Next handles GET /api/widgets/next?session_id=...
func (h *WidgetHandler) Next(c *gin.Context) {
	sessionID := c.Query("session_id")
	if !isValidID(sessionID) {
		writeError(c, http.StatusBadRequest, "invalid session_id")
		return
	}
	kind, err := h.assistant.NextWidget(c.Request.Context(), types.ID(sessionID))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"widget_kind": kind})
}

// CanShow handles GET /api/widgets/:kind/can-show?session_id=...
func (h *WidgetHandler) CanShow(c *gin.Context) {
	sessionID := c.Query("session_id")
	if !isValidID(sessionID) {
		writeError(c, http.StatusBadRequest, "invalid session_id")
		return
	}
	kind := routing.WidgetKind(c.Param("kind"))

	v, err := h.assistant.CanShow(c.Request.Context(), types.ID(sessionID), kind)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{
		"valid":            v.Valid,
		"reason":           v.Reason,
		"suggested_widget": v.SuggestedWidget,
	})
}

// CooldownSummary handles GET /api/cooldowns/summary?session_id=...
func (h *WidgetHandler) CooldownSummary(c *gin.Context) {
	sessionID := c.Query("session_id")
	if !isValidID(sessionID) {
		writeError(c, http.StatusBadRequest, "invalid session_id")
		return
	}
	summary, err := h.assistant.CooldownSummary(c.Request.Context(), types.ID(sessionID))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"summary": summary})
}
