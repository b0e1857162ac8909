package handler

import (
	"net/http"
	"strconv"

	"church-portal/internal/model"
	"church-portal/internal/service"
)

// AuditHandler exposes the trail of file mutations and authorization denials
// to administrators.
type AuditHandler struct {
	audit *service.AuditService
}

func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	query := model.AuditQuery{
		Action: r.URL.Query().Get("action"),
		Status: r.URL.Query().Get("status"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			query.Limit = limit
		}
	}

	entries, err := h.audit.List(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
