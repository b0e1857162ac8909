package handler

import (
	"net/http"

	"church-portal/internal/model"
	"church-portal/internal/service"
	"church-portal/internal/validate"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListMinistries(w http.ResponseWriter, r *http.Request) {
	ministries, err := h.catalog.ListMinistries(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ministries)
}

func (h *CatalogHandler) CreateMinistry(w http.ResponseWriter, r *http.Request) {
	var req model.CreateMinistryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if problems := validate.Struct(&req); problems != nil {
		writeValidationError(w, problems)
		return
	}

	id, err := h.catalog.CreateMinistry(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.MinistryCreatedResponse{Message: "ministry created", MinistryID: id})
}

func (h *CatalogHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.catalog.ListRoles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

func (h *CatalogHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if problems := validate.Struct(&req); problems != nil {
		writeValidationError(w, problems)
		return
	}

	id, err := h.catalog.CreateRole(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.RoleCreatedResponse{Message: "role created", RoleID: id})
}
