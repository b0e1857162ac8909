package handler

import (
	"net/http"

	"church-portal/internal/model"
	"church-portal/internal/service"
	"church-portal/internal/validate"
)

// UserHandler serves the admin account management endpoints. Every route is
// behind the admin gate in the router.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if problems := validate.Struct(&req); problems != nil {
		writeValidationError(w, problems)
		return
	}

	id, err := h.users.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.UserCreatedResponse{Message: "user created", UserID: id})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if problems := validate.Struct(&req); problems != nil {
		writeValidationError(w, problems)
		return
	}

	if err := h.users.Update(r.Context(), id, req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "user updated"})
}

func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.SetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if problems := validate.Struct(&req); problems != nil {
		writeValidationError(w, problems)
		return
	}

	if err := h.users.SetPassword(r.Context(), id, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "password updated"})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.Delete(r.Context(), actorFromRequest(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "user deleted"})
}
