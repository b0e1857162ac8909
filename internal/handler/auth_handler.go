package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"church-portal/internal/model"
	"church-portal/internal/service"
	"church-portal/internal/validate"
)

type AuthHandler struct {
	auth         *service.AuthService
	resetBaseURL string
}

func NewAuthHandler(auth *service.AuthService, resetBaseURL string) *AuthHandler {
	return &AuthHandler{auth: auth, resetBaseURL: resetBaseURL}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if problems := validate.Struct(&req); problems != nil {
		writeValidationError(w, problems)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResponse{
		Status:  "ok",
		Message: "login successful",
		Token:   result.Token,
		User:    result.User,
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if problems := validate.Struct(&req); problems != nil {
		writeValidationError(w, problems)
		return
	}

	id, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.UserCreatedResponse{
		Message: "user registered",
		UserID:  id,
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if problems := validate.Struct(&req); problems != nil {
		writeValidationError(w, problems)
		return
	}

	if err := h.auth.RequestPasswordReset(r.Context(), req.Email, h.resetBaseURL); err != nil {
		writeError(w, err)
		return
	}

	// Always the same answer, so the endpoint cannot confirm which emails
	// have accounts.
	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message: "if the email is registered, a reset link has been sent",
	})
}

func (h *AuthHandler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := h.auth.VerifyResetToken(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.StatusResponse{Status: "ok", Message: "token is valid"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req model.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if problems := validate.Struct(&req); problems != nil {
		writeValidationError(w, problems)
		return
	}

	if err := h.auth.ResetPassword(r.Context(), token, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "password updated"})
}

func (h *AuthHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)

	claims, err := h.auth.UserInfo(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.UserInfoResponse{Message: "ok", User: claims})
}
