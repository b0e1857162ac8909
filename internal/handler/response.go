package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"church-portal/internal/model"
	"church-portal/internal/validate"
	"church-portal/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service errors onto the wire contract: every failure is a
// JSON {message} body, with {code} added where the client distinguishes
// failure kinds.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := model.MessageResponse{Message: "unexpected server error", Code: "INTERNAL_ERROR"}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Message = apiErr.Message
		body.Code = apiErr.Code
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		body = model.MessageResponse{Message: "user not found"}
	case errors.Is(err, model.ErrEmailAlreadyExists):
		status = http.StatusConflict
		body = model.MessageResponse{Message: "email is already registered"}
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		body = model.MessageResponse{Message: "invalid email or password"}
	case errors.Is(err, model.ErrResetTokenInvalid):
		status = http.StatusBadRequest
		body = model.MessageResponse{Message: "reset link is invalid or has expired"}
	case errors.Is(err, model.ErrFileNotFound):
		status = http.StatusNotFound
		body = model.MessageResponse{Message: "file not found"}
	case errors.Is(err, model.ErrMinistryNotFound):
		status = http.StatusNotFound
		body = model.MessageResponse{Message: "ministry not found"}
	case errors.Is(err, model.ErrDuplicateCatalog):
		status = http.StatusConflict
		body = model.MessageResponse{Message: "an entry with that name already exists"}
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		body = model.MessageResponse{Message: "authentication required"}
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		body = model.MessageResponse{Message: "access denied"}
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		body = model.MessageResponse{Message: "invalid input"}
	case errors.Is(err, os.ErrNotExist):
		status = http.StatusNotFound
		body = model.MessageResponse{Message: "file not found"}
	default:
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, body)
}

// writeValidationError reports the first failed field: the client shows a
// single modal message at a time.
func writeValidationError(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, model.MessageResponse{
		Message: validate.FirstMessage(fields),
		Code:    "VALIDATION_ERROR",
	})
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierror.BadRequest("invalid JSON body", err.Error())
	}
	return nil
}
