package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"church-portal/internal/model"
	"church-portal/pkg/apierror"
)

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) model.MessageResponse {
	t.Helper()
	var body model.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"api error keeps its status and code", apierror.Forbidden("no"), http.StatusForbidden, "FORBIDDEN"},
		{"file not found", model.ErrFileNotFound, http.StatusNotFound, ""},
		{"user not found", model.ErrUserNotFound, http.StatusNotFound, ""},
		{"duplicate email", model.ErrEmailAlreadyExists, http.StatusConflict, ""},
		{"bad credentials", model.ErrInvalidCredentials, http.StatusUnauthorized, ""},
		{"stale reset token", model.ErrResetTokenInvalid, http.StatusBadRequest, ""},
		{"duplicate catalog entry", model.ErrDuplicateCatalog, http.StatusConflict, ""},
		{"unknown error is a generic 500", errDatabaseDown, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			body := decodeMessage(t, rec)
			assert.NotEmpty(t, body.Message)
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}

	t.Run("internal errors never leak details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(rec, errDatabaseDown)

		body := decodeMessage(t, rec)
		assert.Equal(t, "unexpected server error", body.Message)
		assert.NotContains(t, rec.Body.String(), errDatabaseDown.Error())
	})
}

var errDatabaseDown = errTest("database exploded at 10.0.0.3")

type errTest string

func (e errTest) Error() string { return string(e) }

func TestWriteValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeValidationError(rec, map[string]string{"Email": "the field 'Email' is required"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeMessage(t, rec)
	assert.Equal(t, "the field 'Email' is required", body.Message)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
}
