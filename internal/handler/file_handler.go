package handler

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"church-portal/internal/model"
	"church-portal/internal/service"
	"church-portal/internal/validate"
	"church-portal/pkg/apierror"
)

type FileHandler struct {
	files         *service.FileService
	maxUploadSize int64
}

func NewFileHandler(files *service.FileService, maxUploadSize int64) *FileHandler {
	return &FileHandler{files: files, maxUploadSize: maxUploadSize}
}

// Upload receives a single multipart file under the "file" field, stores it,
// and returns the generated reference. The metadata record comes in a second
// call to Create.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Per-file size is enforced inside the store; the body cap only guards
	// against oversized multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)

	reader, err := r.MultipartReader()
	if err != nil {
		writeError(w, apierror.BadRequest("invalid multipart body", err.Error()))
		return
	}

	for {
		part, nextErr := reader.NextPart()
		if nextErr != nil {
			writeError(w, apierror.BadRequest("no file was provided", "expected a multipart field named 'file'"))
			return
		}

		if part.FormName() != "file" || strings.TrimSpace(part.FileName()) == "" {
			_ = part.Close()
			continue
		}

		stored, saveErr := h.files.Upload(r.Context(), actorFromRequest(r), part, part.FileName(), part.Header.Get("Content-Type"))
		_ = part.Close()
		if saveErr != nil {
			writeError(w, saveErr)
			return
		}

		writeJSON(w, http.StatusOK, model.UploadResponse{
			Message:  "file uploaded",
			FileName: stored.Name,
			FilePath: stored.Path,
		})
		return
	}
}

func (h *FileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateFileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if problems := validate.Struct(&req); problems != nil {
		writeValidationError(w, problems)
		return
	}

	id, err := h.files.Create(r.Context(), actorFromRequest(r), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.FileCreatedResponse{
		Message: "file registered",
		FileID:  id,
	})
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.files.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.FilesResponse{Files: files})
}

func (h *FileHandler) ListByMinistry(w http.ResponseWriter, r *http.Request) {
	ministryID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	files, err := h.files.ListByMinistry(r.Context(), ministryID)
	if err != nil {
		writeError(w, err)
		return
	}
	// The ministry view returns a bare array.
	writeJSON(w, http.StatusOK, files)
}

func (h *FileHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.RenameFileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if problems := validate.Struct(&req); problems != nil {
		writeValidationError(w, problems)
		return
	}

	if err := h.files.Rename(r.Context(), actorFromRequest(r), id, req.DisplayName); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "file renamed"})
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.files.Delete(r.Context(), actorFromRequest(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "file deleted"})
}

// Download streams the stored file under its display name.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	file, info, rec, err := h.files.Download(r.Context(), actorFromRequest(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	downloadName := rec.DisplayName
	if filepath.Ext(downloadName) == "" {
		downloadName += filepath.Ext(rec.StoredPath)
	}

	contentType := mime.TypeByExtension(filepath.Ext(rec.StoredPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	http.ServeContent(w, r, downloadName, info.ModTime(), file)
}

func (h *FileHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size < 0 || size > 1024 {
			writeError(w, apierror.BadRequest("invalid thumbnail size", raw))
			return
		}
	}

	thumb, info, err := h.files.Thumbnail(r.Context(), actorFromRequest(r), id, size)
	if err != nil {
		writeError(w, err)
		return
	}
	defer thumb.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	http.ServeContent(w, r, info.Name(), info.ModTime(), thumb)
}

func pathID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.BadRequest("invalid id", raw)
	}
	return id, nil
}
