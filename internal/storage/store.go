// Package storage owns the flat uploads directory: every stored object lives
// directly under it, under a generated unique name. Unique names make
// concurrent writes conflict-free, so the upload path needs no locking.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"church-portal/internal/model"
	"church-portal/internal/util"
	"church-portal/pkg/apierror"
)

type Store struct {
	dir     string
	maxSize int64
}

func New(dir string, maxSize int64) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads directory: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}

	return &Store{dir: abs, maxSize: maxSize}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) MaxSize() int64 {
	return s.maxSize
}

// Save validates the declared filename and media type against the allow-list
// (both must match), then streams the payload to a uniquely named file. A
// payload exceeding the size limit removes the partial object and fails with
// PAYLOAD_TOO_LARGE; both rejection cases carry the offending value for
// diagnostics.
func (s *Store) Save(reader io.Reader, declaredName string, declaredMIME string) (model.StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(declaredName))

	extOK := util.IsAllowedExtension(ext)
	mimeOK := util.IsAllowedMIME(declaredMIME)
	if !extOK || !mimeOK {
		detail := fmt.Sprintf("extension=%q mime=%q", ext, declaredMIME)
		return model.StoredFile{}, apierror.New("UNSUPPORTED_TYPE",
			"file type is not allowed: extension and MIME type must both be on the allow-list",
			detail, http.StatusBadRequest)
	}

	name := uniqueName(ext)
	target := filepath.Join(s.dir, name)

	file, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return model.StoredFile{}, fmt.Errorf("create stored file: %w", err)
	}

	// Read one byte past the limit so a payload of exactly the limit passes
	// and one byte more does not.
	written, err := io.Copy(file, io.LimitReader(reader, s.maxSize+1))
	closeErr := file.Close()

	if err != nil {
		_ = os.Remove(target)
		if isBodyTooLarge(err) {
			return model.StoredFile{}, errPayloadTooLarge(s.maxSize)
		}
		return model.StoredFile{}, fmt.Errorf("write stored file: %w", err)
	}
	if closeErr != nil {
		_ = os.Remove(target)
		return model.StoredFile{}, fmt.Errorf("close stored file: %w", closeErr)
	}
	if written > s.maxSize {
		_ = os.Remove(target)
		return model.StoredFile{}, errPayloadTooLarge(s.maxSize)
	}

	return model.StoredFile{
		Name: name,
		Path: "/uploads/" + name,
		Size: written,
	}, nil
}

// Resolve maps a stored reference (either a bare name or a /uploads/... path)
// to an absolute path inside the uploads directory. Only the base name is
// honored, so references can never escape the directory.
func (s *Store) Resolve(storedRef string) (string, error) {
	base := filepath.Base(strings.TrimSpace(storedRef))
	if base == "" || base == "." || base == ".." || base == string(filepath.Separator) {
		return "", apierror.BadRequest("invalid stored file reference", storedRef)
	}

	return filepath.Join(s.dir, base), nil
}

func (s *Store) Open(storedRef string) (*os.File, fs.FileInfo, error) {
	resolved, err := s.Resolve(storedRef)
	if err != nil {
		return nil, nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, nil, err
	}

	return file, info, nil
}

// Remove deletes the stored object. The caller decides how to treat a missing
// file (os.IsNotExist).
func (s *Store) Remove(storedRef string) error {
	resolved, err := s.Resolve(storedRef)
	if err != nil {
		return err
	}

	return os.Remove(resolved)
}

// ListOlderThan returns the stored names of objects whose modification time is
// before the cutoff. Used by the orphan reconciliation sweep.
func (s *Store) ListOlderThan(cutoff time.Time) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read uploads directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

func uniqueName(ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("file-%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}

func errPayloadTooLarge(limit int64) *apierror.APIError {
	return apierror.New("PAYLOAD_TOO_LARGE",
		fmt.Sprintf("file exceeds the maximum upload size of %d bytes", limit),
		"", http.StatusBadRequest)
}

func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "request body too large")
}
