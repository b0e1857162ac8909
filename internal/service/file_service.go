package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/image/draw"

	"church-portal/internal/authz"
	"church-portal/internal/event"
	"church-portal/internal/model"
	"church-portal/internal/util"
	"church-portal/pkg/apierror"
)

// FileStore is the metadata persistence surface for file records.
type FileStore interface {
	Create(ctx context.Context, rec model.FileRecord) (int64, error)
	FindByID(ctx context.Context, id int64) (model.FileRecord, error)
	ListAll(ctx context.Context) ([]model.FileListing, error)
	ListByMinistry(ctx context.Context, ministryID int64) ([]model.FileListing, error)
	Rename(ctx context.Context, id int64, displayName string) error
	Delete(ctx context.Context, id int64) error
	ListStoredPaths(ctx context.Context) ([]string, error)
}

// BlobStore is the physical storage surface for uploaded files.
type BlobStore interface {
	Save(reader io.Reader, declaredName string, declaredMIME string) (model.StoredFile, error)
	Resolve(storedRef string) (string, error)
	Open(storedRef string) (*os.File, fs.FileInfo, error)
	Remove(storedRef string) error
	ListOlderThan(cutoff time.Time) ([]string, error)
}

type FileService struct {
	files         FileStore
	store         BlobStore
	bus           event.Bus
	logger        *slog.Logger
	thumbnailRoot string
	sweepInterval time.Duration
	sweepMinAge   time.Duration
}

func NewFileService(files FileStore, store BlobStore, bus event.Bus, logger *slog.Logger, thumbnailRoot string, sweepInterval, sweepMinAge time.Duration) *FileService {
	return &FileService{
		files:         files,
		store:         store,
		bus:           bus,
		logger:        logger,
		thumbnailRoot: thumbnailRoot,
		sweepInterval: sweepInterval,
		sweepMinAge:   sweepMinAge,
	}
}

// Upload stores the physical file and returns its reference. Metadata is
// created by a separate call; files whose second call never arrives are
// collected by the orphan sweep.
func (s *FileService) Upload(ctx context.Context, actor model.Actor, reader io.Reader, declaredName string, declaredMIME string) (model.StoredFile, error) {
	if !authz.CanUpload(actor.RoleID) {
		s.denied(actor, "upload", declaredName, nil, "role may not upload files")
		return model.StoredFile{}, apierror.Forbidden("your role does not allow uploading files")
	}

	stored, err := s.store.Save(reader, declaredName, declaredMIME)
	if err != nil {
		return model.StoredFile{}, err
	}

	s.publish(event.TypeFileUploaded, actor, stored.Name, nil, fmt.Sprintf("size=%d", stored.Size))
	s.logger.Info("file uploaded", "fileName", stored.Name, "size", stored.Size, "usuarioID", actor.UserID)
	return stored, nil
}

// Create registers the metadata record for a previously uploaded file. The
// stored type is always re-derived from the path; the client cannot choose it.
func (s *FileService) Create(ctx context.Context, actor model.Actor, req model.CreateFileRequest) (int64, error) {
	switch authz.CanCreateFor(actor.RoleID, actor.MinistryID, req.MinistryID) {
	case authz.DenyUploadRole:
		s.denied(actor, "create", req.StoredPath, req.MinistryID, "role may not create file records")
		return 0, apierror.Forbidden("your role does not allow creating file records")
	case authz.DenyForeignMinistry:
		s.denied(actor, "create", req.StoredPath, req.MinistryID, "ministry leader outside own ministry")
		return 0, apierror.Forbidden("ministry leaders can only add files to their own ministry")
	}

	displayName, err := util.SanitizeDisplayName(req.DisplayName)
	if err != nil {
		return 0, apierror.BadRequest("invalid file name", err.Error())
	}

	id, err := s.files.Create(ctx, model.FileRecord{
		DisplayName: displayName,
		Type:        util.ClassifyPath(req.StoredPath),
		StoredPath:  req.StoredPath,
		UploaderID:  actor.UserID,
		MinistryID:  req.MinistryID,
	})
	if err != nil {
		return 0, err
	}

	s.publish(event.TypeFileCreated, actor, strconv.FormatInt(id, 10), req.MinistryID, displayName)
	s.logger.Info("file record created", "archivoID", id, "usuarioID", actor.UserID)
	return id, nil
}

func (s *FileService) ListAll(ctx context.Context) ([]model.FileListing, error) {
	return s.files.ListAll(ctx)
}

func (s *FileService) ListByMinistry(ctx context.Context, ministryID int64) ([]model.FileListing, error) {
	return s.files.ListByMinistry(ctx, ministryID)
}

// Rename changes the display name. Authorization is decided against the
// record's stored ministry, never against anything the client sends.
func (s *FileService) Rename(ctx context.Context, actor model.Actor, id int64, newName string) error {
	rec, err := s.files.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !authz.CanModify(actor.RoleID, actor.MinistryID, rec.MinistryID) {
		s.denied(actor, "rename", strconv.FormatInt(id, 10), rec.MinistryID, "modify denied")
		return apierror.Forbidden("you do not have permission to modify this file")
	}

	displayName, err := util.SanitizeDisplayName(newName)
	if err != nil {
		return apierror.BadRequest("invalid file name", err.Error())
	}

	if err := s.files.Rename(ctx, id, displayName); err != nil {
		return err
	}

	s.publish(event.TypeFileRenamed, actor, strconv.FormatInt(id, 10), rec.MinistryID, displayName)
	return nil
}

// Delete removes the physical file first, then the record. A missing physical
// file is fine (the record is still removed); any other unlink failure is
// logged but does not leave a half-deleted record behind either.
func (s *FileService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	rec, err := s.files.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !authz.CanModify(actor.RoleID, actor.MinistryID, rec.MinistryID) {
		s.denied(actor, "delete", strconv.FormatInt(id, 10), rec.MinistryID, "modify denied")
		return apierror.Forbidden("you do not have permission to delete this file")
	}

	if err := s.store.Remove(rec.StoredPath); err != nil && !os.IsNotExist(err) {
		s.logger.Error("failed to remove stored file", "archivoID", id, "ruta", rec.StoredPath, "error", err)
	}

	if err := s.files.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(event.TypeFileDeleted, actor, strconv.FormatInt(id, 10), rec.MinistryID, rec.StoredPath)
	s.logger.Info("file deleted", "archivoID", id, "usuarioID", actor.UserID)
	return nil
}

// Download opens the stored file for streaming and returns the display name
// to use in the Content-Disposition header.
func (s *FileService) Download(ctx context.Context, actor model.Actor, id int64) (*os.File, fs.FileInfo, model.FileRecord, error) {
	if !authz.CanDownload(actor.RoleID) {
		s.denied(actor, "download", strconv.FormatInt(id, 10), nil, "role may not download")
		return nil, nil, model.FileRecord{}, apierror.Forbidden("your role does not allow downloading files")
	}

	rec, err := s.files.FindByID(ctx, id)
	if err != nil {
		return nil, nil, model.FileRecord{}, err
	}

	file, info, err := s.store.Open(rec.StoredPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, model.FileRecord{}, apierror.NotFound("stored file is missing", rec.StoredPath)
		}
		return nil, nil, model.FileRecord{}, err
	}

	return file, info, rec, nil
}

// Thumbnail returns a cached JPEG thumbnail for an image file, generating it
// on first access. Non-image files are rejected.
func (s *FileService) Thumbnail(ctx context.Context, actor model.Actor, id int64, size int) (*os.File, fs.FileInfo, error) {
	if !authz.CanDownload(actor.RoleID) {
		return nil, nil, apierror.Forbidden("your role does not allow downloading files")
	}
	if size <= 0 {
		size = 256
	}

	rec, err := s.files.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if rec.Type != model.FileTypeImage {
		return nil, nil, apierror.New("UNSUPPORTED_TYPE", "thumbnails are only available for images", string(rec.Type), http.StatusUnsupportedMediaType)
	}

	resolved, err := s.store.Resolve(rec.StoredPath)
	if err != nil {
		return nil, nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, apierror.NotFound("stored file is missing", rec.StoredPath)
		}
		return nil, nil, err
	}

	if err := os.MkdirAll(s.thumbnailRoot, 0o755); err != nil {
		return nil, nil, err
	}

	thumbPath := s.thumbnailPath(resolved, size)
	if thumbInfo, err := os.Stat(thumbPath); err == nil {
		if !thumbInfo.ModTime().Before(info.ModTime()) {
			if thumbFile, openErr := os.Open(thumbPath); openErr == nil {
				return thumbFile, thumbInfo, nil
			}
		}
	}

	return s.generateThumbnail(resolved, thumbPath, size, info)
}

func (s *FileService) generateThumbnail(resolved, thumbPath string, size int, info os.FileInfo) (*os.File, fs.FileInfo, error) {
	file, err := os.Open(resolved)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	src, _, err := image.Decode(file)
	if err != nil {
		return nil, nil, apierror.New("UNSUPPORTED_TYPE", "cannot decode image", err.Error(), http.StatusUnsupportedMediaType)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, nil, apierror.New("UNSUPPORTED_TYPE", "invalid image dimensions", resolved, http.StatusUnsupportedMediaType)
	}

	maxDim := width
	if height > maxDim {
		maxDim = height
	}
	scale := float64(size) / float64(maxDim)
	if scale > 1 {
		scale = 1
	}
	targetWidth := int(math.Round(float64(width) * scale))
	targetHeight := int(math.Round(float64(height) * scale))
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	thumbWriter, err := os.OpenFile(thumbPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, err
	}
	encodeErr := jpeg.Encode(thumbWriter, dst, &jpeg.Options{Quality: 95})
	closeErr := thumbWriter.Close()
	if encodeErr != nil {
		return nil, nil, encodeErr
	}
	if closeErr != nil {
		return nil, nil, closeErr
	}
	_ = os.Chtimes(thumbPath, time.Now().UTC(), info.ModTime())

	thumbFile, err := os.Open(thumbPath)
	if err != nil {
		return nil, nil, err
	}
	thumbInfo, err := os.Stat(thumbPath)
	if err != nil {
		_ = thumbFile.Close()
		return nil, nil, err
	}
	return thumbFile, thumbInfo, nil
}

func (s *FileService) thumbnailPath(resolvedPath string, size int) string {
	hash := sha256.Sum256([]byte(resolvedPath + "|" + strconv.Itoa(size)))
	return filepath.Join(s.thumbnailRoot, hex.EncodeToString(hash[:])+".jpg")
}

// StartOrphanSweep periodically deletes stored files that have no metadata
// record and are older than the grace period. The grace period keeps the
// sweep from racing an in-flight upload whose create call has not landed yet.
func (s *FileService) StartOrphanSweep(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.sweepOrphans(ctx); err != nil && !errors.Is(err, context.Canceled) {
					s.logger.Error("orphan sweep failed", "error", err)
				}
			}
		}
	}()
}

func (s *FileService) sweepOrphans(ctx context.Context) error {
	referenced, err := s.files.ListStoredPaths(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(referenced))
	for _, p := range referenced {
		known[filepath.Base(p)] = struct{}{}
	}

	candidates, err := s.store.ListOlderThan(time.Now().Add(-s.sweepMinAge))
	if err != nil {
		return err
	}

	removed := 0
	for _, name := range candidates {
		if _, ok := known[name]; ok {
			continue
		}
		if err := s.store.Remove(name); err != nil && !os.IsNotExist(err) {
			s.logger.Error("failed to remove orphan file", "fileName", name, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("orphan sweep removed files", "count", removed)
	}
	return nil
}

func (s *FileService) publish(t event.Type, actor model.Actor, resource string, ministry *int64, detail string) {
	s.bus.Publish(event.Event{
		Type:             t,
		Actor:            actor.Audit(),
		Resource:         resource,
		ResourceMinistry: ministry,
		Detail:           detail,
		OccurredAt:       time.Now(),
	})
}

func (s *FileService) denied(actor model.Actor, action string, resource string, ministry *int64, detail string) {
	s.logger.Warn("authorization denied",
		"action", action, "usuarioID", actor.UserID, "rolID", actor.RoleID, "resource", resource)
	s.bus.Publish(event.Event{
		Type:             event.TypeAuthzDenied,
		Actor:            actor.Audit(),
		Resource:         action + ":" + resource,
		ResourceMinistry: ministry,
		Detail:           detail,
		OccurredAt:       time.Now(),
	})
}
