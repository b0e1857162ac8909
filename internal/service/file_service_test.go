package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"church-portal/internal/authz"
	"church-portal/internal/event"
	"church-portal/internal/model"
	"church-portal/pkg/apierror"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ministry(id int64) *int64 {
	return &id
}

func newTestFileService(files FileStore, store BlobStore) (*FileService, event.Bus) {
	bus := event.NewBus()
	svc := NewFileService(files, store, bus, testLogger(), "/tmp/thumbnails", time.Hour, 24*time.Hour)
	return svc, bus
}

func leader(ministryID int64) model.Actor {
	return model.Actor{
		AuthClaims: model.AuthClaims{UserID: 7, Email: "lider@iglesia.org", RoleID: authz.RoleMinistryLeader, MinistryID: ministry(ministryID)},
		IP:         "10.0.0.1",
	}
}

func TestFileService_Create(t *testing.T) {
	t.Run("derives the stored type from the path, not the client", func(t *testing.T) {
		files := new(MockFileStore)
		svc, _ := newTestFileService(files, new(MockBlobStore))

		files.On("Create", mock.Anything, mock.MatchedBy(func(rec model.FileRecord) bool {
			return rec.Type == model.FileTypePDF && rec.DisplayName == "Acta de reunión" && rec.UploaderID == int64(7)
		})).Return(int64(42), nil)

		id, err := svc.Create(context.Background(), leader(3), model.CreateFileRequest{
			DisplayName: "Acta de reunión",
			StoredPath:  "/uploads/file-1700000000000-abc123.pdf",
			MinistryID:  ministry(3),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
		files.AssertExpectations(t)
	})

	t.Run("leader cannot create for another ministry", func(t *testing.T) {
		files := new(MockFileStore)
		svc, _ := newTestFileService(files, new(MockBlobStore))

		_, err := svc.Create(context.Background(), leader(3), model.CreateFileRequest{
			DisplayName: "informe.pdf",
			StoredPath:  "/uploads/informe.pdf",
			MinistryID:  ministry(5),
		})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 403, apiErr.HTTPStatus)
		assert.Contains(t, apiErr.Message, "own ministry")
		files.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("reader guest cannot create at all", func(t *testing.T) {
		files := new(MockFileStore)
		svc, _ := newTestFileService(files, new(MockBlobStore))

		guest := model.Actor{AuthClaims: model.AuthClaims{UserID: 9, RoleID: authz.RoleReaderGuest, MinistryID: ministry(3)}}
		_, err := svc.Create(context.Background(), guest, model.CreateFileRequest{
			DisplayName: "informe.pdf",
			StoredPath:  "/uploads/informe.pdf",
			MinistryID:  ministry(3),
		})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 403, apiErr.HTTPStatus)
	})

	t.Run("denied create publishes an audit event", func(t *testing.T) {
		files := new(MockFileStore)
		svc, bus := newTestFileService(files, new(MockBlobStore))

		events, unsubscribe := bus.Subscribe()
		defer unsubscribe()

		_, err := svc.Create(context.Background(), leader(3), model.CreateFileRequest{
			DisplayName: "informe.pdf",
			StoredPath:  "/uploads/informe.pdf",
			MinistryID:  ministry(5),
		})
		require.Error(t, err)

		select {
		case e := <-events:
			assert.Equal(t, event.TypeAuthzDenied, e.Type)
			assert.Equal(t, int64(7), e.Actor.UserID)
		case <-time.After(time.Second):
			t.Fatal("expected an authz.denied event")
		}
	})
}

func TestFileService_Rename(t *testing.T) {
	t.Run("decides against the stored ministry", func(t *testing.T) {
		files := new(MockFileStore)
		svc, _ := newTestFileService(files, new(MockBlobStore))

		files.On("FindByID", mock.Anything, int64(42)).
			Return(model.FileRecord{ID: 42, MinistryID: ministry(3), StoredPath: "file-1.pdf"}, nil)
		files.On("Rename", mock.Anything, int64(42), "Nuevo nombre").Return(nil)

		err := svc.Rename(context.Background(), leader(3), 42, "Nuevo nombre")
		require.NoError(t, err)
		files.AssertExpectations(t)
	})

	t.Run("forbids a leader on a foreign record", func(t *testing.T) {
		files := new(MockFileStore)
		svc, _ := newTestFileService(files, new(MockBlobStore))

		files.On("FindByID", mock.Anything, int64(42)).
			Return(model.FileRecord{ID: 42, MinistryID: ministry(5)}, nil)

		err := svc.Rename(context.Background(), leader(3), 42, "Nuevo nombre")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 403, apiErr.HTTPStatus)
		files.AssertNotCalled(t, "Rename", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("forbids a leader on a record without ministry", func(t *testing.T) {
		files := new(MockFileStore)
		svc, _ := newTestFileService(files, new(MockBlobStore))

		files.On("FindByID", mock.Anything, int64(42)).
			Return(model.FileRecord{ID: 42, MinistryID: nil}, nil)

		err := svc.Rename(context.Background(), leader(3), 42, "Nuevo nombre")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 403, apiErr.HTTPStatus)
	})

	t.Run("missing record surfaces not found", func(t *testing.T) {
		files := new(MockFileStore)
		svc, _ := newTestFileService(files, new(MockBlobStore))

		files.On("FindByID", mock.Anything, int64(99)).
			Return(model.FileRecord{}, model.ErrFileNotFound)

		err := svc.Rename(context.Background(), leader(3), 99, "x")
		assert.ErrorIs(t, err, model.ErrFileNotFound)
	})
}

func TestFileService_Delete(t *testing.T) {
	admin := model.Actor{AuthClaims: model.AuthClaims{UserID: 1, RoleID: authz.RoleGeneralAdmin}}

	t.Run("admin deletes any record, physical file first", func(t *testing.T) {
		files := new(MockFileStore)
		store := new(MockBlobStore)
		svc, _ := newTestFileService(files, store)

		files.On("FindByID", mock.Anything, int64(42)).
			Return(model.FileRecord{ID: 42, MinistryID: ministry(5), StoredPath: "file-1.pdf"}, nil)
		store.On("Remove", "file-1.pdf").Return(nil)
		files.On("Delete", mock.Anything, int64(42)).Return(nil)

		err := svc.Delete(context.Background(), admin, 42)
		require.NoError(t, err)
		files.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("missing physical file still removes the record", func(t *testing.T) {
		files := new(MockFileStore)
		store := new(MockBlobStore)
		svc, _ := newTestFileService(files, store)

		files.On("FindByID", mock.Anything, int64(42)).
			Return(model.FileRecord{ID: 42, StoredPath: "file-gone.pdf"}, nil)
		store.On("Remove", "file-gone.pdf").Return(os.ErrNotExist)
		files.On("Delete", mock.Anything, int64(42)).Return(nil)

		err := svc.Delete(context.Background(), admin, 42)
		require.NoError(t, err)
		files.AssertExpectations(t)
	})

	t.Run("unlink failure is logged but the record is still removed", func(t *testing.T) {
		files := new(MockFileStore)
		store := new(MockBlobStore)
		svc, _ := newTestFileService(files, store)

		files.On("FindByID", mock.Anything, int64(42)).
			Return(model.FileRecord{ID: 42, StoredPath: "file-locked.pdf"}, nil)
		store.On("Remove", "file-locked.pdf").Return(errors.New("permission denied"))
		files.On("Delete", mock.Anything, int64(42)).Return(nil)

		err := svc.Delete(context.Background(), admin, 42)
		require.NoError(t, err)
	})

	t.Run("standard user cannot delete", func(t *testing.T) {
		files := new(MockFileStore)
		store := new(MockBlobStore)
		svc, _ := newTestFileService(files, store)

		standard := model.Actor{AuthClaims: model.AuthClaims{UserID: 3, RoleID: authz.RoleStandardUser, MinistryID: ministry(3)}}
		files.On("FindByID", mock.Anything, int64(42)).
			Return(model.FileRecord{ID: 42, MinistryID: ministry(3)}, nil)

		err := svc.Delete(context.Background(), standard, 42)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 403, apiErr.HTTPStatus)
		store.AssertNotCalled(t, "Remove", mock.Anything)
	})
}

func TestFileService_Upload(t *testing.T) {
	t.Run("reader guest cannot upload", func(t *testing.T) {
		store := new(MockBlobStore)
		svc, _ := newTestFileService(new(MockFileStore), store)

		guest := model.Actor{AuthClaims: model.AuthClaims{UserID: 9, RoleID: authz.RoleReaderGuest}}
		_, err := svc.Upload(context.Background(), guest, strings.NewReader("data"), "a.pdf", "application/pdf")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 403, apiErr.HTTPStatus)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stores and reports the generated reference", func(t *testing.T) {
		store := new(MockBlobStore)
		svc, _ := newTestFileService(new(MockFileStore), store)

		reader := strings.NewReader("data")
		store.On("Save", reader, "informe.pdf", "application/pdf").
			Return(model.StoredFile{Name: "file-1700000000000-abc.pdf", Path: "/uploads/file-1700000000000-abc.pdf", Size: 4}, nil)

		stored, err := svc.Upload(context.Background(), leader(3), reader, "informe.pdf", "application/pdf")
		require.NoError(t, err)
		assert.Equal(t, "file-1700000000000-abc.pdf", stored.Name)
		store.AssertExpectations(t)
	})
}

func TestFileService_Download(t *testing.T) {
	t.Run("reader guest is refused", func(t *testing.T) {
		svc, _ := newTestFileService(new(MockFileStore), new(MockBlobStore))

		guest := model.Actor{AuthClaims: model.AuthClaims{UserID: 9, RoleID: authz.RoleReaderGuest}}
		_, _, _, err := svc.Download(context.Background(), guest, 42)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 403, apiErr.HTTPStatus)
	})

	t.Run("missing stored file maps to not found", func(t *testing.T) {
		files := new(MockFileStore)
		store := new(MockBlobStore)
		svc, _ := newTestFileService(files, store)

		files.On("FindByID", mock.Anything, int64(42)).
			Return(model.FileRecord{ID: 42, StoredPath: "file-gone.pdf"}, nil)
		store.On("Open", "file-gone.pdf").Return(nil, nil, os.ErrNotExist)

		_, _, _, err := svc.Download(context.Background(), leader(3), 42)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 404, apiErr.HTTPStatus)
	})
}

func TestFileService_OrphanSweep(t *testing.T) {
	t.Run("removes only unreferenced old files", func(t *testing.T) {
		files := new(MockFileStore)
		store := new(MockBlobStore)
		svc, _ := newTestFileService(files, store)

		files.On("ListStoredPaths", mock.Anything).
			Return([]string{"/uploads/file-kept.pdf"}, nil)
		store.On("ListOlderThan", mock.Anything).
			Return([]string{"file-kept.pdf", "file-orphan.pdf"}, nil)
		store.On("Remove", "file-orphan.pdf").Return(nil)

		err := svc.sweepOrphans(context.Background())
		require.NoError(t, err)
		store.AssertNotCalled(t, "Remove", "file-kept.pdf")
		store.AssertExpectations(t)
	})

	t.Run("a failed removal does not abort the sweep", func(t *testing.T) {
		files := new(MockFileStore)
		store := new(MockBlobStore)
		svc, _ := newTestFileService(files, store)

		files.On("ListStoredPaths", mock.Anything).Return([]string{}, nil)
		store.On("ListOlderThan", mock.Anything).
			Return([]string{"file-a.pdf", "file-b.pdf"}, nil)
		store.On("Remove", "file-a.pdf").Return(errors.New("busy"))
		store.On("Remove", "file-b.pdf").Return(nil)

		err := svc.sweepOrphans(context.Background())
		require.NoError(t, err)
		store.AssertExpectations(t)
	})
}
