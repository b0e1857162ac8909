package service

import (
	"context"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/stretchr/testify/mock"

	"church-portal/internal/model"
)

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Create(ctx context.Context, rec model.FileRecord) (int64, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFileStore) FindByID(ctx context.Context, id int64) (model.FileRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.FileRecord), args.Error(1)
}

func (m *MockFileStore) ListAll(ctx context.Context) ([]model.FileListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FileListing), args.Error(1)
}

func (m *MockFileStore) ListByMinistry(ctx context.Context, ministryID int64) ([]model.FileListing, error) {
	args := m.Called(ctx, ministryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FileListing), args.Error(1)
}

func (m *MockFileStore) Rename(ctx context.Context, id int64, displayName string) error {
	args := m.Called(ctx, id, displayName)
	return args.Error(0)
}

func (m *MockFileStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFileStore) ListStoredPaths(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Save(reader io.Reader, declaredName string, declaredMIME string) (model.StoredFile, error) {
	args := m.Called(reader, declaredName, declaredMIME)
	return args.Get(0).(model.StoredFile), args.Error(1)
}

func (m *MockBlobStore) Resolve(storedRef string) (string, error) {
	args := m.Called(storedRef)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Open(storedRef string) (*os.File, fs.FileInfo, error) {
	args := m.Called(storedRef)
	var file *os.File
	if args.Get(0) != nil {
		file = args.Get(0).(*os.File)
	}
	var info fs.FileInfo
	if args.Get(1) != nil {
		info = args.Get(1).(fs.FileInfo)
	}
	return file, info, args.Error(2)
}

func (m *MockBlobStore) Remove(storedRef string) error {
	args := m.Called(storedRef)
	return args.Error(0)
}

func (m *MockBlobStore) ListOlderThan(cutoff time.Time) ([]string, error) {
	args := m.Called(cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, u model.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserStore) SetResetToken(ctx context.Context, id int64, tokenHash string, expires time.Time) error {
	args := m.Called(ctx, id, tokenHash, expires)
	return args.Error(0)
}

func (m *MockUserStore) FindByResetToken(ctx context.Context, tokenHash string) (model.User, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) ResetPassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}
