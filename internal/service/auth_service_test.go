package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"church-portal/internal/authz"
	"church-portal/internal/model"
)

func newTestAuthService(users UserStore, ttl time.Duration) *AuthService {
	logger := testLogger()
	return NewAuthService(users, NewLogMailer(logger), logger, "test-secret", ttl)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	t.Run("issues a token carrying the session identity", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, time.Hour)

		users.On("FindByEmail", mock.Anything, "lider@iglesia.org").Return(model.User{
			ID:           7,
			Name:         "Ana",
			Email:        "lider@iglesia.org",
			PasswordHash: hashPassword(t, "secreta1"),
			RoleID:       authz.RoleMinistryLeader,
			MinistryID:   ministry(3),
		}, nil)

		result, err := svc.Login(context.Background(), "Lider@Iglesia.org", "secreta1")
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)
		assert.Equal(t, int64(7), result.User.ID)

		claims, err := svc.ValidateToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), claims.UserID)
		assert.Equal(t, "lider@iglesia.org", claims.Email)
		assert.Equal(t, authz.RoleMinistryLeader, claims.RoleID)
		require.NotNil(t, claims.MinistryID)
		assert.Equal(t, int64(3), *claims.MinistryID)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, time.Hour)

		users.On("FindByEmail", mock.Anything, "lider@iglesia.org").Return(model.User{
			ID:           7,
			Email:        "lider@iglesia.org",
			PasswordHash: hashPassword(t, "secreta1"),
		}, nil)
		users.On("FindByEmail", mock.Anything, "nadie@iglesia.org").
			Return(model.User{}, model.ErrUserNotFound)

		_, errWrongPass := svc.Login(context.Background(), "lider@iglesia.org", "incorrecta")
		_, errUnknown := svc.Login(context.Background(), "nadie@iglesia.org", "secreta1")

		assert.ErrorIs(t, errWrongPass, model.ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknown, model.ErrInvalidCredentials)
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	t.Run("rejects an expired token", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, -time.Minute)

		users.On("FindByEmail", mock.Anything, "lider@iglesia.org").Return(model.User{
			ID:           7,
			Email:        "lider@iglesia.org",
			PasswordHash: hashPassword(t, "secreta1"),
			RoleID:       authz.RoleMinistryLeader,
		}, nil)

		result, err := svc.Login(context.Background(), "lider@iglesia.org", "secreta1")
		require.NoError(t, err)

		_, err = svc.ValidateToken(result.Token)
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		users := new(MockUserStore)
		other := NewAuthService(users, NewLogMailer(testLogger()), testLogger(), "other-secret", time.Hour)
		svc := newTestAuthService(users, time.Hour)

		users.On("FindByEmail", mock.Anything, "lider@iglesia.org").Return(model.User{
			ID:           7,
			Email:        "lider@iglesia.org",
			PasswordHash: hashPassword(t, "secreta1"),
		}, nil)

		result, err := other.Login(context.Background(), "lider@iglesia.org", "secreta1")
		require.NoError(t, err)

		_, err = svc.ValidateToken(result.Token)
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := newTestAuthService(new(MockUserStore), time.Hour)
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})
}

func TestAuthService_Register(t *testing.T) {
	t.Run("duplicate email is refused", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, time.Hour)

		users.On("ExistsByEmail", mock.Anything, "ana@iglesia.org").Return(true, nil)

		_, err := svc.Register(context.Background(), model.RegisterRequest{
			Name: "Ana", Email: "Ana@Iglesia.org", Password: "secreta1",
		})
		assert.ErrorIs(t, err, model.ErrEmailAlreadyExists)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("defaults to the reader role", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, time.Hour)

		users.On("ExistsByEmail", mock.Anything, "ana@iglesia.org").Return(false, nil)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			return u.RoleID == authz.RoleReaderGuest && u.Email == "ana@iglesia.org" && u.PasswordHash != "secreta1"
		})).Return(int64(11), nil)

		id, err := svc.Register(context.Background(), model.RegisterRequest{
			Name: "Ana", Email: "Ana@Iglesia.org", Password: "secreta1",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(11), id)
		users.AssertExpectations(t)
	})
}

func TestAuthService_PasswordReset(t *testing.T) {
	t.Run("stores only a hash of the token", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, time.Hour)

		users.On("FindByEmail", mock.Anything, "ana@iglesia.org").
			Return(model.User{ID: 11, Email: "ana@iglesia.org"}, nil)
		users.On("SetResetToken", mock.Anything, int64(11), mock.MatchedBy(func(hash string) bool {
			// sha256 hex digest
			return len(hash) == 64
		}), mock.Anything).Return(nil)

		err := svc.RequestPasswordReset(context.Background(), "ana@iglesia.org", "https://portal.example.org")
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("unknown email is silently accepted", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, time.Hour)

		users.On("FindByEmail", mock.Anything, "nadie@iglesia.org").
			Return(model.User{}, model.ErrUserNotFound)

		err := svc.RequestPasswordReset(context.Background(), "nadie@iglesia.org", "https://portal.example.org")
		assert.NoError(t, err)
		users.AssertNotCalled(t, "SetResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reset consumes the token and rehashes the password", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, time.Hour)

		users.On("FindByResetToken", mock.Anything, hashResetToken("tok")).
			Return(model.User{ID: 11}, nil)
		users.On("ResetPassword", mock.Anything, int64(11), mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("nueva-clave")) == nil
		})).Return(nil)

		err := svc.ResetPassword(context.Background(), "tok", "nueva-clave")
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("expired or unknown token is rejected", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, time.Hour)

		users.On("FindByResetToken", mock.Anything, mock.Anything).
			Return(model.User{}, model.ErrResetTokenInvalid)

		err := svc.ResetPassword(context.Background(), "tok", "nueva-clave")
		assert.ErrorIs(t, err, model.ErrResetTokenInvalid)
	})
}
