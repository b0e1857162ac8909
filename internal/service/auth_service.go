package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"church-portal/internal/authz"
	"church-portal/internal/model"
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) (int64, error)
	SetResetToken(ctx context.Context, id int64, tokenHash string, expires time.Time) error
	FindByResetToken(ctx context.Context, tokenHash string) (model.User, error)
	ResetPassword(ctx context.Context, id int64, passwordHash string) error
}

// Mailer delivers password-reset links. The default implementation only logs
// the link; outbound mail is wired per deployment.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email string, resetLink string) error
}

type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, email string, resetLink string) error {
	m.logger.Info("password reset requested", "email", email, "resetLink", resetLink)
	return nil
}

type authClaims struct {
	model.AuthClaims
	jwt.RegisteredClaims
}

type AuthService struct {
	users     UserStore
	mailer    Mailer
	logger    *slog.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
	resetTTL  time.Duration
}

func NewAuthService(users UserStore, mailer Mailer, logger *slog.Logger, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		mailer:    mailer,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		resetTTL:  time.Hour,
	}
}

// Login verifies the credentials and issues a signed session token. The token
// carries the full session identity so the file endpoints never re-read the
// user row per request.
func (s *AuthService) Login(ctx context.Context, email string, password string) (model.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.LoginResult{}, model.ErrInvalidCredentials
		}
		return model.LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.LoginResult{}, model.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return model.LoginResult{}, err
	}

	return model.LoginResult{
		Token: token,
		User: model.AuthUser{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			RoleID:     user.RoleID,
			MinistryID: user.MinistryID,
		},
	}, nil
}

// Register creates a self-service account. Role and ministry default to the
// least-privileged values when omitted.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (int64, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, model.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	roleID := authz.RoleReaderGuest
	if req.RoleID != nil {
		roleID = *req.RoleID
	}

	id, err := s.users.Create(ctx, model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       roleID,
		MinistryID:   req.MinistryID,
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("user registered", "usuarioID", id, "email", email, "rolID", roleID)
	return id, nil
}

func (s *AuthService) issueToken(user model.User) (string, error) {
	now := time.Now()
	claims := authClaims{
		AuthClaims: model.AuthClaims{
			UserID:     user.ID,
			Email:      user.Email,
			RoleID:     user.RoleID,
			MinistryID: user.MinistryID,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a bearer token and returns the session
// identity it carries.
func (s *AuthService) ValidateToken(tokenString string) (model.AuthClaims, error) {
	var claims authClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return model.AuthClaims{}, model.ErrUnauthorized
	}
	return claims.AuthClaims, nil
}

// RequestPasswordReset issues a single-use reset token. Only the SHA-256 of
// the token is stored; the cleartext goes out in the mailed link. An unknown
// email is not an error, so the endpoint cannot be used to probe accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string, resetBaseURL string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.logger.Info("password reset for unknown email", "email", email)
			return nil
		}
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	if err := s.users.SetResetToken(ctx, user.ID, hashResetToken(token), time.Now().Add(s.resetTTL)); err != nil {
		return err
	}

	link := strings.TrimRight(resetBaseURL, "/") + "/reset-password/" + token
	return s.mailer.SendPasswordReset(ctx, user.Email, link)
}

// VerifyResetToken reports whether the token is known and unexpired.
func (s *AuthService) VerifyResetToken(ctx context.Context, token string) error {
	_, err := s.users.FindByResetToken(ctx, hashResetToken(token))
	return err
}

// ResetPassword consumes a reset token and replaces the password. The token
// is cleared in the same statement so it cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	user, err := s.users.FindByResetToken(ctx, hashResetToken(token))
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.ResetPassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	s.logger.Info("password reset completed", "usuarioID", user.ID)
	return nil
}

// UserInfo re-reads the user row so role or ministry changes made after the
// token was issued show up without a new login.
func (s *AuthService) UserInfo(ctx context.Context, userID int64) (model.AuthClaims, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.AuthClaims{}, err
	}
	return model.AuthClaims{
		UserID:     user.ID,
		Email:      user.Email,
		RoleID:     user.RoleID,
		MinistryID: user.MinistryID,
	}, nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
