package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"church-portal/internal/model"
	"church-portal/pkg/apierror"
)

// UserAdminStore extends the auth surface with the admin-only operations.
type UserAdminStore interface {
	UserStore
	Update(ctx context.Context, id int64, name string, email string, roleID int64, ministryID *int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.UserListing, error)
}

// UserService is the admin-facing account management. Every caller has
// already passed the admin gate; the one extra rule lives in Delete.
type UserService struct {
	users  UserAdminStore
	logger *slog.Logger
}

func NewUserService(users UserAdminStore, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]model.UserListing, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (int64, error) {
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

	id, err := s.users.Create(ctx, model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       req.RoleID,
		MinistryID:   req.MinistryID,
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("user created by admin", "usuarioID", id, "email", email)
	return id, nil
}

func (s *UserService) Update(ctx context.Context, id int64, req model.UpdateUserRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Email != email {
		exists, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return model.ErrEmailAlreadyExists
		}
	}

	return s.users.Update(ctx, id, strings.TrimSpace(req.Name), email, req.RoleID, req.MinistryID)
}

func (s *UserService) SetPassword(ctx context.Context, id int64, newPassword string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, id, string(hash))
}

// Delete removes an account. An admin cannot delete their own account, which
// keeps the instance from locking itself out.
func (s *UserService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	if actor.UserID == id {
		return apierror.Forbidden("you cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "usuarioID", id, "byUsuarioID", actor.UserID)
	return nil
}
