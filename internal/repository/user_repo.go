package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"church-portal/internal/model"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT usuario_id, nombre, email, contrasena, COALESCE(rol_id, 0), ministerio_id
		 FROM usuario WHERE usuario_id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.MinistryID)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT usuario_id, nombre, email, contrasena, COALESCE(rol_id, 0), ministerio_id
		 FROM usuario WHERE lower(email) = lower($1)`, strings.TrimSpace(email)).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.MinistryID)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM usuario WHERE lower(email) = lower($1))`,
		strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) (int64, error) {
	var roleID *int64
	if u.RoleID != 0 {
		roleID = &u.RoleID
	}

	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO usuario (nombre, email, contrasena, rol_id, ministerio_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING usuario_id`,
		u.Name, u.Email, u.PasswordHash, roleID, u.MinistryID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, name string, email string, roleID int64, ministryID *int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE usuario SET nombre = $2, email = $3, rol_id = $4, ministerio_id = $5
		 WHERE usuario_id = $1`,
		id, name, email, roleID, ministryID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE usuario SET contrasena = $2 WHERE usuario_id = $1`,
		id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM usuario WHERE usuario_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.UserListing, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.usuario_id, u.nombre, u.email, u.rol_id, r.nombre_rol,
		        u.ministerio_id, m.nombre_ministerio
		 FROM usuario u
		 LEFT JOIN rol r ON u.rol_id = r.rol_id
		 LEFT JOIN ministerio m ON u.ministerio_id = m.ministerio_id
		 ORDER BY u.nombre ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.UserListing, 0)
	for rows.Next() {
		var u model.UserListing
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.RoleID, &u.RoleName,
			&u.MinistryID, &u.MinistryName); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetResetToken stores the hashed password-reset token and its expiry.
func (r *UserRepository) SetResetToken(ctx context.Context, id int64, tokenHash string, expires time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE usuario SET reset_token_hash = $2, reset_token_expires = $3
		 WHERE usuario_id = $1`,
		id, tokenHash, expires)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// FindByResetToken returns the user holding a non-expired reset token hash.
func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT usuario_id, nombre, email, contrasena, COALESCE(rol_id, 0), ministerio_id
		 FROM usuario
		 WHERE reset_token_hash = $1 AND reset_token_expires > now()`, tokenHash).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.MinistryID)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrResetTokenInvalid
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by reset token: %w", err)
	}
	return u, nil
}

// ResetPassword replaces the password and clears the reset token in one
// statement so a consumed token cannot be replayed.
func (r *UserRepository) ResetPassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE usuario
		 SET contrasena = $2, reset_token_hash = NULL, reset_token_expires = NULL
		 WHERE usuario_id = $1`,
		id, passwordHash)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
