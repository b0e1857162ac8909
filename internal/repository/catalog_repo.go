package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"church-portal/internal/model"
)

// pgUniqueViolation is the SQLSTATE for duplicate keys; both catalogs map it
// to a conflict so the API can answer 409.
const pgUniqueViolation = "23505"

type MinistryRepository struct {
	pool *pgxpool.Pool
}

func NewMinistryRepository(pool *pgxpool.Pool) *MinistryRepository {
	return &MinistryRepository{pool: pool}
}

func (r *MinistryRepository) Create(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO ministerio (nombre_ministerio) VALUES ($1) RETURNING ministerio_id`,
		name).Scan(&id)
	if isUniqueViolation(err) {
		return 0, model.ErrDuplicateCatalog
	}
	if err != nil {
		return 0, fmt.Errorf("create ministry: %w", err)
	}
	return id, nil
}

func (r *MinistryRepository) List(ctx context.Context) ([]model.Ministry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ministerio_id, nombre_ministerio FROM ministerio ORDER BY nombre_ministerio ASC`)
	if err != nil {
		return nil, fmt.Errorf("list ministries: %w", err)
	}
	defer rows.Close()

	ministries := make([]model.Ministry, 0)
	for rows.Next() {
		var m model.Ministry
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("scan ministry: %w", err)
		}
		ministries = append(ministries, m)
	}
	return ministries, rows.Err()
}

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) Create(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO rol (nombre_rol) VALUES ($1) RETURNING rol_id`,
		name).Scan(&id)
	if isUniqueViolation(err) {
		return 0, model.ErrDuplicateCatalog
	}
	if err != nil {
		return 0, fmt.Errorf("create role: %w", err)
	}
	return id, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rol_id, nombre_rol FROM rol ORDER BY nombre_rol ASC`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	roles := make([]model.Role, 0)
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
