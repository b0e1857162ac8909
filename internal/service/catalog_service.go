package service

import (
	"context"
	"strings"

	"church-portal/internal/model"
	"church-portal/pkg/apierror"
)

type MinistryStore interface {
	Create(ctx context.Context, name string) (int64, error)
	List(ctx context.Context) ([]model.Ministry, error)
}

type RoleStore interface {
	Create(ctx context.Context, name string) (int64, error)
	List(ctx context.Context) ([]model.Role, error)
}

// CatalogService manages the ministry and role reference tables.
type CatalogService struct {
	ministries MinistryStore
	roles      RoleStore
}

func NewCatalogService(ministries MinistryStore, roles RoleStore) *CatalogService {
	return &CatalogService{ministries: ministries, roles: roles}
}

func (s *CatalogService) ListMinistries(ctx context.Context) ([]model.Ministry, error) {
	return s.ministries.List(ctx)
}

func (s *CatalogService) CreateMinistry(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apierror.BadRequest("ministry name is required", "")
	}
	return s.ministries.Create(ctx, name)
}

func (s *CatalogService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.roles.List(ctx)
}

func (s *CatalogService) CreateRole(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apierror.BadRequest("role name is required", "")
	}
	return s.roles.Create(ctx, name)
}
