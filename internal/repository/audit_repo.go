package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"church-portal/internal/model"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Insert(ctx context.Context, entry model.AuditEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO auditoria
		 (action, occurred_at, actor_user_id, actor_email, actor_role_id, actor_ip,
		  status, resource, resource_ministry, detail)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.Action, entry.OccurredAt,
		entry.Actor.UserID, entry.Actor.Email, entry.Actor.RoleID, entry.Actor.IP,
		entry.Status, entry.Resource, entry.ResourceMinistry, entry.Detail)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, error) {
	if query.Limit <= 0 {
		query.Limit = 50
	}
	if query.Limit > 200 {
		query.Limit = 200
	}

	where := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if action := strings.TrimSpace(query.Action); action != "" {
		args = append(args, action)
		where = append(where, fmt.Sprintf("lower(action) = lower($%d)", len(args)))
	}
	if status := strings.TrimSpace(query.Status); status != "" {
		args = append(args, status)
		where = append(where, fmt.Sprintf("lower(status) = lower($%d)", len(args)))
	}

	sql := `SELECT id, action, occurred_at, actor_user_id, actor_email, actor_role_id,
	               actor_ip, status, resource, resource_ministry, detail
	        FROM auditoria`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, query.Limit)
	sql += fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.AuditEntry, 0)
	for rows.Next() {
		var e model.AuditEntry
		var actorUserID, actorRoleID *int64
		var actorEmail, actorIP, resource, detail *string
		if err := rows.Scan(&e.ID, &e.Action, &e.OccurredAt, &actorUserID, &actorEmail,
			&actorRoleID, &actorIP, &e.Status, &resource, &e.ResourceMinistry, &detail); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		if actorUserID != nil {
			e.Actor.UserID = *actorUserID
		}
		if actorRoleID != nil {
			e.Actor.RoleID = *actorRoleID
		}
		if actorEmail != nil {
			e.Actor.Email = *actorEmail
		}
		if actorIP != nil {
			e.Actor.IP = *actorIP
		}
		if resource != nil {
			e.Resource = *resource
		}
		if detail != nil {
			e.Detail = *detail
		}

		entries = append(entries, e)
	}
	return entries, rows.Err()
}
