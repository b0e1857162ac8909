package model

import "time"

type AuditActor struct {
	UserID int64  `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	RoleID int64  `json:"role_id,omitempty"`
	IP     string `json:"ip,omitempty"`
}

// AuditEntry records an authorization denial or a file mutation. Resource is
// the file id (or path) acted on; ResourceMinistry preserves the ministry the
// decision was evaluated against.
type AuditEntry struct {
	ID               int64      `json:"id"`
	Action           string     `json:"action"`
	OccurredAt       time.Time  `json:"occurred_at"`
	Actor            AuditActor `json:"actor"`
	Status           string     `json:"status"`
	Resource         string     `json:"resource,omitempty"`
	ResourceMinistry *int64     `json:"resource_ministry,omitempty"`
	Detail           string     `json:"detail,omitempty"`
}

type AuditQuery struct {
	Action string
	Status string
	Limit  int
}
