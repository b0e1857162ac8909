// Package event carries file-management and authorization events from the
// services to the audit recorder without coupling them to the database.
package event

import (
	"time"

	"church-portal/internal/model"
)

type Type string

const (
	TypeFileUploaded Type = "file.uploaded"
	TypeFileCreated  Type = "file.created"
	TypeFileRenamed  Type = "file.renamed"
	TypeFileDeleted  Type = "file.deleted"
	TypeAuthzDenied  Type = "authz.denied"
)

type Event struct {
	ID               string
	Type             Type
	Actor            model.AuditActor
	Resource         string
	ResourceMinistry *int64
	Detail           string
	OccurredAt       time.Time
}

type Bus interface {
	Publish(e Event)
	// Subscribe returns a receive channel and an unsubscribe function.
	Subscribe() (<-chan Event, func())
}
