package service

import (
	"context"
	"log/slog"

	"church-portal/internal/event"
	"church-portal/internal/model"
)

type AuditStore interface {
	Insert(ctx context.Context, entry model.AuditEntry) error
	List(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, error)
}

// AuditService turns bus events into persistent audit entries and serves the
// admin audit view.
type AuditService struct {
	store  AuditStore
	bus    event.Bus
	logger *slog.Logger
}

func NewAuditService(store AuditStore, bus event.Bus, logger *slog.Logger) *AuditService {
	return &AuditService{store: store, bus: bus, logger: logger}
}

// StartRecorder consumes the event bus until ctx is cancelled. Recording is
// best-effort: a failed insert is logged and dropped, never retried, so the
// trail can't back-pressure the request path.
func (s *AuditService) StartRecorder(ctx context.Context) {
	events, unsubscribe := s.bus.Subscribe()

	go func() {
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				if err := s.store.Insert(ctx, entryFromEvent(e)); err != nil {
					s.logger.Error("failed to record audit entry", "action", string(e.Type), "error", err)
				}
			}
		}
	}()
}

func (s *AuditService) List(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, error) {
	return s.store.List(ctx, query)
}

func entryFromEvent(e event.Event) model.AuditEntry {
	status := "ok"
	if e.Type == event.TypeAuthzDenied {
		status = "denied"
	}
	return model.AuditEntry{
		Action:           string(e.Type),
		OccurredAt:       e.OccurredAt,
		Actor:            e.Actor,
		Status:           status,
		Resource:         e.Resource,
		ResourceMinistry: e.ResourceMinistry,
		Detail:           e.Detail,
	}
}
