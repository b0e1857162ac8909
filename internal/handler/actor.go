package handler

import (
	"net/http"

	"church-portal/internal/middleware"
	"church-portal/internal/model"
)

// actorFromRequest returns the authenticated identity placed in the context
// by the auth middleware. Routes behind RequireAuth always have one.
func actorFromRequest(r *http.Request) model.Actor {
	actor, _ := middleware.ActorFromContext(r.Context())
	return actor
}
