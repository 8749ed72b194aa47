package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/models"
)

// actorFrom pulls the authenticated actor the middleware stored on the
// request context.
func actorFrom(r *http.Request) (models.Actor, error) {
	actor, err := ctxGetActor(r.Context())
	if err != nil {
		return models.Actor{}, errs.Unauthorized
	}
	return actor, nil
}

// uuidParam parses a UUID path parameter.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewValidationError(name, "missing "+name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewValidationError(name, "invalid "+name)
	}
	return id, nil
}
