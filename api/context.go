package api

import (
	"context"
	"errors"

	"github.com/gigbridge/gigbridge/backend/models"
)

type keyType string

const actorKey keyType = "actor"

// ctxWithActor adds the authenticated actor to the context
func ctxWithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ctxGetActor retrieves the authenticated actor from the context
func ctxGetActor(ctx context.Context) (models.Actor, error) {
	ctxValue := ctx.Value(actorKey)
	if ctxValue == nil {
		return models.Actor{}, errors.New("actor not found in context")
	}
	actor, ok := ctxValue.(models.Actor)
	if !ok {
		return models.Actor{}, errors.New("context value is not an actor")
	}
	return actor, nil
}
