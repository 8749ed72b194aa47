package api

import (
	"github.com/gigbridge/gigbridge/backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(store services.Store) *routeHandlers {
	registry := services.NewProjectRegistry(store)
	tracker := services.NewSprintTracker(store)
	gate := services.NewReviewGate(store)

	return &routeHandlers{
		projectHandler: newProjectHandler(registry, tracker, gate),
		bidHandler:     newBidHandler(services.NewProposalLedger(store)),
		sprintHandler:  newSprintHandler(tracker),
		reviewHandler:  newReviewHandler(gate),
	}
}
