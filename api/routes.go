package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the engagement lifecycle surface. Everything except the
// health check and the approved-project listing requires a bearer token.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/api/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Public reads
	r.Get("/api/projects/approved", handlers.projectHandler.listApproved())

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(requestLogging)

		// Project endpoints
		r.Post("/api/projects", handlers.projectHandler.createProject())
		r.Get("/api/projects/{projectID}", handlers.projectHandler.getProject())
		r.Get("/api/projects/owner/{ownerID}", handlers.projectHandler.listByOwner())
		r.Patch("/api/projects/{projectID}/status", handlers.projectHandler.transitionProject())
		r.Get("/api/projects/{projectID}/progress", handlers.projectHandler.getProgress())
		r.Get("/api/projects/{projectID}/dashboard", handlers.projectHandler.getDashboard())

		// Proposal endpoints
		r.Post("/api/bids", handlers.bidHandler.submitBid())
		r.Get("/api/bids/my", handlers.bidHandler.listMyBids())
		r.Get("/api/bids/project/{projectID}", handlers.bidHandler.listProjectBids())
		r.Patch("/api/bids/{bidID}/accept", handlers.bidHandler.acceptBid())
		r.Patch("/api/bids/{bidID}/reject", handlers.bidHandler.rejectBid())
		r.Patch("/api/bids/{bidID}/withdraw", handlers.bidHandler.withdrawBid())

		// Sprint planning endpoints
		r.Post("/api/sprint-planning/{projectID}", handlers.sprintHandler.planSprints())
		r.Get("/api/sprint-planning/{projectID}", handlers.sprintHandler.listSprints())
		r.Patch("/api/sprint-planning/{sprintID}", handlers.sprintHandler.startSprint())

		// Work submission endpoints
		r.Post("/api/work-submissions", handlers.sprintHandler.submitWork())
		r.Patch("/api/work-submissions/{submissionID}/review", handlers.sprintHandler.beginReview())
		r.Patch("/api/work-submissions/{submissionID}/status", handlers.sprintHandler.reviewSubmission())
		r.Patch("/api/work-submissions/{submissionID}/resubmit", handlers.sprintHandler.resubmit())
		r.Get("/api/work-submissions/project/{projectID}", handlers.sprintHandler.listSubmissions())
		r.Get("/api/work-submissions/sprint/{sprintID}", handlers.sprintHandler.listSprintSubmissions())

		// Review endpoints
		r.Post("/api/reviews", handlers.reviewHandler.submitReview())
		r.Get("/api/reviews/eligibility/{projectID}", handlers.reviewHandler.getEligibility())
		r.Get("/api/reviews/user/{userID}", handlers.reviewHandler.listUserReviews())
		r.Get("/api/reviews/project/{projectID}", handlers.reviewHandler.listProjectReviews())
	})
}
