package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/models"
	"github.com/gigbridge/gigbridge/backend/services"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	registry  *services.ProjectRegistry
	tracker   *services.SprintTracker
	gate      *services.ReviewGate
}

func newProjectHandler(registry *services.ProjectRegistry, tracker *services.SprintTracker, gate *services.ReviewGate) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		registry:  registry,
		tracker:   tracker,
		gate:      gate,
	}
}

// createProject posts a new project in pending status
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input services.CreateProjectInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.BadRequest("malformed request body"))
			return
		}

		project, err := h.registry.Create(r.Context(), actor, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusCreated, "project created", project)
	}
}

// getProject retrieves a single project by ID
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.registry.Get(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "project fetched", project)
	}
}

// listByOwner retrieves the projects posted by a client
func (h projectHandler) listByOwner() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := uuidParam(r, "ownerID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := h.registry.ListByOwner(r.Context(), ownerID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "projects fetched", projects)
	}
}

// listApproved retrieves the projects currently open for bidding
func (h projectHandler) listApproved() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.registry.ListApproved(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "projects fetched", projects)
	}
}

type transitionRequest struct {
	Event services.ProjectEvent `json:"event"`
}

// transitionProject applies a status event (approve, cancel, complete)
func (h projectHandler) transitionProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.BadRequest("malformed request body"))
			return
		}

		project, err := h.registry.Transition(r.Context(), actor, projectID, req.Event)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "project transitioned", project)
	}
}

type progressResponse struct {
	ProjectID string `json:"projectId"`
	Progress  int    `json:"progress"`
}

// getProgress reports delivery progress as a percentage
func (h projectHandler) getProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		progress, err := h.tracker.Progress(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "progress computed", progressResponse{
			ProjectID: projectID.String(),
			Progress:  progress,
		})
	}
}

type dashboardResponse struct {
	Project        *models.Project `json:"project"`
	Sprints        []models.Sprint `json:"sprints"`
	Progress       int             `json:"progress"`
	ReviewEligible bool            `json:"reviewEligible"`
}

// getDashboard aggregates the project, its sprints, delivery progress and
// review eligibility in one round trip
func (h projectHandler) getDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var resp dashboardResponse
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			project, err := h.registry.Get(ctx, projectID)
			if err != nil {
				return err
			}
			resp.Project = project
			return nil
		})
		g.Go(func() error {
			sprints, err := h.tracker.ListSprints(ctx, projectID)
			if err != nil {
				return err
			}
			resp.Sprints = sprints
			return nil
		})
		g.Go(func() error {
			progress, err := h.tracker.Progress(ctx, projectID)
			if err != nil {
				return err
			}
			resp.Progress = progress
			return nil
		})
		g.Go(func() error {
			eligible, err := h.gate.IsEligible(ctx, projectID)
			if err != nil {
				return err
			}
			resp.ReviewEligible = eligible
			return nil
		})
		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "dashboard fetched", resp)
	}
}
