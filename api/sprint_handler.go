package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/services"
)

type sprintHandler struct {
	responder Responder
	logger    zerolog.Logger
	tracker   *services.SprintTracker
}

func newSprintHandler(tracker *services.SprintTracker) sprintHandler {
	logger := log.With().Str("handlerName", "sprintHandler").Logger()

	return sprintHandler{
		responder: NewResponder(logger),
		logger:    logger,
		tracker:   tracker,
	}
}

type planSprintsRequest struct {
	Sprints []services.SprintSpec `json:"sprints"`
}

// planSprints lays out the delivery plan for a project
func (h sprintHandler) planSprints() http.HandlerFunc {
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

		var req planSprintsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode sprint plan request body")
			h.responder.WriteError(w, errs.BadRequest("malformed request body"))
			return
		}

		sprints, err := h.tracker.PlanSprints(r.Context(), actor, projectID, req.Sprints)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusCreated, "sprints planned", sprints)
	}
}

// listSprints returns the sprints of a project
func (h sprintHandler) listSprints() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		sprints, err := h.tracker.ListSprints(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "sprints fetched", sprints)
	}
}

// startSprint moves a sprint from planning to in-progress
func (h sprintHandler) startSprint() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		sprintID, err := uuidParam(r, "sprintID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		sprint, err := h.tracker.StartSprint(r.Context(), actor, sprintID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "sprint started", sprint)
	}
}

// submitWork records a freelancer's delivery against a sprint
func (h sprintHandler) submitWork() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input services.SubmitWorkInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode work submission request body")
			h.responder.WriteError(w, errs.BadRequest("malformed request body"))
			return
		}

		submission, err := h.tracker.SubmitWork(r.Context(), actor, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusCreated, "work submitted", submission)
	}
}

// beginReview marks a pending submission as under review
func (h sprintHandler) beginReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		submissionID, err := uuidParam(r, "submissionID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		submission, err := h.tracker.BeginReview(r.Context(), actor, submissionID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "submission under review", submission)
	}
}

// reviewSubmission applies the client's approve or reject decision
func (h sprintHandler) reviewSubmission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		submissionID, err := uuidParam(r, "submissionID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input services.ReviewInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.responder.WriteError(w, errs.BadRequest("malformed request body"))
			return
		}

		submission, err := h.tracker.ReviewSubmission(r.Context(), actor, submissionID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "submission reviewed", submission)
	}
}

// resubmit reopens a rejected submission
func (h sprintHandler) resubmit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		submissionID, err := uuidParam(r, "submissionID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		submission, err := h.tracker.Resubmit(r.Context(), actor, submissionID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "submission reopened", submission)
	}
}

// listSubmissions returns a project's work submissions
func (h sprintHandler) listSubmissions() http.HandlerFunc {
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

		submissions, err := h.tracker.ListSubmissions(r.Context(), actor, projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "submissions fetched", submissions)
	}
}

// listSprintSubmissions returns the submissions delivered against a sprint
func (h sprintHandler) listSprintSubmissions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		sprintID, err := uuidParam(r, "sprintID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		submissions, err := h.tracker.ListSprintSubmissions(r.Context(), actor, sprintID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "submissions fetched", submissions)
	}
}
