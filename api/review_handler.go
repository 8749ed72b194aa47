package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/services"
)

type reviewHandler struct {
	responder Responder
	logger    zerolog.Logger
	gate      *services.ReviewGate
}

func newReviewHandler(gate *services.ReviewGate) reviewHandler {
	logger := log.With().Str("handlerName", "reviewHandler").Logger()

	return reviewHandler{
		responder: NewResponder(logger),
		logger:    logger,
		gate:      gate,
	}
}

// submitReview records rated feedback between the engagement parties
func (h reviewHandler) submitReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input services.SubmitReviewInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode review request body")
			h.responder.WriteError(w, errs.BadRequest("malformed request body"))
			return
		}

		review, err := h.gate.SubmitReview(r.Context(), actor, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusCreated, "review recorded", review)
	}
}

type eligibilityResponse struct {
	ProjectID string `json:"projectId"`
	Eligible  bool   `json:"eligible"`
	Threshold int    `json:"threshold"`
}

// getEligibility reports whether reviews are open for a project
func (h reviewHandler) getEligibility() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		eligible, err := h.gate.IsEligible(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "eligibility computed", eligibilityResponse{
			ProjectID: projectID.String(),
			Eligible:  eligible,
			Threshold: services.EligibilityThreshold,
		})
	}
}

// listUserReviews returns the reviews a user has received
func (h reviewHandler) listUserReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuidParam(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		reviews, err := h.gate.ListByUser(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "reviews fetched", reviews)
	}
}

// listProjectReviews returns the reviews filed for a project
func (h reviewHandler) listProjectReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		reviews, err := h.gate.ListByProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "reviews fetched", reviews)
	}
}
