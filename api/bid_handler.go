package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/models"
	"github.com/gigbridge/gigbridge/backend/services"
)

type bidHandler struct {
	responder Responder
	logger    zerolog.Logger
	ledger    *services.ProposalLedger
}

func newBidHandler(ledger *services.ProposalLedger) bidHandler {
	logger := log.With().Str("handlerName", "bidHandler").Logger()

	return bidHandler{
		responder: NewResponder(logger),
		logger:    logger,
		ledger:    ledger,
	}
}

// submitBid files a proposal against an open project
func (h bidHandler) submitBid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input services.SubmitProposalInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode bid request body")
			h.responder.WriteError(w, errs.BadRequest("malformed request body"))
			return
		}

		proposal, err := h.ledger.Submit(r.Context(), actor, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusCreated, "bid submitted", proposal)
	}
}

// listMyBids returns the calling freelancer's proposals
func (h bidHandler) listMyBids() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		proposals, err := h.ledger.ListMine(r.Context(), actor)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "bids fetched", proposals)
	}
}

// listProjectBids returns all proposals on a project, owner and admins only
func (h bidHandler) listProjectBids() http.HandlerFunc {
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

		proposals, err := h.ledger.ListByProject(r.Context(), actor, projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, "bids fetched", proposals)
	}
}

// acceptBid elects the winning proposal and moves the project in progress
func (h bidHandler) acceptBid() http.HandlerFunc {
	return h.resolve(func(r *http.Request, actor models.Actor, bidID uuid.UUID) (*models.Proposal, error) {
		return h.ledger.Accept(r.Context(), actor, bidID)
	}, "bid accepted")
}

// rejectBid declines a pending proposal, owner only
func (h bidHandler) rejectBid() http.HandlerFunc {
	return h.resolve(func(r *http.Request, actor models.Actor, bidID uuid.UUID) (*models.Proposal, error) {
		return h.ledger.Reject(r.Context(), actor, bidID)
	}, "bid rejected")
}

// withdrawBid retracts a pending proposal, submitter only
func (h bidHandler) withdrawBid() http.HandlerFunc {
	return h.resolve(func(r *http.Request, actor models.Actor, bidID uuid.UUID) (*models.Proposal, error) {
		return h.ledger.Withdraw(r.Context(), actor, bidID)
	}, "bid withdrawn")
}

func (h bidHandler) resolve(op func(*http.Request, models.Actor, uuid.UUID) (*models.Proposal, error), message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		bidID, err := uuidParam(r, "bidID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		proposal, err := op(r, actor, bidID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, message, proposal)
	}
}
