package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/models"
)

// ProposalLedger owns bids per project and enforces single-winner semantics:
// at most one proposal of a project is ever accepted.
type ProposalLedger struct {
	store  Store
	logger zerolog.Logger
}

func NewProposalLedger(store Store) *ProposalLedger {
	return &ProposalLedger{
		store:  store,
		logger: log.With().Str("service", "proposalLedger").Logger(),
	}
}

// SubmitProposalInput carries the fields of a freelancer's bid.
type SubmitProposalInput struct {
	ProjectID   uuid.UUID `json:"projectId"`
	Amount      int64     `json:"amount"`
	CoverLetter string    `json:"coverLetter"`
	ResumeURL   *string   `json:"resumeUrl,omitempty"`
}

// Submit files a pending proposal against a project that is accepting bids.
func (l *ProposalLedger) Submit(ctx context.Context, actor models.Actor, input SubmitProposalInput) (*models.Proposal, error) {
	if actor.Role != models.RoleFreelancer {
		return nil, errs.NewAuthorizationError("only freelancers can submit proposals")
	}
	if input.CoverLetter == "" {
		return nil, errs.NewValidationError("coverLetter", "cover letter is required")
	}

	var proposal *models.Proposal
	err := l.store.InTx(ctx, func(s Store) error {
		project, err := s.Projects().FindByID(ctx, input.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return errs.NewNotFound("project")
		}
		if !project.Status.AcceptingProposals() {
			return errs.NewValidationError("projectId", "project is not accepting proposals")
		}
		if project.OwnerID == actor.ID {
			return errs.NewAuthorizationError("project owners cannot bid on their own projects")
		}
		if input.Amount < project.MinimumBid {
			return errs.NewValidationError("amount", "bid amount is below the project minimum")
		}

		open, err := s.Proposals().HasOpenProposal(ctx, input.ProjectID, actor.ID)
		if err != nil {
			return err
		}
		if open {
			return errs.NewValidationError("projectId", "freelancer already has an open proposal on this project")
		}

		proposal = &models.Proposal{
			ID:           uuid.New(),
			ProjectID:    input.ProjectID,
			FreelancerID: actor.ID,
			Amount:       input.Amount,
			CoverLetter:  input.CoverLetter,
			ResumeURL:    input.ResumeURL,
			Status:       models.ProposalPending,
		}
		return s.Proposals().Create(ctx, proposal)
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("proposalID", proposal.ID.String()).
		Str("projectID", input.ProjectID.String()).
		Int64("amount", input.Amount).
		Msg("proposal submitted")
	return proposal, nil
}

// Accept marks a proposal as the winner and moves the project to
// in-progress. The single-winner check, the proposal update and the project
// transition run in one transaction, so two racing Accept calls on the same
// project cannot both succeed. Competing pending proposals stay pending
// until explicitly rejected or withdrawn.
func (l *ProposalLedger) Accept(ctx context.Context, actor models.Actor, proposalID uuid.UUID) (*models.Proposal, error) {
	var accepted *models.Proposal
	err := l.store.InTx(ctx, func(s Store) error {
		proposal, err := s.Proposals().FindByID(ctx, proposalID)
		if err != nil {
			return err
		}
		if proposal == nil {
			return errs.NewNotFound("proposal")
		}

		project, err := s.Projects().FindByID(ctx, proposal.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return errs.NewNotFound("project")
		}
		if project.OwnerID != actor.ID {
			return errs.NewAuthorizationError("only the project owner can accept a proposal")
		}
		if proposal.Status != models.ProposalPending {
			return errs.NewInvalidTransitionError("proposal", string(proposal.Status), string(models.ProposalAccepted))
		}

		winner, err := s.Proposals().AcceptedForProject(ctx, proposal.ProjectID)
		if err != nil {
			return err
		}
		if winner != nil {
			return errs.NewConflictError("another proposal is already accepted for this project")
		}

		next, err := nextProjectStatus(project.Status, EventBidAccepted)
		if err != nil {
			return err
		}
		accepted, err = s.Proposals().UpdateStatus(ctx, proposalID, models.ProposalAccepted)
		if err != nil {
			return err
		}
		_, err = s.Projects().UpdateStatus(ctx, project.ID, next, project.Version)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("proposalID", proposalID.String()).
		Str("projectID", accepted.ProjectID.String()).
		Msg("proposal accepted, project in progress")
	return accepted, nil
}

// Reject declines a pending proposal. Owner only.
func (l *ProposalLedger) Reject(ctx context.Context, actor models.Actor, proposalID uuid.UUID) (*models.Proposal, error) {
	return l.resolve(ctx, actor, proposalID, models.ProposalRejected)
}

// Withdraw retracts a pending proposal. Submitter only.
func (l *ProposalLedger) Withdraw(ctx context.Context, actor models.Actor, proposalID uuid.UUID) (*models.Proposal, error) {
	return l.resolve(ctx, actor, proposalID, models.ProposalWithdrawn)
}

func (l *ProposalLedger) resolve(ctx context.Context, actor models.Actor, proposalID uuid.UUID, target models.ProposalStatus) (*models.Proposal, error) {
	var resolved *models.Proposal
	err := l.store.InTx(ctx, func(s Store) error {
		proposal, err := s.Proposals().FindByID(ctx, proposalID)
		if err != nil {
			return err
		}
		if proposal == nil {
			return errs.NewNotFound("proposal")
		}

		switch target {
		case models.ProposalRejected:
			project, err := s.Projects().FindByID(ctx, proposal.ProjectID)
			if err != nil {
				return err
			}
			if project == nil {
				return errs.NewNotFound("project")
			}
			if project.OwnerID != actor.ID {
				return errs.NewAuthorizationError("only the project owner can reject a proposal")
			}
		case models.ProposalWithdrawn:
			if proposal.FreelancerID != actor.ID {
				return errs.NewAuthorizationError("only the submitter can withdraw a proposal")
			}
		}

		if proposal.Status != models.ProposalPending {
			return errs.NewInvalidTransitionError("proposal", string(proposal.Status), string(target))
		}
		resolved, err = s.Proposals().UpdateStatus(ctx, proposalID, target)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("proposalID", proposalID.String()).
		Str("status", string(target)).
		Msg("proposal resolved")
	return resolved, nil
}

// ListByProject returns every proposal on a project. Owner and admins only.
func (l *ProposalLedger) ListByProject(ctx context.Context, actor models.Actor, projectID uuid.UUID) ([]models.Proposal, error) {
	project, err := l.store.Projects().FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	if project.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, errs.NewAuthorizationError("only the project owner can list its proposals")
	}
	return l.store.Proposals().FindByProject(ctx, projectID)
}

// ListMine returns the calling freelancer's proposals.
func (l *ProposalLedger) ListMine(ctx context.Context, actor models.Actor) ([]models.Proposal, error) {
	return l.store.Proposals().FindByFreelancer(ctx, actor.ID)
}
