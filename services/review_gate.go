package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/models"
)

// EligibilityThreshold is the number of approved work submissions a project
// needs before either side may file a review. Fixed platform policy, not
// per-project configuration.
const EligibilityThreshold = 3

// ReviewGate computes review eligibility from delivery state and records
// reviews.
type ReviewGate struct {
	store  Store
	logger zerolog.Logger
}

func NewReviewGate(store Store) *ReviewGate {
	return &ReviewGate{
		store:  store,
		logger: log.With().Str("service", "reviewGate").Logger(),
	}
}

// IsEligible reports whether the project has accumulated enough approved
// submissions for reviews to open.
func (g *ReviewGate) IsEligible(ctx context.Context, projectID uuid.UUID) (bool, error) {
	approved, err := g.store.Submissions().CountApproved(ctx, projectID)
	if err != nil {
		return false, err
	}
	return approved >= EligibilityThreshold, nil
}

// SubmitReviewInput carries a participant's rated feedback.
type SubmitReviewInput struct {
	ProjectID  uuid.UUID `json:"projectId"`
	RevieweeID uuid.UUID `json:"revieweeId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
}

// SubmitReview records feedback between the two engagement parties. The
// reviewee is the caller's counterpart: the owner reviews the accepted
// freelancer and vice versa. One review per reviewer per project.
func (g *ReviewGate) SubmitReview(ctx context.Context, actor models.Actor, input SubmitReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errs.NewValidationError("rating", "rating must be between 1 and 5")
	}
	if input.Comment == "" {
		return nil, errs.NewValidationError("comment", "comment is required")
	}

	var review *models.Review
	err := g.store.InTx(ctx, func(s Store) error {
		project, err := s.Projects().FindByID(ctx, input.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return errs.NewNotFound("project")
		}
		winner, err := s.Proposals().AcceptedForProject(ctx, input.ProjectID)
		if err != nil {
			return err
		}
		if winner == nil {
			return errs.NewPolicyError("project has no accepted proposal to review")
		}

		var reviewerType models.ReviewerType
		var reviewee uuid.UUID
		switch actor.ID {
		case project.OwnerID:
			reviewerType = models.ReviewerClient
			reviewee = winner.FreelancerID
		case winner.FreelancerID:
			reviewerType = models.ReviewerFreelancer
			reviewee = project.OwnerID
		default:
			return errs.NewAuthorizationError("only engagement participants can file reviews")
		}
		if input.RevieweeID != uuid.Nil && input.RevieweeID != reviewee {
			return errs.NewValidationError("revieweeId", "reviewee is not the caller's counterpart on this project")
		}

		approved, err := s.Submissions().CountApproved(ctx, input.ProjectID)
		if err != nil {
			return err
		}
		if approved < EligibilityThreshold {
			return errs.NewPolicyError("project needs more approved submissions before reviews open")
		}

		exists, err := s.Reviews().ExistsForReviewer(ctx, input.ProjectID, actor.ID)
		if err != nil {
			return err
		}
		if exists {
			return errs.NewConflictError("reviewer has already reviewed this project")
		}

		review = &models.Review{
			ID:           uuid.New(),
			ProjectID:    input.ProjectID,
			ReviewerID:   actor.ID,
			RevieweeID:   reviewee,
			ReviewerType: reviewerType,
			Rating:       input.Rating,
			Comment:      input.Comment,
		}
		return s.Reviews().Create(ctx, review)
	})
	if err != nil {
		return nil, err
	}

	g.logger.Info().
		Str("reviewID", review.ID.String()).
		Str("projectID", input.ProjectID.String()).
		Int("rating", input.Rating).
		Msg("review recorded")
	return review, nil
}

// ListByUser returns the reviews a user has received.
func (g *ReviewGate) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Review, error) {
	return g.store.Reviews().FindByReviewee(ctx, userID)
}

// ListByProject returns the reviews filed for a project.
func (g *ReviewGate) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Review, error) {
	return g.store.Reviews().FindByProject(ctx, projectID)
}
