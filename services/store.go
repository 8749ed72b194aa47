package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/gigbridge/gigbridge/backend/models"
)

// Store is the persistence surface the lifecycle services operate against.
// The production implementation lives in the database package; tests use an
// in-memory one.
type Store interface {
	Projects() ProjectStore
	Proposals() ProposalStore
	Sprints() SprintStore
	Submissions() SubmissionStore
	Reviews() ReviewStore

	// InTx runs fn against a transactional view of the store. When fn
	// returns an error nothing it wrote is visible afterwards; lifecycle
	// operations never partially apply.
	InTx(ctx context.Context, fn func(Store) error) error
}

// Find methods return (nil, nil) when the entity does not exist; the
// services map absence to a not-found error. UpdateStatus methods that take
// an expectedVersion fail with a stale-write conflict when the row changed
// underneath the caller.

type ProjectStore interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error)
	FindByStatus(ctx context.Context, status models.ProjectStatus) ([]models.Project, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProjectStatus, expectedVersion int) (*models.Project, error)
}

type ProposalStore interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]models.Proposal, error)
	FindByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error)
	AcceptedForProject(ctx context.Context, projectID uuid.UUID) (*models.Proposal, error)
	HasOpenProposal(ctx context.Context, projectID, freelancerID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProposalStatus) (*models.Proposal, error)
}

type SprintStore interface {
	CreateBatch(ctx context.Context, sprints []*models.Sprint) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Sprint, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]models.Sprint, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SprintStatus) (*models.Sprint, error)
}

type SubmissionStore interface {
	Create(ctx context.Context, submission *models.WorkSubmission) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.WorkSubmission, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]models.WorkSubmission, error)
	FindBySprint(ctx context.Context, sprintID uuid.UUID) ([]models.WorkSubmission, error)
	CountApproved(ctx context.Context, projectID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus, notes string, expectedVersion int) (*models.WorkSubmission, error)
}

type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]models.Review, error)
	FindByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error)
	ExistsForReviewer(ctx context.Context, projectID, reviewerID uuid.UUID) (bool, error)
}
