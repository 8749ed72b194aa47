package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/models"
)

type ProposalRepo struct {
	db *gorm.DB
}

func NewProposalRepo(db *gorm.DB) *ProposalRepo {
	return &ProposalRepo{db}
}

// Create inserts a new proposal into the database
func (r *ProposalRepo) Create(ctx context.Context, proposal *models.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

// FindByID returns a proposal by its ID, or nil when it does not exist
func (r *ProposalRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.WithContext(ctx).First(&proposal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// FindByProject returns every proposal filed against a project
func (r *ProposalRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at ASC").Find(&proposals).Error
	return proposals, err
}

// FindByFreelancer returns a freelancer's proposals across projects
func (r *ProposalRepo) FindByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.WithContext(ctx).Where("freelancer_id = ?", freelancerID).Order("created_at DESC").Find(&proposals).Error
	return proposals, err
}

// AcceptedForProject returns the project's winning proposal, or nil when no
// proposal has been accepted yet
func (r *ProposalRepo) AcceptedForProject(ctx context.Context, projectID uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND status = ?", projectID, models.ProposalAccepted).
		First(&proposal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// HasOpenProposal reports whether the freelancer already has a non-withdrawn
// proposal on the project
func (r *ProposalRepo) HasOpenProposal(ctx context.Context, projectID, freelancerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Proposal{}).
		Where("project_id = ? AND freelancer_id = ? AND status <> ?", projectID, freelancerID, models.ProposalWithdrawn).
		Count(&count).Error
	return count > 0, err
}

// UpdateStatus moves a proposal to a new status
func (r *ProposalRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProposalStatus) (*models.Proposal, error) {
	res := r.db.WithContext(ctx).Model(&models.Proposal{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewNotFound("proposal")
	}
	return r.FindByID(ctx, id)
}
