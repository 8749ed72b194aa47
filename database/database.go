package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/gigbridge/gigbridge/backend/models"
	"github.com/gigbridge/gigbridge/backend/services"
)

// Database aggregates the per-entity repositories over a shared GORM
// instance and implements services.Store.
type Database struct {
	db             *gorm.DB
	projectRepo    *ProjectRepo
	proposalRepo   *ProposalRepo
	sprintRepo     *SprintRepo
	submissionRepo *SubmissionRepo
	reviewRepo     *ReviewRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:             db,
		projectRepo:    NewProjectRepo(db),
		proposalRepo:   NewProposalRepo(db),
		sprintRepo:     NewSprintRepo(db),
		submissionRepo: NewSubmissionRepo(db),
		reviewRepo:     NewReviewRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) Projects() services.ProjectStore {
	return d.projectRepo
}

func (d Database) Proposals() services.ProposalStore {
	return d.proposalRepo
}

func (d Database) Sprints() services.SprintStore {
	return d.sprintRepo
}

func (d Database) Submissions() services.SubmissionStore {
	return d.submissionRepo
}

func (d Database) Reviews() services.ReviewStore {
	return d.reviewRepo
}

// InTx runs fn inside a database transaction. The Store handed to fn is
// bound to the transaction, so an error from fn rolls every write back.
func (d Database) InTx(ctx context.Context, fn func(services.Store) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// AutoMigrate creates or updates the lifecycle tables.
func (d Database) AutoMigrate() error {
	return d.db.AutoMigrate(
		&models.Project{},
		&models.Proposal{},
		&models.Sprint{},
		&models.WorkSubmission{},
		&models.Review{},
	)
}
