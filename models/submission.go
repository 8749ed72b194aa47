package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubmissionStatus is the lifecycle state of a work submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionReview   SubmissionStatus = "review"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// WorkSubmission is a freelancer's delivery against a sprint, subject to
// client approval. Version guards concurrent approve/reject decisions.
type WorkSubmission struct {
	ID                uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID         uuid.UUID                   `json:"projectId" gorm:"type:uuid;not null;index"`
	SprintID          uuid.UUID                   `json:"sprintId" gorm:"type:uuid;not null;index"`
	FreelancerID      uuid.UUID                   `json:"freelancerId" gorm:"type:uuid;not null;index"`
	CompletedFeatures datatypes.JSONSlice[string] `json:"completedFeatures"`
	RemainingFeatures datatypes.JSONSlice[string] `json:"remainingFeatures"`
	GithubLink        string                      `json:"githubLink" gorm:"type:text;not null"`
	LiveLink          *string                     `json:"liveLink,omitempty" gorm:"type:text"`
	Notes             string                      `json:"notes,omitempty" gorm:"type:text"`
	Status            SubmissionStatus            `json:"status" gorm:"type:text;not null;default:'pending';index"`
	Version           int                         `json:"version" gorm:"not null;default:1"`
	CreatedAt         time.Time                   `json:"createdAt"`
	UpdatedAt         time.Time                   `json:"updatedAt"`
}
