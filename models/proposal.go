package models

import (
	"time"

	"github.com/google/uuid"
)

// ProposalStatus is the lifecycle state of a freelancer's bid.
type ProposalStatus string

const (
	ProposalPending   ProposalStatus = "pending"
	ProposalAccepted  ProposalStatus = "accepted"
	ProposalRejected  ProposalStatus = "rejected"
	ProposalWithdrawn ProposalStatus = "withdrawn"
)

// Open reports whether the proposal still counts against the one-bid-per-
// freelancer rule. Withdrawn proposals free the slot, resolved ones do not.
func (s ProposalStatus) Open() bool {
	return s != ProposalWithdrawn
}

// Proposal is a freelancer's offer to deliver a project at a given amount.
type Proposal struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID    uuid.UUID      `json:"projectId" gorm:"type:uuid;not null;index"`
	FreelancerID uuid.UUID      `json:"freelancerId" gorm:"type:uuid;not null;index"`
	Amount       int64          `json:"amount" gorm:"not null"`
	CoverLetter  string         `json:"coverLetter" gorm:"type:text;not null"`
	ResumeURL    *string        `json:"resumeUrl,omitempty" gorm:"type:text"`
	Status       ProposalStatus `json:"status" gorm:"type:text;not null;default:'pending';index"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
