package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/models"
)

// memStore is an in-memory Store used by the service tests. InTx clones the
// whole dataset and commits the clone only when fn succeeds, which mirrors
// the rollback guarantee of the database implementation.
type memStore struct {
	mu   sync.Mutex
	data memData
	inTx bool
}

type memData struct {
	projects    map[uuid.UUID]models.Project
	proposals   map[uuid.UUID]models.Proposal
	sprints     map[uuid.UUID]models.Sprint
	submissions map[uuid.UUID]models.WorkSubmission
	reviews     map[uuid.UUID]models.Review
}

func newMemStore() *memStore {
	return &memStore{data: memData{
		projects:    make(map[uuid.UUID]models.Project),
		proposals:   make(map[uuid.UUID]models.Proposal),
		sprints:     make(map[uuid.UUID]models.Sprint),
		submissions: make(map[uuid.UUID]models.WorkSubmission),
		reviews:     make(map[uuid.UUID]models.Review),
	}}
}

func (d memData) clone() memData {
	out := memData{
		projects:    make(map[uuid.UUID]models.Project, len(d.projects)),
		proposals:   make(map[uuid.UUID]models.Proposal, len(d.proposals)),
		sprints:     make(map[uuid.UUID]models.Sprint, len(d.sprints)),
		submissions: make(map[uuid.UUID]models.WorkSubmission, len(d.submissions)),
		reviews:     make(map[uuid.UUID]models.Review, len(d.reviews)),
	}
	for k, v := range d.projects {
		out.projects[k] = v
	}
	for k, v := range d.proposals {
		out.proposals[k] = v
	}
	for k, v := range d.sprints {
		out.sprints[k] = v
	}
	for k, v := range d.submissions {
		out.submissions[k] = v
	}
	for k, v := range d.reviews {
		out.reviews[k] = v
	}
	return out
}

func (s *memStore) InTx(_ context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memStore{data: s.data.clone(), inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

func (s *memStore) locked(fn func()) {
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}

func (s *memStore) Projects() ProjectStore       { return memProjects{s} }
func (s *memStore) Proposals() ProposalStore     { return memProposals{s} }
func (s *memStore) Sprints() SprintStore         { return memSprints{s} }
func (s *memStore) Submissions() SubmissionStore { return memSubmissions{s} }
func (s *memStore) Reviews() ReviewStore         { return memReviews{s} }

type memProjects struct{ s *memStore }

func (m memProjects) Create(_ context.Context, p *models.Project) error {
	m.s.locked(func() { m.s.data.projects[p.ID] = *p })
	return nil
}

func (m memProjects) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	var out *models.Project
	m.s.locked(func() {
		if p, ok := m.s.data.projects[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (m memProjects) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	var out []models.Project
	m.s.locked(func() {
		for _, p := range m.s.data.projects {
			if p.OwnerID == ownerID {
				out = append(out, p)
			}
		}
	})
	return out, nil
}

func (m memProjects) FindByStatus(_ context.Context, status models.ProjectStatus) ([]models.Project, error) {
	var out []models.Project
	m.s.locked(func() {
		for _, p := range m.s.data.projects {
			if p.Status == status {
				out = append(out, p)
			}
		}
	})
	return out, nil
}

func (m memProjects) UpdateStatus(_ context.Context, id uuid.UUID, status models.ProjectStatus, expectedVersion int) (*models.Project, error) {
	var out *models.Project
	var err error
	m.s.locked(func() {
		p, ok := m.s.data.projects[id]
		if !ok {
			err = errs.NewNotFound("project")
			return
		}
		if p.Version != expectedVersion {
			err = errs.NewStaleWriteError("project", expectedVersion)
			return
		}
		p.Status = status
		p.Version++
		m.s.data.projects[id] = p
		out = &p
	})
	return out, err
}

type memProposals struct{ s *memStore }

func (m memProposals) Create(_ context.Context, p *models.Proposal) error {
	m.s.locked(func() { m.s.data.proposals[p.ID] = *p })
	return nil
}

func (m memProposals) FindByID(_ context.Context, id uuid.UUID) (*models.Proposal, error) {
	var out *models.Proposal
	m.s.locked(func() {
		if p, ok := m.s.data.proposals[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (m memProposals) FindByProject(_ context.Context, projectID uuid.UUID) ([]models.Proposal, error) {
	var out []models.Proposal
	m.s.locked(func() {
		for _, p := range m.s.data.proposals {
			if p.ProjectID == projectID {
				out = append(out, p)
			}
		}
	})
	return out, nil
}

func (m memProposals) FindByFreelancer(_ context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	var out []models.Proposal
	m.s.locked(func() {
		for _, p := range m.s.data.proposals {
			if p.FreelancerID == freelancerID {
				out = append(out, p)
			}
		}
	})
	return out, nil
}

func (m memProposals) AcceptedForProject(_ context.Context, projectID uuid.UUID) (*models.Proposal, error) {
	var out *models.Proposal
	m.s.locked(func() {
		for _, p := range m.s.data.proposals {
			if p.ProjectID == projectID && p.Status == models.ProposalAccepted {
				out = &p
				return
			}
		}
	})
	return out, nil
}

func (m memProposals) HasOpenProposal(_ context.Context, projectID, freelancerID uuid.UUID) (bool, error) {
	var open bool
	m.s.locked(func() {
		for _, p := range m.s.data.proposals {
			if p.ProjectID == projectID && p.FreelancerID == freelancerID && p.Status.Open() {
				open = true
				return
			}
		}
	})
	return open, nil
}

func (m memProposals) UpdateStatus(_ context.Context, id uuid.UUID, status models.ProposalStatus) (*models.Proposal, error) {
	var out *models.Proposal
	var err error
	m.s.locked(func() {
		p, ok := m.s.data.proposals[id]
		if !ok {
			err = errs.NewNotFound("proposal")
			return
		}
		p.Status = status
		m.s.data.proposals[id] = p
		out = &p
	})
	return out, err
}

type memSprints struct{ s *memStore }

func (m memSprints) CreateBatch(_ context.Context, sprints []*models.Sprint) error {
	m.s.locked(func() {
		for _, sp := range sprints {
			m.s.data.sprints[sp.ID] = *sp
		}
	})
	return nil
}

func (m memSprints) FindByID(_ context.Context, id uuid.UUID) (*models.Sprint, error) {
	var out *models.Sprint
	m.s.locked(func() {
		if sp, ok := m.s.data.sprints[id]; ok {
			out = &sp
		}
	})
	return out, nil
}

func (m memSprints) FindByProject(_ context.Context, projectID uuid.UUID) ([]models.Sprint, error) {
	var out []models.Sprint
	m.s.locked(func() {
		for _, sp := range m.s.data.sprints {
			if sp.ProjectID == projectID {
				out = append(out, sp)
			}
		}
	})
	return out, nil
}

func (m memSprints) UpdateStatus(_ context.Context, id uuid.UUID, status models.SprintStatus) (*models.Sprint, error) {
	var out *models.Sprint
	var err error
	m.s.locked(func() {
		sp, ok := m.s.data.sprints[id]
		if !ok {
			err = errs.NewNotFound("sprint")
			return
		}
		sp.Status = status
		m.s.data.sprints[id] = sp
		out = &sp
	})
	return out, err
}

type memSubmissions struct{ s *memStore }

func (m memSubmissions) Create(_ context.Context, sub *models.WorkSubmission) error {
	m.s.locked(func() { m.s.data.submissions[sub.ID] = *sub })
	return nil
}

func (m memSubmissions) FindByID(_ context.Context, id uuid.UUID) (*models.WorkSubmission, error) {
	var out *models.WorkSubmission
	m.s.locked(func() {
		if sub, ok := m.s.data.submissions[id]; ok {
			out = &sub
		}
	})
	return out, nil
}

func (m memSubmissions) FindByProject(_ context.Context, projectID uuid.UUID) ([]models.WorkSubmission, error) {
	var out []models.WorkSubmission
	m.s.locked(func() {
		for _, sub := range m.s.data.submissions {
			if sub.ProjectID == projectID {
				out = append(out, sub)
			}
		}
	})
	return out, nil
}

func (m memSubmissions) FindBySprint(_ context.Context, sprintID uuid.UUID) ([]models.WorkSubmission, error) {
	var out []models.WorkSubmission
	m.s.locked(func() {
		for _, sub := range m.s.data.submissions {
			if sub.SprintID == sprintID {
				out = append(out, sub)
			}
		}
	})
	return out, nil
}

func (m memSubmissions) CountApproved(_ context.Context, projectID uuid.UUID) (int, error) {
	var count int
	m.s.locked(func() {
		for _, sub := range m.s.data.submissions {
			if sub.ProjectID == projectID && sub.Status == models.SubmissionApproved {
				count++
			}
		}
	})
	return count, nil
}

func (m memSubmissions) UpdateStatus(_ context.Context, id uuid.UUID, status models.SubmissionStatus, notes string, expectedVersion int) (*models.WorkSubmission, error) {
	var out *models.WorkSubmission
	var err error
	m.s.locked(func() {
		sub, ok := m.s.data.submissions[id]
		if !ok {
			err = errs.NewNotFound("work submission")
			return
		}
		if sub.Version != expectedVersion {
			err = errs.NewStaleWriteError("work submission", expectedVersion)
			return
		}
		sub.Status = status
		sub.Version++
		if notes != "" {
			sub.Notes = notes
		}
		m.s.data.submissions[id] = sub
		out = &sub
	})
	return out, err
}

type memReviews struct{ s *memStore }

func (m memReviews) Create(_ context.Context, review *models.Review) error {
	m.s.locked(func() { m.s.data.reviews[review.ID] = *review })
	return nil
}

func (m memReviews) FindByProject(_ context.Context, projectID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	m.s.locked(func() {
		for _, rv := range m.s.data.reviews {
			if rv.ProjectID == projectID {
				out = append(out, rv)
			}
		}
	})
	return out, nil
}

func (m memReviews) FindByReviewee(_ context.Context, revieweeID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	m.s.locked(func() {
		for _, rv := range m.s.data.reviews {
			if rv.RevieweeID == revieweeID {
				out = append(out, rv)
			}
		}
	})
	return out, nil
}

func (m memReviews) ExistsForReviewer(_ context.Context, projectID, reviewerID uuid.UUID) (bool, error) {
	var exists bool
	m.s.locked(func() {
		for _, rv := range m.s.data.reviews {
			if rv.ProjectID == projectID && rv.ReviewerID == reviewerID {
				exists = true
				return
			}
		}
	})
	return exists, nil
}
