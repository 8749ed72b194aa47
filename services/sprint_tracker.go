package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/models"
)

// Decision is the client's verdict on a work submission.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// SprintTracker drives the sprint and work-submission state machines and
// computes delivery progress.
type SprintTracker struct {
	store  Store
	logger zerolog.Logger
}

func NewSprintTracker(store Store) *SprintTracker {
	return &SprintTracker{
		store:  store,
		logger: log.With().Str("service", "sprintTracker").Logger(),
	}
}

// SprintSpec describes one sprint to plan.
type SprintSpec struct {
	Title     string    `json:"title"`
	Features  []string  `json:"features"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// PlanSprints lays out the delivery plan for a project that has a winning
// proposal. Each sprint starts in planning.
func (t *SprintTracker) PlanSprints(ctx context.Context, actor models.Actor, projectID uuid.UUID, specs []SprintSpec) ([]models.Sprint, error) {
	if len(specs) == 0 {
		return nil, errs.NewValidationError("sprints", "at least one sprint is required")
	}
	for _, spec := range specs {
		if spec.Title == "" {
			return nil, errs.NewValidationError("title", "every sprint needs a title")
		}
	}

	var planned []models.Sprint
	err := t.store.InTx(ctx, func(s Store) error {
		project, err := s.Projects().FindByID(ctx, projectID)
		if err != nil {
			return err
		}
		if project == nil {
			return errs.NewNotFound("project")
		}
		if project.OwnerID != actor.ID {
			return errs.NewAuthorizationError("only the project owner can plan sprints")
		}
		if err := requireActiveProject(project); err != nil {
			return err
		}
		winner, err := s.Proposals().AcceptedForProject(ctx, projectID)
		if err != nil {
			return err
		}
		if winner == nil {
			return errs.NewPolicyError("sprints require an accepted proposal")
		}

		sprints := make([]*models.Sprint, 0, len(specs))
		for _, spec := range specs {
			sprints = append(sprints, &models.Sprint{
				ID:        uuid.New(),
				ProjectID: projectID,
				Title:     spec.Title,
				Features:  datatypes.NewJSONSlice(spec.Features),
				Status:    models.SprintPlanning,
				StartDate: spec.StartDate,
				EndDate:   spec.EndDate,
			})
		}
		if err := s.Sprints().CreateBatch(ctx, sprints); err != nil {
			return err
		}
		for _, sprint := range sprints {
			planned = append(planned, *sprint)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info().
		Str("projectID", projectID.String()).
		Int("sprints", len(planned)).
		Msg("sprints planned")
	return planned, nil
}

// StartSprint moves a sprint from planning to in-progress. Owner only.
func (t *SprintTracker) StartSprint(ctx context.Context, actor models.Actor, sprintID uuid.UUID) (*models.Sprint, error) {
	var started *models.Sprint
	err := t.store.InTx(ctx, func(s Store) error {
		sprint, err := s.Sprints().FindByID(ctx, sprintID)
		if err != nil {
			return err
		}
		if sprint == nil {
			return errs.NewNotFound("sprint")
		}
		project, err := s.Projects().FindByID(ctx, sprint.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return errs.NewNotFound("project")
		}
		if project.OwnerID != actor.ID {
			return errs.NewAuthorizationError("only the project owner can start a sprint")
		}
		if err := requireActiveProject(project); err != nil {
			return err
		}
		if sprint.Status != models.SprintPlanning {
			return errs.NewInvalidTransitionError("sprint", string(sprint.Status), string(models.SprintInProgress))
		}
		started, err = s.Sprints().UpdateStatus(ctx, sprintID, models.SprintInProgress)
		return err
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info().Str("sprintID", sprintID.String()).Msg("sprint started")
	return started, nil
}

// SubmitWorkInput carries a freelancer's delivery against a sprint.
type SubmitWorkInput struct {
	SprintID          uuid.UUID `json:"sprintId"`
	CompletedFeatures []string  `json:"completedFeatures"`
	RemainingFeatures []string  `json:"remainingFeatures"`
	GithubLink        string    `json:"githubLink"`
	LiveLink          *string   `json:"liveLink,omitempty"`
}

// SubmitWork records a pending work submission. Only the project's accepted
// bidder may deliver.
func (t *SprintTracker) SubmitWork(ctx context.Context, actor models.Actor, input SubmitWorkInput) (*models.WorkSubmission, error) {
	if input.GithubLink == "" {
		return nil, errs.NewValidationError("githubLink", "github link is required")
	}

	var submission *models.WorkSubmission
	err := t.store.InTx(ctx, func(s Store) error {
		sprint, err := s.Sprints().FindByID(ctx, input.SprintID)
		if err != nil {
			return err
		}
		if sprint == nil {
			return errs.NewNotFound("sprint")
		}
		project, err := s.Projects().FindByID(ctx, sprint.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return errs.NewNotFound("project")
		}
		if err := requireActiveProject(project); err != nil {
			return err
		}
		if sprint.Status != models.SprintInProgress {
			return errs.NewValidationError("sprintId", "sprint is not in progress")
		}
		winner, err := s.Proposals().AcceptedForProject(ctx, sprint.ProjectID)
		if err != nil {
			return err
		}
		if winner == nil || winner.FreelancerID != actor.ID {
			return errs.NewAuthorizationError("only the accepted bidder can submit work")
		}

		submission = &models.WorkSubmission{
			ID:                uuid.New(),
			ProjectID:         sprint.ProjectID,
			SprintID:          sprint.ID,
			FreelancerID:      actor.ID,
			CompletedFeatures: datatypes.NewJSONSlice(input.CompletedFeatures),
			RemainingFeatures: datatypes.NewJSONSlice(input.RemainingFeatures),
			GithubLink:        input.GithubLink,
			LiveLink:          input.LiveLink,
			Status:            models.SubmissionPending,
			Version:           1,
		}
		return s.Submissions().Create(ctx, submission)
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info().
		Str("submissionID", submission.ID.String()).
		Str("sprintID", input.SprintID.String()).
		Msg("work submitted")
	return submission, nil
}

// BeginReview marks a pending submission as under review, signalling to the
// freelancer that the client is looking at it. Owner only.
func (t *SprintTracker) BeginReview(ctx context.Context, actor models.Actor, submissionID uuid.UUID) (*models.WorkSubmission, error) {
	var marked *models.WorkSubmission
	err := t.store.InTx(ctx, func(s Store) error {
		submission, err := s.Submissions().FindByID(ctx, submissionID)
		if err != nil {
			return err
		}
		if submission == nil {
			return errs.NewNotFound("work submission")
		}
		project, err := s.Projects().FindByID(ctx, submission.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return errs.NewNotFound("project")
		}
		if project.OwnerID != actor.ID {
			return errs.NewAuthorizationError("only the project owner can review submissions")
		}
		if err := requireActiveProject(project); err != nil {
			return err
		}
		if submission.Status != models.SubmissionPending {
			return errs.NewInvalidTransitionError("work submission", string(submission.Status), string(models.SubmissionReview))
		}
		marked, err = s.Submissions().UpdateStatus(ctx, submissionID, models.SubmissionReview, "", submission.Version)
		return err
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info().Str("submissionID", submissionID.String()).Msg("submission under review")
	return marked, nil
}

// ReviewInput carries the client's decision on a submission. Version, when
// set, guards against deciding on a submission that changed since it was
// read; a mismatch fails with a conflict.
type ReviewInput struct {
	Decision Decision `json:"decision"`
	Notes    string   `json:"notes,omitempty"`
	Version  int      `json:"version,omitempty"`
}

// ReviewSubmission applies an approve or reject decision. Approval that
// covers every sprint feature completes the sprint; completing the last
// sprint completes the project.
func (t *SprintTracker) ReviewSubmission(ctx context.Context, actor models.Actor, submissionID uuid.UUID, input ReviewInput) (*models.WorkSubmission, error) {
	var target models.SubmissionStatus
	switch input.Decision {
	case DecisionApprove:
		target = models.SubmissionApproved
	case DecisionReject:
		target = models.SubmissionRejected
	default:
		return nil, errs.NewValidationError("decision", "decision must be approve or reject")
	}

	var decided *models.WorkSubmission
	err := t.store.InTx(ctx, func(s Store) error {
		submission, err := s.Submissions().FindByID(ctx, submissionID)
		if err != nil {
			return err
		}
		if submission == nil {
			return errs.NewNotFound("work submission")
		}
		project, err := s.Projects().FindByID(ctx, submission.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return errs.NewNotFound("project")
		}
		if project.OwnerID != actor.ID {
			return errs.NewAuthorizationError("only the project owner can review submissions")
		}
		if err := requireActiveProject(project); err != nil {
			return err
		}
		if submission.Status != models.SubmissionPending && submission.Status != models.SubmissionReview {
			return errs.NewInvalidTransitionError("work submission", string(submission.Status), string(target))
		}

		expected := submission.Version
		if input.Version != 0 {
			expected = input.Version
		}
		decided, err = s.Submissions().UpdateStatus(ctx, submissionID, target, input.Notes, expected)
		if err != nil {
			return err
		}
		if target != models.SubmissionApproved {
			return nil
		}

		sprint, err := s.Sprints().FindByID(ctx, submission.SprintID)
		if err != nil {
			return err
		}
		if sprint == nil {
			return errs.NewNotFound("sprint")
		}
		if !coversAll(sprint.Features, decided.CompletedFeatures) {
			return nil
		}
		if _, err := s.Sprints().UpdateStatus(ctx, sprint.ID, models.SprintCompleted); err != nil {
			return err
		}

		done, err := allSprintsCompleted(ctx, s, project.ID)
		if err != nil {
			return err
		}
		if !done || project.Status != models.ProjectInProgress {
			return nil
		}
		_, err = s.Projects().UpdateStatus(ctx, project.ID, models.ProjectCompleted, project.Version)
		return err
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info().
		Str("submissionID", submissionID.String()).
		Str("status", string(decided.Status)).
		Msg("submission reviewed")
	return decided, nil
}

// Resubmit puts a rejected submission back to pending so the freelancer can
// rework it. Submitter only. Approved submissions are final.
func (t *SprintTracker) Resubmit(ctx context.Context, actor models.Actor, submissionID uuid.UUID) (*models.WorkSubmission, error) {
	var reopened *models.WorkSubmission
	err := t.store.InTx(ctx, func(s Store) error {
		submission, err := s.Submissions().FindByID(ctx, submissionID)
		if err != nil {
			return err
		}
		if submission == nil {
			return errs.NewNotFound("work submission")
		}
		if submission.FreelancerID != actor.ID {
			return errs.NewAuthorizationError("only the submitter can resubmit")
		}
		project, err := s.Projects().FindByID(ctx, submission.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return errs.NewNotFound("project")
		}
		if err := requireActiveProject(project); err != nil {
			return err
		}
		if submission.Status != models.SubmissionRejected {
			return errs.NewInvalidTransitionError("work submission", string(submission.Status), string(models.SubmissionPending))
		}
		reopened, err = s.Submissions().UpdateStatus(ctx, submissionID, models.SubmissionPending, "", submission.Version)
		return err
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info().Str("submissionID", submissionID.String()).Msg("submission reopened")
	return reopened, nil
}

// Progress reports delivery progress as a percentage. Projects without a
// sprint breakdown fall back to a coarse status-based figure, which older
// dashboards depend on.
func (t *SprintTracker) Progress(ctx context.Context, projectID uuid.UUID) (int, error) {
	project, err := t.store.Projects().FindByID(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if project == nil {
		return 0, errs.NewNotFound("project")
	}

	sprints, err := t.store.Sprints().FindByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if len(sprints) == 0 {
		switch project.Status {
		case models.ProjectCompleted:
			return 100, nil
		case models.ProjectInProgress:
			return 50, nil
		default:
			return 0, nil
		}
	}

	approved, err := t.store.Submissions().CountApproved(ctx, projectID)
	if err != nil {
		return 0, err
	}
	pct := approved * 100 / len(sprints)
	if pct > 100 {
		pct = 100
	}
	return pct, nil
}

// ListSprints returns the sprints of a project.
func (t *SprintTracker) ListSprints(ctx context.Context, projectID uuid.UUID) ([]models.Sprint, error) {
	return t.store.Sprints().FindByProject(ctx, projectID)
}

// ListSubmissions returns a project's work submissions, visible to the
// project participants and admins.
func (t *SprintTracker) ListSubmissions(ctx context.Context, actor models.Actor, projectID uuid.UUID) ([]models.WorkSubmission, error) {
	if err := t.requireParticipant(ctx, actor, projectID); err != nil {
		return nil, err
	}
	return t.store.Submissions().FindByProject(ctx, projectID)
}

// ListSprintSubmissions returns the submissions delivered against one
// sprint, with the same visibility as ListSubmissions.
func (t *SprintTracker) ListSprintSubmissions(ctx context.Context, actor models.Actor, sprintID uuid.UUID) ([]models.WorkSubmission, error) {
	sprint, err := t.store.Sprints().FindByID(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	if sprint == nil {
		return nil, errs.NewNotFound("sprint")
	}
	if err := t.requireParticipant(ctx, actor, sprint.ProjectID); err != nil {
		return nil, err
	}
	return t.store.Submissions().FindBySprint(ctx, sprintID)
}

func (t *SprintTracker) requireParticipant(ctx context.Context, actor models.Actor, projectID uuid.UUID) error {
	project, err := t.store.Projects().FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return errs.NewNotFound("project")
	}
	if project.OwnerID != actor.ID && !actor.IsAdmin() {
		winner, err := t.store.Proposals().AcceptedForProject(ctx, projectID)
		if err != nil {
			return err
		}
		if winner == nil || winner.FreelancerID != actor.ID {
			return errs.NewAuthorizationError("only project participants can view submissions")
		}
	}
	return nil
}

// requireActiveProject rejects delivery operations once the project has
// reached a terminal state.
func requireActiveProject(project *models.Project) error {
	if project.Status.Terminal() {
		return errs.NewPolicyError("project is " + string(project.Status))
	}
	return nil
}

// coversAll reports whether completed includes every required feature.
// Comparison is exact; feature names are treated as opaque identifiers.
func coversAll(required, completed []string) bool {
	if len(required) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(completed))
	for _, f := range completed {
		have[f] = struct{}{}
	}
	for _, f := range required {
		if _, ok := have[f]; !ok {
			return false
		}
	}
	return true
}
