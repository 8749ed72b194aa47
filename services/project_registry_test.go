package services

import (
	"context"
	"testing"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/models"
)

func TestProjectRegistry_Create_StartsPending(t *testing.T) {
	e := newEnv()
	owner := clientActor()

	project, err := e.registry.Create(context.Background(), owner, CreateProjectInput{
		Title:       "shop frontend",
		Description: "storefront with checkout",
		Budget:      5000,
		MinimumBid:  500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project.Status != models.ProjectPending {
		t.Fatalf("expected pending, got %s", project.Status)
	}
	if project.OwnerID != owner.ID {
		t.Fatalf("owner mismatch")
	}
}

func TestProjectRegistry_Create_Validation(t *testing.T) {
	e := newEnv()
	owner := clientActor()
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateProjectInput
	}{
		{"empty title", CreateProjectInput{Description: "d", Budget: 100, MinimumBid: 10}},
		{"empty description", CreateProjectInput{Title: "t", Budget: 100, MinimumBid: 10}},
		{"zero budget", CreateProjectInput{Title: "t", Description: "d", MinimumBid: 10}},
		{"minimum above budget", CreateProjectInput{Title: "t", Description: "d", Budget: 100, MinimumBid: 200}},
	}
	for _, tc := range cases {
		_, err := e.registry.Create(ctx, owner, tc.input)
		if !errs.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	_, err := e.registry.Create(ctx, freelancerActor(), CreateProjectInput{
		Title: "t", Description: "d", Budget: 100, MinimumBid: 10,
	})
	if !errs.IsAuthorization(err) {
		t.Fatalf("expected authorization error for freelancer, got %v", err)
	}
}

func TestProjectRegistry_Transition_ApproveRequiresAdmin(t *testing.T) {
	e := newEnv()
	owner := clientActor()
	ctx := context.Background()

	project, err := e.registry.Create(ctx, owner, CreateProjectInput{
		Title: "t", Description: "d", Budget: 100, MinimumBid: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := e.registry.Transition(ctx, owner, project.ID, EventApprove); !errs.IsAuthorization(err) {
		t.Fatalf("expected authorization error, got %v", err)
	}

	approved, err := e.registry.Transition(ctx, adminActor(), project.ID, EventApprove)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approved.Status != models.ProjectApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
}

func TestProjectRegistry_Transition_IllegalEdges(t *testing.T) {
	e := newEnv()
	owner := clientActor()
	ctx := context.Background()

	project, err := e.registry.Create(ctx, owner, CreateProjectInput{
		Title: "t", Description: "d", Budget: 100, MinimumBid: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// pending -> cancelled skips approval and engagement.
	if _, err := e.registry.Transition(ctx, owner, project.ID, EventCancel); !errs.IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	// pending -> completed is two states away.
	if _, err := e.registry.Transition(ctx, owner, project.ID, EventComplete); !errs.IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	// bid-accepted is reserved for the proposal ledger.
	if _, err := e.registry.Transition(ctx, owner, project.ID, EventBidAccepted); !errs.IsAuthorization(err) {
		t.Fatalf("expected authorization error, got %v", err)
	}
	// unknown event
	if _, err := e.registry.Transition(ctx, owner, project.ID, ProjectEvent("archive")); !errs.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProjectRegistry_TerminalStatesRejectEverything(t *testing.T) {
	e := newEnv()
	owner := clientActor()
	freelancer := freelancerActor()
	ctx := context.Background()

	project := postApprovedProject(t, e, owner, 500)
	engageProject(t, e, owner, freelancer, project)

	cancelled, err := e.registry.Transition(ctx, owner, project.ID, EventCancel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != models.ProjectCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	for _, event := range []ProjectEvent{EventApprove, EventComplete, EventCancel} {
		_, err := e.registry.Transition(ctx, adminActor(), project.ID, event)
		if err == nil {
			t.Fatalf("expected error for %s out of terminal state", event)
		}
	}
}

func TestProjectRegistry_CompleteRequiresAllSprintsDone(t *testing.T) {
	e := newEnv()
	owner := clientActor()
	freelancer := freelancerActor()
	ctx := context.Background()

	project := postApprovedProject(t, e, owner, 500)
	engageProject(t, e, owner, freelancer, project)
	startSingleSprint(t, e, owner, project.ID, []string{"auth"})

	if _, err := e.registry.Transition(ctx, owner, project.ID, EventComplete); !errs.IsPolicy(err) {
		t.Fatalf("expected policy error while sprint is open, got %v", err)
	}
}

func TestProjectRegistry_Get_NotFound(t *testing.T) {
	e := newEnv()

	_, err := e.registry.Get(context.Background(), clientActor().ID)
	if !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
