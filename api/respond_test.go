package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gigbridge/gigbridge/backend/errs"
)

func newTestResponder() Responder {
	return NewResponder(zerolog.Nop())
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestResponder_WriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestResponder().WriteData(rec, http.StatusCreated, "project created", map[string]string{"id": "p1"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success || env.Message != "project created" || env.Data == nil {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestResponder_WriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{errs.NewValidationError("budget", "budget must be positive"), http.StatusBadRequest},
		{errs.NewUnauthorizedError("missing token"), http.StatusUnauthorized},
		{errs.NewAuthorizationError("owner only"), http.StatusForbidden},
		{errs.NewNotFound("project"), http.StatusNotFound},
		{errs.NewConflictError("proposal already accepted"), http.StatusConflict},
		{errs.NewInvalidTransitionError("project", "pending", "completed"), http.StatusUnprocessableEntity},
		{errs.NewPolicyError("reviews not open yet"), http.StatusPreconditionFailed},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		newTestResponder().WriteError(rec, c.err)
		if rec.Code != c.code {
			t.Fatalf("error %v: expected %d, got %d", c.err, c.code, rec.Code)
		}
		env := decodeEnvelope(t, rec)
		if env.Success {
			t.Fatalf("error %v: success should be false", c.err)
		}
		if env.Message == "" {
			t.Fatalf("error %v: message should not be empty", c.err)
		}
		if env.Data != nil {
			t.Fatalf("error %v: data should be null, got %v", c.err, env.Data)
		}
	}
}

func TestResponder_WriteError_UnknownErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestResponder().WriteError(rec, errors.New("pq: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "an unexpected error occurred" {
		t.Fatalf("internal details leaked: %q", env.Message)
	}
}
