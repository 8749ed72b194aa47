package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gigbridge/gigbridge/backend/errs"
)

// Envelope is the uniform response body every endpoint returns. Data is
// null on failures.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteData writes a success envelope with the given status code.
func (r Responder) WriteData(w http.ResponseWriter, statusCode int, message string, data any) {
	r.writeEnvelope(w, statusCode, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WriteError writes a failure envelope. Known lifecycle errors carry their
// own status code; anything else is logged and reported as a 500 without
// leaking internals.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		r.logger.Error().Str("error", err.Error()).Msg("unexpected error")
		r.writeEnvelope(w, http.StatusInternalServerError, Envelope{
			Success: false,
			Message: "an unexpected error occurred",
		})
		return
	}

	if apiErr.Cause != nil {
		r.logger.Error().Str("error", apiErr.GetFullError()).Msg("request failed")
	}
	r.writeEnvelope(w, apiErr.StatusCode, Envelope{
		Success: false,
		Message: apiErr.Error(),
	})
}

func (r Responder) writeEnvelope(w http.ResponseWriter, statusCode int, body Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	jsonData, err := json.Marshal(body)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response body")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(statusCode)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}
