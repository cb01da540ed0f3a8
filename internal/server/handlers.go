package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-pathfinder/internal/schemas"
)

// userIDHeader carries the caller's id, set by the upstream gateway after
// authentication.
const userIDHeader = "X-User-ID"

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	// One byte over the limit lets ValidateInput report the size.
	body, err := io.ReadAll(io.LimitReader(r.Body, schemas.MaxRequestBytes+1))
	if err != nil {
		s.errorResponse(w, &RequestError{Status: http.StatusBadRequest, Message: "failed to read request body", Cause: err})
		return
	}

	ctx := r.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	result, err := s.generator.Generate(ctx, userID, body)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		s.errorResponse(w, &RequestError{Status: http.StatusNotFound, Message: "result storage is not configured"})
		return
	}
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		s.errorResponse(w, &RequestError{Status: http.StatusBadRequest, Message: "invalid result id"})
		return
	}
	userID, err := ownerID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	stored, err := s.results.GetResult(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	// Results of other users are reported as missing.
	if stored == nil || (stored.OwnerID != "" && stored.OwnerID != userID) {
		s.errorResponse(w, &RequestError{Status: http.StatusNotFound, Message: "result not found"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(stored.Payload); err != nil {
		s.logger.Warn("failed to write result", zap.String("result_id", id), zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]any{"status": "ok"}
	if len(s.checks) > 0 {
		deps := make(map[string]string, len(s.checks))
		for name, check := range s.checks {
			if err := check(r.Context()); err != nil {
				deps[name] = err.Error()
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				continue
			}
			deps[name] = "ok"
		}
		body["dependencies"] = deps
	}
	s.jsonResponse(w, status, body)
}

// ownerID returns the caller id from the gateway header. A missing header
// means an anonymous caller; a malformed one is rejected.
func ownerID(r *http.Request) (string, error) {
	id := r.Header.Get(userIDHeader)
	if id == "" {
		return "", nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", &schemas.ValidationError{Errors: []schemas.FieldError{{
			Field:   userIDHeader,
			Message: "must be a UUID",
		}}}
	}
	return parsed.String(), nil
}

func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	var verr *schemas.ValidationError
	switch {
	case errors.As(err, &verr):
		s.jsonResponse(w, status, map[string]any{"error": "validation_failed", "fields": verr.Errors})
	case status >= http.StatusInternalServerError:
		s.logger.Error("request failed", zap.Error(err))
		s.jsonResponse(w, status, map[string]string{"error": "internal error"})
	default:
		s.jsonResponse(w, status, map[string]string{"error": err.Error()})
	}
}
