package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/surflabel/pkg/dilate"
	"github.com/matzehuels/surflabel/pkg/errors"
	"github.com/matzehuels/surflabel/pkg/pipeline"
	"github.com/matzehuels/surflabel/pkg/surfio"
)

// DilateRequest is the body of POST /v1/dilate.
type DilateRequest struct {
	Surface json.RawMessage `json:"surface"`
	Labels  json.RawMessage `json:"labels"`
	Radius  *float64        `json:"radius"`
	Column  string          `json:"column,omitempty"`
	Refresh bool            `json:"refresh,omitempty"`
}

// DilateResponse is the body of a successful POST /v1/dilate.
type DilateResponse struct {
	ID         string               `json:"id"`
	Labels     json.RawMessage      `json:"labels"`
	Stats      []dilate.ColumnStats `json:"stats"`
	Cached     bool                 `json:"cached"`
	DurationMS int64                `json:"duration_ms"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

func (s *Server) handleDilate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := RequestID(ctx)

	var req DilateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidArgument, err, "decode request"))
		return
	}
	if len(req.Surface) == 0 || len(req.Labels) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidArgument, "surface and labels are required"))
		return
	}
	if req.Radius == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidArgument, "radius is required"))
		return
	}

	surf, err := surfio.ReadSurface(bytes.NewReader(req.Surface))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	labels, err := surfio.UnmarshalLabels(req.Labels)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Dilate(ctx, surf, labels, pipeline.Options{
		Radius:  *req.Radius,
		Column:  req.Column,
		Workers: s.workers,
		Refresh: req.Refresh,
		Logger:  s.logger.With("request_id", id),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := surfio.MarshalLabels(res.Labels)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode labels"))
		return
	}
	writeJSON(w, http.StatusOK, DilateResponse{
		ID:         id,
		Labels:     out,
		Stats:      res.Stats,
		Cached:     res.CacheHit,
		DurationMS: res.Duration.Milliseconds(),
	})
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case stderrors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound), errors.Is(err, errors.ErrCodeFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeTimeout), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "request_id", RequestID(r.Context()))
		msg = "internal error"
	}
	writeJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   msg,
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
