package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/correctir/core/config"
	"github.com/FocuswithJustin/correctir/core/correct"
	"github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/internal/cache"
	"github.com/FocuswithJustin/correctir/internal/logging"
	"github.com/FocuswithJustin/correctir/internal/validation"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// CheckRequest is the body of a check request and the first message of a
// websocket stream. Options override the defaults field by field.
type CheckRequest struct {
	Text    string          `json:"text"`
	Options json.RawMessage `json:"options,omitempty"`
}

// CheckResponse is the result of a check request.
type CheckResponse struct {
	ID          string `json:"id"`
	Output      string `json:"output"`
	Sentences   int    `json:"sentences"`
	Skipped     int    `json:"skipped"`
	Annotations int    `json:"annotations"`
	Digest      string `json:"digest"`
	Cached      bool   `json:"cached"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Uptime        string `json:"uptime"`
	CachedResults int    `json:"cached_results"`
	Streams       int64  `json:"streams"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cached := 0
	if s.results != nil {
		cached = s.results.Len()
	}
	respond(w, r, http.StatusOK, HealthInfo{
		Status:        "ok",
		Version:       s.cfg.Version,
		Uptime:        time.Since(s.started).Round(time.Second).String(),
		CachedResults: cached,
		Streams:       s.streams.Load(),
	})
}

func rejectContentType(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Content-Type must be application/json")
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logging.RequestRejected(r.Context(), "body too large", "limit", tooLarge.Limit)
			respondError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	text, cfg, err := decodeRequest(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	resp, err := s.check(r.Context(), text, cfg)
	if err != nil {
		status, code := errorStatus(err)
		logging.ErrorContext(r.Context(), "check failed", "error", err)
		respondError(w, status, code, err.Error())
		return
	}
	respond(w, r, http.StatusOK, resp)
}

// check corrects text, serving repeated requests from the result cache.
func (s *Server) check(ctx context.Context, text string, cfg config.Config) (CheckResponse, error) {
	digest, err := requestDigest(text, cfg)
	if err != nil {
		return CheckResponse{}, err
	}
	if s.results != nil {
		if hit, ok := s.results.Get(digest); ok {
			hit.ID = documentID(ctx)
			hit.Cached = true
			return hit, nil
		}
	}

	res, err := s.corrector.CheckErrors(ctx, text, cfg)
	if err != nil {
		return CheckResponse{}, err
	}
	resp := newCheckResponse(ctx, res, digest)
	if s.results != nil {
		s.results.Set(digest, resp)
	}
	return resp, nil
}

func newCheckResponse(ctx context.Context, res *correct.Result, digest string) CheckResponse {
	return CheckResponse{
		ID:          documentID(ctx),
		Output:      res.Output,
		Sentences:   res.Sentences,
		Skipped:     res.Skipped,
		Annotations: res.Annotations,
		Digest:      digest,
	}
}

// decodeRequest parses a check request and returns its text and the
// validated configuration.
func decodeRequest(data []byte) (string, config.Config, error) {
	var req CheckRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return "", config.Config{}, &errors.ParseError{Format: "JSON", Message: err.Error(), Err: errors.ErrInvalidInput}
	}
	if err := validation.ValidateDocument([]byte(req.Text)); err != nil {
		return "", config.Config{}, &errors.ValidationError{Field: "text", Message: err.Error(), Err: err}
	}
	cfg := config.Default()
	if len(req.Options) > 0 {
		dec := json.NewDecoder(bytes.NewReader(req.Options))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return "", config.Config{}, errors.NewValidation("options", err.Error())
		}
	}
	if err := cfg.Validate(); err != nil {
		return "", config.Config{}, err
	}
	return req.Text, cfg, nil
}

// requestDigest keys the result cache. The configuration is normalized by
// Validate before it gets here, so equivalent requests share a key.
func requestDigest(text string, cfg config.Config) (string, error) {
	opts, err := json.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, "encoding options")
	}
	return cache.Digest(opts, []byte(text)), nil
}

// documentID reuses the request ID so that responses match access logs.
func documentID(ctx context.Context) string {
	if id := logging.GetRequestID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

// errorStatus maps a correction error to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errors.ErrInvalidSpan):
		return http.StatusInternalServerError, "INVALID_SPAN"
	case errors.Is(err, errors.ErrInvalidInput), errors.Is(err, errors.ErrUnsupported):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "CANCELED"
	default:
		return http.StatusInternalServerError, "CHECK_FAILED"
	}
}

func respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	writeJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			RequestID: logging.GetRequestID(r.Context()),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logging.Error("failed to write response", "error", err)
	}
}
