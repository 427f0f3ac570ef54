package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/facetdex/internal/domain"
)

// ErrorCode is the machine-readable error code of an error response.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest           ErrorCode = "bad_request"
	CodeUnauthorized         ErrorCode = "unauthorized"
	CodeValidationFailed     ErrorCode = "validation_failed"
	CodeUnknownModel         ErrorCode = "unknown_model"
	CodeFacetingNotSupported ErrorCode = "faceting_not_supported"
	CodeIndexNotFound        ErrorCode = "index_not_found"
	CodeImproperlyConfigured ErrorCode = "improperly_configured"
	CodeInternalError        ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrUnknownModel, http.StatusBadRequest, CodeUnknownModel),
		sentinelHandler(domain.ErrFacetingNotSupported, http.StatusNotImplemented, CodeFacetingNotSupported),
		sentinelHandler(domain.ErrIndexNotFound, http.StatusServiceUnavailable, CodeIndexNotFound),
		sentinelHandler(domain.ErrImproperlyConfigured, http.StatusInternalServerError, CodeImproperlyConfigured),
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Client errors keep the detail attached to their sentinel; other domain
// errors are reduced to the sentinel text.
func safeDomainMessage(err error) string {
	for _, s := range []error{domain.ErrInvalidRequest, domain.ErrUnknownModel} {
		if errors.Is(err, s) {
			return detailOf(err, s)
		}
	}

	sentinels := []error{
		domain.ErrFacetingNotSupported,
		domain.ErrIndexNotFound,
		domain.ErrImproperlyConfigured,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// detailOf returns the message of the error that directly wraps sentinel
// as "<sentinel>: <detail>", e.g. "invalid request: page_size must be at
// most 100". Outer context added on the way up is dropped.
func detailOf(err, sentinel error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if errors.Unwrap(e) != sentinel { //nolint:errorlint // identity of the wrapped sentinel
			continue
		}
		if msg := e.Error(); strings.HasPrefix(msg, sentinel.Error()+": ") {
			return msg
		}
		break
	}
	return sentinel.Error()
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
