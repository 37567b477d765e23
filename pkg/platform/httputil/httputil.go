package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	dErrors "skillchain/pkg/domain-errors"
)

var exposeDetails atomic.Bool

// ExposeErrorDetails toggles the "details" field on error responses. It is
// enabled outside production so the wrapped cause is visible while debugging.
func ExposeErrorDetails(enabled bool) {
	exposeDetails.Store(enabled)
}

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding failure cannot change the status.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		resp := ErrorResponse{Error: "Internal server error", Code: "INTERNAL_ERROR"}
		if exposeDetails.Load() && err != nil {
			resp.Details = err.Error()
		}
		WriteJSON(w, http.StatusInternalServerError, resp)
		return
	}

	resp := ErrorResponse{
		Error: domainErr.Message,
		Code:  domainErr.Reason,
	}
	if resp.Code == "" {
		resp.Code = DefaultReason(domainErr.Code)
	}
	if resp.Error == "" {
		resp.Error = resp.Code
	}
	if exposeDetails.Load() && domainErr.Err != nil {
		resp.Details = domainErr.Err.Error()
	}
	WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), resp)
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeGone:
		return http.StatusGone
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// DefaultReason is the response code used when a domain error carries no reason.
func DefaultReason(code dErrors.Code) string {
	switch code {
	case dErrors.CodeBadRequest:
		return "BAD_REQUEST"
	case dErrors.CodeValidation:
		return "VALIDATION_ERROR"
	case dErrors.CodeUnauthorized:
		return "UNAUTHORIZED"
	case dErrors.CodeNotFound:
		return "NOT_FOUND"
	case dErrors.CodeGone:
		return "GONE"
	case dErrors.CodeRateLimited:
		return "RATE_LIMITED"
	case dErrors.CodeTimeout:
		return "TIMEOUT"
	case dErrors.CodeUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}
