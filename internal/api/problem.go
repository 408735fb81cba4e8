package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/beatreach/beatreach/internal/oracle"
	"github.com/beatreach/beatreach/internal/reply"
	"github.com/beatreach/beatreach/internal/signup"
	"github.com/beatreach/beatreach/internal/songs"
	"github.com/beatreach/beatreach/internal/store"
	"github.com/beatreach/beatreach/internal/validation"
)

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

// problemTypes maps HTTP status codes to RFC 7807 type URIs and titles.
var problemTypes = map[int]struct {
	typeURI string
	title   string
}{
	http.StatusUnauthorized: {
		typeURI: "https://beatreach.dev/errors/unauthorized",
		title:   "Unauthorized",
	},
	http.StatusBadRequest: {
		typeURI: "https://beatreach.dev/errors/bad-request",
		title:   "Bad Request",
	},
	http.StatusNotFound: {
		typeURI: "https://beatreach.dev/errors/not-found",
		title:   "Not Found",
	},
	http.StatusInternalServerError: {
		typeURI: "https://beatreach.dev/errors/internal-error",
		title:   "Internal Server Error",
	},
	http.StatusUnprocessableEntity: {
		typeURI: "https://beatreach.dev/errors/validation-error",
		title:   "Validation Error",
	},
	http.StatusServiceUnavailable: {
		typeURI: "https://beatreach.dev/errors/service-unavailable",
		title:   "Service Unavailable",
	},
	http.StatusBadGateway: {
		typeURI: "https://beatreach.dev/errors/upstream-error",
		title:   "Upstream Error",
	},
	http.StatusConflict: {
		typeURI: "https://beatreach.dev/errors/conflict",
		title:   "Conflict",
	},
}

// WriteProblem writes an RFC 7807 Problem Details response.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	pt, ok := problemTypes[status]
	if !ok {
		pt = struct {
			typeURI string
			title   string
		}{
			typeURI: "https://beatreach.dev/errors/unknown",
			title:   http.StatusText(status),
		}
	}

	p := Problem{
		Type:     pt.typeURI,
		Title:    pt.title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode problem response", "error", err)
	}
}

// ProblemWithErrors extends Problem with validation error details.
type ProblemWithErrors struct {
	Problem
	Errors []validation.ValidationError `json:"errors,omitempty"`
}

// WriteProblemWithErrors writes a Problem Details response with field errors.
func WriteProblemWithErrors(w http.ResponseWriter, r *http.Request, status int, detail string, errs []validation.ValidationError) {
	pt, ok := problemTypes[status]
	if !ok {
		pt = problemTypes[http.StatusUnprocessableEntity]
	}

	p := ProblemWithErrors{
		Problem: Problem{
			Type:     pt.typeURI,
			Title:    pt.title,
			Status:   status,
			Detail:   detail,
			Instance: r.URL.Path,
		},
		Errors: errs,
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode problem response", "error", err)
	}
}

// MapTurnError converts controller-turn failures to Problem Details.
// Schema violations carry the violated fields for diagnostics.
func MapTurnError(w http.ResponseWriter, r *http.Request, err error) {
	var schemaErr *reply.SchemaViolationError
	switch {
	case errors.Is(err, oracle.ErrUnavailable):
		WriteProblem(w, r, http.StatusServiceUnavailable,
			"The generation service is unavailable. Please try again.")
	case errors.As(err, &schemaErr):
		WriteProblemWithErrors(w, r, http.StatusBadGateway,
			"The generation service returned an invalid response.", schemaErr.Violations)
	case errors.Is(err, reply.ErrMalformed):
		WriteProblem(w, r, http.StatusBadGateway,
			"The generation service returned malformed output. Please try again.")
	default:
		// Never expose internal error details to client
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}

// MapStoreError converts store errors to Problem Details responses.
func MapStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteProblem(w, r, http.StatusNotFound, "Resource not found")
	case errors.Is(err, store.ErrDuplicateEmail):
		WriteProblem(w, r, http.StatusConflict, "Email already registered")
	default:
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}

// MapUpstreamError converts external-service errors to Problem Details.
func MapUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, songs.ErrUnavailable):
		WriteProblem(w, r, http.StatusBadGateway, "Song catalog is unavailable")
	case errors.Is(err, signup.ErrRejected):
		WriteProblem(w, r, http.StatusConflict, "Registration was rejected by the account service")
	case errors.Is(err, signup.ErrUnavailable):
		WriteProblem(w, r, http.StatusServiceUnavailable, "Account service is unavailable")
	default:
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}
