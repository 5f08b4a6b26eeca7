package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/access"
	"gymdesk/internal/domain/client"
	"gymdesk/internal/domain/exercise"
	"gymdesk/internal/domain/membership"
	"gymdesk/internal/domain/payment"
	"gymdesk/internal/domain/setting"
	"gymdesk/internal/domain/workout"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest     = "BAD_REQUEST"
	codeNotFound       = "NOT_FOUND"
	codeConflict       = "CONFLICT"
	codeInvalidEndDate = "INVALID_END_DATE"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response_encode_failed", "error", err)
	}
}

// writeError renders an error body as JSON, or as plain text for browsers.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	if isHTMLRequest(r) {
		http.Error(w, message, status)
		return
	}
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// badRequest reports an unreadable request body or parameter.
func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusBadRequest, codeBadRequest, message)
}

// validationErrors are domain sentinels whose text is safe to show staff.
var validationErrors = []error{
	orchestrators.ErrEmptyIdentifier,
	orchestrators.ErrMissingClientID,
	orchestrators.ErrMissingMembership,
	projections.ErrInvalidYear,
	access.ErrInvalidDate,
	client.ErrEmptyFirstName,
	client.ErrEmptyLastName,
	client.ErrNameTooLong,
	client.ErrEmptyPhone,
	client.ErrEmptyCedula,
	client.ErrInvalidEmail,
	client.ErrInvalidStatus,
	client.ErrNegativeDebt,
	membership.ErrEmptyName,
	membership.ErrNegativePrice,
	membership.ErrNegativeDuration,
	payment.ErrNegativeAmount,
	payment.ErrEmptyConcept,
	setting.ErrMissingKey,
	setting.ErrInvalidGraceDays,
	exercise.ErrEmptyName,
	exercise.ErrNameTooLong,
	exercise.ErrInvalidVideoURL,
	workout.ErrEmptyName,
	workout.ErrNameTooLong,
	workout.ErrInvalidLevel,
	workout.ErrTooManyItems,
	workout.ErrMissingExercise,
	workout.ErrDuplicateExercise,
	workout.ErrNegativeSets,
	workout.ErrUnknownExercise,
}

var notFoundErrors = []error{
	orchestrators.ErrClientNotFound,
	client.ErrNotFound,
	membership.ErrNotFound,
	setting.ErrNotFound,
	exercise.ErrNotFound,
	workout.ErrNotFound,
	sql.ErrNoRows,
}

// writeDomainError maps an orchestrator or projection error to a response.
// INVARIANT: Unknown errors never reach the client; they are logged as 500s
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidDate *access.InvalidDateError
	if errors.As(err, &invalidDate) {
		writeError(w, r, http.StatusUnprocessableEntity, codeInvalidEndDate, invalidDate.Error())
		return
	}
	if errors.Is(err, client.ErrDuplicateCedula) || errors.Is(err, client.ErrDuplicateFinger) ||
		errors.Is(err, exercise.ErrInUse) {
		writeError(w, r, http.StatusConflict, codeConflict, err.Error())
		return
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			writeError(w, r, http.StatusNotFound, codeNotFound, notFoundMessage(err))
			return
		}
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			writeError(w, r, http.StatusBadRequest, codeBadRequest, err.Error())
			return
		}
	}
	internalError(w, err)
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, orchestrators.ErrClientNotFound), errors.Is(err, client.ErrNotFound):
		return "client not found"
	case errors.Is(err, membership.ErrNotFound):
		return "membership not found"
	case errors.Is(err, setting.ErrNotFound):
		return "setting not found"
	case errors.Is(err, exercise.ErrNotFound):
		return "exercise not found"
	case errors.Is(err, workout.ErrNotFound):
		return "workout plan not found"
	default:
		return "not found"
	}
}
