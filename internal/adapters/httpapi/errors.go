package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/Marina-Point-YC/raceday-api/internal/app/billing"
	"github.com/Marina-Point-YC/raceday-api/internal/app/membersync"
	"github.com/Marina-Point-YC/raceday-api/internal/app/notify"
	"github.com/Marina-Point-YC/raceday-api/internal/app/portal"
	"github.com/Marina-Point-YC/raceday-api/internal/app/scores"
	"github.com/Marina-Point-YC/raceday-api/internal/clubspot"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/eventstore"
)

// ErrorBody is the wire error envelope shared by every endpoint.
type ErrorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestID nullable.Nullable[string]         `json:"requestId,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestID = nullable.NewNullableWithValue(rid)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(er)
}

// writeServiceError maps application and upstream errors onto the envelope.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isValidationError(err):
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, eventstore.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "event not found", nil)
	case isUpstreamAuthError(err):
		writeError(w, r, http.StatusBadGateway, "UPSTREAM_AUTH", "clubspot rejected our credentials", nil)
	case isUpstreamError(err):
		writeError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "clubspot request failed", nil)
	default:
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, membersync.ErrMissingClubID) ||
		errors.Is(err, notify.ErrMissingEventID) ||
		errors.Is(err, notify.ErrMissingMessage) ||
		errors.Is(err, notify.ErrMissingRecipients) ||
		errors.Is(err, notify.ErrUnknownChannel) ||
		errors.Is(err, scores.ErrMissingRegistrationID) ||
		errors.Is(err, scores.ErrMissingFinishTime) ||
		errors.Is(err, scores.ErrEmptyBatch) ||
		errors.Is(err, billing.ErrMissingClubID) ||
		errors.Is(err, billing.ErrMissingDateRange) ||
		errors.Is(err, portal.ErrMissingMembershipNumber)
}

func isUpstreamAuthError(err error) bool {
	var ae *clubspot.AuthError
	return errors.As(err, &ae)
}

func isUpstreamError(err error) bool {
	var ue *clubspot.UpstreamError
	return errors.As(err, &ue) || errors.Is(err, clubspot.ErrExhaustedRetries)
}
