package controllers

import (
	"net/http"

	"eventmingle/internal/delivery/http/helpers"
)

// eventIDFromPath extracts and validates the eventID path value. On failure
// it writes a 400 response and returns ok=false.
func eventIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return "", false
	}
	if !uuidRegexEvent.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return "", false
	}
	return eventID, true
}

// participationIDFromPath extracts and validates the participationID path
// value. On failure it writes a 400 response and returns ok=false.
func participationIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	participationID := r.PathValue("participationID")
	if participationID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing participationID")
		return "", false
	}
	if !uuidRegexEvent.MatchString(participationID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid participationID")
		return "", false
	}
	return participationID, true
}
