package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventmingle/internal/delivery/http/helpers"
	"eventmingle/internal/delivery/http/middleware"
	"eventmingle/internal/domain"
)

type ModerationController struct {
	Logger  *slog.Logger
	Service domain.ModerationService
}

func NewModerationController(logger *slog.Logger, svc domain.ModerationService) *ModerationController {
	return &ModerationController{
		Logger:  logger,
		Service: svc,
	}
}

// UpdateStatus godoc
// @Summary Approve or reject a pending participant
// @Description Organizer-only. The target participation must be exactly PENDING; anything else is a precondition failure, never a silent success.
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param participationID path string true "Participation ID (UUID)"
// @Param status query string true "Decision" Enums(APPROVED, REJECTED)
// @Success 200 {object} controllers.ParticipationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: precondition_failed (not PENDING)"
// @Failure 503 {object} helpers.APIResponse "error.code: retryable"
// @Router /events/{eventID}/participants/{participationID}/status [patch]
func (c *ModerationController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	participationID, ok := participationIDFromPath(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var (
		p   *domain.Participation
		err error
	)
	switch status := r.URL.Query().Get("status"); domain.ParticipationStatus(status) {
	case domain.StatusApproved:
		p, err = c.Service.Approve(r.Context(), eventID, participationID, userID)
	case domain.StatusRejected:
		p, err = c.Service.Reject(r.Context(), eventID, participationID, userID)
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "status must be APPROVED or REJECTED")
		return
	}
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrForbidden) &&
			!errors.Is(err, domain.ErrPreconditionFailed) {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		}
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}
