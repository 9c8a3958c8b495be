package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventmingle/internal/delivery/http/helpers"
	"eventmingle/internal/delivery/http/middleware"
	"eventmingle/internal/domain"
)

type ParticipationController struct {
	Logger  *slog.Logger
	Service domain.ParticipationService
	Events  domain.EventService
}

func NewParticipationController(logger *slog.Logger, svc domain.ParticipationService, events domain.EventService) *ParticipationController {
	return &ParticipationController{
		Logger:  logger,
		Service: svc,
		Events:  events,
	}
}

// ParticipationSuccessResponse is the success response envelope for
// participation endpoints returning a single record.
type ParticipationSuccessResponse struct {
	Data  *domain.Participation `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// Join godoc
// @Summary Request to join an event
// @Description Creates a participation for the authenticated user. Paid events enter PAYMENT_PENDING; unpaid events enter PENDING, or APPROVED directly when the event does not require approval. The organizer cannot join their own event, and a full event refuses the join.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.ParticipationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: precondition_failed (full, duplicate, or organizer)"
// @Failure 503 {object} helpers.APIResponse "error.code: retryable"
// @Router /events/{eventID}/participants [post]
func (c *ParticipationController) Join(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	p, err := c.Service.Join(r.Context(), eventID, userID)
	if err != nil {
		c.logUnexpected(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, p)
}

// Cancel godoc
// @Summary Cancel a participation
// @Description Moves the caller's participation to CANCELLED. Allowed from PENDING, APPROVED, PAYMENT_PENDING, and PAYMENT_FAILED.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param participationID path string true "Participation ID (UUID)"
// @Success 200 {object} controllers.ParticipationSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: precondition_failed"
// @Failure 503 {object} helpers.APIResponse "error.code: retryable"
// @Router /events/{eventID}/participants/{participationID}/cancel [post]
func (c *ParticipationController) Cancel(w http.ResponseWriter, r *http.Request) {
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

	p, err := c.Service.Cancel(r.Context(), eventID, participationID, userID)
	if err != nil {
		c.logUnexpected(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}

// RetryPayment godoc
// @Summary Retry a failed payment
// @Description Moves a PAYMENT_FAILED participation back to PAYMENT_PENDING so the payment gate can be re-entered.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param participationID path string true "Participation ID (UUID)"
// @Success 200 {object} controllers.ParticipationSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: precondition_failed"
// @Failure 503 {object} helpers.APIResponse "error.code: retryable"
// @Router /events/{eventID}/participants/{participationID}/retry-payment [post]
func (c *ParticipationController) RetryPayment(w http.ResponseWriter, r *http.Request) {
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

	p, err := c.Service.RetryPayment(r.Context(), eventID, participationID, userID)
	if err != nil {
		c.logUnexpected(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}

// MyActionsData is the data object returned by GET /events/{eventID}/participants/me/actions.
type MyActionsData struct {
	Status         domain.ParticipationStatus `json:"status"`
	StatusLabel    string                     `json:"status_label"`
	Role           domain.ViewerRole          `json:"role"`
	AllowedActions []domain.Action            `json:"allowed_actions"`
}

// GetMyActions godoc
// @Summary Get the caller's participation status and allowed actions
// @Description Projects the caller's current status and role onto the fixed set of allowed actions and display category.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains status, status_label, role, allowed_actions"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: retryable"
// @Router /events/{eventID}/participants/me/actions [get]
func (c *ParticipationController) GetMyActions(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	snap, err := c.Events.GetSnapshot(r.Context(), eventID)
	if err != nil {
		c.logUnexpected(r, err)
		helpers.WriteDomainError(w, err)
		return
	}

	role := domain.RoleParticipant
	if snap.Event.OrganizerID == userID {
		role = domain.RoleOrganizer
	}
	status := domain.StatusNone
	for _, p := range snap.Participants {
		if p.UserID == userID {
			status = p.Status
			break
		}
	}

	actions := domain.AllowedActions(status, role)
	if actions == nil {
		actions = []domain.Action{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, MyActionsData{
		Status:         status,
		StatusLabel:    domain.StatusLabel(status),
		Role:           role,
		AllowedActions: actions,
	})
}

func (c *ParticipationController) logUnexpected(r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrPreconditionFailed) || errors.Is(err, domain.ErrInvalidInput) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
