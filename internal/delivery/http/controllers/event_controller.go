package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"eventmingle/internal/delivery/http/helpers"
	"eventmingle/internal/delivery/http/middleware"
	"eventmingle/internal/domain"
)

// uuidRegexEvent matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegexEvent = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type EventController struct {
	Logger         *slog.Logger
	Service        domain.EventService
	Participations domain.ParticipationService
}

func NewEventController(logger *slog.Logger, svc domain.EventService, participations domain.ParticipationService) *EventController {
	return &EventController{
		Logger:         logger,
		Service:        svc,
		Participations: participations,
	}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	IsPaid           bool     `json:"is_paid"`
	Price            int64    `json:"price"`
	MaxParticipants  *int     `json:"max_participants"`
	RequiresApproval bool     `json:"requires_approval"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

// Validate implements helpers.Validator.
func (r *CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if r.Latitude == nil || r.Longitude == nil {
		errs = append(errs, "latitude and longitude are required")
	}
	if r.IsPaid && r.Price < 0 {
		errs = append(errs, "price must be non-negative for paid events")
	}
	if r.MaxParticipants != nil && *r.MaxParticipants <= 0 {
		errs = append(errs, "max_participants must be positive")
	}
	return errs
}

// CreateEventSuccessResponse is the success response envelope for POST /events (201).
type CreateEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event owned by the authenticated user. Coordinates are required; paid events need a non-negative price.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateEventRequest true "Event details"
// @Success 201 {object} controllers.CreateEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 503 {object} helpers.APIResponse "error.code: retryable"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	event := &domain.Event{
		OrganizerID:      userID,
		Name:             req.Name,
		Description:      req.Description,
		IsPaid:           req.IsPaid,
		Price:            req.Price,
		MaxParticipants:  req.MaxParticipants,
		RequiresApproval: req.RequiresApproval,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
	}

	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEventSuccessResponse is the success response envelope for GET /events/{eventID} (200).
type GetEventSuccessResponse struct {
	Data  *domain.EventSnapshot `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// GetEvent godoc
// @Summary Get an event snapshot
// @Description Returns the event with its participants and their statuses, in join order.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GetEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: retryable"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}

	snap, err := c.Service.GetSnapshot(r.Context(), eventID)
	if err != nil {
		c.logUnexpected(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, snap)
}

// ListMyEventsSuccessResponse is the success response envelope for GET /events (200).
type ListMyEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListMyEvents godoc
// @Summary List events organized by the current user
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMyEventsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 503 {object} helpers.APIResponse "error.code: retryable"
// @Router /events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	events, err := c.Service.ListEventsByOrganizer(r.Context(), userID)
	if err != nil {
		c.logUnexpected(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListParticipantsSuccessResponse is the success response envelope for GET /events/{eventID}/participants (200).
type ListParticipantsSuccessResponse struct {
	Data  []*domain.Participation `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// ListParticipants godoc
// @Summary List an event's participants
// @Description Returns all participations for the event, in join order. Organizer only. Read-only: polling this endpoint never triggers transitions.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListParticipantsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: retryable"
// @Router /events/{eventID}/participants [get]
func (c *EventController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	participants, err := c.Participations.ListByEvent(r.Context(), eventID, userID)
	if err != nil {
		c.logUnexpected(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, participants)
}

func (c *EventController) logUnexpected(r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrPreconditionFailed) || errors.Is(err, domain.ErrInvalidInput) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
