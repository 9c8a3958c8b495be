package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmingle/internal/delivery/http/helpers"
	"eventmingle/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEventBody(t *testing.T, mutate func(*CreateEventRequest)) *bytes.Buffer {
	t.Helper()
	lat, lng := 52.52, 13.405
	req := CreateEventRequest{
		Name:      "Lakeside Picnic",
		Latitude:  &lat,
		Longitude: &lng,
	}
	if mutate != nil {
		mutate(&req)
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestEventController_CreateEvent(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventService{}, &fakeParticipationService{})

		req := httptest.NewRequest(http.MethodPost, "/events", createEventBody(t, nil))
		rec := doRequest(t, "POST /events", c.CreateEvent, req, "org-1")

		assert.Equal(t, http.StatusCreated, rec.Code)
		var envelope struct {
			Data domain.Event `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, testEventID, envelope.Data.ID)
		assert.Equal(t, "org-1", envelope.Data.OrganizerID)
	})

	t.Run("missing name", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventService{}, &fakeParticipationService{})

		req := httptest.NewRequest(http.MethodPost, "/events", createEventBody(t, func(r *CreateEventRequest) { r.Name = "" }))
		rec := doRequest(t, "POST /events", c.CreateEvent, req, "org-1")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing coordinates", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventService{}, &fakeParticipationService{})

		req := httptest.NewRequest(http.MethodPost, "/events", createEventBody(t, func(r *CreateEventRequest) {
			r.Latitude = nil
			r.Longitude = nil
		}))
		rec := doRequest(t, "POST /events", c.CreateEvent, req, "org-1")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative price on paid event", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventService{}, &fakeParticipationService{})

		req := httptest.NewRequest(http.MethodPost, "/events", createEventBody(t, func(r *CreateEventRequest) {
			r.IsPaid = true
			r.Price = -5
		}))
		rec := doRequest(t, "POST /events", c.CreateEvent, req, "org-1")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing user is unauthorized", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventService{}, &fakeParticipationService{})

		req := httptest.NewRequest(http.MethodPost, "/events", createEventBody(t, nil))
		rec := doRequest(t, "POST /events", c.CreateEvent, req, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestEventController_GetEvent(t *testing.T) {
	t.Run("public snapshot", func(t *testing.T) {
		events := &fakeEventService{snapshot: &domain.EventSnapshot{
			Event: &domain.Event{ID: testEventID, OrganizerID: "org-1", Name: "Picnic"},
			Participants: []*domain.Participation{
				{ID: testParticipationID, EventID: testEventID, UserID: "us-1", Status: domain.StatusApproved},
			},
		}}
		c := NewEventController(testLogger, events, &fakeParticipationService{})

		req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID, nil)
		rec := doRequest(t, "GET /events/{eventID}", c.GetEvent, req, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testEventID, events.lastSnapshot)
		var envelope struct {
			Data domain.EventSnapshot `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		require.Len(t, envelope.Data.Participants, 1)
	})

	t.Run("not found", func(t *testing.T) {
		events := &fakeEventService{snapshotErr: domain.ErrNotFound}
		c := NewEventController(testLogger, events, &fakeParticipationService{})

		req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID, nil)
		rec := doRequest(t, "GET /events/{eventID}", c.GetEvent, req, "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEventController_ListMyEvents(t *testing.T) {
	events := &fakeEventService{listResult: []*domain.Event{
		{ID: testEventID, OrganizerID: "org-1", Name: "Picnic"},
	}}
	c := NewEventController(testLogger, events, &fakeParticipationService{})

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := doRequest(t, "GET /events", c.ListMyEvents, req, "org-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []*domain.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
}

func TestEventController_ListParticipants(t *testing.T) {
	t.Run("organizer sees the list", func(t *testing.T) {
		svc := &fakeParticipationService{listResult: []*domain.Participation{
			{ID: testParticipationID, EventID: testEventID, UserID: "us-1", Status: domain.StatusPending},
		}}
		c := NewEventController(testLogger, &fakeEventService{}, svc)

		req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID+"/participants", nil)
		rec := doRequest(t, "GET /events/{eventID}/participants", c.ListParticipants, req, "org-1")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testEventID, svc.lastListEventID)
		assert.Equal(t, "org-1", svc.lastListActorID)
	})

	t.Run("non-organizer is forbidden", func(t *testing.T) {
		svc := &fakeParticipationService{listErr: domain.ErrForbidden}
		c := NewEventController(testLogger, &fakeEventService{}, svc)

		req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID+"/participants", nil)
		rec := doRequest(t, "GET /events/{eventID}/participants", c.ListParticipants, req, "us-1")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		envelope := decodeEnvelope(t, rec)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeForbidden, envelope.Error.Code)
	})
}
