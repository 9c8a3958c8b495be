package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmingle/internal/delivery/http/helpers"
	"eventmingle/internal/delivery/http/middleware"
	"eventmingle/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testEventID         = "11111111-1111-1111-1111-111111111111"
	testParticipationID = "22222222-2222-2222-2222-222222222222"
)

// fakeParticipationService implements domain.ParticipationService for handler tests.
type fakeParticipationService struct {
	joinResult   *domain.Participation
	joinErr      error
	cancelResult *domain.Participation
	cancelErr    error
	retryResult  *domain.Participation
	retryErr     error
	listResult   []*domain.Participation
	listErr      error

	lastJoinEventID   string
	lastJoinUserID    string
	lastCancelPartID  string
	lastRetryPartID   string
	lastListEventID   string
	lastListActorID   string
	lastCancelEventID string
}

func (f *fakeParticipationService) Join(ctx context.Context, eventID, userID string) (*domain.Participation, error) {
	f.lastJoinEventID, f.lastJoinUserID = eventID, userID
	return f.joinResult, f.joinErr
}

func (f *fakeParticipationService) Cancel(ctx context.Context, eventID, participationID, userID string) (*domain.Participation, error) {
	f.lastCancelEventID, f.lastCancelPartID = eventID, participationID
	return f.cancelResult, f.cancelErr
}

func (f *fakeParticipationService) RetryPayment(ctx context.Context, eventID, participationID, userID string) (*domain.Participation, error) {
	f.lastRetryPartID = participationID
	return f.retryResult, f.retryErr
}

func (f *fakeParticipationService) GetForUser(ctx context.Context, eventID, userID string) (*domain.Participation, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeParticipationService) ListByEvent(ctx context.Context, eventID, actorID string) ([]*domain.Participation, error) {
	f.lastListEventID, f.lastListActorID = eventID, actorID
	return f.listResult, f.listErr
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createErr    error
	snapshot     *domain.EventSnapshot
	snapshotErr  error
	listResult   []*domain.Event
	listErr      error
	lastSnapshot string
}

func (f *fakeEventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	event.ID = testEventID
	return nil
}

func (f *fakeEventService) GetSnapshot(ctx context.Context, eventID string) (*domain.EventSnapshot, error) {
	f.lastSnapshot = eventID
	return f.snapshot, f.snapshotErr
}

func (f *fakeEventService) ListEventsByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	return f.listResult, f.listErr
}

// doRequest runs a handler through a mux so PathValue is populated, with the
// user ID set in the context.
func doRequest(t *testing.T, pattern string, handler http.HandlerFunc, req *http.Request, userID string) *httptest.ResponseRecorder {
	t.Helper()
	if userID != "" {
		req = req.WithContext(middleware.SetUserID(req.Context(), userID))
	}
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestParticipationController_Join(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &fakeParticipationService{
			joinResult: &domain.Participation{ID: testParticipationID, EventID: testEventID, UserID: "us-1", Status: domain.StatusPending},
		}
		c := NewParticipationController(testLogger, svc, &fakeEventService{})

		req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/participants", nil)
		rec := doRequest(t, "POST /events/{eventID}/participants", c.Join, req, "us-1")

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, testEventID, svc.lastJoinEventID)
		assert.Equal(t, "us-1", svc.lastJoinUserID)
		envelope := decodeEnvelope(t, rec)
		require.Nil(t, envelope.Error)
	})

	t.Run("invalid event id", func(t *testing.T) {
		c := NewParticipationController(testLogger, &fakeParticipationService{}, &fakeEventService{})

		req := httptest.NewRequest(http.MethodPost, "/events/not-a-uuid/participants", nil)
		rec := doRequest(t, "POST /events/{eventID}/participants", c.Join, req, "us-1")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeEnvelope(t, rec)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeBadRequest, envelope.Error.Code)
	})

	t.Run("missing user is unauthorized", func(t *testing.T) {
		c := NewParticipationController(testLogger, &fakeParticipationService{}, &fakeEventService{})

		req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/participants", nil)
		rec := doRequest(t, "POST /events/{eventID}/participants", c.Join, req, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("error mapping", func(t *testing.T) {
		tests := []struct {
			name     string
			err      error
			wantCode int
			wantErr  string
		}{
			{"precondition", domain.ErrPreconditionFailed, http.StatusConflict, helpers.ErrCodePreconditionFailed},
			{"wrapped precondition", fmt.Errorf("%w: event is full", domain.ErrPreconditionFailed), http.StatusConflict, helpers.ErrCodePreconditionFailed},
			{"not found", domain.ErrNotFound, http.StatusNotFound, helpers.ErrCodeNotFound},
			{"unknown is retryable", errors.New("db down"), http.StatusServiceUnavailable, helpers.ErrCodeRetryable},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := &fakeParticipationService{joinErr: tt.err}
				c := NewParticipationController(testLogger, svc, &fakeEventService{})

				req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/participants", nil)
				rec := doRequest(t, "POST /events/{eventID}/participants", c.Join, req, "us-1")

				assert.Equal(t, tt.wantCode, rec.Code)
				envelope := decodeEnvelope(t, rec)
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantErr, envelope.Error.Code)
			})
		}
	})
}

func TestParticipationController_Cancel(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := &fakeParticipationService{
			cancelResult: &domain.Participation{ID: testParticipationID, Status: domain.StatusCancelled},
		}
		c := NewParticipationController(testLogger, svc, &fakeEventService{})

		req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/participants/"+testParticipationID+"/cancel", nil)
		rec := doRequest(t, "POST /events/{eventID}/participants/{participationID}/cancel", c.Cancel, req, "us-1")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testEventID, svc.lastCancelEventID)
		assert.Equal(t, testParticipationID, svc.lastCancelPartID)
	})

	t.Run("forbidden", func(t *testing.T) {
		svc := &fakeParticipationService{cancelErr: domain.ErrForbidden}
		c := NewParticipationController(testLogger, svc, &fakeEventService{})

		req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/participants/"+testParticipationID+"/cancel", nil)
		rec := doRequest(t, "POST /events/{eventID}/participants/{participationID}/cancel", c.Cancel, req, "us-2")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestParticipationController_RetryPayment(t *testing.T) {
	svc := &fakeParticipationService{
		retryResult: &domain.Participation{ID: testParticipationID, Status: domain.StatusPaymentPending},
	}
	c := NewParticipationController(testLogger, svc, &fakeEventService{})

	req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/participants/"+testParticipationID+"/retry-payment", nil)
	rec := doRequest(t, "POST /events/{eventID}/participants/{participationID}/retry-payment", c.RetryPayment, req, "us-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testParticipationID, svc.lastRetryPartID)
}

func TestParticipationController_GetMyActions(t *testing.T) {
	event := &domain.Event{ID: testEventID, OrganizerID: "org-1", Name: "Picnic"}

	tests := []struct {
		name         string
		userID       string
		participants []*domain.Participation
		wantStatus   domain.ParticipationStatus
		wantRole     domain.ViewerRole
		wantActions  []string
		wantLabel    string
	}{
		{
			name:        "viewer without record can join",
			userID:      "us-1",
			wantStatus:  domain.StatusNone,
			wantRole:    domain.RoleParticipant,
			wantActions: []string{"join"},
			wantLabel:   "not-participating",
		},
		{
			name:   "pending participant can cancel",
			userID: "us-1",
			participants: []*domain.Participation{
				{ID: testParticipationID, EventID: testEventID, UserID: "us-1", Status: domain.StatusPending},
			},
			wantStatus:  domain.StatusPending,
			wantRole:    domain.RoleParticipant,
			wantActions: []string{"cancel"},
			wantLabel:   "awaiting-decision",
		},
		{
			name:   "payment failed participant can retry or cancel",
			userID: "us-1",
			participants: []*domain.Participation{
				{ID: testParticipationID, EventID: testEventID, UserID: "us-1", Status: domain.StatusPaymentFailed},
			},
			wantStatus:  domain.StatusPaymentFailed,
			wantRole:    domain.RoleParticipant,
			wantActions: []string{"retry_payment", "cancel"},
			wantLabel:   "payment-failed",
		},
		{
			name:        "organizer gets no join",
			userID:      "org-1",
			wantStatus:  domain.StatusNone,
			wantRole:    domain.RoleOrganizer,
			wantActions: []string{},
			wantLabel:   "not-participating",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := &fakeEventService{snapshot: &domain.EventSnapshot{Event: event, Participants: tt.participants}}
			c := NewParticipationController(testLogger, &fakeParticipationService{}, events)

			req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID+"/participants/me/actions", nil)
			rec := doRequest(t, "GET /events/{eventID}/participants/me/actions", c.GetMyActions, req, tt.userID)

			require.Equal(t, http.StatusOK, rec.Code)
			var envelope struct {
				Data MyActionsData `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.Equal(t, tt.wantStatus, envelope.Data.Status)
			assert.Equal(t, tt.wantRole, envelope.Data.Role)
			assert.Equal(t, tt.wantLabel, envelope.Data.StatusLabel)
			got := make([]string, 0, len(envelope.Data.AllowedActions))
			for _, a := range envelope.Data.AllowedActions {
				got = append(got, string(a))
			}
			assert.Equal(t, tt.wantActions, got)
		})
	}

	t.Run("unknown event", func(t *testing.T) {
		events := &fakeEventService{snapshotErr: domain.ErrNotFound}
		c := NewParticipationController(testLogger, &fakeParticipationService{}, events)

		req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID+"/participants/me/actions", nil)
		rec := doRequest(t, "GET /events/{eventID}/participants/me/actions", c.GetMyActions, req, "us-1")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
