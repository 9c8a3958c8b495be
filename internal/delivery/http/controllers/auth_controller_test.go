package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmingle/internal/delivery/http/helpers"
	"eventmingle/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	signUpResult *domain.User
	signUpErr    error
	loginToken   string
	loginErr     error
	lastEmail    string
}

func (f *fakeAuthService) SignUp(ctx context.Context, email, password, name, lastName string) (*domain.User, error) {
	f.lastEmail = email
	return f.signUpResult, f.signUpErr
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	f.lastEmail = email
	return f.loginToken, f.loginErr
}

func TestAuthController_SignUp(t *testing.T) {
	body := func(email, password string) *bytes.Buffer {
		b, _ := json.Marshal(SignUpRequest{Email: email, Password: password, Name: "Ada", LastName: "Lovelace"})
		return bytes.NewBuffer(b)
	}

	t.Run("created", func(t *testing.T) {
		svc := &fakeAuthService{signUpResult: &domain.User{ID: "us-1", Email: "ada@example.com"}}
		c := NewAuthController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/signup", body("ada@example.com", "supersecret"))
		rec := httptest.NewRecorder()
		c.SignUp(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var envelope struct {
			Data domain.User `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "us-1", envelope.Data.ID)
		// Hash and salt must never leave the server.
		assert.NotContains(t, rec.Body.String(), "password_hash")
		assert.NotContains(t, rec.Body.String(), "salt")
	})

	t.Run("missing fields", func(t *testing.T) {
		c := NewAuthController(testLogger, &fakeAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/auth/signup", body("", ""))
		rec := httptest.NewRecorder()
		c.SignUp(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		svc := &fakeAuthService{signUpErr: domain.ErrDuplicateEmail}
		c := NewAuthController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/signup", body("ada@example.com", "supersecret"))
		rec := httptest.NewRecorder()
		c.SignUp(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		envelope := decodeEnvelope(t, rec)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodePreconditionFailed, envelope.Error.Code)
	})

	t.Run("invalid input from the service", func(t *testing.T) {
		svc := &fakeAuthService{signUpErr: domain.ErrInvalidInput}
		c := NewAuthController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/signup", body("ada@example.com", "supersecret"))
		rec := httptest.NewRecorder()
		c.SignUp(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown error is retryable", func(t *testing.T) {
		svc := &fakeAuthService{signUpErr: errors.New("db down")}
		c := NewAuthController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/signup", body("ada@example.com", "supersecret"))
		rec := httptest.NewRecorder()
		c.SignUp(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestAuthController_Login(t *testing.T) {
	body := func(email, password string) *bytes.Buffer {
		b, _ := json.Marshal(LoginRequest{Email: email, Password: password})
		return bytes.NewBuffer(b)
	}

	t.Run("success", func(t *testing.T) {
		svc := &fakeAuthService{loginToken: "tok-1"}
		c := NewAuthController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", body("ada@example.com", "supersecret"))
		rec := httptest.NewRecorder()
		c.Login(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var envelope struct {
			Data LoginResponseData `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "tok-1", envelope.Data.Token)
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := &fakeAuthService{loginErr: errors.New("invalid credentials")}
		c := NewAuthController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", body("ada@example.com", "wrong"))
		rec := httptest.NewRecorder()
		c.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		c := NewAuthController(testLogger, &fakeAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/auth/login", body("", ""))
		rec := httptest.NewRecorder()
		c.Login(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
