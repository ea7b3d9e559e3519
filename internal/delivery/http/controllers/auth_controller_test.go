package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DIPRO2000/TicketFlow/internal/delivery/http/helpers"
	"github.com/DIPRO2000/TicketFlow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrganizerService implements domain.OrganizerService with function fields.
type fakeOrganizerService struct {
	requestSignupFn func(ctx context.Context, name, email, password string) error
	verifySignupFn  func(ctx context.Context, email, otp string) (string, *domain.Organizer, error)
	loginFn         func(ctx context.Context, email, password string) (string, *domain.Organizer, error)
	requestResetFn  func(ctx context.Context, email string) error
	resetFn         func(ctx context.Context, email, otp, newPassword string) error
}

func (f *fakeOrganizerService) RequestSignup(ctx context.Context, name, email, password string) error {
	return f.requestSignupFn(ctx, name, email, password)
}

func (f *fakeOrganizerService) VerifySignup(ctx context.Context, email, otp string) (string, *domain.Organizer, error) {
	return f.verifySignupFn(ctx, email, otp)
}

func (f *fakeOrganizerService) Login(ctx context.Context, email, password string) (string, *domain.Organizer, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeOrganizerService) RequestPasswordReset(ctx context.Context, email string) error {
	return f.requestResetFn(ctx, email)
}

func (f *fakeOrganizerService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return f.resetFn(ctx, email, otp, newPassword)
}

func TestSignUpEndpoint(t *testing.T) {
	svc := &fakeOrganizerService{
		requestSignupFn: func(ctx context.Context, name, email, password string) error { return nil },
	}
	c := NewAuthController(testLogger, svc)

	rr := postJSON(t, c.SignUp, "http://test/auth/signup", map[string]any{
		"name": "Ada", "email": "ada@example.com", "password": "s3cretpass",
	})
	require.Equal(t, http.StatusAccepted, rr.Code)

	// Weak password is rejected before the service is called.
	rr = postJSON(t, c.SignUp, "http://test/auth/signup", map[string]any{
		"name": "Ada", "email": "ada@example.com", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignUpEndpoint_DuplicateEmail(t *testing.T) {
	svc := &fakeOrganizerService{
		requestSignupFn: func(ctx context.Context, name, email, password string) error {
			return domain.ErrDuplicateEmail
		},
	}
	c := NewAuthController(testLogger, svc)

	rr := postJSON(t, c.SignUp, "http://test/auth/signup", map[string]any{
		"name": "Ada", "email": "ada@example.com", "password": "s3cretpass",
	})
	require.Equal(t, http.StatusConflict, rr.Code)
	_, apiErr := decodeEnvelope(t, rr)
	require.NotNil(t, apiErr)
	assert.Equal(t, helpers.ErrCodeConflict, apiErr.Code)
}

func TestVerifySignupEndpoint(t *testing.T) {
	svc := &fakeOrganizerService{
		verifySignupFn: func(ctx context.Context, email, otp string) (string, *domain.Organizer, error) {
			if otp != "123456" {
				return "", nil, domain.ErrInvalidOTP
			}
			return "jwt-token", &domain.Organizer{ID: "org-1", Name: "Ada", Email: email, CreatedAt: time.Now()}, nil
		},
	}
	c := NewAuthController(testLogger, svc)

	rr := postJSON(t, c.VerifySignup, "http://test/auth/signup/verify", map[string]any{
		"email": "ada@example.com", "otp": "123456",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	data, _ := decodeEnvelope(t, rr)
	var payload AuthPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "jwt-token", payload.Token)
	require.NotNil(t, payload.Organizer)
	assert.Equal(t, "org-1", payload.Organizer.ID)

	rr = postJSON(t, c.VerifySignup, "http://test/auth/signup/verify", map[string]any{
		"email": "ada@example.com", "otp": "999999",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginEndpoint(t *testing.T) {
	svc := &fakeOrganizerService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Organizer, error) {
			if password != "s3cretpass" {
				return "", nil, domain.ErrInvalidCredentials
			}
			return "jwt-token", &domain.Organizer{ID: "org-1", Email: email}, nil
		},
	}
	c := NewAuthController(testLogger, svc)

	rr := postJSON(t, c.Login, "http://test/auth/login", map[string]any{
		"email": "ada@example.com", "password": "s3cretpass",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = postJSON(t, c.Login, "http://test/auth/login", map[string]any{
		"email": "ada@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	_, apiErr := decodeEnvelope(t, rr)
	require.NotNil(t, apiErr)
	assert.Equal(t, helpers.ErrCodeUnauthorized, apiErr.Code)
}

func TestResetPasswordEndpoint(t *testing.T) {
	svc := &fakeOrganizerService{
		resetFn: func(ctx context.Context, email, otp, newPassword string) error {
			if otp != "123456" {
				return domain.ErrInvalidOTP
			}
			return nil
		},
	}
	c := NewAuthController(testLogger, svc)

	rr := postJSON(t, c.ResetPassword, "http://test/auth/reset-password", map[string]any{
		"email": "ada@example.com", "otp": "123456", "new_password": "brandnewpass",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = postJSON(t, c.ResetPassword, "http://test/auth/reset-password", map[string]any{
		"email": "ada@example.com", "otp": "000000", "new_password": "brandnewpass",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
