package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/portfolio/backend/internal/middleware"
	"github.com/portfolio/backend/internal/services"
)

type stubAuth struct{}

func (stubAuth) SignIn(ctx context.Context, email, password string) (*services.Session, error) {
	return nil, errors.New("unused")
}

func (stubAuth) Verify(ctx context.Context, token string) (*services.Principal, error) {
	if token != "good" {
		return nil, services.ErrSessionInvalid
	}
	return &services.Principal{UID: "u1", Email: "owner@example.com"}, nil
}

func (stubAuth) SignOut(ctx context.Context, token string) error { return nil }

func TestRequireSession(t *testing.T) {
	protected := middleware.RequireSession(stubAuth{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := middleware.GetPrincipal(r.Context())
		if assert.NotNil(t, p) {
			w.Write([]byte(p.Email))
		}
	}))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no session", func(r *http.Request) {}, http.StatusUnauthorized},
		{"bad cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "bad"})
		}, http.StatusUnauthorized},
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "good"})
		}, http.StatusOK},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "owner@example.com", rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"success":false`)
			}
		})
	}
}

func TestGetPrincipalEmpty(t *testing.T) {
	assert.Nil(t, middleware.GetPrincipal(context.Background()))
}
