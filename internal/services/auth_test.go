package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newLocalAuth(t *testing.T) *LocalAuthenticator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewLocalAuthenticator("Admin@Example.com", string(hash), "0123456789abcdef0123456789abcdef", time.Hour, nil)
}

func TestLocalAuthenticatorSignInAndVerify(t *testing.T) {
	ctx := context.Background()
	a := newLocalAuth(t)

	sess, err := a.SignIn(ctx, " admin@example.com ", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "admin@example.com", sess.Principal.Email)

	p, err := a.Verify(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", p.Email)

	state, principal := ResolveGate(ctx, a, sess.Token)
	assert.Equal(t, GateAuthenticated, state)
	assert.Equal(t, p, principal)
}

func TestLocalAuthenticatorRejects(t *testing.T) {
	ctx := context.Background()
	a := newLocalAuth(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "admin@example.com", "nope"},
		{"wrong email", "other@example.com", "s3cret-pass"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.SignIn(ctx, tt.email, tt.password)
			var ae *AuthError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, "Invalid email or password", ae.Message)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLocalAuthenticatorExpiryAndTampering(t *testing.T) {
	ctx := context.Background()
	a := newLocalAuth(t)
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return issued }

	sess, err := a.SignIn(ctx, "admin@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = a.Verify(ctx, sess.Token+"x")
	assert.ErrorIs(t, err, ErrSessionInvalid)

	a.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = a.Verify(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	state, p := ResolveGate(ctx, a, sess.Token)
	assert.Equal(t, GateUnauthenticated, state)
	assert.Nil(t, p)

	state, _ = ResolveGate(ctx, a, "")
	assert.Equal(t, GateUnauthenticated, state)
	assert.Equal(t, "unauthenticated", state.String())
	assert.Equal(t, "checking", GateChecking.String())
}

func TestLocalAuthenticatorSignOutWithoutRedis(t *testing.T) {
	ctx := context.Background()
	a := newLocalAuth(t)
	sess, err := a.SignIn(ctx, "admin@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NoError(t, a.SignOut(ctx, sess.Token))
	assert.NoError(t, a.SignOut(ctx, "garbage"))
}

type fakeSessions struct {
	revoked []string
}

func (f *fakeSessions) SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error) {
	return "cookie-for-" + idToken, nil
}

func (f *fakeSessions) VerifySessionCookie(ctx context.Context, cookie string) (*auth.Token, error) {
	if cookie != "cookie-for-id-token" {
		return nil, errors.New("bad cookie")
	}
	return &auth.Token{UID: "uid-1", Claims: map[string]interface{}{"email": "owner@example.com"}}, nil
}

func (f *fakeSessions) VerifySessionCookieAndCheckRevoked(ctx context.Context, cookie string) (*auth.Token, error) {
	if len(f.revoked) > 0 {
		return nil, errors.New("session cookie revoked")
	}
	return f.VerifySessionCookie(ctx, cookie)
}

func (f *fakeSessions) RevokeRefreshTokens(ctx context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func newIdentityToolkit(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		var body passwordSignInRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			return
		}
		assert.True(t, body.ReturnSecureToken)
		w.Header().Set("Content-Type", "application/json")
		if body.Password != "right" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":400,"message":"INVALID_LOGIN_CREDENTIALS"}}`))
			return
		}
		w.Write([]byte(`{"idToken":"id-token","email":"owner@example.com","localId":"uid-1"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFirebaseAuthenticatorFlow(t *testing.T) {
	ctx := context.Background()
	srv := newIdentityToolkit(t)
	sessions := &fakeSessions{}

	a := newFirebaseAuthenticator(sessions, "test-key", 24*time.Hour)
	a.Endpoint = srv.URL
	a.HTTPClient = srv.Client()

	_, err := a.SignIn(ctx, "owner@example.com", "wrong")
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "INVALID_LOGIN_CREDENTIALS", ae.Message)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	sess, err := a.SignIn(ctx, "owner@example.com", "right")
	require.NoError(t, err)
	assert.Equal(t, "cookie-for-id-token", sess.Token)
	assert.Equal(t, Principal{UID: "uid-1", Email: "owner@example.com"}, sess.Principal)

	p, err := a.Verify(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", p.Email)

	require.NoError(t, a.SignOut(ctx, sess.Token))
	assert.Equal(t, []string{"uid-1"}, sessions.revoked)

	_, err = a.Verify(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}
