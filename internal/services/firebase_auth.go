package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
)

// sessionIssuer is the part of the Firebase auth client used for sessions.
type sessionIssuer interface {
	SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
	VerifySessionCookie(ctx context.Context, sessionCookie string) (*auth.Token, error)
	VerifySessionCookieAndCheckRevoked(ctx context.Context, sessionCookie string) (*auth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// FirebaseAuthenticator signs in with Firebase email/password accounts and
// keeps sessions as Firebase session cookies.
type FirebaseAuthenticator struct {
	client     sessionIssuer
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
	SessionTTL time.Duration
}

func NewFirebaseAuthenticator(client *auth.Client, apiKey string, ttl time.Duration) *FirebaseAuthenticator {
	return newFirebaseAuthenticator(client, apiKey, ttl)
}

func newFirebaseAuthenticator(client sessionIssuer, apiKey string, ttl time.Duration) *FirebaseAuthenticator {
	return &FirebaseAuthenticator{
		client:     client,
		APIKey:     strings.TrimSpace(apiKey),
		Endpoint:   "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword",
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		SessionTTL: ttl,
	}
}

type passwordSignInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type passwordSignInResponse struct {
	IDToken string `json:"idToken"`
	Email   string `json:"email"`
	LocalID string `json:"localId"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func providerError(message string) error {
	code := message
	if i := strings.Index(code, " "); i > 0 {
		code = code[:i]
	}
	var sentinel error
	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "USER_DISABLED":
		sentinel = ErrInvalidCredentials
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		sentinel = ErrTooManyAttempts
	}
	return &AuthError{Message: message, Err: sentinel}
}

func (a *FirebaseAuthenticator) SignIn(ctx context.Context, email, password string) (*Session, error) {
	b, err := json.Marshal(passwordSignInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, err
	}
	endpoint := a.Endpoint + "?key=" + url.QueryEscape(a.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := a.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out passwordSignInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("identity toolkit http %d: %w", resp.StatusCode, err)
	}
	if out.Error != nil {
		return nil, providerError(out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK || out.IDToken == "" {
		return nil, fmt.Errorf("identity toolkit http %d", resp.StatusCode)
	}

	cookie, err := a.client.SessionCookie(ctx, out.IDToken, a.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("create session cookie: %w", err)
	}
	return &Session{
		Token:     cookie,
		ExpiresAt: time.Now().Add(a.SessionTTL),
		Principal: Principal{UID: out.LocalID, Email: out.Email},
	}, nil
}

func (a *FirebaseAuthenticator) Verify(ctx context.Context, token string) (*Principal, error) {
	tok, err := a.client.VerifySessionCookieAndCheckRevoked(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}
	email, _ := tok.Claims["email"].(string)
	return &Principal{UID: tok.UID, Email: email}, nil
}

// SignOut revokes the user's refresh tokens, which invalidates every session
// cookie minted before now.
func (a *FirebaseAuthenticator) SignOut(ctx context.Context, token string) error {
	tok, err := a.client.VerifySessionCookie(ctx, token)
	if err != nil {
		return nil
	}
	if err := a.client.RevokeRefreshTokens(ctx, tok.UID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

var _ Authenticator = (*FirebaseAuthenticator)(nil)
