package services

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionInvalid     = errors.New("session is invalid or expired")
	ErrTooManyAttempts    = errors.New("too many failed sign-in attempts, try again later")
)

// AuthError is a sign-in failure carrying the provider's message.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// Principal is the signed-in operator. Any principal may manage every collection.
type Principal struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Session is an issued sign-in session.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal Principal
}

// Authenticator signs the operator in and validates their sessions.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Verify(ctx context.Context, token string) (*Principal, error)
	SignOut(ctx context.Context, token string) error
}

// GateState is the admin gate state for one request.
type GateState int

const (
	GateChecking GateState = iota
	GateUnauthenticated
	GateAuthenticated
)

func (s GateState) String() string {
	switch s {
	case GateUnauthenticated:
		return "unauthenticated"
	case GateAuthenticated:
		return "authenticated"
	default:
		return "checking"
	}
}

// ResolveGate leaves the checking state based on the presented session token.
func ResolveGate(ctx context.Context, auth Authenticator, token string) (GateState, *Principal) {
	if token == "" || auth == nil {
		return GateUnauthenticated, nil
	}
	p, err := auth.Verify(ctx, token)
	if err != nil {
		return GateUnauthenticated, nil
	}
	return GateAuthenticated, p
}

// SignInMessage is the user-facing text for a failed sign-in. Provider
// messages pass through unchanged.
func SignInMessage(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Sign in failed, please try again"
}
