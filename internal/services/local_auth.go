package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	loginAttemptPrefix  = "portfolio:login_attempts:"
	revokedTokenPrefix  = "portfolio:revoked_session:"
	maxLoginAttempts    = 5
	loginAttemptsWindow = 10 * time.Minute
)

// LocalAuthenticator signs in a single operator account from configuration
// and issues HS256 session tokens. With Redis it also limits failed attempts
// and remembers signed-out tokens until they expire.
type LocalAuthenticator struct {
	email        string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	rdb          *redis.Client
	now          func() time.Time
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewLocalAuthenticator builds the authenticator. rdb may be nil.
func NewLocalAuthenticator(email, passwordHash, secret string, ttl time.Duration, rdb *redis.Client) *LocalAuthenticator {
	return &LocalAuthenticator{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          ttl,
		rdb:          rdb,
		now:          time.Now,
	}
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (a *LocalAuthenticator) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	attemptsKey := loginAttemptPrefix + email

	if a.rdb != nil {
		n, err := a.rdb.Get(ctx, attemptsKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			log.Printf("[LocalAuth] attempt counter unavailable: %v", err)
		} else if n >= maxLoginAttempts {
			return nil, &AuthError{Message: ErrTooManyAttempts.Error(), Err: ErrTooManyAttempts}
		}
	}

	if email == "" || email != a.email || bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) != nil {
		a.recordFailure(ctx, attemptsKey)
		return nil, &AuthError{Message: "Invalid email or password", Err: ErrInvalidCredentials}
	}
	if a.rdb != nil {
		a.rdb.Del(ctx, attemptsKey)
	}

	now := a.now()
	expires := now.Add(a.ttl)
	claims := sessionClaims{
		Email: a.email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   a.email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: expires,
		Principal: Principal{UID: a.email, Email: a.email},
	}, nil
}

func (a *LocalAuthenticator) recordFailure(ctx context.Context, key string) {
	if a.rdb == nil {
		return
	}
	n, err := a.rdb.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("[LocalAuth] failed to count attempt: %v", err)
		return
	}
	if n == 1 {
		a.rdb.Expire(ctx, key, loginAttemptsWindow)
	}
}

func (a *LocalAuthenticator) parse(token string, opts ...jwt.ParserOption) (*sessionClaims, error) {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (a *LocalAuthenticator) Verify(ctx context.Context, token string) (*Principal, error) {
	claims, err := a.parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}
	if a.rdb != nil {
		revoked, err := a.rdb.Exists(ctx, revokedTokenPrefix+claims.ID).Result()
		if err != nil {
			return nil, fmt.Errorf("check revoked session: %w", err)
		}
		if revoked > 0 {
			return nil, ErrSessionInvalid
		}
	}
	return &Principal{UID: claims.Subject, Email: claims.Email}, nil
}

// SignOut remembers the token id until the token would have expired. Without
// Redis the token stays valid until expiry and only the cookie is cleared.
func (a *LocalAuthenticator) SignOut(ctx context.Context, token string) error {
	if a.rdb == nil {
		return nil
	}
	claims, err := a.parse(token)
	if err != nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(a.now())
	if ttl <= 0 {
		return nil
	}
	return a.rdb.Set(ctx, revokedTokenPrefix+claims.ID, "1", ttl).Err()
}

var _ Authenticator = (*LocalAuthenticator)(nil)
