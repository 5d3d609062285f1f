package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/portfolio/backend/internal/middleware"
	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

type AuthHandler struct {
	auth          services.Authenticator
	secureCookies bool
}

func NewAuthHandler(auth services.Authenticator, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookies: secureCookies}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	session, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeJSON(w, signInStatus(err), models.NewErrorResponse(services.SignInMessage(err)))
		return
	}

	middleware.SetSessionCookie(w, session, h.secureCookies)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.SessionResponse{
		Email:     session.Principal.Email,
		ExpiresAt: session.ExpiresAt,
	}))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		if err := h.auth.SignOut(r.Context(), token); err != nil {
			log.Printf("[AuthHandler.Logout] error=%v", err)
		}
	}
	middleware.ClearSessionCookie(w, h.secureCookies)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Signed out"}))
}

// Session reports the signed-in operator.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	if p == nil {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Sign in required"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(p))
}

func signInStatus(err error) int {
	var ae *services.AuthError
	switch {
	case errors.Is(err, services.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.As(err, &ae):
		return http.StatusUnauthorized
	default:
		log.Printf("[AuthHandler.Login] error=%v", err)
		return http.StatusInternalServerError
	}
}
