package handlers

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

const mailerUnavailable = "Messages cannot be delivered right now, please reach out by email"

type CaptchaVerifier interface {
	Required() bool
	Verify(ctx context.Context, token, remoteIP string) error
}

type ContactMailer interface {
	Configured() bool
	SendContactEmail(ctx context.Context, ticket string, msg *models.ContactRequest, fallbackTo string) error
}

type ContactHandler struct {
	recaptcha CaptchaVerifier
	mailer    ContactMailer
	profiles  *services.ProfileService
	now       func() time.Time
}

func NewContactHandler(recaptcha CaptchaVerifier, mailer ContactMailer, profiles *services.ProfileService) *ContactHandler {
	return &ContactHandler{recaptcha: recaptcha, mailer: mailer, profiles: profiles, now: time.Now}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Normalize()

	fields := req.Validate()
	captcha := h.recaptcha != nil && h.recaptcha.Required()
	if captcha && req.RecaptchaToken == "" {
		fields["recaptchaToken"] = "reCAPTCHA token is required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(fields))
		return
	}

	if h.mailer == nil || !h.mailer.Configured() {
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse(mailerUnavailable))
		return
	}

	remoteIP := clientIP(r)

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if captcha {
		if err := h.recaptcha.Verify(ctx, req.RecaptchaToken, remoteIP); err != nil {
			var rejected *services.CaptchaRejection
			if errors.As(err, &rejected) {
				log.Printf("[Contact] recaptcha rejected ip=%s codes=%v", remoteIP, rejected.Codes)
				writeJSON(w, http.StatusForbidden, models.NewErrorResponse("reCAPTCHA verification failed"))
				return
			}
			log.Printf("[Contact] recaptcha error ip=%s err=%v", remoteIP, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to verify reCAPTCHA"))
			return
		}
	}

	ticket := generateContactTicket(h.now())
	if err := h.mailer.SendContactEmail(ctx, ticket, &req, h.fallbackRecipient(ctx)); err != nil {
		if errors.Is(err, services.ErrMailerNotConfigured) {
			writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse(mailerUnavailable))
			return
		}
		log.Printf("[Contact] ticket=%s sendgrid error=%v", ticket, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to send message"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{
		"ticket": ticket,
	}))
}

// fallbackRecipient is the profile email, used when no contact address is
// configured.
func (h *ContactHandler) fallbackRecipient(ctx context.Context) string {
	if h.profiles == nil {
		return ""
	}
	p, found, err := h.profiles.Get(ctx)
	if err != nil {
		log.Printf("[Contact] profile lookup error=%v", err)
		return ""
	}
	if !found {
		return ""
	}
	return p.Email
}

func generateContactTicket(now time.Time) string {
	// Example: PF-20260131-032508-A1B2C3D4
	stamp := now.UTC().Format("20060102-150405")
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "PF-" + stamp + "-" + id[:8]
}

func clientIP(r *http.Request) string {
	// First X-Forwarded-For hop when running behind a proxy.
	xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	if net.ParseIP(r.RemoteAddr) != nil {
		return r.RemoteAddr
	}
	return ""
}
