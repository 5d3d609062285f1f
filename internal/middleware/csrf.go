package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/portfolio/backend/internal/models"
)

// CSRF protects admin forms and API calls. The token travels in the
// X-CSRF-Token header or the gorilla.csrf.Token form field. When secure is
// false requests are treated as plain HTTP so local development works.
func CSRF(key []byte, secure bool) func(http.Handler) http.Handler {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Invalid or missing CSRF token, reload the page"))
		})),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
