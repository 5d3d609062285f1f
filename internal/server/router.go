package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/portfolio/backend/internal/handlers"
	appMiddleware "github.com/portfolio/backend/internal/middleware"
	"github.com/portfolio/backend/internal/services"
	"github.com/portfolio/backend/internal/web"
)

// Handlers is everything the router mounts.
type Handlers struct {
	Web          *web.Handler
	Auth         *handlers.AuthHandler
	Portfolio    *handlers.PortfolioHandler
	Profile      *handlers.ProfileHandler
	Skills       *handlers.SkillHandler
	Projects     *handlers.ProjectHandler
	Experience   *handlers.ExperienceHandler
	Certificates *handlers.CertificateHandler
	Resumes      *handlers.ResumeHandler
	Images       *handlers.ImageHandler
	Contact      *handlers.ContactHandler
}

type Options struct {
	Authenticator services.Authenticator
	CSRFKey       []byte
	SecureCookies bool
	CORSOrigins   []string
}

func NewRouter(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/", web.Static()))

	r.Get("/", h.Web.Site)

	csrf := appMiddleware.CSRF(opts.CSRFKey, opts.SecureCookies)

	r.Route("/admin", func(r chi.Router) {
		r.Use(csrf)
		r.Get("/", h.Web.Admin)
		r.Post("/login", h.Web.Login)
		r.Post("/logout", h.Web.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		// Same-origin only unless origins are configured. Cross-origin
		// responses never allow credentials.
		if len(opts.CORSOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: opts.CORSOrigins,
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         300,
			}))
		}

		r.Get("/portfolio", h.Portfolio.Portfolio)
		r.Post("/contact", h.Contact.Submit)

		r.Route("/admin", func(r chi.Router) {
			r.Use(csrf)
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.RequireSession(opts.Authenticator))

				r.Get("/session", h.Auth.Session)
				r.Get("/stats", h.Portfolio.Stats)

				r.Get("/profile", h.Profile.GetProfile)
				r.Put("/profile", h.Profile.UpsertProfile)

				r.Route("/skills", func(r chi.Router) {
					r.Get("/", h.Skills.List)
					r.Post("/", h.Skills.Create)
					r.Put("/{id}", h.Skills.Update)
					r.Delete("/{id}", h.Skills.Delete)
				})
				r.Route("/projects", func(r chi.Router) {
					r.Get("/", h.Projects.List)
					r.Post("/", h.Projects.Create)
					r.Put("/{id}", h.Projects.Update)
					r.Delete("/{id}", h.Projects.Delete)
				})
				r.Route("/experience", func(r chi.Router) {
					r.Get("/", h.Experience.List)
					r.Post("/", h.Experience.Create)
					r.Put("/{id}", h.Experience.Update)
					r.Delete("/{id}", h.Experience.Delete)
				})
				r.Route("/certificates", func(r chi.Router) {
					r.Get("/", h.Certificates.List)
					r.Post("/", h.Certificates.Create)
					r.Put("/{id}", h.Certificates.Update)
					r.Delete("/{id}", h.Certificates.Delete)
				})
				r.Route("/resumes", func(r chi.Router) {
					r.Get("/", h.Resumes.List)
					r.Post("/", h.Resumes.Create)
					r.Put("/{id}/active", h.Resumes.SetActive)
					r.Delete("/{id}", h.Resumes.Delete)
				})

				r.Post("/upload", h.Images.Upload)
				r.Post("/storage", h.Images.UploadObject)
			})
		})
	})

	return r
}
