package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"github.com/portfolio/backend/internal/middleware"
	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Empty-state texts of the public sections.
const (
	EmptySkills       = "No skills yet"
	EmptyProjects     = "No projects yet"
	EmptyExperience   = "No experience yet"
	EmptyCertificates = "No certificates yet"
	EmptyResume       = "Resume coming soon"
)

// adminSections are the dashboard views, switched in-page.
var adminSections = []string{"dashboard", "profile", "skills", "projects", "experience", "certificates", "resume"}

type Options struct {
	SecureCookies bool
	// RecaptchaSiteKey enables the reCAPTCHA widget on the contact form.
	RecaptchaSiteKey string
}

type Handler struct {
	portfolio *services.PortfolioService
	auth      services.Authenticator
	opts      Options
	templates *template.Template
}

func NewHandler(portfolio *services.PortfolioService, auth services.Authenticator, opts Options) (*Handler, error) {
	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{portfolio: portfolio, auth: auth, opts: opts, templates: tmpl}, nil
}

// Static serves the bundled stylesheets and scripts.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

type sitePage struct {
	*models.Portfolio
	Empty            map[string]string
	RecaptchaSiteKey string
}

// Site renders the public portfolio.
func (h *Handler) Site(w http.ResponseWriter, r *http.Request) {
	p := h.portfolio.Load(r.Context())
	h.render(w, http.StatusOK, "site.html", sitePage{
		Portfolio: p,
		Empty: map[string]string{
			"skills":       EmptySkills,
			"projects":     EmptyProjects,
			"experience":   EmptyExperience,
			"certificates": EmptyCertificates,
			"resume":       EmptyResume,
		},
		RecaptchaSiteKey: h.opts.RecaptchaSiteKey,
	})
}

type loginPage struct {
	Email     string
	Error     string
	CSRFField template.HTML
}

type adminPage struct {
	Principal       *services.Principal
	CSRFToken       string
	CSRFField       template.HTML
	Sections        []string
	SkillCategories []string
	SocialIcons     []string
	ProjectStatuses []string
}

// Admin renders the dashboard for a signed-in operator and the login form
// for everyone else.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	state, principal := services.ResolveGate(r.Context(), h.auth, middleware.SessionToken(r))
	if state != services.GateAuthenticated {
		h.render(w, http.StatusOK, "admin_login.html", loginPage{CSRFField: csrf.TemplateField(r)})
		return
	}
	h.render(w, http.StatusOK, "admin.html", adminPage{
		Principal:       principal,
		CSRFToken:       csrf.Token(r),
		CSRFField:       csrf.TemplateField(r),
		Sections:        adminSections,
		SkillCategories: models.SkillCategoryOptions,
		SocialIcons:     models.SocialIconOptions,
		ProjectStatuses: []string{models.ProjectStatusCompleted, models.ProjectStatusInProgress, models.ProjectStatusPlanned},
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "admin_login.html", loginPage{Error: "Invalid form", CSRFField: csrf.TemplateField(r)})
		return
	}
	req := models.LoginRequest{Email: strings.TrimSpace(r.PostFormValue("email")), Password: r.PostFormValue("password")}
	if errs := req.Validate(); len(errs) > 0 {
		h.render(w, http.StatusBadRequest, "admin_login.html", loginPage{
			Email:     req.Email,
			Error:     "Email and password are required",
			CSRFField: csrf.TemplateField(r),
		})
		return
	}

	session, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("[Web.Login] email=%s error=%v", req.Email, err)
		h.render(w, http.StatusUnauthorized, "admin_login.html", loginPage{
			Email:     req.Email,
			Error:     services.SignInMessage(err),
			CSRFField: csrf.TemplateField(r),
		})
		return
	}

	middleware.SetSessionCookie(w, session, h.opts.SecureCookies)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		if err := h.auth.SignOut(r.Context(), token); err != nil {
			log.Printf("[Web.Logout] error=%v", err)
		}
	}
	middleware.ClearSessionCookie(w, h.opts.SecureCookies)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("[Web] template %s: %v", name, err)
		http.Error(w, "Something went wrong, please try again", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
