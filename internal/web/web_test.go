package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio/backend/internal/middleware"
	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
	"github.com/portfolio/backend/internal/storage"
)

type fixture struct {
	handler    *Handler
	auth       *services.LocalAuthenticator
	profiles   *services.ProfileService
	skills     *services.SkillService
	projects   *services.ProjectService
	experience *services.ExperienceService
	resumes    *services.ResumeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := storage.NewLocalStore()
	require.NoError(t, err)

	hash, err := services.HashPassword("correct horse")
	require.NoError(t, err)

	f := &fixture{
		auth:       services.NewLocalAuthenticator("owner@example.com", hash, "0123456789abcdef0123456789abcdef", time.Hour, nil),
		profiles:   services.NewProfileService(store),
		skills:     services.NewSkillService(store),
		projects:   services.NewProjectService(store),
		experience: services.NewExperienceService(store),
		resumes:    services.NewResumeService(store),
	}
	portfolio := services.NewPortfolioService(f.profiles, f.skills, f.projects, f.experience, services.NewCertificateService(store), f.resumes)
	f.handler, err = NewHandler(portfolio, f.auth, Options{})
	require.NoError(t, err)
	return f
}

func get(h http.HandlerFunc, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestSiteEmptyStates(t *testing.T) {
	f := newFixture(t)
	rec := get(f.handler.Site, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, want := range []string{EmptySkills, EmptyProjects, EmptyExperience, EmptyCertificates, EmptyResume} {
		assert.Contains(t, body, want)
	}
	for _, anchor := range []string{"home", "about", "skills", "projects", "experience", "certificates", "resume", "contact"} {
		assert.Contains(t, body, `id="`+anchor+`"`)
	}
	assert.NotContains(t, body, "g-recaptcha")
}

func TestSiteSections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.profiles.Save(ctx, &models.UpsertProfileRequest{
		FullName:    "Ada Lovelace",
		Email:       "ada@example.com",
		AboutMe:     "I like **engines**. <script>alert(1)</script>",
		SocialLinks: []models.SocialLink{{Platform: "GitHub", URL: "https://github.com/ada", Icon: models.SocialIconGithub}},
	})
	require.NoError(t, err)
	_, err = f.skills.Create(ctx, &models.SkillRequest{Name: "Python", Category: models.SkillCategoryProgramming, Proficiency: 90})
	require.NoError(t, err)
	_, err = f.projects.Create(ctx, &models.ProjectRequest{
		Title:        "Engine",
		Overview:     "Analytical",
		ThumbnailURL: "https://img/engine.png",
		Technologies: []string{"Go", "SQL", "Python", "Rust"},
		Status:       models.ProjectStatusInProgress,
	})
	require.NoError(t, err)
	_, err = f.experience.Create(ctx, &models.ExperienceRequest{Company: "Analytical Co", Position: "Engineer", StartDate: "2023-03-01", Current: true})
	require.NoError(t, err)
	_, err = f.resumes.Create(ctx, &models.ResumeRequest{FileName: "ada.pdf", FileURL: "https://files/ada.pdf", FileSize: 2048})
	require.NoError(t, err)

	rec := get(f.handler.Site, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "<strong>engines</strong>")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "icon-github")
	assert.Contains(t, body, "devicon-python-plain")
	assert.Contains(t, body, ">All</button>")
	assert.Contains(t, body, "In Progress")
	assert.NotContains(t, body, "<li>Rust</li>")
	assert.Contains(t, body, "Mar 2023 - Present")
	assert.Contains(t, body, "2.0 kB")
	assert.Contains(t, body, `href="https://files/ada.pdf" download`)
	assert.NotContains(t, body, EmptySkills)
	assert.NotContains(t, body, EmptyResume)
}

func TestSiteRecaptchaWidget(t *testing.T) {
	f := newFixture(t)
	f.handler.opts.RecaptchaSiteKey = "site-key"
	body := get(f.handler.Site, "/").Body.String()
	assert.Contains(t, body, `data-sitekey="site-key"`)
}

func TestAdminGate(t *testing.T) {
	f := newFixture(t)

	rec := get(f.handler.Admin, "/admin")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/admin/login"`)

	rec = get(f.handler.Admin, "/admin", &http.Cookie{Name: middleware.SessionCookieName, Value: "forged"})
	assert.Contains(t, rec.Body.String(), `action="/admin/login"`)

	session, err := f.auth.SignIn(context.Background(), "owner@example.com", "correct horse")
	require.NoError(t, err)
	rec = get(f.handler.Admin, "/admin", &http.Cookie{Name: middleware.SessionCookieName, Value: session.Token})
	body := rec.Body.String()
	assert.Contains(t, body, "Admin Dashboard")
	assert.Contains(t, body, "owner@example.com")
	assert.Contains(t, body, `data-section="certificates"`)
	assert.Contains(t, body, "AI/ML|Data Analysis|Programming|Tools|Other")
}

func postForm(h http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestLoginForm(t *testing.T) {
	f := newFixture(t)

	rec := postForm(f.handler.Login, "/admin/login", url.Values{"email": {"owner@example.com"}, "password": {"nope"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
	assert.Contains(t, rec.Body.String(), `value="owner@example.com"`)

	rec = postForm(f.handler.Login, "/admin/login", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postForm(f.handler.Login, "/admin/login", url.Values{"email": {"owner@example.com"}, "password": {"correct horse"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	f.handler.Logout(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

func TestStatic(t *testing.T) {
	rec := httptest.NewRecorder()
	Static().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "X-CSRF-Token")
}

func TestFuncs(t *testing.T) {
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Jan 2024", monthYear(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", monthYear(time.Time{}))
	assert.Equal(t, "Present", endDate(models.Experience{Current: true, EndDate: &end}))
	assert.Equal(t, "Present", endDate(models.Experience{}))
	assert.Equal(t, "Jun 2024", endDate(models.Experience{EndDate: &end}))
	assert.Equal(t, "1.5 MB", fileSize(1_500_000))
	assert.Equal(t, "", fileSize(0))
	assert.Equal(t, "In Progress", label("in-progress"))
	assert.Equal(t, "All", tabLabel(models.FilterAll))
	assert.Equal(t, "AI/ML", tabLabel("AI/ML"))
	assert.Equal(t, "AL", initials("Ada  Lovelace King"))
	assert.Equal(t, "", initials(""))
	assert.Equal(t, "", string(renderMarkdown("   ")))
}
