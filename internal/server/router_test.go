package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio/backend/internal/handlers"
	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
	"github.com/portfolio/backend/internal/storage"
	"github.com/portfolio/backend/internal/web"
)

func newTestServer(t *testing.T, origins ...string) *httptest.Server {
	t.Helper()
	store, err := storage.NewLocalStore()
	require.NoError(t, err)

	hash, err := services.HashPassword("correct horse")
	require.NoError(t, err)
	auth := services.NewLocalAuthenticator("owner@example.com", hash, "0123456789abcdef0123456789abcdef", time.Hour, nil)

	profiles := services.NewProfileService(store)
	skills := services.NewSkillService(store)
	projects := services.NewProjectService(store)
	experience := services.NewExperienceService(store)
	certificates := services.NewCertificateService(store)
	resumes := services.NewResumeService(store)
	portfolio := services.NewPortfolioService(profiles, skills, projects, experience, certificates, resumes)

	site, err := web.NewHandler(portfolio, auth, web.Options{})
	require.NoError(t, err)

	router := NewRouter(Handlers{
		Web:          site,
		Auth:         handlers.NewAuthHandler(auth, false),
		Portfolio:    handlers.NewPortfolioHandler(portfolio, services.NewDashboardService(store)),
		Profile:      handlers.NewProfileHandler(profiles),
		Skills:       handlers.NewSkillHandler(skills),
		Projects:     handlers.NewProjectHandler(projects),
		Experience:   handlers.NewExperienceHandler(experience),
		Certificates: handlers.NewCertificateHandler(certificates),
		Resumes:      handlers.NewResumeHandler(resumes),
		Images:       handlers.NewImageHandler(services.NewCloudinaryUploader("", "", "", 0), nil, 0),
		Contact:      handlers.NewContactHandler(services.NewRecaptchaVerifier(""), services.NewSendGridMailer("", "", ""), profiles),
	}, Options{
		Authenticator: auth,
		CSRFKey:       bytes.Repeat([]byte("k"), 32),
		CORSOrigins:   origins,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func send(t *testing.T, c *http.Client, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-CSRF-Token", token)
	}
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

var tokenField = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)

func TestPublicRoutes(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	tests := []struct {
		method string
		path   string
		status int
		body   any
	}{
		{http.MethodGet, "/health", http.StatusOK, nil},
		{http.MethodGet, "/", http.StatusOK, nil},
		{http.MethodGet, "/static/site.css", http.StatusOK, nil},
		{http.MethodGet, "/api/portfolio", http.StatusOK, nil},
		{http.MethodGet, "/admin", http.StatusOK, nil},
		{http.MethodGet, "/api/admin/skills", http.StatusUnauthorized, nil},
		{http.MethodPost, "/api/admin/skills", http.StatusForbidden, models.SkillRequest{Name: "Go"}},
		{http.MethodPost, "/api/contact", http.StatusServiceUnavailable, models.ContactRequest{Name: "Grace", Email: "grace@example.com", Message: "Hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, body := send(t, c, tt.method, srv.URL+tt.path, "", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
		})
	}
}

func TestAdminFlow(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	_, page := send(t, c, http.MethodGet, srv.URL+"/admin", "", nil)
	m := tokenField.FindSubmatch(page)
	require.Len(t, m, 2, "login page carries a CSRF token")
	token := string(m[1])

	resp, body := send(t, c, http.MethodPost, srv.URL+"/api/admin/login", token, models.LoginRequest{Email: "owner@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, string(body))

	resp, body = send(t, c, http.MethodPost, srv.URL+"/api/admin/login", token, models.LoginRequest{Email: "owner@example.com", Password: "correct horse"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = send(t, c, http.MethodPost, srv.URL+"/api/admin/skills", token, models.SkillRequest{Name: "Go", Category: models.SkillCategoryProgramming, Proficiency: 85})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = send(t, c, http.MethodGet, srv.URL+"/api/admin/stats", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats struct {
		Data models.DashboardStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, int64(1), stats.Data.Skills)

	resp, body = send(t, c, http.MethodPost, srv.URL+"/api/admin/upload", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

	resp, _ = send(t, c, http.MethodPost, srv.URL+"/api/admin/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = send(t, c, http.MethodGet, srv.URL+"/api/admin/skills", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	get := func(t *testing.T, srv *httptest.Server, path string) *http.Response {
		t.Helper()
		req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "https://elsewhere.example")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	t.Run("same origin only by default", func(t *testing.T) {
		srv := newTestServer(t)
		for _, path := range []string{"/api/portfolio", "/api/admin/session"} {
			resp := get(t, srv, path)
			assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"), path)
		}
	})

	t.Run("configured origin gets public reads without credentials", func(t *testing.T) {
		srv := newTestServer(t, "https://elsewhere.example")
		resp := get(t, srv, "/api/portfolio")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "https://elsewhere.example", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))
	})
}
