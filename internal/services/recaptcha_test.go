package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSiteverify(t *testing.T, status int, body string) *RecaptchaVerifier {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "secret", r.PostFormValue("secret"))
		assert.Equal(t, "tok", r.PostFormValue("response"))
		assert.Equal(t, "203.0.113.7", r.PostFormValue("remoteip"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	v := NewRecaptchaVerifier(" secret ")
	v.Endpoint = srv.URL
	v.HTTPClient = srv.Client()
	return v
}

func TestRecaptchaVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("no secret requires nothing", func(t *testing.T) {
		v := NewRecaptchaVerifier("")
		assert.False(t, v.Required())
		assert.NoError(t, v.Verify(ctx, "", ""))
	})

	t.Run("accepted", func(t *testing.T) {
		v := newSiteverify(t, http.StatusOK, `{"success":true,"hostname":"example.com"}`)
		assert.True(t, v.Required())
		assert.NoError(t, v.Verify(ctx, "tok", "203.0.113.7"))
	})

	t.Run("rejected", func(t *testing.T) {
		v := newSiteverify(t, http.StatusOK, `{"success":false,"error-codes":["timeout-or-duplicate"]}`)
		err := v.Verify(ctx, "tok", "203.0.113.7")
		var rejected *CaptchaRejection
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, []string{"timeout-or-duplicate"}, rejected.Codes)
	})

	t.Run("missing token is rejected without a request", func(t *testing.T) {
		v := NewRecaptchaVerifier("secret")
		v.Endpoint = "http://127.0.0.1:0"
		var rejected *CaptchaRejection
		assert.ErrorAs(t, v.Verify(ctx, "  ", ""), &rejected)
	})

	t.Run("siteverify failure is not a rejection", func(t *testing.T) {
		v := newSiteverify(t, http.StatusInternalServerError, ``)
		err := v.Verify(ctx, "tok", "203.0.113.7")
		require.Error(t, err)
		var rejected *CaptchaRejection
		assert.NotErrorAs(t, err, &rejected)
	})
}
