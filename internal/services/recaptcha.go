package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const recaptchaSiteverifyURL = "https://www.google.com/recaptcha/api/siteverify"

// CaptchaRejection is returned when siteverify refuses a contact form token.
type CaptchaRejection struct {
	Codes []string
}

func (e *CaptchaRejection) Error() string {
	if len(e.Codes) == 0 {
		return "recaptcha rejected token"
	}
	return "recaptcha rejected token: " + strings.Join(e.Codes, ",")
}

// RecaptchaVerifier checks reCAPTCHA v2 checkbox tokens sent with the contact
// form. A verifier without a secret requires nothing.
type RecaptchaVerifier struct {
	Secret     string
	Endpoint   string
	HTTPClient *http.Client
}

type siteverifyResult struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

func NewRecaptchaVerifier(secret string) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		Secret:     strings.TrimSpace(secret),
		Endpoint:   recaptchaSiteverifyURL,
		HTTPClient: &http.Client{Timeout: 8 * time.Second},
	}
}

// Required reports whether contact submissions must carry a token.
func (v *RecaptchaVerifier) Required() bool {
	return v != nil && v.Secret != ""
}

// Verify returns nil when the token is accepted, a *CaptchaRejection when
// Google refuses it, and any other error when siteverify could not be asked.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if !v.Required() {
		return nil
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return &CaptchaRejection{Codes: []string{"missing-input-response"}}
	}

	body := url.Values{"secret": {v.Secret}, "response": {token}}
	if remoteIP != "" {
		body.Set("remoteip", remoteIP)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.Endpoint, strings.NewReader(body.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := v.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("recaptcha siteverify: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("recaptcha siteverify http %d", resp.StatusCode)
	}

	var result siteverifyResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&result); err != nil {
		return fmt.Errorf("recaptcha siteverify: decode: %w", err)
	}
	if !result.Success {
		return &CaptchaRejection{Codes: result.ErrorCodes}
	}
	return nil
}
