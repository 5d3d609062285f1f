package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/portfolio/backend/internal/models"
)

// ErrMailerNotConfigured means contact messages cannot be delivered.
var ErrMailerNotConfigured = errors.New("contact mailer not configured")

// SendGridMailer delivers contact form messages through the SendGrid v3 API.
type SendGridMailer struct {
	APIKey     string
	FromEmail  string
	ToEmail    string
	HTTPClient *http.Client
	Endpoint   string
}

func NewSendGridMailer(apiKey, fromEmail, toEmail string) *SendGridMailer {
	return &SendGridMailer{
		APIKey:    strings.TrimSpace(apiKey),
		FromEmail: strings.TrimSpace(fromEmail),
		ToEmail:   strings.TrimSpace(toEmail),
		Endpoint:  "https://api.sendgrid.com/v3/mail/send",
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Configured reports whether the API key and sender are set. The recipient
// may still come from the profile at send time.
func (m *SendGridMailer) Configured() bool {
	return m != nil && m.APIKey != "" && m.FromEmail != ""
}

type sendGridEmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPersonalization struct {
	To         []sendGridEmailAddress `json:"to"`
	Subject    string                 `json:"subject"`
	CustomArgs map[string]string      `json:"custom_args,omitempty"`
}

type sendGridMailSendRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridEmailAddress      `json:"from"`
	ReplyTo          *sendGridEmailAddress     `json:"reply_to,omitempty"`
	Content          []sendGridContent         `json:"content"`
}

// SendContactEmail delivers msg to fallbackTo when no fixed recipient is set.
func (m *SendGridMailer) SendContactEmail(ctx context.Context, ticket string, msg *models.ContactRequest, fallbackTo string) error {
	if !m.Configured() {
		return ErrMailerNotConfigured
	}
	to := m.ToEmail
	if to == "" {
		to = strings.TrimSpace(fallbackTo)
	}
	if to == "" {
		return ErrMailerNotConfigured
	}

	subject := msg.Subject
	if subject == "" {
		subject = "New message from your portfolio"
	}
	plain := fmt.Sprintf(
		"Ticket: %s\nFrom: %s <%s>\nSubject: %s\n\n%s\n",
		ticket, msg.Name, msg.Email, subject, msg.Message,
	)

	reqBody := sendGridMailSendRequest{
		Personalizations: []sendGridPersonalization{{
			To:         []sendGridEmailAddress{{Email: to}},
			Subject:    fmt.Sprintf("[%s] %s", ticket, subject),
			CustomArgs: map[string]string{"ticket": ticket},
		}},
		From:    sendGridEmailAddress{Email: m.FromEmail, Name: "Portfolio Contact Form"},
		ReplyTo: &sendGridEmailAddress{Email: msg.Email, Name: msg.Name},
		Content: []sendGridContent{{Type: "text/plain", Value: plain}},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := m.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// SendGrid answers 202 Accepted.
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sendgrid mail send http %d", resp.StatusCode)
	}
	return nil
}
