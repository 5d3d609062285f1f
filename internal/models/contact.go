package models

import (
	"net/mail"
	"strings"
)

type ContactRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// Normalize trims every field in place.
func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
	r.RecaptchaToken = strings.TrimSpace(r.RecaptchaToken)
}

func (r *ContactRequest) Validate() map[string]string {
	errors := make(map[string]string)

	switch {
	case r.Name == "":
		errors["name"] = "Name is required"
	case len(r.Name) > 120:
		errors["name"] = "Name is too long"
	}

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if len(r.Email) > 254 {
		errors["email"] = "Email is too long"
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		errors["email"] = "Email is invalid"
	}

	if len(r.Subject) > 200 {
		errors["subject"] = "Subject is too long"
	}

	switch {
	case r.Message == "":
		errors["message"] = "Message is required"
	case len(r.Message) > 4000:
		errors["message"] = "Message is too long"
	}

	return errors
}
