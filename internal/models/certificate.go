package models

import (
	"strings"
	"time"
)

type Certificate struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Title     string    `json:"title" bson:"title"`
	ImageURL  string    `json:"imageUrl" bson:"imageUrl"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type CertificateRequest struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

func (r *CertificateRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		errors["title"] = "Title is required"
	}
	if strings.TrimSpace(r.ImageURL) == "" {
		errors["imageUrl"] = "Image is required"
	}

	return errors
}
