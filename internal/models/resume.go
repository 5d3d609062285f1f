package models

import (
	"strings"
	"time"
)

// Resume is one uploaded resume version. At most one is active.
type Resume struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	FileName   string    `json:"fileName" bson:"fileName"`
	FileURL    string    `json:"fileUrl" bson:"fileUrl"`
	FileSize   int64     `json:"fileSize" bson:"fileSize"`
	UploadedAt time.Time `json:"uploadedAt" bson:"uploadedAt"`
	Version    int       `json:"version" bson:"version"`
	IsActive   bool      `json:"isActive" bson:"isActive"`
}

type ResumeRequest struct {
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileSize int64  `json:"fileSize"`
}

func (r *ResumeRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.FileName) == "" {
		errors["fileName"] = "File name is required"
	}
	if strings.TrimSpace(r.FileURL) == "" {
		errors["fileUrl"] = "File URL is required"
	}
	if r.FileSize < 0 {
		errors["fileSize"] = "File size cannot be negative"
	}

	return errors
}
