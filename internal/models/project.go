package models

import (
	"sort"
	"strings"
	"time"
)

// Project statuses.
const (
	ProjectStatusCompleted  = "completed"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusPlanned    = "planned"
)

type ProjectMedia struct {
	Type      string `json:"type" bson:"type"` // image or video
	URL       string `json:"url" bson:"url"`
	Thumbnail string `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	Caption   string `json:"caption,omitempty" bson:"caption,omitempty"`
	Order     int    `json:"order" bson:"order"`
}

type Project struct {
	ID               string         `json:"id" bson:"_id,omitempty"`
	Title            string         `json:"title" bson:"title"`
	Overview         string         `json:"overview" bson:"overview"`
	ShortDescription string         `json:"shortDescription,omitempty" bson:"shortDescription,omitempty"`
	ThumbnailURL     string         `json:"thumbnailUrl" bson:"thumbnailUrl"`
	GithubURL        string         `json:"githubUrl,omitempty" bson:"githubUrl,omitempty"`
	LiveURL          string         `json:"liveUrl,omitempty" bson:"liveUrl,omitempty"`
	DemoVideoURL     string         `json:"demoVideoUrl,omitempty" bson:"demoVideoUrl,omitempty"`
	Media            []ProjectMedia `json:"media,omitempty" bson:"media,omitempty"`
	Technologies     []string       `json:"technologies,omitempty" bson:"technologies,omitempty"`
	Category         string         `json:"category,omitempty" bson:"category,omitempty"`
	Tags             []string       `json:"tags,omitempty" bson:"tags,omitempty"`
	Status           string         `json:"status,omitempty" bson:"status,omitempty"`
	Featured         bool           `json:"featured" bson:"featured"`
	CreatedAt        time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// PreviewTechnologies returns at most n technologies for a project card.
func (p Project) PreviewTechnologies(n int) []string {
	if len(p.Technologies) <= n {
		return p.Technologies
	}
	return p.Technologies[:n]
}

type ProjectRequest struct {
	Title            string         `json:"title"`
	Overview         string         `json:"overview"`
	ShortDescription string         `json:"shortDescription"`
	ThumbnailURL     string         `json:"thumbnailUrl"`
	GithubURL        string         `json:"githubUrl"`
	LiveURL          string         `json:"liveUrl"`
	DemoVideoURL     string         `json:"demoVideoUrl"`
	Media            []ProjectMedia `json:"media"`
	Technologies     []string       `json:"technologies"`
	Category         string         `json:"category"`
	Tags             []string       `json:"tags"`
	Status           string         `json:"status"`
	Featured         bool           `json:"featured"`
}

func (r *ProjectRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		errors["title"] = "Title is required"
	}
	if strings.TrimSpace(r.Overview) == "" {
		errors["overview"] = "Overview is required"
	}
	if strings.TrimSpace(r.ThumbnailURL) == "" {
		errors["thumbnailUrl"] = "Thumbnail is required"
	}
	switch r.Status {
	case "", ProjectStatusCompleted, ProjectStatusInProgress, ProjectStatusPlanned:
	default:
		errors["status"] = "Status must be completed, in-progress or planned"
	}
	for _, m := range r.Media {
		if m.Type != "image" && m.Type != "video" {
			errors["media"] = "Media type must be image or video"
			break
		}
		if strings.TrimSpace(m.URL) == "" {
			errors["media"] = "Media URL is required"
			break
		}
	}

	return errors
}

// SortMedia orders gallery items by their order field, keeping ties stable.
func SortMedia(media []ProjectMedia) []ProjectMedia {
	out := append([]ProjectMedia(nil), media...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
