package services

import (
	"context"
	"strings"
	"time"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/storage"
)

type ProjectService struct {
	store storage.DocumentStore
	now   func() time.Time
}

func NewProjectService(store storage.DocumentStore) *ProjectService {
	return &ProjectService{store: store, now: time.Now}
}

// List returns every project, newest first, with galleries in display order.
func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	out := []models.Project{}
	if err := s.store.Find(ctx, ProjectsCollection, storage.Query{OrderBy: "createdAt", Desc: true}, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Media = models.SortMedia(out[i].Media)
	}
	return out, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := s.store.Get(ctx, ProjectsCollection, id, &p); err != nil {
		return nil, err
	}
	p.Media = models.SortMedia(p.Media)
	return &p, nil
}

func (s *ProjectService) Create(ctx context.Context, req *models.ProjectRequest) (*models.Project, error) {
	if err := validate(req.Validate()); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := models.Project{
		Title:            strings.TrimSpace(req.Title),
		Overview:         req.Overview,
		ShortDescription: strings.TrimSpace(req.ShortDescription),
		ThumbnailURL:     strings.TrimSpace(req.ThumbnailURL),
		GithubURL:        strings.TrimSpace(req.GithubURL),
		LiveURL:          strings.TrimSpace(req.LiveURL),
		DemoVideoURL:     strings.TrimSpace(req.DemoVideoURL),
		Media:            models.SortMedia(req.Media),
		Technologies:     cleanList(req.Technologies),
		Category:         strings.TrimSpace(req.Category),
		Tags:             cleanList(req.Tags),
		Status:           req.Status,
		Featured:         req.Featured,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if len(p.Media) == 0 {
		p.Media = nil
	}
	id, err := s.store.Insert(ctx, ProjectsCollection, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

// Update writes the required fields and only those optional fields that
// carry a value, so blank inputs never overwrite stored links.
func (s *ProjectService) Update(ctx context.Context, id string, req *models.ProjectRequest) (*models.Project, error) {
	if err := validate(req.Validate()); err != nil {
		return nil, err
	}

	fields := storage.Fields{
		"title":        strings.TrimSpace(req.Title),
		"overview":     req.Overview,
		"thumbnailUrl": strings.TrimSpace(req.ThumbnailURL),
		"featured":     req.Featured,
		"updatedAt":    s.now().UTC(),
	}
	setIfPresent(fields, "shortDescription", req.ShortDescription)
	setIfPresent(fields, "githubUrl", req.GithubURL)
	setIfPresent(fields, "liveUrl", req.LiveURL)
	setIfPresent(fields, "demoVideoUrl", req.DemoVideoURL)
	setIfPresent(fields, "category", req.Category)
	setIfPresent(fields, "status", req.Status)
	if techs := cleanList(req.Technologies); len(techs) > 0 {
		fields["technologies"] = techs
	}
	if tags := cleanList(req.Tags); len(tags) > 0 {
		fields["tags"] = tags
	}
	if len(req.Media) > 0 {
		fields["media"] = models.SortMedia(req.Media)
	}

	if err := s.store.Update(ctx, ProjectsCollection, id, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, ProjectsCollection, id)
}

func setIfPresent(fields storage.Fields, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		fields[key] = v
	}
}

// cleanList trims entries and drops blanks and repeats.
func cleanList(in []string) []string {
	var out []string
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
