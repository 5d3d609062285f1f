package services

import (
	"context"
	"strings"
	"time"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/storage"
)

type ExperienceService struct {
	store storage.DocumentStore
	now   func() time.Time
}

func NewExperienceService(store storage.DocumentStore) *ExperienceService {
	return &ExperienceService{store: store, now: time.Now}
}

// List returns every role, most recent start first.
func (s *ExperienceService) List(ctx context.Context) ([]models.Experience, error) {
	out := []models.Experience{}
	if err := s.store.Find(ctx, ExperienceCollection, storage.Query{OrderBy: "startDate", Desc: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ExperienceService) Get(ctx context.Context, id string) (*models.Experience, error) {
	var e models.Experience
	if err := s.store.Get(ctx, ExperienceCollection, id, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *ExperienceService) Create(ctx context.Context, req *models.ExperienceRequest) (*models.Experience, error) {
	clean := models.NewExperienceForm(*req).Request()
	if err := validate(clean.Validate()); err != nil {
		return nil, err
	}

	start, end := clean.Dates()
	e := models.Experience{
		Company:          strings.TrimSpace(clean.Company),
		Position:         strings.TrimSpace(clean.Position),
		Location:         strings.TrimSpace(clean.Location),
		StartDate:        start,
		EndDate:          end,
		Current:          clean.Current,
		Description:      clean.Description,
		Responsibilities: clean.Responsibilities,
		Technologies:     clean.Technologies,
		CompanyLogo:      strings.TrimSpace(clean.CompanyLogo),
		CreatedAt:        s.now().UTC(),
	}
	id, err := s.store.Insert(ctx, ExperienceCollection, e)
	if err != nil {
		return nil, err
	}
	e.ID = id
	return &e, nil
}

// Update rewrites every editable field. A current role stores a null end date.
func (s *ExperienceService) Update(ctx context.Context, id string, req *models.ExperienceRequest) (*models.Experience, error) {
	clean := models.NewExperienceForm(*req).Request()
	if err := validate(clean.Validate()); err != nil {
		return nil, err
	}

	start, end := clean.Dates()
	fields := storage.Fields{
		"company":          strings.TrimSpace(clean.Company),
		"position":         strings.TrimSpace(clean.Position),
		"location":         strings.TrimSpace(clean.Location),
		"startDate":        start,
		"endDate":          nil,
		"current":          clean.Current,
		"description":      clean.Description,
		"responsibilities": clean.Responsibilities,
		"technologies":     clean.Technologies,
	}
	if end != nil {
		fields["endDate"] = *end
	}
	setIfPresent(fields, "companyLogo", clean.CompanyLogo)

	if err := s.store.Update(ctx, ExperienceCollection, id, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ExperienceService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, ExperienceCollection, id)
}
