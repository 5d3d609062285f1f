package services

import (
	"context"
	"strings"
	"time"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/storage"
)

type SkillService struct {
	store storage.DocumentStore
	now   func() time.Time
}

func NewSkillService(store storage.DocumentStore) *SkillService {
	return &SkillService{store: store, now: time.Now}
}

// List returns every skill, most proficient first.
func (s *SkillService) List(ctx context.Context) ([]models.Skill, error) {
	out := []models.Skill{}
	if err := s.store.Find(ctx, SkillsCollection, storage.Query{OrderBy: "proficiency", Desc: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SkillService) Get(ctx context.Context, id string) (*models.Skill, error) {
	var skill models.Skill
	if err := s.store.Get(ctx, SkillsCollection, id, &skill); err != nil {
		return nil, err
	}
	return &skill, nil
}

func (s *SkillService) Create(ctx context.Context, req *models.SkillRequest) (*models.Skill, error) {
	if err := validate(req.Validate()); err != nil {
		return nil, err
	}

	skill := models.Skill{
		Name:        strings.TrimSpace(req.Name),
		Category:    req.Category,
		Proficiency: req.Proficiency,
		CreatedAt:   s.now().UTC(),
	}
	id, err := s.store.Insert(ctx, SkillsCollection, skill)
	if err != nil {
		return nil, err
	}
	skill.ID = id
	return &skill, nil
}

// Update rewrites the editable fields; createdAt is left alone.
func (s *SkillService) Update(ctx context.Context, id string, req *models.SkillRequest) (*models.Skill, error) {
	if err := validate(req.Validate()); err != nil {
		return nil, err
	}

	err := s.store.Update(ctx, SkillsCollection, id, storage.Fields{
		"name":        strings.TrimSpace(req.Name),
		"category":    req.Category,
		"proficiency": req.Proficiency,
		"updatedAt":   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *SkillService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, SkillsCollection, id)
}
