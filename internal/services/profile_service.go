package services

import (
	"context"
	"errors"
	"time"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/storage"
)

type ProfileService struct {
	store storage.DocumentStore
	now   func() time.Time
}

func NewProfileService(store storage.DocumentStore) *ProfileService {
	return &ProfileService{store: store, now: time.Now}
}

// Get returns the site profile. A missing profile is not an error: an empty
// profile is returned with found=false.
func (s *ProfileService) Get(ctx context.Context) (*models.Profile, bool, error) {
	var prof models.Profile
	err := s.store.Get(ctx, ProfileCollection, models.ProfileID, &prof)
	if errors.Is(err, storage.ErrNotFound) {
		return emptyProfile(), false, nil
	}
	if err != nil {
		return emptyProfile(), false, err
	}
	if prof.SocialLinks == nil {
		prof.SocialLinks = []models.SocialLink{}
	}
	if prof.Interests == nil {
		prof.Interests = []string{}
	}
	return &prof, true, nil
}

// Save replaces the profile wholesale.
func (s *ProfileService) Save(ctx context.Context, req *models.UpsertProfileRequest) (*models.Profile, error) {
	form := models.NewProfileForm(*req)
	clean := form.Request()
	if err := validate(clean.Validate()); err != nil {
		return nil, err
	}

	prof := clean.Profile(s.now().UTC())
	if err := s.store.Set(ctx, ProfileCollection, models.ProfileID, prof); err != nil {
		return nil, err
	}
	return &prof, nil
}

func emptyProfile() *models.Profile {
	return &models.Profile{SocialLinks: []models.SocialLink{}, Interests: []string{}}
}
