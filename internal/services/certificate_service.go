package services

import (
	"context"
	"strings"
	"time"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/storage"
)

type CertificateService struct {
	store storage.DocumentStore
	now   func() time.Time
}

func NewCertificateService(store storage.DocumentStore) *CertificateService {
	return &CertificateService{store: store, now: time.Now}
}

func (s *CertificateService) List(ctx context.Context) ([]models.Certificate, error) {
	out := []models.Certificate{}
	if err := s.store.Find(ctx, CertificatesCollection, storage.Query{OrderBy: "createdAt", Desc: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CertificateService) Get(ctx context.Context, id string) (*models.Certificate, error) {
	var c models.Certificate
	if err := s.store.Get(ctx, CertificatesCollection, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CertificateService) Create(ctx context.Context, req *models.CertificateRequest) (*models.Certificate, error) {
	if err := validate(req.Validate()); err != nil {
		return nil, err
	}

	c := models.Certificate{
		Title:     strings.TrimSpace(req.Title),
		ImageURL:  strings.TrimSpace(req.ImageURL),
		CreatedAt: s.now().UTC(),
	}
	id, err := s.store.Insert(ctx, CertificatesCollection, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return &c, nil
}

func (s *CertificateService) Update(ctx context.Context, id string, req *models.CertificateRequest) (*models.Certificate, error) {
	if err := validate(req.Validate()); err != nil {
		return nil, err
	}

	err := s.store.Update(ctx, CertificatesCollection, id, storage.Fields{
		"title":    strings.TrimSpace(req.Title),
		"imageUrl": strings.TrimSpace(req.ImageURL),
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *CertificateService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, CertificatesCollection, id)
}
