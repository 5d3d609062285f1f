package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/storage"
)

const resumeActiveField = "isActive"

type ResumeService struct {
	store storage.DocumentStore
	now   func() time.Time
}

func NewResumeService(store storage.DocumentStore) *ResumeService {
	return &ResumeService{store: store, now: time.Now}
}

// List returns every resume, highest version first.
func (s *ResumeService) List(ctx context.Context) ([]models.Resume, error) {
	out := []models.Resume{}
	if err := s.store.Find(ctx, ResumeCollection, storage.Query{OrderBy: "version", Desc: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Active returns the active resume, or nil when none is active.
func (s *ResumeService) Active(ctx context.Context) (*models.Resume, error) {
	var out []models.Resume
	q := storage.Query{Where: []storage.Filter{{Field: resumeActiveField, Value: true}}, Limit: 1}
	if err := s.store.Find(ctx, ResumeCollection, q, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// Create stores a new version and makes it the active resume.
func (s *ResumeService) Create(ctx context.Context, req *models.ResumeRequest) (*models.Resume, error) {
	if err := validate(req.Validate()); err != nil {
		return nil, err
	}

	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	version := 1
	for _, r := range existing {
		if r.Version >= version {
			version = r.Version + 1
		}
	}

	resume := models.Resume{
		FileName:   strings.TrimSpace(req.FileName),
		FileURL:    strings.TrimSpace(req.FileURL),
		FileSize:   req.FileSize,
		UploadedAt: s.now().UTC(),
		Version:    version,
	}
	id, err := s.store.Insert(ctx, ResumeCollection, resume)
	if err != nil {
		return nil, err
	}
	resume.ID = id

	if err := s.SetActive(ctx, id); err != nil {
		log.Printf("[ResumeService.Create] resume %s stored but not activated: %v", id, err)
		return nil, fmt.Errorf("activate resume: %w", err)
	}
	resume.IsActive = true
	return &resume, nil
}

// SetActive makes id the only active resume. Stores without transactions fall
// back to sequential writes, which can leave zero or several active resumes
// if a write fails midway.
func (s *ResumeService) SetActive(ctx context.Context, id string) error {
	err := s.store.SetExclusive(ctx, ResumeCollection, resumeActiveField, id)
	if !errors.Is(err, storage.ErrTxUnsupported) {
		return err
	}
	log.Printf("[ResumeService.SetActive] store has no transactions, activating %s with sequential writes", id)
	return s.setActiveSequential(ctx, id)
}

func (s *ResumeService) setActiveSequential(ctx context.Context, id string) error {
	var target models.Resume
	if err := s.store.Get(ctx, ResumeCollection, id, &target); err != nil {
		return err
	}
	all, err := s.List(ctx)
	if err != nil {
		return err
	}
	for _, r := range all {
		if r.ID == id || !r.IsActive {
			continue
		}
		if err := s.store.Update(ctx, ResumeCollection, r.ID, storage.Fields{resumeActiveField: false}); err != nil {
			return fmt.Errorf("deactivate resume %s: %w", r.ID, err)
		}
	}
	if err := s.store.Update(ctx, ResumeCollection, id, storage.Fields{resumeActiveField: true}); err != nil {
		return fmt.Errorf("activate resume %s: %w", id, err)
	}
	return nil
}

func (s *ResumeService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, ResumeCollection, id)
}
