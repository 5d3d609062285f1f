package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/storage"
)

type DashboardService struct {
	store storage.DocumentStore
}

func NewDashboardService(store storage.DocumentStore) *DashboardService {
	return &DashboardService{store: store}
}

// Stats counts the four managed collections concurrently and waits for all.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	count := func(collection string, dst *int64) {
		g.Go(func() error {
			n, err := s.store.Count(gctx, collection)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count(ProjectsCollection, &stats.Projects)
	count(SkillsCollection, &stats.Skills)
	count(CertificatesCollection, &stats.Certificates)
	count(ExperienceCollection, &stats.Experience)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
