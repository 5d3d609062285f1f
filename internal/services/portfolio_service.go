package services

import (
	"context"
	"log"
	"time"

	"github.com/portfolio/backend/internal/models"
)

// PortfolioService assembles the public page. Each section is read on its
// own; a failed read is logged and the section renders empty.
type PortfolioService struct {
	profiles     *ProfileService
	skills       *SkillService
	projects     *ProjectService
	experience   *ExperienceService
	certificates *CertificateService
	resumes      *ResumeService
	now          func() time.Time
}

func NewPortfolioService(
	profiles *ProfileService,
	skills *SkillService,
	projects *ProjectService,
	experience *ExperienceService,
	certificates *CertificateService,
	resumes *ResumeService,
) *PortfolioService {
	return &PortfolioService{
		profiles:     profiles,
		skills:       skills,
		projects:     projects,
		experience:   experience,
		certificates: certificates,
		resumes:      resumes,
		now:          time.Now,
	}
}

func (s *PortfolioService) Load(ctx context.Context) *models.Portfolio {
	p := &models.Portfolio{
		Skills:       []models.Skill{},
		Projects:     []models.Project{},
		Experience:   []models.Experience{},
		Certificates: []models.Certificate{},
	}

	prof, found, err := s.profiles.Get(ctx)
	if err != nil {
		log.Printf("[Portfolio] profile read failed: %v", err)
	}
	p.Profile, p.HasProfile = *prof, found

	if resume, err := s.resumes.Active(ctx); err != nil {
		log.Printf("[Portfolio] resume read failed: %v", err)
	} else {
		p.Resume = resume
	}

	if skills, err := s.skills.List(ctx); err != nil {
		log.Printf("[Portfolio] skills read failed: %v", err)
	} else {
		p.Skills = skills
	}
	p.SkillTabs = models.NewSkillTabs(p.Skills)

	if projects, err := s.projects.List(ctx); err != nil {
		log.Printf("[Portfolio] projects read failed: %v", err)
	} else {
		p.Projects = projects
	}
	p.ProjectTabs = models.NewProjectTabs(p.Projects)

	if exp, err := s.experience.List(ctx); err != nil {
		log.Printf("[Portfolio] experience read failed: %v", err)
	} else {
		p.Experience = exp
	}

	if certs, err := s.certificates.List(ctx); err != nil {
		log.Printf("[Portfolio] certificates read failed: %v", err)
	} else {
		p.Certificates = certs
	}

	p.Stats = models.AboutStats{
		Projects:        len(p.Projects),
		Certificates:    len(p.Certificates),
		ExperienceYears: models.ExperienceYears(p.Experience, s.now()),
	}
	return p
}
