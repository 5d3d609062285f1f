package services

import "github.com/portfolio/backend/internal/storage"

// Collection names shared by every store backend.
const (
	ProfileCollection      = "profile"
	ProjectsCollection     = "projects"
	SkillsCollection       = "skills"
	ExperienceCollection   = "experience"
	CertificatesCollection = "certificates"
	ResumeCollection       = "resume"
)

// MongoIndexes are the indexes backing every ordered list query.
var MongoIndexes = []storage.MongoIndex{
	{Collection: SkillsCollection, Field: "proficiency", Desc: true},
	{Collection: ProjectsCollection, Field: "createdAt", Desc: true},
	{Collection: ExperienceCollection, Field: "startDate", Desc: true},
	{Collection: CertificatesCollection, Field: "createdAt", Desc: true},
	{Collection: ResumeCollection, Field: "version", Desc: true},
	{Collection: ResumeCollection, Field: "isActive"},
}
