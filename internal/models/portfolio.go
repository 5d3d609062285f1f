package models

// AboutStats are the counters shown in the about section.
type AboutStats struct {
	Projects        int `json:"projects"`
	Certificates    int `json:"certificates"`
	ExperienceYears int `json:"experienceYears"`
}

// SkillTab is one precomputed category tab of the skills section.
type SkillTab struct {
	Category string  `json:"category"`
	Skills   []Skill `json:"skills"`
}

// ProjectTab is one precomputed category tab of the projects section.
type ProjectTab struct {
	Category string    `json:"category"`
	Projects []Project `json:"projects"`
}

// Portfolio is everything the public page renders. Sections that failed to
// load hold their empty state.
type Portfolio struct {
	Profile      Profile       `json:"profile"`
	HasProfile   bool          `json:"hasProfile"`
	Resume       *Resume       `json:"resume"`
	Skills       []Skill       `json:"skills"`
	SkillTabs    []SkillTab    `json:"skillTabs"`
	Projects     []Project     `json:"projects"`
	ProjectTabs  []ProjectTab  `json:"projectTabs"`
	Experience   []Experience  `json:"experience"`
	Certificates []Certificate `json:"certificates"`
	Stats        AboutStats    `json:"stats"`
}

// NewSkillTabs splits skills into the "all" tab and one tab per category.
func NewSkillTabs(skills []Skill) []SkillTab {
	cats := SkillCategories(skills)
	tabs := make([]SkillTab, 0, len(cats))
	for _, c := range cats {
		tabs = append(tabs, SkillTab{Category: c, Skills: FilterSkills(skills, c)})
	}
	return tabs
}

func NewProjectTabs(projects []Project) []ProjectTab {
	cats := ProjectCategories(projects)
	tabs := make([]ProjectTab, 0, len(cats))
	for _, c := range cats {
		tabs = append(tabs, ProjectTab{Category: c, Projects: FilterProjects(projects, c)})
	}
	return tabs
}
