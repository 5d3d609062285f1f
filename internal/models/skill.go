package models

import (
	"strings"
	"time"
)

// Skill categories. The set is closed.
const (
	SkillCategoryAIML         = "AI/ML"
	SkillCategoryDataAnalysis = "Data Analysis"
	SkillCategoryProgramming  = "Programming"
	SkillCategoryTools        = "Tools"
	SkillCategoryOther        = "Other"
)

var SkillCategoryOptions = []string{
	SkillCategoryAIML,
	SkillCategoryDataAnalysis,
	SkillCategoryProgramming,
	SkillCategoryTools,
	SkillCategoryOther,
}

func IsSkillCategory(c string) bool {
	for _, option := range SkillCategoryOptions {
		if c == option {
			return true
		}
	}
	return false
}

type Skill struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Name        string     `json:"name" bson:"name"`
	Category    string     `json:"category" bson:"category"`
	Proficiency int        `json:"proficiency" bson:"proficiency"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

type SkillRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Proficiency int    `json:"proficiency"`
}

func (r *SkillRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		errors["name"] = "Name is required"
	}
	if !IsSkillCategory(r.Category) {
		errors["category"] = "Category must be one of " + strings.Join(SkillCategoryOptions, ", ")
	}
	if r.Proficiency < 0 || r.Proficiency > 100 {
		errors["proficiency"] = "Proficiency must be between 0 and 100"
	}

	return errors
}
