package models

import "time"

// FilterAll selects every item.
const FilterAll = "all"

// FilterSkills returns the skills in category, preserving order.
func FilterSkills(skills []Skill, category string) []Skill {
	if category == "" || category == FilterAll {
		return skills
	}
	out := make([]Skill, 0, len(skills))
	for _, s := range skills {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// FilterProjects returns the projects in category, preserving order.
func FilterProjects(projects []Project, category string) []Project {
	if category == "" || category == FilterAll {
		return projects
	}
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// FilterProjectsByTag returns the projects carrying tag, preserving order.
func FilterProjectsByTag(projects []Project, tag string) []Project {
	if tag == "" || tag == FilterAll {
		return projects
	}
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		for _, t := range p.Tags {
			if t == tag {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func categories(n int, at func(int) string) []string {
	out := []string{FilterAll}
	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		c := at(i)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// SkillCategories lists "all" followed by each category in first-seen order.
func SkillCategories(skills []Skill) []string {
	return categories(len(skills), func(i int) string { return skills[i].Category })
}

// ProjectCategories lists "all" followed by each category in first-seen order.
func ProjectCategories(projects []Project) []string {
	return categories(len(projects), func(i int) string { return projects[i].Category })
}

// ExperienceYears sums whole months across roles and converts to years.
// Any positive total counts as at least one year.
func ExperienceYears(list []Experience, now time.Time) int {
	months := 0
	for _, e := range list {
		end := now
		if !e.Current && e.EndDate != nil {
			end = *e.EndDate
		}
		m := (end.Year()-e.StartDate.Year())*12 + int(end.Month()-e.StartDate.Month())
		if m > 0 {
			months += m
		}
	}
	if months == 0 {
		return 0
	}
	if years := months / 12; years > 0 {
		return years
	}
	return 1
}
