package models

import "strings"

// ExperienceForm is the editing state of one experience entry, including its
// list-valued fields. Nothing is stored until the form is submitted.
type ExperienceForm struct {
	ExperienceRequest
}

// NewExperienceForm loads req into a form, applying the same trimming and
// de-duplication as interactive editing.
func NewExperienceForm(req ExperienceRequest) *ExperienceForm {
	f := &ExperienceForm{ExperienceRequest: req}
	f.Responsibilities = nil
	f.Technologies = nil
	for _, r := range req.Responsibilities {
		f.AddResponsibility(r)
	}
	for _, t := range req.Technologies {
		f.AddTechnology(t)
	}
	return f
}

func (f *ExperienceForm) AddResponsibility(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	f.Responsibilities = append(f.Responsibilities, text)
	return true
}

func (f *ExperienceForm) RemoveResponsibility(idx int) {
	if idx < 0 || idx >= len(f.Responsibilities) {
		return
	}
	f.Responsibilities = append(f.Responsibilities[:idx:idx], f.Responsibilities[idx+1:]...)
}

// AddTechnology appends a trimmed technology unless it is blank or present.
func (f *ExperienceForm) AddTechnology(tech string) bool {
	tech = strings.TrimSpace(tech)
	if tech == "" {
		return false
	}
	for _, existing := range f.Technologies {
		if existing == tech {
			return false
		}
	}
	f.Technologies = append(f.Technologies, tech)
	return true
}

func (f *ExperienceForm) RemoveTechnology(tech string) {
	out := f.Technologies[:0:0]
	for _, existing := range f.Technologies {
		if existing != tech {
			out = append(out, existing)
		}
	}
	f.Technologies = out
}

// SetCurrent toggles the current flag; a current role has no end date.
func (f *ExperienceForm) SetCurrent(current bool) {
	f.Current = current
	if current {
		f.EndDate = ""
	}
}

func (f *ExperienceForm) Reset() {
	*f = ExperienceForm{}
}

// Request returns the submitted payload with non-nil lists.
func (f *ExperienceForm) Request() ExperienceRequest {
	req := f.ExperienceRequest
	if req.Responsibilities == nil {
		req.Responsibilities = []string{}
	}
	if req.Technologies == nil {
		req.Technologies = []string{}
	}
	if req.Current {
		req.EndDate = ""
	}
	return req
}

// ProfileForm is the editing state of the profile.
type ProfileForm struct {
	UpsertProfileRequest
}

func NewProfileForm(req UpsertProfileRequest) *ProfileForm {
	f := &ProfileForm{UpsertProfileRequest: req}
	f.Interests = nil
	for _, i := range req.Interests {
		f.AddInterest(i)
	}
	return f
}

// AddSocialLink appends an empty link row.
func (f *ProfileForm) AddSocialLink() {
	f.SocialLinks = append(f.SocialLinks, SocialLink{Icon: SocialIconGithub})
}

// UpdateSocialLink sets one field (platform, url or icon) of the link at idx.
func (f *ProfileForm) UpdateSocialLink(idx int, field, value string) bool {
	if idx < 0 || idx >= len(f.SocialLinks) {
		return false
	}
	switch field {
	case "platform":
		f.SocialLinks[idx].Platform = value
	case "url":
		f.SocialLinks[idx].URL = value
	case "icon":
		f.SocialLinks[idx].Icon = value
	default:
		return false
	}
	return true
}

func (f *ProfileForm) RemoveSocialLink(idx int) {
	if idx < 0 || idx >= len(f.SocialLinks) {
		return
	}
	f.SocialLinks = append(f.SocialLinks[:idx:idx], f.SocialLinks[idx+1:]...)
}

func (f *ProfileForm) AddInterest(interest string) bool {
	interest = strings.TrimSpace(interest)
	if interest == "" {
		return false
	}
	f.Interests = append(f.Interests, interest)
	return true
}

func (f *ProfileForm) RemoveInterest(idx int) {
	if idx < 0 || idx >= len(f.Interests) {
		return
	}
	f.Interests = append(f.Interests[:idx:idx], f.Interests[idx+1:]...)
}

func (f *ProfileForm) Reset() {
	*f = ProfileForm{}
}

func (f *ProfileForm) Request() UpsertProfileRequest {
	req := f.UpsertProfileRequest
	if req.SocialLinks == nil {
		req.SocialLinks = []SocialLink{}
	}
	if req.Interests == nil {
		req.Interests = []string{}
	}
	return req
}
