package models

import (
	"net/mail"
	"strings"
	"time"
)

// ProfileID is the well-known document id of the site owner's profile.
const ProfileID = "singleton"

type SocialLink struct {
	Platform string `json:"platform" bson:"platform"`
	URL      string `json:"url" bson:"url"`
	Icon     string `json:"icon" bson:"icon"`
}

// Profile is the single site-owner record shown in the hero and about sections.
type Profile struct {
	FullName        string       `json:"fullName" bson:"fullName"`
	Title           string       `json:"title" bson:"title"`
	Bio             string       `json:"bio" bson:"bio"`
	AboutMe         string       `json:"aboutMe" bson:"aboutMe"`
	Email           string       `json:"email" bson:"email"`
	Phone           string       `json:"phone" bson:"phone"`
	Location        string       `json:"location" bson:"location"`
	ProfileImageURL string       `json:"profileImageUrl" bson:"profileImageUrl"`
	CoverImageURL   string       `json:"coverImageUrl" bson:"coverImageUrl"`
	SocialLinks     []SocialLink `json:"socialLinks" bson:"socialLinks"`
	Interests       []string     `json:"interests" bson:"interests"`
	MetaTitle       string       `json:"metaTitle" bson:"metaTitle"`
	MetaDescription string       `json:"metaDescription" bson:"metaDescription"`
	UpdatedAt       time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// UpsertProfileRequest replaces the profile wholesale.
type UpsertProfileRequest struct {
	FullName        string       `json:"fullName"`
	Title           string       `json:"title"`
	Bio             string       `json:"bio"`
	AboutMe         string       `json:"aboutMe"`
	Email           string       `json:"email"`
	Phone           string       `json:"phone"`
	Location        string       `json:"location"`
	ProfileImageURL string       `json:"profileImageUrl"`
	CoverImageURL   string       `json:"coverImageUrl"`
	SocialLinks     []SocialLink `json:"socialLinks"`
	Interests       []string     `json:"interests"`
	MetaTitle       string       `json:"metaTitle"`
	MetaDescription string       `json:"metaDescription"`
}

func (r *UpsertProfileRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.FullName) == "" {
		errors["fullName"] = "Full name is required"
	}
	if email := strings.TrimSpace(r.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errors["email"] = "Email is invalid"
		}
	}
	for _, link := range r.SocialLinks {
		if strings.TrimSpace(link.Platform) == "" || strings.TrimSpace(link.URL) == "" {
			errors["socialLinks"] = "Each social link needs a platform and a URL"
			break
		}
	}

	return errors
}

// Profile builds the stored record from the request.
func (r *UpsertProfileRequest) Profile(now time.Time) Profile {
	links := make([]SocialLink, 0, len(r.SocialLinks))
	for _, l := range r.SocialLinks {
		links = append(links, SocialLink{
			Platform: strings.TrimSpace(l.Platform),
			URL:      strings.TrimSpace(l.URL),
			Icon:     strings.TrimSpace(l.Icon),
		})
	}
	interests := make([]string, 0, len(r.Interests))
	for _, i := range r.Interests {
		if i = strings.TrimSpace(i); i != "" {
			interests = append(interests, i)
		}
	}

	return Profile{
		FullName:        strings.TrimSpace(r.FullName),
		Title:           strings.TrimSpace(r.Title),
		Bio:             r.Bio,
		AboutMe:         r.AboutMe,
		Email:           strings.TrimSpace(r.Email),
		Phone:           strings.TrimSpace(r.Phone),
		Location:        strings.TrimSpace(r.Location),
		ProfileImageURL: strings.TrimSpace(r.ProfileImageURL),
		CoverImageURL:   strings.TrimSpace(r.CoverImageURL),
		SocialLinks:     links,
		Interests:       interests,
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		UpdatedAt:       now,
	}
}
