package models

import (
	"strings"
	"time"
)

// DateLayout is the form format of experience dates.
const DateLayout = "2006-01-02"

type Experience struct {
	ID               string     `json:"id" bson:"_id,omitempty"`
	Company          string     `json:"company" bson:"company"`
	Position         string     `json:"position" bson:"position"`
	Location         string     `json:"location" bson:"location"`
	StartDate        time.Time  `json:"startDate" bson:"startDate"`
	EndDate          *time.Time `json:"endDate" bson:"endDate"`
	Current          bool       `json:"current" bson:"current"`
	Description      string     `json:"description" bson:"description"`
	Responsibilities []string   `json:"responsibilities" bson:"responsibilities"`
	Technologies     []string   `json:"technologies" bson:"technologies"`
	CompanyLogo      string     `json:"companyLogo,omitempty" bson:"companyLogo,omitempty"`
	CreatedAt        time.Time  `json:"createdAt" bson:"createdAt"`
}

type ExperienceRequest struct {
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	Location         string   `json:"location"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	Current          bool     `json:"current"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	Technologies     []string `json:"technologies"`
	CompanyLogo      string   `json:"companyLogo"`
}

func (r *ExperienceRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Company) == "" {
		errors["company"] = "Company is required"
	}
	if strings.TrimSpace(r.Position) == "" {
		errors["position"] = "Position is required"
	}

	start, err := time.Parse(DateLayout, strings.TrimSpace(r.StartDate))
	if err != nil {
		errors["startDate"] = "Start date must be YYYY-MM-DD"
	}
	if !r.Current && strings.TrimSpace(r.EndDate) != "" {
		end, err := time.Parse(DateLayout, strings.TrimSpace(r.EndDate))
		switch {
		case err != nil:
			errors["endDate"] = "End date must be YYYY-MM-DD"
		case errors["startDate"] == "" && end.Before(start):
			errors["endDate"] = "End date cannot be before start date"
		}
	}

	return errors
}

// Dates returns the parsed start date and the end date, nil when the role is
// current or has no end date. Call after Validate.
func (r *ExperienceRequest) Dates() (time.Time, *time.Time) {
	start, _ := time.Parse(DateLayout, strings.TrimSpace(r.StartDate))
	if r.Current || strings.TrimSpace(r.EndDate) == "" {
		return start, nil
	}
	end, err := time.Parse(DateLayout, strings.TrimSpace(r.EndDate))
	if err != nil {
		return start, nil
	}
	return start, &end
}
