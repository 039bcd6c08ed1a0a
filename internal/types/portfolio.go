// Package types provides type definitions for the portfolio record and its sections.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PortfolioRecord is the root entity holding all portfolio/CV content.
// JSON keys match the portfolio-data.json file format.
type PortfolioRecord struct {
	Name                string                `json:"name" validate:"required"`
	Bio                 string                `json:"bio"`
	ProfessionalSummary string                `json:"professionalSummary"`
	Email               string                `json:"email" validate:"required"`
	LinkedIn            string                `json:"linkedin"`
	Location            string                `json:"location"`
	ImageURL            string                `json:"imageUrl"`
	ResumeURL           string                `json:"resumeUrl,omitempty"`
	Languages           []string              `json:"languages"`
	Education           []EducationEntry      `json:"education"`
	Skills              []Skill               `json:"skills"`
	Projects            []Project             `json:"projects"`
	CoreCompetencies    []CategoryDescription `json:"coreCompetencies"`
	AdditionalDetails   []CategoryDescription `json:"additionalDetails"`
	Certificates        []Certificate         `json:"certificates"`
	Events              []Event               `json:"events"`
	AIExperience        AIExperience          `json:"aiExperience"`
}

// EducationEntry is a single school/degree. Dates are free-form strings.
type EducationEntry struct {
	Name      string `json:"name"`
	Degree    string `json:"degree"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Skill is a named skill; Category is only used for grouping.
type Skill struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Proficiency string `json:"proficiency"`
}

// Project represents a portfolio project
type Project struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	TechnologiesUsed []string `json:"technologiesUsed"`
	Date             string   `json:"date"`
	EndDate          string   `json:"endDate,omitempty"`
	Website          string   `json:"website,omitempty"`
}

// IsOngoing reports whether the project has no end date.
func (p Project) IsOngoing() bool {
	return p.EndDate == ""
}

// DisplayEnd returns the end date, or "Present" for ongoing projects.
func (p Project) DisplayEnd() string {
	if p.IsOngoing() {
		return "Present"
	}
	return p.EndDate
}

// CategoryDescription is used for both core competencies and additional details.
type CategoryDescription struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Certificate represents an earned certificate
type Certificate struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	URL    string `json:"url"`
}

// Event represents a talk, meetup or other dated event
type Event struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Date        string `json:"date"`
}

// AIExperience is the nested "AI experience" section.
type AIExperience struct {
	Description          string      `json:"description"`
	CurrentInvestigation string      `json:"currentInvestigation"`
	Achievements         []string    `json:"achievements"`
	Projects             []AIProject `json:"projects"`
}

// AIProject is a project listed under AI experience.
type AIProject struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}
