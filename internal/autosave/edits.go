package autosave

import (
	"slices"
	"strings"

	"github.com/jonathan/portfolio-keeper/internal/types"
)

// Field names a top-level scalar field of the record, using its JSON name.
type Field string

const (
	FieldName                Field = "name"
	FieldBio                 Field = "bio"
	FieldProfessionalSummary Field = "professionalSummary"
	FieldEmail               Field = "email"
	FieldLinkedIn            Field = "linkedin"
	FieldLocation            Field = "location"
	FieldImageURL            Field = "imageUrl"
	FieldResumeURL           Field = "resumeUrl"

	FieldAIDescription          Field = "aiExperience.description"
	FieldAICurrentInvestigation Field = "aiExperience.currentInvestigation"
)

var scalarFields = []Field{
	FieldName, FieldBio, FieldProfessionalSummary, FieldEmail, FieldLinkedIn,
	FieldLocation, FieldImageURL, FieldResumeURL, FieldAIDescription, FieldAICurrentInvestigation,
}

// ParseField resolves a field name or returns *UnknownFieldError.
func ParseField(name string) (Field, error) {
	f := Field(name)
	if slices.Contains(scalarFields, f) {
		return f, nil
	}
	return "", &UnknownFieldError{Field: name}
}

// SetField sets a scalar field.
func SetField(field Field, value string) Edit {
	return func(r types.PortfolioRecord) types.PortfolioRecord {
		switch field {
		case FieldName:
			r.Name = value
		case FieldBio:
			r.Bio = value
		case FieldProfessionalSummary:
			r.ProfessionalSummary = value
		case FieldEmail:
			r.Email = value
		case FieldLinkedIn:
			r.LinkedIn = value
		case FieldLocation:
			r.Location = value
		case FieldImageURL:
			r.ImageURL = value
		case FieldResumeURL:
			r.ResumeURL = value
		case FieldAIDescription:
			r.AIExperience.Description = value
		case FieldAICurrentInvestigation:
			r.AIExperience.CurrentInvestigation = value
		}
		return r
	}
}

// SetLanguages replaces the language list.
func SetLanguages(languages []string) Edit {
	return func(r types.PortfolioRecord) types.PortfolioRecord {
		r.Languages = append([]string{}, languages...)
		return r
	}
}

// Section names a list section of the record.
type Section string

const (
	SectionLanguages         Section = "languages"
	SectionEducation         Section = "education"
	SectionSkills            Section = "skills"
	SectionProjects          Section = "projects"
	SectionCoreCompetencies  Section = "coreCompetencies"
	SectionAdditionalDetails Section = "additionalDetails"
	SectionCertificates      Section = "certificates"
	SectionEvents            Section = "events"
	SectionAIAchievements    Section = "aiAchievements"
	SectionAIProjects        Section = "aiProjects"
)

// valueField is the item field name used by sections whose items are plain strings.
const valueField = "value"

type sectionOps struct {
	fields []string
	add    func(r *types.PortfolioRecord)
	remove func(r *types.PortfolioRecord, idx int)
	set    func(r *types.PortfolioRecord, idx int, field, value string)
}

var sections = map[Section]sectionOps{
	SectionLanguages: {
		fields: []string{valueField},
		add:    func(r *types.PortfolioRecord) { r.Languages = append(r.Languages, "") },
		remove: func(r *types.PortfolioRecord, i int) { r.Languages = removeAt(r.Languages, i) },
		set: func(r *types.PortfolioRecord, i int, _, v string) {
			if inRange(r.Languages, i) {
				r.Languages[i] = v
			}
		},
	},
	SectionEducation: {
		fields: []string{"name", "degree", "startDate", "endDate"},
		add: func(r *types.PortfolioRecord) {
			r.Education = append(r.Education, types.EducationEntry{})
		},
		remove: func(r *types.PortfolioRecord, i int) { r.Education = removeAt(r.Education, i) },
		set: func(r *types.PortfolioRecord, i int, f, v string) {
			if !inRange(r.Education, i) {
				return
			}
			e := &r.Education[i]
			switch f {
			case "name":
				e.Name = v
			case "degree":
				e.Degree = v
			case "startDate":
				e.StartDate = v
			case "endDate":
				e.EndDate = v
			}
		},
	},
	SectionSkills: {
		fields: []string{"name", "category", "proficiency"},
		add:    func(r *types.PortfolioRecord) { r.Skills = append(r.Skills, types.Skill{}) },
		remove: func(r *types.PortfolioRecord, i int) { r.Skills = removeAt(r.Skills, i) },
		set: func(r *types.PortfolioRecord, i int, f, v string) {
			if !inRange(r.Skills, i) {
				return
			}
			s := &r.Skills[i]
			switch f {
			case "name":
				s.Name = v
			case "category":
				s.Category = v
			case "proficiency":
				s.Proficiency = v
			}
		},
	},
	SectionProjects: {
		fields: []string{"name", "description", "technologiesUsed", "date", "endDate", "website"},
		add: func(r *types.PortfolioRecord) {
			r.Projects = append(r.Projects, types.Project{TechnologiesUsed: []string{}})
		},
		remove: func(r *types.PortfolioRecord, i int) { r.Projects = removeAt(r.Projects, i) },
		set: func(r *types.PortfolioRecord, i int, f, v string) {
			if !inRange(r.Projects, i) {
				return
			}
			p := &r.Projects[i]
			switch f {
			case "name":
				p.Name = v
			case "description":
				p.Description = v
			case "technologiesUsed":
				p.TechnologiesUsed = SplitList(v)
			case "date":
				p.Date = v
			case "endDate":
				p.EndDate = v
			case "website":
				p.Website = v
			}
		},
	},
	SectionCoreCompetencies: {
		fields: []string{"category", "description"},
		add: func(r *types.PortfolioRecord) {
			r.CoreCompetencies = append(r.CoreCompetencies, types.CategoryDescription{})
		},
		remove: func(r *types.PortfolioRecord, i int) { r.CoreCompetencies = removeAt(r.CoreCompetencies, i) },
		set: func(r *types.PortfolioRecord, i int, f, v string) {
			setCategoryDescription(r.CoreCompetencies, i, f, v)
		},
	},
	SectionAdditionalDetails: {
		fields: []string{"category", "description"},
		add: func(r *types.PortfolioRecord) {
			r.AdditionalDetails = append(r.AdditionalDetails, types.CategoryDescription{})
		},
		remove: func(r *types.PortfolioRecord, i int) { r.AdditionalDetails = removeAt(r.AdditionalDetails, i) },
		set: func(r *types.PortfolioRecord, i int, f, v string) {
			setCategoryDescription(r.AdditionalDetails, i, f, v)
		},
	},
	SectionCertificates: {
		fields: []string{"name", "issuer", "date", "url"},
		add: func(r *types.PortfolioRecord) {
			r.Certificates = append(r.Certificates, types.Certificate{})
		},
		remove: func(r *types.PortfolioRecord, i int) { r.Certificates = removeAt(r.Certificates, i) },
		set: func(r *types.PortfolioRecord, i int, f, v string) {
			if !inRange(r.Certificates, i) {
				return
			}
			c := &r.Certificates[i]
			switch f {
			case "name":
				c.Name = v
			case "issuer":
				c.Issuer = v
			case "date":
				c.Date = v
			case "url":
				c.URL = v
			}
		},
	},
	SectionEvents: {
		fields: []string{"title", "description", "image", "date"},
		add:    func(r *types.PortfolioRecord) { r.Events = append(r.Events, types.Event{}) },
		remove: func(r *types.PortfolioRecord, i int) { r.Events = removeAt(r.Events, i) },
		set: func(r *types.PortfolioRecord, i int, f, v string) {
			if !inRange(r.Events, i) {
				return
			}
			e := &r.Events[i]
			switch f {
			case "title":
				e.Title = v
			case "description":
				e.Description = v
			case "image":
				e.Image = v
			case "date":
				e.Date = v
			}
		},
	},
	SectionAIAchievements: {
		fields: []string{valueField},
		add: func(r *types.PortfolioRecord) {
			r.AIExperience.Achievements = append(r.AIExperience.Achievements, "")
		},
		remove: func(r *types.PortfolioRecord, i int) {
			r.AIExperience.Achievements = removeAt(r.AIExperience.Achievements, i)
		},
		set: func(r *types.PortfolioRecord, i int, _, v string) {
			if inRange(r.AIExperience.Achievements, i) {
				r.AIExperience.Achievements[i] = v
			}
		},
	},
	SectionAIProjects: {
		fields: []string{"title", "description", "technologies"},
		add: func(r *types.PortfolioRecord) {
			r.AIExperience.Projects = append(r.AIExperience.Projects, types.AIProject{Technologies: []string{}})
		},
		remove: func(r *types.PortfolioRecord, i int) {
			r.AIExperience.Projects = removeAt(r.AIExperience.Projects, i)
		},
		set: func(r *types.PortfolioRecord, i int, f, v string) {
			if !inRange(r.AIExperience.Projects, i) {
				return
			}
			p := &r.AIExperience.Projects[i]
			switch f {
			case "title":
				p.Title = v
			case "description":
				p.Description = v
			case "technologies":
				p.Technologies = SplitList(v)
			}
		},
	},
}

// ParseSection resolves a section name or returns *UnknownSectionError.
func ParseSection(name string) (Section, error) {
	s := Section(name)
	if _, ok := sections[s]; !ok {
		return "", &UnknownSectionError{Section: name}
	}
	return s, nil
}

// AddItem appends a blank item to section.
func AddItem(section Section) Edit {
	return func(r types.PortfolioRecord) types.PortfolioRecord {
		if ops, ok := sections[section]; ok {
			ops.add(&r)
		}
		return r
	}
}

// DeleteItem removes item idx from section. Out-of-range indexes leave the record unchanged.
func DeleteItem(section Section, idx int) Edit {
	return func(r types.PortfolioRecord) types.PortfolioRecord {
		if ops, ok := sections[section]; ok {
			ops.remove(&r, idx)
		}
		return r
	}
}

// SetItemField sets one field of item idx in section. Sections of plain strings use the
// field name "value". List-valued fields (technologies) take comma-separated text.
// Unknown sections or fields are rejected before any edit is built; out-of-range
// indexes produce a no-op edit.
func SetItemField(section Section, idx int, field, value string) (Edit, error) {
	ops, ok := sections[section]
	if !ok {
		return nil, &UnknownSectionError{Section: string(section)}
	}
	if !slices.Contains(ops.fields, field) {
		return nil, &UnknownFieldError{Section: string(section), Field: field}
	}
	return func(r types.PortfolioRecord) types.PortfolioRecord {
		ops.set(&r, idx, field, value)
		return r
	}, nil
}

// SplitList splits comma-separated text into trimmed, non-empty entries.
func SplitList(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setCategoryDescription(items []types.CategoryDescription, i int, field, value string) {
	if !inRange(items, i) {
		return
	}
	switch field {
	case "category":
		items[i].Category = value
	case "description":
		items[i].Description = value
	}
}

func inRange[T any](s []T, i int) bool {
	return i >= 0 && i < len(s)
}

func removeAt[T any](s []T, i int) []T {
	if !inRange(s, i) {
		return s
	}
	return slices.Delete(slices.Clone(s), i, i+1)
}
