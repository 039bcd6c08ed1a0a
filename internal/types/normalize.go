//nolint:revive // types is a standard Go package name pattern
package types

// Normalize returns a copy of r in which every list field is a non-nil slice.
// It never fails; absent lists become empty sequences.
func Normalize(r PortfolioRecord) PortfolioRecord {
	out := r.Clone()
	if out.Languages == nil {
		out.Languages = []string{}
	}
	if out.Education == nil {
		out.Education = []EducationEntry{}
	}
	if out.Skills == nil {
		out.Skills = []Skill{}
	}
	if out.Projects == nil {
		out.Projects = []Project{}
	}
	for i := range out.Projects {
		if out.Projects[i].TechnologiesUsed == nil {
			out.Projects[i].TechnologiesUsed = []string{}
		}
	}
	if out.CoreCompetencies == nil {
		out.CoreCompetencies = []CategoryDescription{}
	}
	if out.AdditionalDetails == nil {
		out.AdditionalDetails = []CategoryDescription{}
	}
	if out.Certificates == nil {
		out.Certificates = []Certificate{}
	}
	if out.Events == nil {
		out.Events = []Event{}
	}
	if out.AIExperience.Achievements == nil {
		out.AIExperience.Achievements = []string{}
	}
	if out.AIExperience.Projects == nil {
		out.AIExperience.Projects = []AIProject{}
	}
	for i := range out.AIExperience.Projects {
		if out.AIExperience.Projects[i].Technologies == nil {
			out.AIExperience.Projects[i].Technologies = []string{}
		}
	}
	return out
}

// Clone returns a deep copy of the record. Nil slices stay nil.
func (r PortfolioRecord) Clone() PortfolioRecord {
	out := r
	out.Languages = cloneSlice(r.Languages)
	out.Education = cloneSlice(r.Education)
	out.Skills = cloneSlice(r.Skills)
	out.Projects = cloneSlice(r.Projects)
	for i := range out.Projects {
		out.Projects[i].TechnologiesUsed = cloneSlice(r.Projects[i].TechnologiesUsed)
	}
	out.CoreCompetencies = cloneSlice(r.CoreCompetencies)
	out.AdditionalDetails = cloneSlice(r.AdditionalDetails)
	out.Certificates = cloneSlice(r.Certificates)
	out.Events = cloneSlice(r.Events)
	out.AIExperience.Achievements = cloneSlice(r.AIExperience.Achievements)
	out.AIExperience.Projects = cloneSlice(r.AIExperience.Projects)
	for i := range out.AIExperience.Projects {
		out.AIExperience.Projects[i].Technologies = cloneSlice(r.AIExperience.Projects[i].Technologies)
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
