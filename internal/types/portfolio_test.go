//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() PortfolioRecord {
	return PortfolioRecord{
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Languages: []string{"English", "Spanish", "English"},
		Projects: []Project{
			{Name: "One", TechnologiesUsed: []string{"Go"}, Date: "2024-01-01"},
		},
		AIExperience: AIExperience{
			Achievements: []string{"shipped"},
			Projects:     []AIProject{{Title: "Agent", Technologies: []string{"LLM"}}},
		},
	}
}

func TestNormalize_FillsEmptyLists(t *testing.T) {
	r := Normalize(PortfolioRecord{
		Name:     "Jane",
		Email:    "jane@example.com",
		Projects: []Project{{Name: "No tech"}},
		AIExperience: AIExperience{
			Projects: []AIProject{{Title: "x"}},
		},
	})

	assert.NotNil(t, r.Languages)
	assert.NotNil(t, r.Education)
	assert.NotNil(t, r.Skills)
	assert.NotNil(t, r.CoreCompetencies)
	assert.NotNil(t, r.AdditionalDetails)
	assert.NotNil(t, r.Certificates)
	assert.NotNil(t, r.Events)
	assert.NotNil(t, r.AIExperience.Achievements)
	assert.NotNil(t, r.Projects[0].TechnologiesUsed)
	assert.NotNil(t, r.AIExperience.Projects[0].Technologies)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}

func TestNormalize_KeepsOrderAndDuplicates(t *testing.T) {
	r := Normalize(sampleRecord())
	assert.Equal(t, []string{"English", "Spanish", "English"}, r.Languages)
}

func TestClone_IsDeep(t *testing.T) {
	orig := sampleRecord()
	cp := orig.Clone()

	cp.Languages[0] = "French"
	cp.Projects[0].TechnologiesUsed[0] = "Rust"
	cp.AIExperience.Achievements[0] = "changed"
	cp.AIExperience.Projects[0].Technologies[0] = "changed"

	assert.Equal(t, "English", orig.Languages[0])
	assert.Equal(t, "Go", orig.Projects[0].TechnologiesUsed[0])
	assert.Equal(t, "shipped", orig.AIExperience.Achievements[0])
	assert.Equal(t, "LLM", orig.AIExperience.Projects[0].Technologies[0])
}

func TestClone_PreservesNil(t *testing.T) {
	cp := PortfolioRecord{}.Clone()
	assert.Nil(t, cp.Languages)
	assert.Nil(t, cp.Events)
}

func TestProject_DisplayEnd(t *testing.T) {
	assert.Equal(t, "Present", Project{}.DisplayEnd())
	assert.True(t, Project{}.IsOngoing())
	assert.Equal(t, "2024-03-01", Project{EndDate: "2024-03-01"}.DisplayEnd())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		record     PortfolioRecord
		wantFields []string
	}{
		{
			name:   "valid",
			record: PortfolioRecord{Name: "Jane", Email: "jane@example.com"},
		},
		{
			name:   "email is not format checked",
			record: PortfolioRecord{Name: "Jane", Email: "not-an-email"},
		},
		{
			name:       "missing name",
			record:     PortfolioRecord{Email: "jane@example.com"},
			wantFields: []string{"name"},
		},
		{
			name:       "missing email",
			record:     PortfolioRecord{Name: "Jane"},
			wantFields: []string{"email"},
		},
		{
			name:       "missing both",
			record:     PortfolioRecord{},
			wantFields: []string{"name", "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantFields == nil {
				assert.NoError(t, err)
				assert.True(t, tt.record.IsValid())
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantFields, verr.Fields)
			assert.Contains(t, err.Error(), "missing required fields")
		})
	}
}
