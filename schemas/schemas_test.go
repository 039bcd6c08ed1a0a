package schemas_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-keeper/internal/fixtures"
	validator "github.com/jonathan/portfolio-keeper/internal/schemas"
	"github.com/jonathan/portfolio-keeper/schemas"
)

func TestPortfolioSchema_ValidJSON(t *testing.T) {
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(schemas.Portfolio), &v))
	assert.Equal(t, "object", v["type"])
	assert.Contains(t, v, "properties")
}

func TestPortfolioSchema_Compiles(t *testing.T) {
	_, err := validator.Compile("portfolio", schemas.Portfolio)
	assert.NoError(t, err)
}

func TestPortfolioSchema_AcceptsDefaultFixture(t *testing.T) {
	v, err := validator.Compile("portfolio", schemas.Portfolio)
	require.NoError(t, err)
	assert.NoError(t, v.ValidateBytes(fixtures.DefaultJSON()))
}

func TestPortfolioSchema_RejectsWrongTypes(t *testing.T) {
	v, err := validator.Compile("portfolio", schemas.Portfolio)
	require.NoError(t, err)

	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"numeric name", `{"name": 5}`, "name"},
		{"skill not object", `{"skills": ["Go"]}`, "skills.0"},
		{"technologies not strings", `{"projects": [{"technologiesUsed": [1]}]}`, "projects.0.technologiesUsed.0"},
		{"ai experience not object", `{"aiExperience": "lots"}`, "aiExperience"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateBytes([]byte(tt.doc))
			var verr *validator.ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Errors)
			assert.Equal(t, tt.field, verr.Errors[0].Field)
		})
	}
}
