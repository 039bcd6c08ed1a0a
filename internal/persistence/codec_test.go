package persistence

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/portfolio-keeper/internal/logging"
	"github.com/jonathan/portfolio-keeper/internal/types"
)

func fullRecord() types.PortfolioRecord {
	return types.Normalize(types.PortfolioRecord{
		Name:                "Jane Doe",
		Bio:                 "Web Developer | Designer",
		ProfessionalSummary: "Builds things.",
		Email:               "jane@example.com",
		LinkedIn:            "linkedin.com/in/janedoe",
		Location:            "San Francisco, CA",
		ImageURL:            "/img/jane.png",
		ResumeURL:           "https://example.com/jane.pdf",
		Languages:           []string{"English", "Spanish", "English"},
		Education: []types.EducationEntry{
			{Name: "Stanford", Degree: "B.Sc.", StartDate: "2015-09-01", EndDate: "2019-06-01"},
		},
		Skills: []types.Skill{{Name: "Go", Category: "Backend", Proficiency: "Advanced"}},
		Projects: []types.Project{
			{Name: "One", Description: "d", TechnologiesUsed: []string{"Go", "SQL"}, Date: "2024-01-01"},
			{Name: "Two", Date: "2023-01-01", EndDate: "2023-02-01", Website: "https://example.com"},
		},
		CoreCompetencies:  []types.CategoryDescription{{Category: "Backend", Description: "APIs"}},
		AdditionalDetails: []types.CategoryDescription{{Category: "Hobbies", Description: "Chess"}},
		Certificates:      []types.Certificate{{Name: "CKA", Issuer: "CNCF", Date: "2022", URL: "https://cncf.io"}},
		Events:            []types.Event{{Title: "GopherCon", Description: "Talk", Date: "2023-09-26"}},
		AIExperience: types.AIExperience{
			Description:          "LLM tooling",
			CurrentInvestigation: "Agents",
			Achievements:         []string{"Shipped RAG"},
			Projects: []types.AIProject{
				{Title: "Bot", Description: "Chat", Technologies: []string{"Go"}},
			},
		},
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec(nil)
	fallback := record("fallback")

	for _, r := range []types.PortfolioRecord{fullRecord(), record("Minimal")} {
		got := c.Decode(c.Encode(r), fallback)
		if diff := cmp.Diff(r, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestCodec_FallbackOnCorruption(t *testing.T) {
	c := NewCodec(nil)
	fallback := record("fallback")

	for _, raw := range []string{"not json", "", "   ", "null", "[1,2,3]", `{"name": 5}`, `{"name":"x"`} {
		got := c.Decode(raw, fallback)
		assert.Equal(t, fallback, got, "input %q", raw)
	}
}

func TestCodec_DecodeNormalizesMissingLists(t *testing.T) {
	c := NewCodec(nil)
	got := c.Decode(`{"name":"Jane","email":"jane@example.com","projects":[{"name":"p"}]}`, record("fallback"))

	assert.Equal(t, "Jane", got.Name)
	assert.NotNil(t, got.Languages)
	assert.NotNil(t, got.Events)
	assert.NotNil(t, got.Projects[0].TechnologiesUsed)
	assert.NotNil(t, got.AIExperience.Achievements)
}

func TestCodec_EncodeNeverEmitsNullLists(t *testing.T) {
	c := NewCodec(nil)
	out := c.Encode(types.PortfolioRecord{Name: "Jane", Email: "j@e.com"})
	assert.NotContains(t, out, "null")
	assert.Contains(t, out, `"languages":[]`)
}

func TestCodec_EncodePretty(t *testing.T) {
	c := NewCodec(nil)
	out := c.EncodePretty(record("Jane"))
	assert.True(t, strings.HasPrefix(out, "{\n  \"name\": \"Jane\""))
}

func TestCodec_Backups(t *testing.T) {
	c := NewCodec(nil)

	assert.Equal(t, "[]", c.EncodeBackups(nil))
	assert.Equal(t, []string{}, c.DecodeBackups(""))
	assert.Equal(t, []string{}, c.DecodeBackups("null"))
	assert.Equal(t, []string{}, c.DecodeBackups("{broken"))
	assert.Equal(t, []string{}, c.DecodeBackups(`{"a":1}`))

	in := []string{`{"name":"b"}`, `{"name":"a"}`}
	assert.Equal(t, in, c.DecodeBackups(c.EncodeBackups(in)))
}

func TestCodec_FallbackIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := NewCodec(logging.FromZap(zap.New(core)))

	c.Decode("not json", record("fallback"))
	c.Decode("", record("fallback"))

	entries := logs.FilterMessage("Discarding unparseable stored data").All()
	require.Len(t, entries, 1, "empty input is not an error worth logging")
	assert.Equal(t, "record", entries[0].ContextMap()["target"])
}
