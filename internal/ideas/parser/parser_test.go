package parser

import (
	"testing"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oneIdea = `{
  "title": "Smart Greenhouse Monitor",
  "tagline": "Sensor mesh for small growers",
  "description": "Monitors soil and air.",
  "target_users": "Hobby farmers",
  "innovation_score": 7.5,
  "feasibility_score": 8.0,
  "impact_score": 7.0,
  "learning_score": 8.5,
  "overall_score": 7.8,
  "technologies": ["ESP32", "LoRa", "Python"],
  "estimated_cost": "$300",
  "timeline": "2 semesters",
  "complexity": "Intermediate",
  "key_features": ["Soil moisture", "Alerts"],
  "risks": ["Battery life"]
}`

func TestParse_FencedObjectMatchesPlain(t *testing.T) {
	plain := Parse(oneIdea)
	require.False(t, plain.Fallback)
	require.Len(t, plain.Ideas, 1)

	for name, wrapped := range map[string]string{
		"tagged": "```json\n" + oneIdea + "\n```",
		"bare":   "```\n" + oneIdea + "\n```",
		"padded": "\n\n  ```json\n" + oneIdea + "\n```  \n",
	} {
		t.Run(name, func(t *testing.T) {
			res := Parse(wrapped)
			assert.False(t, res.Fallback)
			assert.NoError(t, res.Err)
			assert.Equal(t, plain.Ideas, res.Ideas)
		})
	}

	idea := plain.Ideas[0]
	assert.Equal(t, "Smart Greenhouse Monitor", idea.Title)
	assert.Equal(t, []string{"ESP32", "LoRa", "Python"}, idea.Technologies)
	require.NotNil(t, idea.Overall)
	assert.Equal(t, 7.8, *idea.Overall)
}

func TestParse_Array(t *testing.T) {
	res := Parse("[" + oneIdea + "," + oneIdea + "]")
	assert.False(t, res.Fallback)
	assert.Len(t, res.Ideas, 2)

	empty := Parse("[]")
	assert.False(t, empty.Fallback)
	assert.Empty(t, empty.Ideas)
}

func TestParse_FallbackOnInvalidInput(t *testing.T) {
	inputs := map[string]string{
		"unterminated string": `[{"title": "Broken`,
		"prose":               "Here are five ideas for your team!",
		"number":              "42",
		"string":              `"just a string"`,
		"empty":               "",
		"only fence":          "```json\n```",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			var res Result
			assert.NotPanics(t, func() { res = Parse(in) })
			assert.True(t, res.Fallback)
			assert.Error(t, res.Err)
			require.Len(t, res.Ideas, 1)
			assert.Equal(t, FallbackIdea(), res.Ideas[0])
		})
	}
}

func TestParse_NonObjectElementsBecomeEmptyIdeas(t *testing.T) {
	res := Parse("[" + oneIdea + `, "stray", 7, null]`)
	require.False(t, res.Fallback)
	require.NoError(t, res.Err)
	require.Len(t, res.Ideas, 4)

	assert.Equal(t, "Smart Greenhouse Monitor", res.Ideas[0].Title)
	for _, idea := range res.Ideas[1:] {
		assert.Empty(t, idea.Title)
		assert.Nil(t, idea.Overall)
		assert.Equal(t, []string{}, idea.Technologies)
	}
}

func TestParse_LenientFields(t *testing.T) {
	res := Parse(`{"title": 12, "overall_score": "6.5", "feasibility_score": "high",
		"technologies": ["Go", 3, null, {"x": 1}], "risks": "Scope creep"}`)
	require.False(t, res.Fallback)
	idea := res.Ideas[0]

	assert.Equal(t, "12", idea.Title)
	require.NotNil(t, idea.Overall)
	assert.Equal(t, 6.5, *idea.Overall)
	assert.Nil(t, idea.Feasibility)
	assert.Nil(t, idea.Innovation)
	assert.Equal(t, []string{"Go", "3"}, idea.Technologies)
	assert.Equal(t, []string{"Scope creep"}, idea.Risks)
	assert.Equal(t, []string{}, idea.KeyFeatures)
	assert.Equal(t, "", idea.Timeline)
}

func TestFallbackIdeaIsIndependent(t *testing.T) {
	a := FallbackIdea()
	a.Technologies[0] = "mutated"
	*a.Overall = 1

	b := FallbackIdea()
	assert.Equal(t, "Python", b.Technologies[0])
	assert.Equal(t, 7.8, *b.Overall)
	assert.Equal(t, domain.Score(7.5), b.Feasibility)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `[1]`, StripFences("```json\n[1]\n```"))
	assert.Equal(t, `[1]`, StripFences("```JSON\n[1]\n```"))
	assert.Equal(t, `[1]`, StripFences("```\n[1]\n```"))
	assert.Equal(t, `[1]`, StripFences("```json[1]```"))
	assert.Equal(t, `{"a":1}`, StripFences(`  {"a":1} `))
}
