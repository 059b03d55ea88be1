package prompt

import (
	"strings"
	"testing"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/domain"
	"github.com/stretchr/testify/assert"
)

func constraints() domain.ConstraintSet {
	return domain.ConstraintSet{
		TeamSize:          3,
		DurationSemesters: 2,
		Budget:            domain.BudgetLow,
		Complexity:        domain.ComplexityIntermediate,
		HwSwRatio:         40,
	}
}

func TestEmphasis(t *testing.T) {
	assert.Equal(t, "Balanced hardware/software", Emphasis(50))
	assert.Equal(t, "Hardware-heavy", Emphasis(70))
	assert.Equal(t, "Hardware-heavy", Emphasis(51))
	assert.Equal(t, "Software-heavy", Emphasis(30))
	assert.Equal(t, "Software-heavy", Emphasis(0))
}

func TestBuild_Constraints(t *testing.T) {
	p := Build(constraints())

	assert.Contains(t, p, "- Team size: 3 students")
	assert.Contains(t, p, "- Duration: 2 semester(s)")
	assert.Contains(t, p, "- Budget: low")
	assert.Contains(t, p, "- Complexity level: intermediate")
	assert.Contains(t, p, "- HW/SW emphasis: Software-heavy")
	assert.Contains(t, p, "Return ONLY a valid JSON array of 5 project objects")
}

func TestBuild_OptionalSections(t *testing.T) {
	t.Run("omitted when empty", func(t *testing.T) {
		p := Build(constraints())
		assert.NotContains(t, p, "Preferred technologies")
		assert.NotContains(t, p, "PROBLEM FOCUS")
	})

	t.Run("technologies keep set order", func(t *testing.T) {
		c := constraints()
		c.Technologies = []string{"IoT", "Python", "FPGA"}
		assert.Contains(t, Build(c), "- Preferred technologies: IoT, Python, FPGA\n")
	})

	t.Run("problem statement", func(t *testing.T) {
		c := constraints()
		c.ProblemStatement = "  Reduce food waste in dining halls  "
		assert.Contains(t, Build(c), "PROBLEM FOCUS:\nReduce food waste in dining halls\n")
	})

	t.Run("whitespace-only problem statement is empty", func(t *testing.T) {
		c := constraints()
		c.ProblemStatement = "   "
		assert.NotContains(t, Build(c), "PROBLEM FOCUS")
	})
}

func TestBuild_SchemaFields(t *testing.T) {
	p := Build(constraints())
	for _, field := range []string{
		"title", "tagline", "description", "target_users",
		"innovation_score", "feasibility_score", "impact_score", "learning_score", "overall_score",
		"technologies", "estimated_cost", "timeline", "complexity", "key_features", "risks",
	} {
		assert.True(t, strings.Contains(p, `"`+field+`"`), "schema missing %s", field)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	assert.Equal(t, Build(constraints()), Build(constraints()))
}
