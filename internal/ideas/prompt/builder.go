package prompt

import (
	"fmt"
	"strings"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/domain"
)

// IdeaCount is how many ideas the prompt asks the model for.
const IdeaCount = 5

const (
	EmphasisHardware = "Hardware-heavy"
	EmphasisSoftware = "Software-heavy"
	EmphasisBalanced = "Balanced hardware/software"
)

// Emphasis maps the hardware percentage to its label.
func Emphasis(hwSwRatio int) string {
	switch {
	case hwSwRatio > 50:
		return EmphasisHardware
	case hwSwRatio < 50:
		return EmphasisSoftware
	default:
		return EmphasisBalanced
	}
}

const schemaExample = `{
  "title": "Project Title",
  "tagline": "One-line description (max 15 words)",
  "description": "2-3 sentence description of what this project does and why it matters",
  "target_users": "Who would use this? Be specific.",
  "innovation_score": 7.5,
  "feasibility_score": 8.0,
  "impact_score": 7.0,
  "learning_score": 8.5,
  "overall_score": 7.8,
  "technologies": ["Tech1", "Tech2", "Tech3"],
  "estimated_cost": "$450",
  "timeline": "2 semesters",
  "complexity": "Intermediate",
  "key_features": ["Feature 1", "Feature 2", "Feature 3"],
  "risks": ["Risk 1", "Risk 2"]
}`

// Build renders the idea-generation instruction for c. It has no side effects.
func Build(c domain.ConstraintSet) string {
	var b strings.Builder

	b.WriteString("You are a senior design project advisor for computer engineering students.\n\n")
	fmt.Fprintf(&b, "Generate %d innovative, achievable project ideas with these constraints:\n\n", IdeaCount)

	b.WriteString("TEAM CONSTRAINTS:\n")
	fmt.Fprintf(&b, "- Team size: %d students\n", c.TeamSize)
	fmt.Fprintf(&b, "- Duration: %d semester(s)\n", c.DurationSemesters)
	fmt.Fprintf(&b, "- Budget: %s\n", c.Budget)
	fmt.Fprintf(&b, "- Complexity level: %s\n", c.Complexity)
	fmt.Fprintf(&b, "- HW/SW emphasis: %s\n", Emphasis(c.HwSwRatio))
	if len(c.Technologies) > 0 {
		fmt.Fprintf(&b, "- Preferred technologies: %s\n", strings.Join(c.Technologies, ", "))
	}

	if ps := strings.TrimSpace(c.ProblemStatement); ps != "" {
		fmt.Fprintf(&b, "\nPROBLEM FOCUS:\n%s\n", ps)
	}

	b.WriteString("\nFor EACH idea, provide a structured response in this EXACT JSON format:\n\n")
	b.WriteString(schemaExample)
	fmt.Fprintf(&b, "\n\nReturn ONLY a valid JSON array of %d project objects. No markdown, no explanations, just the JSON array.", IdeaCount)

	return b.String()
}
