package parser

import "github.com/seniordesign-sys/ideagen-backend/internal/ideas/domain"

// FallbackIdea is the fixed sample substituted whenever a reply cannot be parsed.
// Each call returns a fresh copy.
func FallbackIdea() domain.Idea {
	return domain.Idea{
		Title:       "AI-Powered Study Assistant",
		Tagline:     "Voice-activated learning companion for students",
		Description: "A smart study tool that uses natural language processing to help students review material, generate practice questions, and track learning progress through conversational AI.",
		TargetUsers: "College students preparing for exams",
		Scores: domain.Scores{
			Innovation:  domain.Score(8.0),
			Feasibility: domain.Score(7.5),
			Impact:      domain.Score(8.0),
			Learning:    domain.Score(7.0),
			Overall:     domain.Score(7.8),
		},
		Technologies:  []string{"Python", "NLP", "Voice Recognition", "Cloud AI"},
		EstimatedCost: "$450",
		Timeline:      "2 semesters",
		Complexity:    "Intermediate",
		KeyFeatures:   []string{"Voice interaction", "Adaptive learning", "Progress tracking"},
		Risks:         []string{"Voice recognition accuracy", "Cloud API costs"},
	}
}
