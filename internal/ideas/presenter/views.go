package presenter

import (
	"fmt"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/domain"
)

// RecentLimit is how many projects the dashboard lists.
const RecentLimit = 5

// ScoreLine is one labelled score with its bar.
type ScoreLine struct {
	Label string `json:"label"`
	Bar   string `json:"bar"`
	Value string `json:"value"`
}

// Card is the compact result-list view of a project.
type Card struct {
	Rank          int      `json:"rank"`
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Score         string   `json:"score"`
	Tagline       string   `json:"tagline"`
	Description   string   `json:"description"`
	Technologies  []string `json:"technologies"`
	EstimatedCost string   `json:"estimated_cost"`
	Timeline      string   `json:"timeline"`
}

// Overview is the detail panel: scores, summary and quick stats.
type Overview struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	Overall       string      `json:"overall"`
	Scores        []ScoreLine `json:"scores"`
	Tagline       string      `json:"tagline"`
	Description   string      `json:"description"`
	KeyFeatures   []string    `json:"key_features"`
	Risks         []string    `json:"risks"`
	EstimatedCost string      `json:"estimated_cost"`
	Timeline      string      `json:"timeline"`
	Complexity    string      `json:"complexity"`
	TargetUsers   string      `json:"target_users"`
}

// Feasibility is the feasibility-assessment panel.
type Feasibility struct {
	Score        string   `json:"score"`
	Label        string   `json:"label"`
	Technologies []string `json:"technologies"`
	Risks        []string `json:"risks"`
}

// RecentItem is one dashboard row, e.g. "[#001] Smart Greenhouse".
type RecentItem struct {
	Label string `json:"label"`
	ID    int64  `json:"id"`
	Score string `json:"score"`
}

// CardFor builds the card for the project at zero-based position index.
func CardFor(index int, p domain.Project) Card {
	return Card{
		Rank:          index + 1,
		ID:            p.ID,
		Title:         orNA(p.Title),
		Score:         FormatScore(p.Overall),
		Tagline:       p.Tagline,
		Description:   p.Description,
		Technologies:  nonNil(p.Technologies),
		EstimatedCost: orNA(p.EstimatedCost),
		Timeline:      orNA(p.Timeline),
	}
}

func OverviewFor(p domain.Project) Overview {
	return Overview{
		ID:      p.ID,
		Title:   orNA(p.Title),
		Overall: FormatScore(p.Overall),
		Scores: []ScoreLine{
			line("Innovation", p.Innovation),
			line("Feasibility", p.Feasibility),
			line("Impact", p.Impact),
			line("Learning", p.Learning),
		},
		Tagline:       p.Tagline,
		Description:   p.Description,
		KeyFeatures:   nonNil(p.KeyFeatures),
		Risks:         nonNil(p.Risks),
		EstimatedCost: orNA(p.EstimatedCost),
		Timeline:      orNA(p.Timeline),
		Complexity:    orNA(p.Complexity),
		TargetUsers:   orNA(p.TargetUsers),
	}
}

func FeasibilityFor(p domain.Project) Feasibility {
	label := "N/A"
	if p.Feasibility != nil {
		label = FeasibilityLabel(*p.Feasibility)
	}
	return Feasibility{
		Score:        FormatScore(p.Feasibility),
		Label:        label,
		Technologies: nonNil(p.Technologies),
		Risks:        nonNil(p.Risks),
	}
}

// Recent slices the first n projects in stored order; it never re-sorts.
func Recent(projects []domain.Project, n int) []RecentItem {
	if n > len(projects) {
		n = len(projects)
	}
	if n < 0 {
		n = 0
	}
	out := make([]RecentItem, 0, n)
	for i, p := range projects[:n] {
		out = append(out, RecentItem{
			Label: fmt.Sprintf("[#%03d] %s", i+1, orNA(p.Title)),
			ID:    p.ID,
			Score: FormatScore(p.Overall),
		})
	}
	return out
}

func line(label string, score *float64) ScoreLine {
	return ScoreLine{Label: label, Bar: BarPtr(score), Value: FormatScore(score)}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
