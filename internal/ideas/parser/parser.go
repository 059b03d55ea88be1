package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/domain"
)

// Result is the outcome of parsing one model reply. Parsing never fails: when the
// reply cannot be decoded, Ideas holds the single fallback idea, Fallback is set
// and Err explains why.
type Result struct {
	Ideas    []domain.Idea
	Fallback bool
	Err      error
}

// Parse turns raw model text into ideas.
func Parse(raw string) Result {
	ideas, err := decode(StripFences(raw))
	if err != nil {
		return Result{Ideas: []domain.Idea{FallbackIdea()}, Fallback: true, Err: err}
	}
	return Result{Ideas: ideas}
}

// StripFences removes a surrounding markdown code fence, tagged (```json) or bare.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && isLangTag(s[:i]) {
		s = s[i+1:]
	} else if isLangTag(s) {
		s = ""
	} else {
		s = strings.TrimPrefix(s, "json")
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isLangTag(s string) bool {
	s = strings.TrimSpace(s)
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

func decode(s string) ([]domain.Idea, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("decode model reply: %w", err)
	}

	switch top := v.(type) {
	case map[string]any:
		return []domain.Idea{ideaFrom(top)}, nil
	case []any:
		// Elements that are not objects become empty ideas, keeping batch size and order.
		ideas := make([]domain.Idea, 0, len(top))
		for _, el := range top {
			m, _ := el.(map[string]any)
			ideas = append(ideas, ideaFrom(m))
		}
		return ideas, nil
	default:
		return nil, fmt.Errorf("top-level value is %T, not an object or array", v)
	}
}

// ideaFrom reads fields leniently: anything missing or of the wrong type is left
// empty so later stages can render it as N/A.
func ideaFrom(m map[string]any) domain.Idea {
	return domain.Idea{
		Title:       str(m, "title"),
		Tagline:     str(m, "tagline"),
		Description: str(m, "description"),
		TargetUsers: str(m, "target_users"),
		Scores: domain.Scores{
			Innovation:  num(m, "innovation_score"),
			Feasibility: num(m, "feasibility_score"),
			Impact:      num(m, "impact_score"),
			Learning:    num(m, "learning_score"),
			Overall:     num(m, "overall_score"),
		},
		Technologies:  list(m, "technologies"),
		EstimatedCost: str(m, "estimated_cost"),
		Timeline:      str(m, "timeline"),
		Complexity:    str(m, "complexity"),
		KeyFeatures:   list(m, "key_features"),
		Risks:         list(m, "risks"),
	}
}

func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func num(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		return &v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

func list(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case float64:
				out = append(out, strconv.FormatFloat(s, 'f', -1, 64))
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		return []string{v}
	}
	return []string{}
}
