package domain

import (
	"fmt"
	"time"
)

// CredentialPrefix is the prefix every accepted API key carries.
const CredentialPrefix = "sk-ant-"

type BudgetTier string

const (
	BudgetLow       BudgetTier = "low"
	BudgetMedium    BudgetTier = "medium"
	BudgetHigh      BudgetTier = "high"
	BudgetUnlimited BudgetTier = "unlimited"
)

func (b BudgetTier) Valid() bool {
	switch b {
	case BudgetLow, BudgetMedium, BudgetHigh, BudgetUnlimited:
		return true
	}
	return false
}

type ComplexityTier string

const (
	ComplexityBeginner     ComplexityTier = "beginner"
	ComplexityIntermediate ComplexityTier = "intermediate"
	ComplexityAdvanced     ComplexityTier = "advanced"
)

func (c ComplexityTier) Valid() bool {
	switch c {
	case ComplexityBeginner, ComplexityIntermediate, ComplexityAdvanced:
		return true
	}
	return false
}

// ConstraintSet is the validated input bundle for one generation request.
// HwSwRatio is the hardware share in percent.
type ConstraintSet struct {
	TeamSize          int            `json:"team_size" yaml:"team_size"`
	DurationSemesters int            `json:"duration_semesters" yaml:"duration_semesters"`
	Budget            BudgetTier     `json:"budget" yaml:"budget"`
	Complexity        ComplexityTier `json:"complexity" yaml:"complexity"`
	HwSwRatio         int            `json:"hw_sw_ratio" yaml:"hw_sw_ratio"`
	ProblemStatement  string         `json:"problem_statement" yaml:"problem_statement"`
	Technologies      []string       `json:"technologies" yaml:"technologies"`
}

// Validate reports the first constraint that is out of range.
func (c ConstraintSet) Validate() error {
	switch {
	case c.TeamSize < 1:
		return &ValidationError{Field: "team_size", Message: "must be at least 1"}
	case c.DurationSemesters < 1:
		return &ValidationError{Field: "duration_semesters", Message: "must be at least 1"}
	case !c.Budget.Valid():
		return &ValidationError{Field: "budget", Message: fmt.Sprintf("unknown budget tier %q", c.Budget)}
	case !c.Complexity.Valid():
		return &ValidationError{Field: "complexity", Message: fmt.Sprintf("unknown complexity tier %q", c.Complexity)}
	case c.HwSwRatio < 0 || c.HwSwRatio > 100:
		return &ValidationError{Field: "hw_sw_ratio", Message: "must be between 0 and 100"}
	}
	return nil
}

// Clone returns a copy that shares no slices with c.
func (c ConstraintSet) Clone() ConstraintSet {
	out := c
	if c.Technologies != nil {
		out.Technologies = append([]string(nil), c.Technologies...)
	}
	return out
}

// Scores are the model's 0-10 ratings. A nil score means the model omitted it
// or sent something that is not a number.
type Scores struct {
	Innovation  *float64 `json:"innovation_score,omitempty"`
	Feasibility *float64 `json:"feasibility_score,omitempty"`
	Impact      *float64 `json:"impact_score,omitempty"`
	Learning    *float64 `json:"learning_score,omitempty"`
	Overall     *float64 `json:"overall_score,omitempty"`
}

// Idea is one structured proposal as returned by the model.
type Idea struct {
	Title         string   `json:"title"`
	Tagline       string   `json:"tagline"`
	Description   string   `json:"description"`
	TargetUsers   string   `json:"target_users"`
	Scores                 // flattened into *_score fields
	Technologies  []string `json:"technologies"`
	EstimatedCost string   `json:"estimated_cost"`
	Timeline      string   `json:"timeline"`
	Complexity    string   `json:"complexity"`
	KeyFeatures   []string `json:"key_features"`
	Risks         []string `json:"risks"`
}

// Project is a persisted Idea with its id, creation time and source constraints.
type Project struct {
	ID int64 `json:"id"`
	Idea
	CreatedAt   time.Time     `json:"timestamp"`
	Constraints ConstraintSet `json:"constraints"`
}

// Score returns a pointer to v, for building Scores literals.
func Score(v float64) *float64 {
	return &v
}
