// Package presenter derives display strings and views from projects. Everything here
// is pure and stateless.
package presenter

import (
	"fmt"
	"math"
	"strings"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/domain"
)

const (
	BarWidth      = 10
	ProgressWidth = 20

	filledGlyph = "█"
	emptyGlyph  = "░"
)

// Bar renders score as BarWidth units: floor(score) filled, the rest empty.
// Scores outside [0,10] are clamped.
func Bar(score float64) string {
	var filled int
	switch {
	case math.IsNaN(score) || score < 0:
		filled = 0
	case score >= BarWidth:
		filled = BarWidth
	default:
		filled = int(math.Floor(score))
	}
	return strings.Repeat(filledGlyph, filled) + strings.Repeat(emptyGlyph, BarWidth-filled)
}

// BarPtr is Bar for an optional score; a missing score renders empty.
func BarPtr(score *float64) string {
	if score == nil {
		return Bar(0)
	}
	return Bar(*score)
}

// FeasibilityLabel maps a feasibility score to its band, evaluated top-down.
func FeasibilityLabel(score float64) string {
	switch {
	case score >= 8:
		return "Highly Feasible"
	case score >= 6:
		return "Feasible"
	case score >= 4:
		return "Challenging"
	default:
		return "High Risk"
	}
}

// FormatScore renders "7.5/10", or "N/A" when the score is missing.
func FormatScore(score *float64) string {
	if score == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f/10", *score)
}

// ProgressBar renders the loading bar, e.g. "[████░░░░░░░░░░░░░░░░] 20%".
func ProgressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent / 5
	return fmt.Sprintf("[%s%s] %d%%", strings.Repeat(filledGlyph, filled), strings.Repeat(emptyGlyph, ProgressWidth-filled), percent)
}

// HwSwDisplay renders a hardware percentage as "60% SW / 40% HW".
func HwSwDisplay(hwPercent int) string {
	return fmt.Sprintf("%d%% SW / %d%% HW", 100-hwPercent, hwPercent)
}

const (
	StatusConnected     = "CONNECTED"
	StatusNotConfigured = "NOT CONFIGURED"
)

// APIStatus reports whether a credential looks usable.
func APIStatus(credential string) string {
	if strings.HasPrefix(credential, domain.CredentialPrefix) {
		return StatusConnected
	}
	return StatusNotConfigured
}
