package risk

import "github.com/neervazh/ward-monitor/internal/models"

// Score band boundaries. Inclusive on the lower bound of each band; any
// input, including out-of-range scores, lands in exactly one band.
const (
	highThreshold   = 65
	mediumThreshold = 40
)

func Classify(score float64) models.RiskLevel {
	switch {
	case score >= highThreshold:
		return models.RiskHigh
	case score >= mediumThreshold:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

var defaultPalette = map[models.RiskLevel]string{
	models.RiskLow:    "#22c55e",
	models.RiskMedium: "#f59e0b",
	models.RiskHigh:   "#ef4444",
}

// accessiblePalette avoids red-green confusion under deuteranopia.
var accessiblePalette = map[models.RiskLevel]string{
	models.RiskLow:    "#005AB5",
	models.RiskMedium: "#DC3220",
	models.RiskHigh:   "#FFB000",
}

func ColorFor(level models.RiskLevel, accessible bool) string {
	if accessible {
		return accessiblePalette[level]
	}
	return defaultPalette[level]
}

// UrgencyColor colors the SLA countdown bar from the percentage of budget
// remaining. These bands are unrelated to the score bands above.
func UrgencyColor(percentRemaining int) string {
	switch {
	case percentRemaining > 50:
		return "#22c55e"
	case percentRemaining > 25:
		return "#f59e0b"
	default:
		return "#ef4444"
	}
}
