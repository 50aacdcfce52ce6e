package market

import (
	"fmt"
	"strings"
)

// Dashboard renders a validation result as a plain-text report suitable for
// chat delivery. No markup beyond unicode bars, so it survives any client.
type Dashboard struct{}

func NewDashboard() *Dashboard {
	return &Dashboard{}
}

const barWidth = 10

func (d *Dashboard) Render(result ValidationResult) string {
	var b strings.Builder

	b.WriteString("VALIDATION REPORT\n")
	b.WriteString(fmt.Sprintf("Idea #%d: %s\n\n", result.IdeaIndex, clip(result.IdeaText, 120)))

	b.WriteString(fmt.Sprintf("Overall Score: %.2f/1.00  %s\n", result.Scores.Overall, verdict(result.Scores.Overall)))
	b.WriteString(fmt.Sprintf("Confidence:    %.0f%% (%s analysis)\n\n", result.Confidence*100, result.AnalysisType))

	d.writeBar(&b, "Market Opportunity   ", result.Scores.MarketOpportunity)
	d.writeBar(&b, "Competitive Landscape", result.Scores.CompetitiveLandscape)
	d.writeBar(&b, "Execution Feasibility", result.Scores.ExecutionFeasibility)
	d.writeBar(&b, "Innovation Potential ", result.Scores.InnovationPotential)

	intel := result.Intelligence
	b.WriteString("\nMarket Size\n")
	b.WriteString(fmt.Sprintf("  TAM: %s | Growth: %s | Stage: %s\n", intel.TamEstimate, intel.GrowthRate, intel.MarketStage))

	if len(intel.Competitors) > 0 {
		b.WriteString("\nCompetitors\n")
		for i, c := range intel.Competitors {
			if i >= 5 {
				b.WriteString(fmt.Sprintf("  ...and %d more\n", len(intel.Competitors)-5))
				break
			}
			b.WriteString(fmt.Sprintf("  - %s (%s)\n", c.Name, c.Position))
		}
	}

	if len(intel.Gaps) > 0 {
		b.WriteString("\nMarket Gaps\n")
		for _, g := range intel.Gaps {
			b.WriteString(fmt.Sprintf("  - %s\n", g.Gap))
		}
	}

	if len(intel.Trends) > 0 {
		b.WriteString("\nTrends\n")
		for _, t := range intel.Trends {
			b.WriteString(fmt.Sprintf("  - %s\n", t.Trend))
		}
	}

	if len(intel.Barriers) > 0 {
		b.WriteString("\nBarriers to Entry\n")
		for _, bar := range intel.Barriers {
			line := bar.Barrier
			if bar.Severity != "" {
				line += fmt.Sprintf(" [%s]", bar.Severity)
			}
			b.WriteString("  - " + line + "\n")
		}
	}

	if len(intel.Recommendations) > 0 {
		b.WriteString("\nRecommendations\n")
		for _, r := range intel.Recommendations {
			b.WriteString(fmt.Sprintf("  - %s\n", r.Strategy))
		}
	}

	if result.AnalysisType == "fallback" {
		b.WriteString("\nNote: live market data was unavailable; the scores above come from a text-only heuristic and carry low confidence.\n")
	}

	return b.String()
}

func (d *Dashboard) writeBar(b *strings.Builder, label string, score float64) {
	filled := int(score*barWidth + 0.5)
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	b.WriteString(fmt.Sprintf("%s %s %.2f\n", label, bar, score))
}

func verdict(overall float64) string {
	switch {
	case overall >= 0.7:
		return "STRONG — worth pursuing"
	case overall >= 0.5:
		return "PROMISING — refine and re-validate"
	case overall >= 0.3:
		return "WEAK — significant risks"
	default:
		return "NOT RECOMMENDED"
	}
}
