package market

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Analyzer turns an intelligence record into the four dimension scores plus
// confidence. Scoring is deterministic: same record, same scores.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Score computes all dimensions from a baseline of 0.5, applies the additive
// adjustments, clamps to [0,1], and recomputes the weighted overall.
func (a *Analyzer) Score(intel Intelligence, analysisType string) Scores {
	opportunity := clamp01(a.scoreMarketOpportunity(intel))
	landscape := clamp01(a.scoreCompetitiveLandscape(intel))
	feasibility := clamp01(a.scoreExecutionFeasibility(intel))
	innovation := clamp01(a.scoreInnovationPotential(intel))

	return Scores{
		MarketOpportunity:    round2(opportunity),
		CompetitiveLandscape: round2(landscape),
		ExecutionFeasibility: round2(feasibility),
		InnovationPotential:  round2(innovation),
		Overall:              round2(Overall(opportunity, landscape, feasibility, innovation)),
		Confidence:           round2(clamp01(a.confidence(intel, analysisType))),
	}
}

// Overall is the declared weighted sum of the four dimensions.
func Overall(opportunity, landscape, feasibility, innovation float64) float64 {
	return opportunity*WeightOpportunity +
		landscape*WeightLandscape +
		feasibility*WeightFeasibility +
		innovation*WeightInnovation
}

func (a *Analyzer) scoreMarketOpportunity(intel Intelligence) float64 {
	score := 0.5

	tam := strings.ToLower(intel.TamEstimate)
	if strings.Contains(tam, "billion") || strings.Contains(tam, "$b") || strings.HasSuffix(tam, "b") {
		score += 0.3
	} else if strings.Contains(tam, "million") || strings.Contains(tam, "$m") || strings.HasSuffix(tam, "m") {
		score += 0.2
	}

	growth := growthPercent(intel.GrowthRate)
	if growth >= 15 {
		score += 0.2
	} else if growth >= 5 {
		score += 0.1
	}

	switch intel.MarketStage {
	case StageGrowing:
		score += 0.2
	case StageEmerging:
		score += 0.15
	}

	score += math.Min(float64(len(intel.Gaps))*0.1, 0.3)
	return score
}

// Higher score means a more favorable (less crowded) landscape.
func (a *Analyzer) scoreCompetitiveLandscape(intel Intelligence) float64 {
	score := 0.5

	switch n := len(intel.Competitors); {
	case n >= 10:
		score -= 0.4
	case n >= 5:
		score -= 0.3
	case n >= 2:
		score -= 0.2
	case n == 1:
		score -= 0.1
	}

	for _, c := range intel.Competitors {
		if strings.EqualFold(strings.TrimSpace(c.Position), PositionLeader) {
			score -= 0.15
		}
	}

	return score
}

func (a *Analyzer) scoreExecutionFeasibility(intel Intelligence) float64 {
	score := 0.5

	for _, b := range intel.Barriers {
		switch strings.ToLower(b.Severity) {
		case "high":
			score -= 0.2
		case "medium":
			score -= 0.1
		}
	}

	switch intel.MarketStage {
	case StageMature:
		score += 0.2
	case StageEmerging:
		score -= 0.1
	}

	// Existing competitors validate demand
	if len(intel.Competitors) > 0 {
		score += 0.1
	}

	return score
}

func (a *Analyzer) scoreInnovationPotential(intel Intelligence) float64 {
	score := 0.5

	score += math.Min(float64(len(intel.Gaps))*0.2, 0.4)

	switch intel.MarketStage {
	case StageEmerging:
		score += 0.3
	case StageGrowing:
		score += 0.2
	case StageMature:
		score -= 0.1
	}

	score += math.Min(float64(len(intel.Trends))*0.1, 0.2)

	// Low competition leaves more room to innovate
	switch n := len(intel.Competitors); {
	case n <= 2:
		score += 0.2
	case n <= 5:
		score += 0.1
	}

	return score
}

// confidence starts at the text-only floor of 0.3 and rises with every
// successfully populated intelligence field, reaching 1.0 for a fully
// structured record with competitors, gaps, and trends all present.
func (a *Analyzer) confidence(intel Intelligence, analysisType string) float64 {
	confidence := 0.3

	switch analysisType {
	case "enhanced":
		confidence += 0.4
	case "basic":
		confidence += 0.2
	}

	if known(intel.TamEstimate) {
		confidence += 0.1
	}
	if known(intel.GrowthRate) {
		confidence += 0.1
	}
	if len(intel.Competitors) > 0 {
		confidence += 0.1
	}
	if len(intel.Gaps) > 0 {
		confidence += 0.05
	}
	if len(intel.Trends) > 0 {
		confidence += 0.05
	}

	return confidence
}

func known(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "unknown", "data not available", "analysis unavailable":
		return false
	default:
		return true
	}
}

var percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

// growthPercent extracts a numeric growth rate from a free-text descriptor.
// Returns 0 when no percentage is present; descriptive words still count.
func growthPercent(growth string) float64 {
	if m := percentRe.FindStringSubmatch(growth); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v
		}
	}
	lower := strings.ToLower(growth)
	if strings.Contains(lower, "high") || strings.Contains(lower, "rapid") {
		return 20
	}
	if strings.Contains(lower, "growing") || strings.Contains(lower, "steady") {
		return 10
	}
	return 0
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0.0), 1.0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
