package market

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreDimensionsStayInRange(t *testing.T) {
	// Property sweep over synthetic intelligence inputs: every dimension,
	// overall and confidence must land inside [0,1].
	stages := []Stage{StageEmerging, StageGrowing, StageMature, StageDeclining}
	analyzer := NewAnalyzer()

	for _, stage := range stages {
		for competitors := 0; competitors <= 50; competitors += 5 {
			for lists := 0; lists <= 20; lists += 4 {
				intel := syntheticIntel(stage, competitors, lists, lists)
				for _, analysisType := range []string{"enhanced", "basic"} {
					scores := analyzer.Score(intel, analysisType)
					name := fmt.Sprintf("%s/%dc/%dl/%s", stage, competitors, lists, analysisType)
					for field, v := range map[string]float64{
						"market_opportunity":    scores.MarketOpportunity,
						"competitive_landscape": scores.CompetitiveLandscape,
						"execution_feasibility": scores.ExecutionFeasibility,
						"innovation_potential":  scores.InnovationPotential,
						"overall":               scores.Overall,
						"confidence":            scores.Confidence,
					} {
						assert.GreaterOrEqualf(t, v, 0.0, "%s %s below range", name, field)
						assert.LessOrEqualf(t, v, 1.0, "%s %s above range", name, field)
					}
				}
			}
		}
	}
}

func TestScoreOverallIsWeightedSum(t *testing.T) {
	analyzer := NewAnalyzer()
	intel := syntheticIntel(StageGrowing, 3, 2, 1)

	scores := analyzer.Score(intel, "enhanced")
	want := scores.MarketOpportunity*WeightOpportunity +
		scores.CompetitiveLandscape*WeightLandscape +
		scores.ExecutionFeasibility*WeightFeasibility +
		scores.InnovationPotential*WeightInnovation
	assert.InDelta(t, want, scores.Overall, 0.01)
}

func TestScoreCompetitiveLandscapeCrowdedMarket(t *testing.T) {
	// 10 competitors with one market leader pushes the landscape from the
	// 0.5 baseline down by 0.4 and 0.15, clamping at zero.
	analyzer := NewAnalyzer()
	intel := Intelligence{MarketStage: StageGrowing}
	for i := 0; i < 10; i++ {
		position := PositionChallenger
		if i == 0 {
			position = PositionLeader
		}
		intel.Competitors = append(intel.Competitors, Competitor{Name: fmt.Sprintf("Rival%d", i), Position: position})
	}
	intel.Gaps = []Gap{{Gap: "a"}, {Gap: "b"}}

	scores := analyzer.Score(intel, "enhanced")
	assert.Equal(t, 0.0, scores.CompetitiveLandscape)
}

func TestScoreMarketOpportunityAdjustments(t *testing.T) {
	analyzer := NewAnalyzer()
	tests := []struct {
		name  string
		intel Intelligence
		want  float64
	}{
		{
			name:  "baseline only",
			intel: Intelligence{MarketStage: StageDeclining},
			want:  0.5,
		},
		{
			name: "billion TAM, fast growth, growing stage, three gaps",
			intel: Intelligence{
				TamEstimate: "$4.5 billion",
				GrowthRate:  "18% annually",
				MarketStage: StageGrowing,
				Gaps:        []Gap{{Gap: "a"}, {Gap: "b"}, {Gap: "c"}},
			},
			want: 1.0, // 0.5+0.3+0.2+0.2+0.3 clamped
		},
		{
			name: "million TAM, moderate growth, emerging",
			intel: Intelligence{
				TamEstimate: "$800 million",
				GrowthRate:  "7%",
				MarketStage: StageEmerging,
			},
			want: 0.95, // 0.5+0.2+0.1+0.15
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := analyzer.Score(tt.intel, "enhanced")
			assert.InDelta(t, tt.want, scores.MarketOpportunity, 0.001)
		})
	}
}

func TestScoreExecutionFeasibilityBarriers(t *testing.T) {
	analyzer := NewAnalyzer()
	intel := Intelligence{
		MarketStage: StageMature,
		Competitors: []Competitor{{Name: "Incumbent", Position: PositionLeader}},
		Barriers: []Barrier{
			{Barrier: "regulation", Severity: "high"},
			{Barrier: "switching costs", Severity: "medium"},
		},
	}

	// 0.5 - 0.2 - 0.1 + 0.2 (mature) + 0.1 (competitor presence)
	scores := analyzer.Score(intel, "enhanced")
	assert.InDelta(t, 0.5, scores.ExecutionFeasibility, 0.001)
}

func TestConfidenceScaling(t *testing.T) {
	analyzer := NewAnalyzer()

	sparse := analyzer.Score(Intelligence{TamEstimate: "Unknown", GrowthRate: "Unknown", MarketStage: StageGrowing}, "basic")
	full := analyzer.Score(Intelligence{
		TamEstimate: "$2 billion",
		GrowthRate:  "20%",
		MarketStage: StageGrowing,
		Competitors: []Competitor{{Name: "X"}},
		Gaps:        []Gap{{Gap: "g"}},
		Trends:      []Trend{{Trend: "t"}},
	}, "enhanced")

	assert.InDelta(t, 0.5, sparse.Confidence, 0.001) // 0.3 base + 0.2 basic
	assert.InDelta(t, 1.0, full.Confidence, 0.001)
	assert.Greater(t, full.Confidence, sparse.Confidence)
}

func TestGrowthPercentParsing(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"18% annually", 18},
		{"5.5%", 5.5},
		{"rapid expansion", 20},
		{"steady", 10},
		{"flat", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, growthPercent(tt.in), "growthPercent(%q)", tt.in)
	}
}

func syntheticIntel(stage Stage, competitors, gaps, trends int) Intelligence {
	intel := Intelligence{
		TamEstimate: "$1 billion",
		GrowthRate:  "12%",
		MarketStage: stage,
	}
	for i := 0; i < competitors; i++ {
		position := PositionNiche
		if i%3 == 0 {
			position = PositionLeader
		}
		intel.Competitors = append(intel.Competitors, Competitor{Name: fmt.Sprintf("C%d", i), Position: position})
	}
	for i := 0; i < gaps; i++ {
		intel.Gaps = append(intel.Gaps, Gap{Gap: fmt.Sprintf("gap %d", i)})
		intel.Barriers = append(intel.Barriers, Barrier{Barrier: fmt.Sprintf("barrier %d", i), Severity: "high"})
	}
	for i := 0; i < trends; i++ {
		intel.Trends = append(intel.Trends, Trend{Trend: fmt.Sprintf("trend %d", i)})
	}
	return intel
}
