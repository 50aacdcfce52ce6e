package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructuredFullRecord(t *testing.T) {
	intel := parseStructured("Here is the research:\n" + structuredPayload + "\nHope that helps.")
	require.NotNil(t, intel)
	assert.Equal(t, "$3 billion", intel.TamEstimate)
	assert.Equal(t, StageGrowing, intel.MarketStage)
	assert.Len(t, intel.Competitors, 2)
	assert.Len(t, intel.Gaps, 1)
}

func TestParseStructuredRejectsNoise(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no json at all", "plain prose about markets"},
		{"broken json", `{"market_size": {"tam": `},
		{"empty object", `{}`},
		{"unrelated object", `{"foo": "bar"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, parseStructured(tt.raw))
		})
	}
}

func TestParseStructuredDefaultsMissingSizing(t *testing.T) {
	intel := parseStructured(`{"competitors": [{"name": "X", "position": "niche player"}]}`)
	require.NotNil(t, intel)
	assert.Equal(t, "Unknown", intel.TamEstimate)
	assert.Equal(t, "Unknown", intel.GrowthRate)
	assert.Equal(t, StageGrowing, intel.MarketStage)
}

func TestHeuristicExtractEnumeratedLines(t *testing.T) {
	raw := "TrackFit is the leading competitor in this space.\n" +
		"- gap: underserved rural users\n" +
		"1) trend: rising adoption of wearables\n" +
		"* barrier: heavy regulation in health data\n" +
		"a trend mentioned mid-prose should not count"

	intel := heuristicExtract(raw)
	require.Len(t, intel.Competitors, 1)
	assert.Equal(t, "TrackFit", intel.Competitors[0].Name)
	assert.Len(t, intel.Gaps, 1)
	assert.Len(t, intel.Trends, 1)
	assert.Len(t, intel.Barriers, 1)
}

func TestCountHits(t *testing.T) {
	assert.Equal(t, 0, countHits("nothing relevant here"))
	assert.Equal(t, 2, countHits("a competitor appears\nand a market gap\nplain line"))
}
