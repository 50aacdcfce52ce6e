package market

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"venturebot-be/internal/constant"
	"venturebot-be/pkg/llm"
)

// SearchProvider is the single black-box retrieval call. Implementations may
// time out or error; the engine owns all failure handling.
type SearchProvider interface {
	Search(ctx context.Context, query string) (string, error)
}

// LLMSearchProvider performs market research through the configured language
// model, asking it to answer with the structured intelligence record.
type LLMSearchProvider struct {
	provider llm.LLMProvider
}

var _ SearchProvider = &LLMSearchProvider{}

func NewLLMSearchProvider(provider llm.LLMProvider) *LLMSearchProvider {
	return &LLMSearchProvider{provider: provider}
}

func (s *LLMSearchProvider) Search(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf(constant.MarketResearchPrompt, query)
	out, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		return "", fmt.Errorf("market research call failed: %w", err)
	}
	return out, nil
}

// wireRecord mirrors the JSON shape the research prompt asks for.
type wireRecord struct {
	MarketSize struct {
		Tam         string `json:"tam"`
		GrowthRate  string `json:"growth_rate"`
		MarketStage string `json:"market_stage"`
	} `json:"market_size"`
	Competitors     []Competitor     `json:"competitors"`
	MarketGaps      []Gap            `json:"market_gaps"`
	Trends          []Trend          `json:"trends"`
	Barriers        []Barrier        `json:"barriers"`
	Recommendations []Recommendation `json:"recommendations"`
	Summary         string           `json:"summary"`
}

var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// parseStructured tries to decode the retrieval payload as a full
// intelligence record. Returns nil if no machine-readable structure exists.
func parseStructured(raw string) *Intelligence {
	match := jsonBlockRe.FindString(raw)
	if match == "" {
		return nil
	}
	var rec wireRecord
	if err := json.Unmarshal([]byte(match), &rec); err != nil {
		return nil
	}
	// A record with neither sizing nor any list is noise, not structure.
	if rec.MarketSize.Tam == "" && len(rec.Competitors) == 0 && len(rec.MarketGaps) == 0 &&
		len(rec.Trends) == 0 && len(rec.Barriers) == 0 {
		return nil
	}

	tam := rec.MarketSize.Tam
	if tam == "" {
		tam = "Unknown"
	}
	growth := rec.MarketSize.GrowthRate
	if growth == "" {
		growth = "Unknown"
	}

	return &Intelligence{
		TamEstimate:     tam,
		GrowthRate:      growth,
		MarketStage:     ParseStage(strings.ToLower(strings.TrimSpace(rec.MarketSize.MarketStage))),
		Competitors:     rec.Competitors,
		Gaps:            rec.MarketGaps,
		Trends:          rec.Trends,
		Barriers:        rec.Barriers,
		Recommendations: rec.Recommendations,
	}
}

var (
	competitorKeywords = []string{"competitor", "company", "product", "leader", "platform", "app"}
	gapKeywords        = []string{"gap", "opportunity", "underserved", "unmet need"}
	trendKeywords      = []string{"trend", "shift", "adoption"}
	barrierKeywords    = []string{"barrier", "regulation", "moat", "switching cost"}

	namedEntityRe = regexp.MustCompile(`\b[A-Z][A-Za-z0-9]+(?:\s+[A-Z][A-Za-z0-9]+)?\b`)
	enumeratedRe  = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)
)

// heuristicExtract builds a partial intelligence record from free text when no
// structured payload could be decoded. Competitors are estimated from
// named-entity-like mentions; gap/trend/barrier lists are populated only from
// explicitly enumerated lines.
func heuristicExtract(raw string) Intelligence {
	intel := Intelligence{
		TamEstimate: "Unknown",
		GrowthRate:  "Unknown",
		MarketStage: StageGrowing,
	}

	seen := make(map[string]bool)
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		enumerated := enumeratedRe.MatchString(line)

		if containsAny(lower, competitorKeywords) {
			name := firstEntity(trimmed)
			if name != "" && !seen[name] {
				seen[name] = true
				intel.Competitors = append(intel.Competitors, Competitor{
					Name:     name,
					Position: PositionChallenger,
					Funding:  "Unknown",
					Users:    "Unknown",
				})
			}
		}
		if !enumerated {
			continue
		}
		text := enumeratedRe.ReplaceAllString(trimmed, "")
		switch {
		case containsAny(lower, gapKeywords):
			intel.Gaps = append(intel.Gaps, Gap{Gap: clip(text, 100), Difficulty: "medium"})
		case containsAny(lower, trendKeywords):
			intel.Trends = append(intel.Trends, Trend{Trend: clip(text, 100)})
		case containsAny(lower, barrierKeywords):
			intel.Barriers = append(intel.Barriers, Barrier{Barrier: clip(text, 100), Severity: "medium"})
		}
	}

	return intel
}

// countHits counts relevant mentions in the raw payload, the proxy signal the
// fallback heuristic scores from.
func countHits(raw string) int {
	hits := 0
	for _, line := range strings.Split(raw, "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))
		if lower == "" {
			continue
		}
		if containsAny(lower, competitorKeywords) || containsAny(lower, gapKeywords) ||
			containsAny(lower, trendKeywords) || containsAny(lower, barrierKeywords) {
			hits++
		}
	}
	return hits
}

// entityStopwords are capitalized sentence openers that look like names.
var entityStopwords = map[string]bool{
	"The": true, "This": true, "These": true, "There": true, "That": true,
	"Some": true, "Many": true, "Most": true, "Other": true, "Its": true,
	"It": true, "In": true, "On": true, "For": true, "With": true, "While": true,
}

// firstEntity picks the first capitalized mention that is not a sentence opener.
func firstEntity(line string) string {
	for _, candidate := range namedEntityRe.FindAllString(line, 5) {
		first := strings.Fields(candidate)[0]
		if !entityStopwords[first] {
			return candidate
		}
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
