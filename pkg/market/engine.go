package market

import (
	"context"
	"fmt"
	"math"
	"time"

	"venturebot-be/internal/pkg/logger"
)

// Engine runs the validation pipeline for a single idea: retrieval, scoring,
// and report rendering, degrading through the tiers when retrieval misbehaves.
// Validate never returns an error; the worst case is a fallback result.
type Engine struct {
	search        SearchProvider
	analyzer      *Analyzer
	breaker       *CircuitBreaker
	dashboard     *Dashboard
	searchTimeout time.Duration
	log           logger.ILogger
}

func NewEngine(search SearchProvider, breaker *CircuitBreaker, searchTimeout time.Duration, log logger.ILogger) *Engine {
	if searchTimeout <= 0 {
		searchTimeout = 35 * time.Second
	}
	return &Engine{
		search:        search,
		analyzer:      NewAnalyzer(),
		breaker:       breaker,
		dashboard:     NewDashboard(),
		searchTimeout: searchTimeout,
		log:           log,
	}
}

// Validate analyses one idea and always produces a result. Retrieval gets one
// retry while the circuit breaker still has headroom; once the breaker opens,
// retrieval is skipped entirely until the recovery window elapses.
func (e *Engine) Validate(ctx context.Context, ideaIndex int, ideaText string) ValidationResult {
	raw, ok := e.retrieve(ctx, ideaText)
	if !ok {
		return e.fallbackResult(ideaIndex, ideaText, raw)
	}

	intel := parseStructured(raw)
	analysisType := "enhanced"
	if intel == nil {
		extracted := heuristicExtract(raw)
		intel = &extracted
		analysisType = "basic"
	}

	scores := e.analyzer.Score(*intel, analysisType)
	result := ValidationResult{
		IdeaIndex:    ideaIndex,
		IdeaText:     ideaText,
		Scores:       scores,
		Intelligence: *intel,
		Confidence:   scores.Confidence,
		AnalysisType: analysisType,
	}
	result.Report = e.dashboard.Render(result)
	return result
}

// retrieve runs retrieval under the search deadline, honoring the breaker.
// Returns the raw payload and whether it is usable.
func (e *Engine) retrieve(ctx context.Context, ideaText string) (string, bool) {
	if !e.breaker.CanProceed() {
		e.log.Warn("market-engine", "retrieval skipped, circuit open", map[string]any{
			"failures": e.breaker.FailureCount(),
		})
		return "", false
	}

	attempts := 1
	if e.breaker.FailureCount() < e.breaker.Threshold()-1 {
		attempts = 2
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		searchCtx, cancel := context.WithTimeout(ctx, e.searchTimeout)
		raw, err := e.search.Search(searchCtx, ideaText)
		cancel()
		if err == nil && raw != "" {
			e.breaker.RecordSuccess()
			return raw, true
		}
		if err == nil {
			err = fmt.Errorf("empty retrieval payload")
		}
		lastErr = err
		e.breaker.RecordFailure()
		if ctx.Err() != nil {
			break
		}
	}

	e.log.Error("market-engine", "retrieval failed", map[string]any{
		"error":    lastErr.Error(),
		"failures": e.breaker.FailureCount(),
	})
	return "", false
}

// fallbackResult is the tier-2 path: no usable retrieval, so scores are
// derived from the hint count h in the idea text itself. The mapping keeps
// the overall equal to 0.6*f + 0.4*i while every dimension stays explainable.
func (e *Engine) fallbackResult(ideaIndex int, ideaText, raw string) ValidationResult {
	h := countHits(ideaText + "\n" + raw)
	f := math.Min(float64(h)/8.0, 1.0)
	i := math.Max(1.0-float64(h)/12.0, 0.0)

	scores := Scores{
		MarketOpportunity:    round2((f + 2*i) / 3.0),
		CompetitiveLandscape: round2(f),
		ExecutionFeasibility: round2(f),
		InnovationPotential:  round2(i),
		Confidence:           0.3,
	}
	scores.Overall = round2(Overall(scores.MarketOpportunity, scores.CompetitiveLandscape,
		scores.ExecutionFeasibility, scores.InnovationPotential))

	result := ValidationResult{
		IdeaIndex: ideaIndex,
		IdeaText:  ideaText,
		Scores:    scores,
		Intelligence: Intelligence{
			TamEstimate: "Data not available",
			GrowthRate:  "Unknown",
			MarketStage: StageGrowing,
		},
		Confidence:   scores.Confidence,
		AnalysisType: "fallback",
	}
	result.Report = e.dashboard.Render(result)
	return result
}
