package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type stubSearch struct {
	payload string
	err     error
	calls   int
}

func (s *stubSearch) Search(ctx context.Context, query string) (string, error) {
	s.calls++
	return s.payload, s.err
}

type hangingSearch struct{}

func (hangingSearch) Search(ctx context.Context, query string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

const structuredPayload = `{
	"market_size": {"tam": "$3 billion", "growth_rate": "22% annually", "market_stage": "growing"},
	"competitors": [
		{"name": "TrackFit", "position": "market leader", "funding": "$50M", "users": "2M"},
		{"name": "GymPal", "position": "challenger", "funding": "$5M", "users": "300K"}
	],
	"market_gaps": [{"gap": "no offline mode", "difficulty": "low"}],
	"trends": [{"trend": "wearable integration", "timeline": "now"}],
	"barriers": [{"barrier": "app store saturation", "severity": "medium"}],
	"recommendations": [{"strategy": "niche down", "priority": "high"}],
	"summary": "Crowded but growing."
}`

func newTestEngine(search SearchProvider, breaker *CircuitBreaker) *Engine {
	return NewEngine(search, breaker, 200*time.Millisecond, nopLogger{})
}

func TestValidateEnhancedAnalysis(t *testing.T) {
	search := &stubSearch{payload: structuredPayload}
	engine := newTestEngine(search, NewCircuitBreaker(3, time.Minute))

	result := engine.Validate(context.Background(), 2, "AI fitness coach app")

	assert.Equal(t, "enhanced", result.AnalysisType)
	assert.Equal(t, 2, result.IdeaIndex)
	assert.Len(t, result.Intelligence.Competitors, 2)
	assert.Equal(t, StageGrowing, result.Intelligence.MarketStage)
	assert.Contains(t, result.Report, "VALIDATION REPORT")
	assert.InDelta(t, Overall(
		result.Scores.MarketOpportunity,
		result.Scores.CompetitiveLandscape,
		result.Scores.ExecutionFeasibility,
		result.Scores.InnovationPotential,
	), result.Scores.Overall, 0.01)
}

func TestValidateBasicAnalysisFromFreeText(t *testing.T) {
	search := &stubSearch{payload: "The main competitor is TrackFit, a market leader.\n- gap: no offline support for rural users\n- trend: wearable adoption keeps growing"}
	engine := newTestEngine(search, NewCircuitBreaker(3, time.Minute))

	result := engine.Validate(context.Background(), 1, "AI fitness coach app")

	assert.Equal(t, "basic", result.AnalysisType)
	require.NotEmpty(t, result.Intelligence.Competitors)
	assert.Equal(t, "TrackFit", result.Intelligence.Competitors[0].Name)
}

func TestValidateFallbackOnRetrievalFailure(t *testing.T) {
	search := &stubSearch{err: errors.New("upstream down")}
	breaker := NewCircuitBreaker(3, time.Minute)
	engine := newTestEngine(search, breaker)

	result := engine.Validate(context.Background(), 1, "an app connecting local product makers with niche platform users")

	assert.Equal(t, "fallback", result.AnalysisType)
	assert.InDelta(t, 0.3, result.Confidence, 0.001)
	assert.Contains(t, result.Report, "heuristic")
	// Tier-2 keeps the weighted-sum contract too.
	assert.InDelta(t, Overall(
		result.Scores.MarketOpportunity,
		result.Scores.CompetitiveLandscape,
		result.Scores.ExecutionFeasibility,
		result.Scores.InnovationPotential,
	), result.Scores.Overall, 0.01)
}

func TestValidateFallbackIsDeterministic(t *testing.T) {
	search := &stubSearch{err: errors.New("upstream down")}
	engine := newTestEngine(search, NewCircuitBreaker(100, time.Minute))

	idea := "a marketplace app for trend-driven niche products"
	first := engine.Validate(context.Background(), 1, idea)
	second := engine.Validate(context.Background(), 1, idea)

	assert.Equal(t, first.Scores, second.Scores)
}

func TestValidateTimeoutProducesFallback(t *testing.T) {
	engine := newTestEngine(hangingSearch{}, NewCircuitBreaker(3, time.Minute))

	start := time.Now()
	result := engine.Validate(context.Background(), 1, "slow idea")

	assert.Equal(t, "fallback", result.AnalysisType)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestValidateSkipsRetrievalWhenBreakerOpen(t *testing.T) {
	search := &stubSearch{err: errors.New("down")}
	breaker := NewCircuitBreaker(3, time.Minute)
	engine := newTestEngine(search, breaker)

	// Drive the breaker open.
	for i := 0; i < 3; i++ {
		engine.Validate(context.Background(), 1, "idea")
	}
	require.True(t, breaker.IsOpen())

	before := search.calls
	result := engine.Validate(context.Background(), 1, "idea")
	assert.Equal(t, before, search.calls, "open breaker must skip retrieval")
	assert.Equal(t, "fallback", result.AnalysisType)
}

func TestValidateRetriesOnceBelowThreshold(t *testing.T) {
	search := &stubSearch{err: errors.New("down")}
	engine := newTestEngine(search, NewCircuitBreaker(3, time.Minute))

	engine.Validate(context.Background(), 1, "idea")
	assert.Equal(t, 2, search.calls, "first validation gets one retry")
}
