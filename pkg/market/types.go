package market

// Stage tags the lifecycle phase of the analysed market.
type Stage string

const (
	StageEmerging  Stage = "emerging"
	StageGrowing   Stage = "growing"
	StageMature    Stage = "mature"
	StageDeclining Stage = "declining"
)

// ParseStage maps free text to a known stage tag, defaulting to growing.
func ParseStage(s string) Stage {
	switch Stage(s) {
	case StageEmerging, StageGrowing, StageMature, StageDeclining:
		return Stage(s)
	default:
		return StageGrowing
	}
}

// Competitor positions.
const (
	PositionLeader     = "market leader"
	PositionChallenger = "challenger"
	PositionNiche      = "niche player"
)

type Competitor struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Funding  string `json:"funding,omitempty"`
	Users    string `json:"users,omitempty"`
}

type Gap struct {
	Gap        string `json:"gap"`
	Difficulty string `json:"difficulty,omitempty"`
}

type Trend struct {
	Trend    string `json:"trend"`
	Timeline string `json:"timeline,omitempty"`
}

type Barrier struct {
	Barrier  string `json:"barrier"`
	Severity string `json:"severity,omitempty"`
}

type Recommendation struct {
	Strategy string `json:"strategy"`
	Priority string `json:"priority,omitempty"`
}

// Intelligence is the structured competitive picture extracted from one
// retrieval pass. Every list may be empty; gaps in the data lower confidence
// but never fail the validation.
type Intelligence struct {
	TamEstimate     string           `json:"tam_estimate"`
	GrowthRate      string           `json:"growth_rate"`
	MarketStage     Stage            `json:"market_stage"`
	Competitors     []Competitor     `json:"competitors"`
	Gaps            []Gap            `json:"market_gaps"`
	Trends          []Trend          `json:"trends"`
	Barriers        []Barrier        `json:"barriers"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Scores aggregates the four analysis dimensions, all in [0,1]. Overall is
// always the recomputed weighted sum, never set independently.
type Scores struct {
	MarketOpportunity    float64 `json:"market_opportunity"`
	CompetitiveLandscape float64 `json:"competitive_landscape"`
	ExecutionFeasibility float64 `json:"execution_feasibility"`
	InnovationPotential  float64 `json:"innovation_potential"`
	Overall              float64 `json:"overall"`
	Confidence           float64 `json:"confidence"`
}

// Overall weighting, fixed by contract.
const (
	WeightOpportunity = 0.30
	WeightLandscape   = 0.25
	WeightFeasibility = 0.25
	WeightInnovation  = 0.20
)

// ValidationResult is what the validation stage stores in memory: one idea's
// scores, the intelligence behind them, and a rendered report.
type ValidationResult struct {
	IdeaIndex    int          `json:"idea_index"`
	IdeaText     string       `json:"idea_text"`
	Scores       Scores       `json:"scores"`
	Intelligence Intelligence `json:"intelligence"`
	Confidence   float64      `json:"confidence"`
	Report       string       `json:"report"`
	AnalysisType string       `json:"analysis_type"` // "enhanced", "basic", "fallback"
}
