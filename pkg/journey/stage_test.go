package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Stage
		want     bool
	}{
		{StageOnboarding, StageIdeaGeneration, true},
		{StageIdeaGeneration, StageValidation, true},
		{StageValidation, StageRequirements, true},
		{StageValidation, StageValidation, true},
		{StageRequirements, StageRequirements, true},
		{StageRequirements, StageBuildPrompt, true},
		{StageBuildPrompt, StageComplete, true},

		{StageOnboarding, StageValidation, false},
		{StageOnboarding, StageComplete, false},
		{StageIdeaGeneration, StageRequirements, false},
		{StageValidation, StageIdeaGeneration, false},
		{StageComplete, StageOnboarding, false},
		{StageRequirements, StageOnboarding, false},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestHintResolve(t *testing.T) {
	next, err := Hint{Kind: HintAdvance}.Resolve(StageOnboarding)
	assert.NoError(t, err)
	assert.Equal(t, StageIdeaGeneration, next)

	next, err = Hint{Kind: HintStay}.Resolve(StageValidation)
	assert.NoError(t, err)
	assert.Equal(t, StageValidation, next)

	next, err = Hint{Kind: HintBranch, Target: StageRequirements}.Resolve(StageValidation)
	assert.NoError(t, err)
	assert.Equal(t, StageRequirements, next)
}

func TestHintResolveRejectsOutOfGraph(t *testing.T) {
	// An injected out-of-graph hint never moves the stage.
	cases := []struct {
		current Stage
		hint    Hint
	}{
		{StageOnboarding, Hint{Kind: HintBranch, Target: StageComplete}},
		{StageValidation, Hint{Kind: HintBranch, Target: StageOnboarding}},
		{StageComplete, Hint{Kind: HintAdvance}},
		{StageIdeaGeneration, Hint{Kind: HintKind("skip")}},
	}

	for _, tc := range cases {
		next, err := tc.hint.Resolve(tc.current)
		assert.Error(t, err)
		assert.Equal(t, tc.current, next)

		var invalid *InvalidTransitionError
		assert.ErrorAs(t, err, &invalid)
	}
}

func TestParseStageDefaultsToOnboarding(t *testing.T) {
	assert.Equal(t, StageValidation, ParseStage("validation"))
	assert.Equal(t, StageOnboarding, ParseStage("garbage"))
	assert.Equal(t, StageOnboarding, ParseStage(""))
}
