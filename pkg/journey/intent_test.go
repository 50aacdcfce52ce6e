package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		maxIdeas    int
		allowRefine bool
		want        Intent
		wantIndex   int
	}{
		{name: "plain proceed", input: "proceed", maxIdeas: 5, want: IntentProceed},
		{name: "proceed with punctuation", input: "Proceed!", maxIdeas: 5, want: IntentProceed},
		{name: "yes counts as proceed", input: "yes", want: IntentProceed},
		{name: "go ahead", input: "go ahead", want: IntentProceed},

		{name: "bare number", input: "2", maxIdeas: 5, want: IntentSelectIdea, wantIndex: 2},
		{name: "number with hash", input: "#4", maxIdeas: 5, want: IntentSelectIdea, wantIndex: 4},
		{name: "idea prefix", input: "idea 3", maxIdeas: 5, want: IntentSelectIdea, wantIndex: 3},
		{name: "number with period", input: "1.", maxIdeas: 5, want: IntentSelectIdea, wantIndex: 1},

		{name: "number out of range", input: "9", maxIdeas: 5, want: IntentUnclassified},
		{name: "zero", input: "0", maxIdeas: 5, want: IntentUnclassified},
		{name: "number without slate", input: "3", maxIdeas: 0, want: IntentUnclassified},

		{name: "freeform as refinement", input: "add a persona for gym owners", allowRefine: true, want: IntentRefine},
		{name: "freeform without refinement", input: "add a persona for gym owners", allowRefine: false, want: IntentUnclassified},
		{name: "empty input", input: "   ", allowRefine: true, want: IntentUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.input, tt.maxIdeas, tt.allowRefine)
			assert.Equal(t, tt.want, c.Intent)
			if tt.want == IntentSelectIdea {
				assert.Equal(t, tt.wantIndex, c.IdeaIndex)
			}
		})
	}
}
