package journey

import (
	"regexp"
	"strconv"
	"strings"
)

// Intent is the deterministic classification of a user message at a decision
// point. Classification never consults the language model, so the transition
// logic stays testable on its own.
type Intent int

const (
	// IntentUnclassified means the message matched no known pattern. The
	// orchestrator surfaces this to the user instead of silently staying.
	IntentUnclassified Intent = iota
	// IntentProceed moves the journey forward.
	IntentProceed
	// IntentSelectIdea picks an idea from the slate by number.
	IntentSelectIdea
	// IntentRefine is freeform feedback for the current stage's task.
	IntentRefine
)

var proceedTokens = map[string]bool{
	"proceed":  true,
	"continue": true,
	"next":     true,
	"yes":      true,
	"go":       true,
	"go ahead": true,
	"ok":       true,
	"okay":     true,
	"ready":    true,
	"sure":     true,
}

var ideaNumberRe = regexp.MustCompile(`^(?:idea\s*)?#?\s*(\d{1,2})\s*\.?$`)

// Classification bundles the intent with its extracted argument.
type Classification struct {
	Intent    Intent
	IdeaIndex int // valid only for IntentSelectIdea
}

// Classify interprets user input at a decision point. maxIdeas bounds the
// accepted selection range; pass 0 where selection is not on offer.
// allowRefine controls whether leftover freeform text counts as refinement
// feedback or stays unclassified.
func Classify(input string, maxIdeas int, allowRefine bool) Classification {
	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.Trim(normalized, `"'!.`)

	if proceedTokens[normalized] {
		return Classification{Intent: IntentProceed}
	}

	if maxIdeas > 0 {
		if m := ideaNumberRe.FindStringSubmatch(normalized); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n >= 1 && n <= maxIdeas {
				return Classification{Intent: IntentSelectIdea, IdeaIndex: n}
			}
			return Classification{Intent: IntentUnclassified}
		}
	}

	if allowRefine && normalized != "" {
		return Classification{Intent: IntentRefine}
	}

	return Classification{Intent: IntentUnclassified}
}
