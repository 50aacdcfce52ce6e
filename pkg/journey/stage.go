package journey

// Stage is one step of the fixed coaching journey. The set is closed; adding
// a stage means extending the adjacency graph below.
type Stage string

const (
	StageOnboarding     Stage = "onboarding"
	StageIdeaGeneration Stage = "idea_generation"
	StageValidation     Stage = "validation"
	StageRequirements   Stage = "requirements"
	StageBuildPrompt    Stage = "build_prompt"
	StageComplete       Stage = "complete"
)

// adjacency is the full transition graph. Self-loops on validation and
// requirements cover revalidation and PRD refinement; everything else moves
// strictly forward.
var adjacency = map[Stage][]Stage{
	StageOnboarding:     {StageIdeaGeneration},
	StageIdeaGeneration: {StageValidation},
	StageValidation:     {StageValidation, StageRequirements},
	StageRequirements:   {StageRequirements, StageBuildPrompt},
	StageBuildPrompt:    {StageComplete},
	StageComplete:       {},
}

// ParseStage maps persisted text to a stage, defaulting to onboarding so a
// corrupted row restarts the journey instead of wedging the session.
func ParseStage(s string) Stage {
	switch Stage(s) {
	case StageOnboarding, StageIdeaGeneration, StageValidation,
		StageRequirements, StageBuildPrompt, StageComplete:
		return Stage(s)
	default:
		return StageOnboarding
	}
}

// CanTransition reports whether from→to is an edge of the graph. Staying put
// is always allowed.
func CanTransition(from, to Stage) bool {
	if from == to {
		return true
	}
	for _, next := range adjacency[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the journey has finished.
func IsTerminal(s Stage) bool {
	return s == StageComplete
}

// HintKind classifies the next-stage hint a stage task produces.
type HintKind string

const (
	HintStay    HintKind = "stay"
	HintAdvance HintKind = "advance"
	HintBranch  HintKind = "branch"
)

// Hint is a stage task's proposal for where the journey goes next. The
// orchestrator only honors it when the target is adjacent in the graph.
type Hint struct {
	Kind   HintKind
	Target Stage // only set for HintBranch
}

// Resolve turns a hint into the concrete next stage. An out-of-graph target
// is an invalid transition; the caller treats that as a task failure and
// stays put.
func (h Hint) Resolve(current Stage) (Stage, error) {
	switch h.Kind {
	case HintStay:
		return current, nil
	case HintAdvance:
		next := forwardOf(current)
		if next == "" {
			return current, &InvalidTransitionError{From: current, Hint: "advance"}
		}
		return next, nil
	case HintBranch:
		if !CanTransition(current, h.Target) {
			return current, &InvalidTransitionError{From: current, Hint: string(h.Target)}
		}
		return h.Target, nil
	default:
		return current, &InvalidTransitionError{From: current, Hint: string(h.Kind)}
	}
}

// forwardOf returns the single forward edge of a stage, excluding self-loops.
func forwardOf(s Stage) Stage {
	for _, next := range adjacency[s] {
		if next != s {
			return next
		}
	}
	return ""
}
