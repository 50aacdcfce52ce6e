package journey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"venturebot-be/internal/constant"
	"venturebot-be/internal/entity"
	"venturebot-be/internal/pkg/logger"
	"venturebot-be/pkg/market"
)

// Store is the persistence surface the orchestrator needs. SaveStep must
// persist stage and memory together; a step is all-or-nothing.
type Store interface {
	SaveStep(ctx context.Context, session *entity.JourneySession) error
	AppendMessage(ctx context.Context, message *entity.ChatMessage) error
	RecentMessages(ctx context.Context, sessionId uuid.UUID, limit int) ([]entity.ChatMessage, error)
}

// EventSink receives the ordered realtime events for a session.
type EventSink interface {
	Emit(sessionId uuid.UUID, name string, payload any)
}

// MarketValidator is the scoring engine's contract as seen from here.
type MarketValidator interface {
	Validate(ctx context.Context, ideaIndex int, ideaText string) market.ValidationResult
}

// Config carries the orchestrator's stage policy knobs.
type Config struct {
	NumIdeas int
}

// AdvanceResult is what one accepted input produced: the stage the session
// ended on and every assistant message emitted along the way.
type AdvanceResult struct {
	Stage    Stage
	Messages []string
}

// Orchestrator owns the journey state machine. Exactly one advance may be in
// flight per session; concurrent input is rejected, never interleaved.
type Orchestrator struct {
	store     Store
	sink      EventSink
	executor  *Executor
	validator MarketValidator
	cfg       Config
	log       logger.ILogger

	inflight sync.Map // session id -> struct{}
}

func NewOrchestrator(store Store, sink EventSink, executor *Executor, validator MarketValidator, cfg Config, log logger.ILogger) *Orchestrator {
	if cfg.NumIdeas <= 0 {
		cfg.NumIdeas = 5
	}
	return &Orchestrator{
		store:     store,
		sink:      sink,
		executor:  executor,
		validator: validator,
		cfg:       cfg,
		log:       log,
	}
}

// stepOutcome is one stage handler's result: the user-facing message, the
// memory mutation to commit with it, where to go next, and whether the next
// stage's task should run immediately in the same advance.
type stepOutcome struct {
	message string
	mutate  func(*entity.Memory)
	hint    Hint
	chain   bool
}

// maxHops bounds chained steps inside one advance. The longest real chain is
// requirements → build_prompt → complete.
const maxHops = 3

// Advance processes one user input for a session. Stage tasks run on a
// detached context so a client disconnect lets the in-flight call finish and
// then discards its result instead of committing a half-applied step.
func (o *Orchestrator) Advance(ctx context.Context, session *entity.JourneySession, input string) (AdvanceResult, error) {
	if _, loaded := o.inflight.LoadOrStore(session.Id, struct{}{}); loaded {
		return AdvanceResult{}, ErrSessionBusy
	}
	defer o.inflight.Delete(session.Id)

	stage := ParseStage(session.Stage)
	result := AdvanceResult{Stage: stage}

	taskCtx := context.WithoutCancel(ctx)
	if err := o.store.AppendMessage(taskCtx, newChatMessage(session.Id, constant.ChatMessageRoleUser, input, string(stage))); err != nil {
		o.log.Error("orchestrator", "failed to append user message", map[string]any{"error": err.Error()})
	}
	o.sink.Emit(session.Id, constant.EventUserMessage, map[string]any{"content": input})

	// All mutations land on a staged copy first. The caller's session (which
	// the snapshot cache also serves) only picks them up once SaveStep has
	// made them durable; a failed persist leaves it in its last good state.
	staged := *session
	if staged.Title == "" {
		staged.Title = clipTitle(input)
	}

	mem := staged.DecodeMemory()
	stepInput := input
	entering := false

	for hop := 0; hop < maxHops; hop++ {
		outcome, err := o.runStage(taskCtx, &staged, mem, stage, stepInput, entering)
		if err != nil {
			o.emitStepError(session.Id, stage, err)
			return result, nil
		}

		next, err := outcome.hint.Resolve(stage)
		if err != nil {
			// An out-of-graph hint is a task failure; the stage holds.
			o.emitStepError(session.Id, stage, &SchemaValidationError{Stage: stage, Reason: err.Error()})
			return result, nil
		}

		if ctx.Err() != nil {
			o.log.Warn("orchestrator", "client gone before commit, step discarded", map[string]any{
				"session": session.Id.String(),
				"stage":   string(stage),
			})
			return result, ctx.Err()
		}

		if outcome.mutate != nil {
			outcome.mutate(mem)
		}
		if err := staged.EncodeMemory(mem); err != nil {
			o.emitStepError(session.Id, stage, fmt.Errorf("memory encode: %w", err))
			return result, nil
		}
		staged.Stage = string(next)
		if err := o.store.SaveStep(taskCtx, &staged); err != nil {
			o.emitStepError(session.Id, stage, fmt.Errorf("persist step: %w", err))
			return result, nil
		}
		*session = staged

		if next != stage {
			// Only after the step is durably written.
			o.sink.Emit(session.Id, constant.EventStageUpdate, map[string]any{
				"previous_stage": string(stage),
				"stage":          string(next),
			})
		}

		if outcome.message != "" {
			if err := o.store.AppendMessage(taskCtx, newChatMessage(session.Id, constant.ChatMessageRoleModel, outcome.message, string(next))); err != nil {
				o.log.Error("orchestrator", "failed to append assistant message", map[string]any{"error": err.Error()})
			}
			o.streamMessage(session.Id, outcome.message)
			result.Messages = append(result.Messages, outcome.message)
		}

		result.Stage = next
		if !outcome.chain || next == stage {
			return result, nil
		}
		stage = next
		stepInput = ""
		entering = true
	}

	return result, nil
}

func (o *Orchestrator) runStage(ctx context.Context, session *entity.JourneySession, mem *entity.Memory, stage Stage, input string, entering bool) (stepOutcome, error) {
	if IsTerminal(stage) {
		// A finished journey has no task left; it replays its closing message.
		return stepOutcome{message: constant.CompletionMessage, hint: Hint{Kind: HintStay}}, nil
	}
	switch stage {
	case StageOnboarding:
		return o.runOnboarding(ctx, session, mem, input)
	case StageIdeaGeneration:
		return o.runIdeaGeneration(ctx, session, mem, input)
	case StageValidation:
		return o.runValidation(ctx, mem, input, entering)
	case StageRequirements:
		return o.runRequirements(ctx, mem, input, entering)
	case StageBuildPrompt:
		return o.runBuildPrompt(ctx, mem)
	default:
		return stepOutcome{}, fmt.Errorf("unknown stage %q", stage)
	}
}

func (o *Orchestrator) runOnboarding(ctx context.Context, session *entity.JourneySession, mem *entity.Memory, input string) (stepOutcome, error) {
	transcript := o.transcript(ctx, session.Id)
	profileJSON, _ := json.Marshal(mem.Profile)

	prompt := fmt.Sprintf(constant.OnboardingPrompt, transcript, string(profileJSON), input)
	payload, err := o.executor.Run(ctx, StageOnboarding, prompt)
	if err != nil {
		return stepOutcome{}, err
	}

	var res OnboardingResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return stepOutcome{}, &SchemaValidationError{Stage: StageOnboarding, Reason: err.Error()}
	}

	outcome := stepOutcome{
		message: res.Message,
		mutate: func(m *entity.Memory) {
			if m.Profile == nil {
				m.Profile = &entity.Profile{}
			}
			if res.Name != "" {
				m.Profile.Name = res.Name
			}
			if res.Interests != "" {
				m.Profile.Interests = res.Interests
			}
			if res.Goals != "" {
				m.Profile.Goals = res.Goals
			}
		},
		hint: Hint{Kind: HintStay},
	}
	if res.Ready && (res.Name != "" || (mem.Profile != nil && mem.Profile.Name != "")) {
		outcome.hint = Hint{Kind: HintAdvance}
		outcome.chain = true
	}
	return outcome, nil
}

func (o *Orchestrator) runIdeaGeneration(ctx context.Context, session *entity.JourneySession, mem *entity.Memory, input string) (stepOutcome, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	wantRegenerate := strings.Contains(normalized, "regenerate") || strings.Contains(normalized, "new ideas") ||
		strings.Contains(normalized, "more ideas")

	if len(mem.IdeaSet) == 0 || wantRegenerate {
		return o.generateIdeas(ctx, mem)
	}

	c := Classify(input, len(mem.IdeaSet), false)
	switch c.Intent {
	case IntentSelectIdea:
		idea := mem.IdeaSet[c.IdeaIndex-1]
		// Selecting an idea names the session after it.
		session.Title = clipTitle(idea.Text)
		return stepOutcome{
			message: fmt.Sprintf("Great choice! Validating idea #%d against the market now, give me a moment...", idea.Index),
			mutate: func(m *entity.Memory) {
				m.SelectedIdea = &entity.SelectedIdea{Index: idea.Index, Text: idea.Text}
				m.Validation = nil
			},
			hint:  Hint{Kind: HintBranch, Target: StageValidation},
			chain: true,
		}, nil
	default:
		return stepOutcome{
			message: fmt.Sprintf("I didn't catch that. **Reply with a number from 1 to %d** to pick an idea to validate, or say \"regenerate\" for a fresh list.", len(mem.IdeaSet)),
			hint:    Hint{Kind: HintStay},
		}, nil
	}
}

func (o *Orchestrator) generateIdeas(ctx context.Context, mem *entity.Memory) (stepOutcome, error) {
	profile := mem.Profile
	if profile == nil {
		profile = &entity.Profile{}
	}
	prompt := fmt.Sprintf(constant.IdeaGenerationPrompt,
		orDefault(profile.Name, "the founder"),
		orDefault(profile.Interests, "not specified"),
		orDefault(profile.Goals, "not specified"),
		o.cfg.NumIdeas,
	)
	payload, err := o.executor.Run(ctx, StageIdeaGeneration, prompt)
	if err != nil {
		return stepOutcome{}, err
	}

	var res IdeaGenerationResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return stepOutcome{}, &SchemaValidationError{Stage: StageIdeaGeneration, Reason: err.Error()}
	}
	ideas := res.Ideas
	if len(ideas) > o.cfg.NumIdeas {
		ideas = ideas[:o.cfg.NumIdeas]
	}
	for i := range ideas {
		ideas[i].Index = i + 1
	}

	return stepOutcome{
		message: res.Message,
		mutate: func(m *entity.Memory) {
			m.IdeaSet = ideas
			m.SelectedIdea = nil
			m.Validation = nil
		},
		hint: Hint{Kind: HintStay},
	}, nil
}

func (o *Orchestrator) runValidation(ctx context.Context, mem *entity.Memory, input string, entering bool) (stepOutcome, error) {
	if !entering {
		c := Classify(input, len(mem.IdeaSet), false)
		switch c.Intent {
		case IntentProceed:
			if len(mem.Validation) == 0 {
				return stepOutcome{
					message: "Pick an idea to validate first: **reply with its number**.",
					hint:    Hint{Kind: HintStay},
				}, nil
			}
			return stepOutcome{
				message: "Moving on to the product requirements. Drafting your PRD now...",
				hint:    Hint{Kind: HintBranch, Target: StageRequirements},
				chain:   true,
			}, nil
		case IntentSelectIdea:
			idea := mem.IdeaSet[c.IdeaIndex-1]
			mem.SelectedIdea = &entity.SelectedIdea{Index: idea.Index, Text: idea.Text}
			// Revalidation is the validation self-loop; fall through and run it.
		default:
			return stepOutcome{
				message: "I didn't catch that. **Reply 'proceed'** to draft requirements for the validated idea, or reply with another idea's number to validate it instead.",
				hint:    Hint{Kind: HintStay},
			}, nil
		}
	}

	if mem.SelectedIdea == nil {
		return stepOutcome{
			message: "Pick an idea to validate first: **reply with its number**.",
			hint:    Hint{Kind: HintStay},
		}, nil
	}

	validation := o.validator.Validate(ctx, mem.SelectedIdea.Index, mem.SelectedIdea.Text)
	narrative := o.narrateValidation(ctx, validation)
	encoded, err := json.Marshal(validation)
	if err != nil {
		return stepOutcome{}, fmt.Errorf("encode validation result: %w", err)
	}

	return stepOutcome{
		message: validation.Report + "\n\n" + narrative,
		mutate: func(m *entity.Memory) {
			m.Validation = encoded
		},
		hint: Hint{Kind: HintStay},
	}, nil
}

// narrateValidation asks the model for a short reading of the computed
// dashboard. The dashboard itself is deterministic and already rendered, so a
// narrative failure degrades to a canned line instead of failing the step.
func (o *Orchestrator) narrateValidation(ctx context.Context, validation market.ValidationResult) string {
	prompt := fmt.Sprintf(constant.ValidationNarrativePrompt, validation.IdeaText, validation.Report)
	payload, err := o.executor.Run(ctx, StageValidation, prompt)
	if err != nil {
		o.log.Warn("orchestrator", "validation narrative failed, using fallback text", map[string]any{"error": err.Error()})
		return "**Would you like to proceed to requirements, or validate a different idea (reply with its number)?**"
	}
	var res ValidationNarrativeResult
	if err := json.Unmarshal(payload, &res); err != nil || res.Message == "" {
		return "**Would you like to proceed to requirements, or validate a different idea (reply with its number)?**"
	}
	return res.Message
}

func (o *Orchestrator) runRequirements(ctx context.Context, mem *entity.Memory, input string, entering bool) (stepOutcome, error) {
	feedback := ""
	if !entering {
		c := Classify(input, 0, true)
		switch c.Intent {
		case IntentProceed:
			if mem.Requirements == nil {
				return stepOutcome{
					message: "There's no PRD yet; tell me about your idea first.",
					hint:    Hint{Kind: HintStay},
				}, nil
			}
			return stepOutcome{
				message: "Generating your builder-ready prompt now...",
				hint:    Hint{Kind: HintBranch, Target: StageBuildPrompt},
				chain:   true,
			}, nil
		case IntentRefine:
			feedback = input
		default:
			return stepOutcome{
				message: "I didn't catch that. **Reply 'proceed'** to generate the builder prompt, or tell me which section of the PRD to refine.",
				hint:    Hint{Kind: HintStay},
			}, nil
		}
	}

	idea := "the selected idea"
	if mem.SelectedIdea != nil {
		idea = mem.SelectedIdea.Text
	}
	prompt := fmt.Sprintf(constant.RequirementsPrompt, idea, validationSummary(mem), feedback)
	payload, err := o.executor.Run(ctx, StageRequirements, prompt)
	if err != nil {
		return stepOutcome{}, err
	}

	var res RequirementsResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return stepOutcome{}, &SchemaValidationError{Stage: StageRequirements, Reason: err.Error()}
	}

	return stepOutcome{
		message: res.Message,
		mutate: func(m *entity.Memory) {
			doc := res.PRD
			m.Requirements = &doc
		},
		hint: Hint{Kind: HintStay},
	}, nil
}

func (o *Orchestrator) runBuildPrompt(ctx context.Context, mem *entity.Memory) (stepOutcome, error) {
	if mem.Requirements == nil {
		return stepOutcome{
			message: "There's no PRD to build from yet; let's draft requirements first.",
			hint:    Hint{Kind: HintStay},
		}, nil
	}
	prdJSON, err := json.Marshal(mem.Requirements)
	if err != nil {
		return stepOutcome{}, fmt.Errorf("encode requirements: %w", err)
	}

	prompt := fmt.Sprintf(constant.BuildPromptPrompt, string(prdJSON))
	payload, err := o.executor.Run(ctx, StageBuildPrompt, prompt)
	if err != nil {
		return stepOutcome{}, err
	}

	var res BuildPromptResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return stepOutcome{}, &SchemaValidationError{Stage: StageBuildPrompt, Reason: err.Error()}
	}

	return stepOutcome{
		message: res.Message + "\n\n" + constant.CompletionMessage,
		mutate: func(m *entity.Memory) {
			m.BuildPrompt = res.BuilderPrompt
		},
		hint: Hint{Kind: HintAdvance},
	}, nil
}

// transcript renders recent history for the onboarding prompt, oldest first.
func (o *Orchestrator) transcript(ctx context.Context, sessionId uuid.UUID) string {
	messages, err := o.store.RecentMessages(ctx, sessionId, 12)
	if err != nil || len(messages) == 0 {
		return "(no prior messages)"
	}
	var b strings.Builder
	for _, m := range messages {
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Chat)
		b.WriteString("\n")
	}
	return b.String()
}

func validationSummary(mem *entity.Memory) string {
	if len(mem.Validation) == 0 {
		return "(not validated)"
	}
	var validation market.ValidationResult
	if err := json.Unmarshal(mem.Validation, &validation); err != nil {
		return "(not validated)"
	}
	return fmt.Sprintf("overall %.2f, opportunity %.2f, landscape %.2f, feasibility %.2f, innovation %.2f (confidence %.0f%%)",
		validation.Scores.Overall, validation.Scores.MarketOpportunity, validation.Scores.CompetitiveLandscape,
		validation.Scores.ExecutionFeasibility, validation.Scores.InnovationPotential, validation.Confidence*100)
}

// streamMessage chunks the final message into partial-output events before
// the completed message, preserving partials-then-final ordering.
func (o *Orchestrator) streamMessage(sessionId uuid.UUID, message string) {
	words := strings.Fields(message)
	const chunkWords = 8
	for i := 0; i < len(words); i += chunkWords {
		end := i + chunkWords
		if end > len(words) {
			end = len(words)
		}
		o.sink.Emit(sessionId, constant.EventAssistantToken, map[string]any{
			"content": strings.Join(words[i:end], " ") + " ",
		})
	}
	o.sink.Emit(sessionId, constant.EventAssistantMessage, map[string]any{"content": message})
}

func (o *Orchestrator) emitStepError(sessionId uuid.UUID, stage Stage, err error) {
	code := "internal"
	message := "Something went wrong on my side. Your progress is safe, please try again."

	var schemaErr *SchemaValidationError
	var timeoutErr *TaskTimeoutError
	switch {
	case errors.As(err, &schemaErr):
		code = "schema_validation"
		message = "I had trouble putting that step together. Please send your message again."
	case errors.As(err, &timeoutErr):
		code = "task_timeout"
		message = "That step took too long. Please try again."
	}

	o.log.Error("orchestrator", "stage step failed", map[string]any{
		"session": sessionId.String(),
		"stage":   string(stage),
		"code":    code,
		"error":   err.Error(),
	})
	o.sink.Emit(sessionId, constant.EventError, map[string]any{
		"code":    code,
		"message": message,
	})
}

func newChatMessage(sessionId uuid.UUID, role, content, stage string) *entity.ChatMessage {
	return &entity.ChatMessage{
		Id:               uuid.New(),
		Chat:             content,
		Role:             role,
		JourneySessionId: sessionId,
		Stage:            stage,
		CreatedAt:        time.Now(),
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func clipTitle(s string) string {
	const max = 60
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
