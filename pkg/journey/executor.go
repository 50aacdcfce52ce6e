package journey

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"venturebot-be/internal/constant"
	"venturebot-be/internal/pkg/logger"
	"venturebot-be/pkg/llm"
)

// ExecutorConfig carries the stage-independent knobs. Creativity policy is
// configuration, not something the executor decides.
type ExecutorConfig struct {
	Retries     int
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

// Executor runs one stage's language-model task against the stage's declared
// output schema, retrying with a repair instruction before giving up with a
// typed failure.
type Executor struct {
	provider llm.LLMProvider
	cfg      ExecutorConfig
	log      logger.ILogger
}

func NewExecutor(provider llm.LLMProvider, cfg ExecutorConfig, log logger.ILogger) *Executor {
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	return &Executor{provider: provider, cfg: cfg, log: log}
}

var payloadBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// Run invokes the stage task and returns the validated JSON payload. On
// schema failure it retries up to the configured budget, each time appending
// the validation errors so the model can correct itself.
func (e *Executor) Run(ctx context.Context, stage Stage, prompt string) ([]byte, error) {
	schema, ok := SchemaFor(stage)
	if !ok {
		return nil, fmt.Errorf("stage %s has no task schema", stage)
	}

	attempt := prompt
	var lastReason string
	for i := 0; i <= e.cfg.Retries; i++ {
		payload, err := e.generate(ctx, stage, attempt)
		if err != nil {
			return nil, err
		}

		block := payloadBlockRe.FindString(payload)
		if block == "" {
			lastReason = "no JSON object in model output"
		} else {
			result, err := schema.Validate(gojsonschema.NewStringLoader(block))
			if err != nil {
				lastReason = "model output is not valid JSON"
			} else if result.Valid() {
				return []byte(block), nil
			} else {
				lastReason = describeSchemaErrors(result)
			}
		}

		e.log.Warn("task-executor", "stage output failed schema, retrying", map[string]any{
			"stage":   string(stage),
			"attempt": i + 1,
			"reason":  lastReason,
		})
		attempt = prompt + fmt.Sprintf(constant.SchemaRepairInstruction, lastReason)
	}

	return nil, &SchemaValidationError{Stage: stage, Reason: lastReason}
}

func (e *Executor) generate(ctx context.Context, stage Stage, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	out, err := e.provider.Generate(callCtx, prompt,
		llm.WithTemperature(e.cfg.Temperature),
		llm.WithMaxTokens(e.cfg.MaxTokens),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", &TaskTimeoutError{Stage: stage}
		}
		return "", fmt.Errorf("stage %s task failed: %w", stage, err)
	}
	return strings.TrimSpace(out), nil
}

func describeSchemaErrors(result *gojsonschema.Result) string {
	parts := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		parts = append(parts, desc.String())
	}
	return strings.Join(parts, "; ")
}
