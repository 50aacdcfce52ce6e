package journey

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"venturebot-be/internal/entity"
)

// Per-stage structured results. Every stage task must answer with exactly one
// of these shapes; anything else is a schema failure.

type OnboardingResult struct {
	Message   string `json:"message"`
	Name      string `json:"name"`
	Interests string `json:"interests"`
	Goals     string `json:"goals"`
	Ready     bool   `json:"ready"`
}

type IdeaGenerationResult struct {
	Message string        `json:"message"`
	Ideas   []entity.Idea `json:"ideas"`
}

type ValidationNarrativeResult struct {
	Message string `json:"message"`
}

type RequirementsResult struct {
	Message string                 `json:"message"`
	PRD     entity.RequirementsDoc `json:"prd"`
}

type BuildPromptResult struct {
	Message       string `json:"message"`
	BuilderPrompt string `json:"builder_prompt"`
}

const onboardingSchema = `{
	"type": "object",
	"required": ["message", "ready"],
	"properties": {
		"message": {"type": "string", "minLength": 1},
		"name": {"type": "string"},
		"interests": {"type": "string"},
		"goals": {"type": "string"},
		"ready": {"type": "boolean"}
	}
}`

const ideaGenerationSchema = `{
	"type": "object",
	"required": ["message", "ideas"],
	"properties": {
		"message": {"type": "string", "minLength": 1},
		"ideas": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["index", "text"],
				"properties": {
					"index": {"type": "integer", "minimum": 1},
					"text": {"type": "string", "minLength": 1}
				}
			}
		}
	}
}`

const validationNarrativeSchema = `{
	"type": "object",
	"required": ["message"],
	"properties": {
		"message": {"type": "string", "minLength": 1}
	}
}`

const requirementsSchema = `{
	"type": "object",
	"required": ["message", "prd"],
	"properties": {
		"message": {"type": "string", "minLength": 1},
		"prd": {
			"type": "object",
			"required": ["overview"],
			"properties": {
				"overview": {"type": "string", "minLength": 1},
				"personas": {"type": "array", "items": {"type": "string"}},
				"user_stories": {"type": "array", "items": {"type": "string"}},
				"functional_requirements": {"type": "array", "items": {"type": "string"}},
				"nonfunctional_requirements": {"type": "array", "items": {"type": "string"}},
				"success_metrics": {"type": "array", "items": {"type": "string"}}
			}
		}
	}
}`

const buildPromptSchema = `{
	"type": "object",
	"required": ["message", "builder_prompt"],
	"properties": {
		"message": {"type": "string", "minLength": 1},
		"builder_prompt": {"type": "string", "minLength": 1}
	}
}`

var stageSchemas map[Stage]*gojsonschema.Schema

func init() {
	raw := map[Stage]string{
		StageOnboarding:     onboardingSchema,
		StageIdeaGeneration: ideaGenerationSchema,
		StageValidation:     validationNarrativeSchema,
		StageRequirements:   requirementsSchema,
		StageBuildPrompt:    buildPromptSchema,
	}
	stageSchemas = make(map[Stage]*gojsonschema.Schema, len(raw))
	for stage, doc := range raw {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
		if err != nil {
			panic(fmt.Sprintf("invalid schema for stage %s: %v", stage, err))
		}
		stageSchemas[stage] = schema
	}
}

// SchemaFor returns the compiled output schema for a stage's task. Complete
// has no task and therefore no schema.
func SchemaFor(stage Stage) (*gojsonschema.Schema, bool) {
	s, ok := stageSchemas[stage]
	return s, ok
}
