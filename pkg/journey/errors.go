package journey

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced through the session API.
var (
	ErrSessionBusy    = errors.New("session already has a step in flight")
	ErrUnknownSession = errors.New("session not found")
)

// SchemaValidationError means a stage task's output still failed its schema
// after the retry budget. The stage does not advance and the user sees a
// generic retry prompt; the raw model output never crosses this boundary.
type SchemaValidationError struct {
	Stage  Stage
	Reason string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("stage %s output failed schema validation: %s", e.Stage, e.Reason)
}

// InvalidTransitionError means a stage task proposed a non-adjacent stage.
// The orchestrator demotes it to a schema failure and stays put.
type InvalidTransitionError struct {
	From Stage
	Hint string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("stage %s proposed invalid transition %q", e.From, e.Hint)
}

// TaskTimeoutError wraps a deadline hit on the language-model call so the
// orchestrator can map it to a user-safe error without parsing error text.
type TaskTimeoutError struct {
	Stage Stage
}

func (e *TaskTimeoutError) Error() string {
	return fmt.Sprintf("stage %s task timed out", e.Stage)
}
