package constant

// Chat message roles, matching the provider-agnostic LLM layer.
const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"
)

// Event names emitted on the realtime channel. One connected client per
// session receives these in order.
const (
	EventSessionReady     = "session_ready"
	EventUserMessage      = "user_message"
	EventAssistantToken   = "assistant_token"
	EventAssistantMessage = "assistant_message"
	EventStageUpdate      = "stage_update"
	EventError            = "error"
)

// GreetingMessage opens every new session before onboarding starts.
const GreetingMessage = "Hi! I'm VentureBot, your venture coach. " +
	"Together we'll capture your profile, generate startup ideas, validate your favorite " +
	"against the market, draft requirements, and finish with a builder-ready prompt. " +
	"**Let's start: what's your name?**"

// CompletionMessage is returned for any input once the journey is complete.
const CompletionMessage = "**Congratulations!** You've completed the full venture journey:\n\n" +
	"1. Profile captured\n" +
	"2. Ideas generated\n" +
	"3. Market validation done\n" +
	"4. Requirements drafted\n" +
	"5. Builder prompt delivered\n\n" +
	"Start a new session whenever you want to explore another idea."
