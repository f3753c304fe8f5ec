package llm

import "context"

// Client is the core abstraction over the completion vendor API.
// It is deliberately narrow — one completion call and one model listing —
// so the generation driver has no dependency on any particular SDK.
type Client interface {
	// CreateCompletion sends one chat completion request and returns the
	// generated text. The request must be built via BuildRequest so the
	// parameter shape matches the target model family.
	CreateCompletion(ctx context.Context, req Request) (*Response, error)

	// ListModels returns the identifiers of the models the provider
	// currently offers.
	ListModels(ctx context.Context) ([]string, error)
}

// Request describes one completion call. Constructed fresh per call via
// BuildRequest and never mutated afterwards.
type Request struct {
	// Model is the identifier of the model to query.
	Model string

	// Messages is the conversation. For askgpt this is always a single
	// user message.
	Messages []Message

	// MaxTokens caps the response length. The vendor client maps it onto
	// the token-limit parameter the model family expects.
	MaxTokens int

	// Temperature controls randomness. Zero means "not set": BuildRequest
	// clears it for model families that only accept their default.
	Temperature float32
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the model's output.
type Response struct {
	// Text is the raw generated text, untrimmed.
	Text string

	// Model is the model that actually served the request.
	Model string

	// Usage reports token consumption for this request.
	Usage Usage
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
