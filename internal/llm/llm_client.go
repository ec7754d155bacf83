package llm

import "context"

// LLMClient defines the interface for interacting with LLM services.
// One prompt in, the completion text out.
type LLMClient interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
	ModelID() string
}
