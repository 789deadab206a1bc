package llm

import "context"

// Provider runs one completion. Prompt assembly (context tagging, mode
// instructions) happens upstream in the rag service; the provider only
// transports messages.
type Provider interface {
	Complete(ctx context.Context, system string, user string) (string, error)
}
