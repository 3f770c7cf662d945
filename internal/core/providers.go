package core

import "context"

// Completer is the opaque text-completion collaborator. The model argument
// is the backing model identifier, already resolved from its friendly name.
type Completer interface {
	Complete(ctx context.Context, model, prompt string, maxTokens int) (string, error)
}
