// Package backend invokes the translation model. One request is in flight at
// a time; the pipeline serializes all calls.
package backend

import "context"

// Client is the minimal contract a translation backend must satisfy. Chat
// submits one prompt against a model and returns the raw response text.
type Client interface {
	Chat(ctx context.Context, model, prompt string) (string, error)

	// Name returns the client identifier (e.g., "openai", "mock").
	Name() string
}
