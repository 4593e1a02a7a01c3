// Package spi defines the capability interface every agent backend must
// satisfy, so the rest of the system never branches on which backend is
// active.
package spi

import "context"

// SessionConfig binds one provider instance to its credentials, model, tool
// server and skills. It is fixed at construction and never mutated.
type SessionConfig struct {
	// Model is the model identifier; empty selects the provider default.
	Model string

	// APIKey is the credential for the selected provider. Constructors fail
	// fast when it is empty.
	APIKey string

	// ServerCommand launches the stdio tool server; ServerArgs are its
	// arguments. The subprocess inherits the parent environment.
	ServerCommand string
	ServerArgs    []string

	// SystemPrompt is the shared instruction text, including any skill
	// documents already folded in.
	SystemPrompt string
}

// Provider is one configured agent backend.
//
// Chat runs a single conversational turn and always returns printable text:
// any failure while talking to the model API or attaching to the tool server
// comes back as a message starting with "Error:", never as a fault the
// caller has to recover from. No conversation state is kept between turns.
type Provider interface {
	Chat(ctx context.Context, message string) string

	// Name identifies the backend ("claude" or "openai"); constant per
	// instance.
	Name() string

	// Close releases any tool-server session held across turns.
	Close() error
}
