// Package llm provides the abstraction over the external text-generation
// capability used for summarization and question answering.
package llm

import (
	"context"
	"fmt"
)

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is a single chat message exchanged with the generation service.
type Message struct {
	Role    MessageRole
	Content string
}

// NewSystemMessage creates a system-role message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user-role message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// Provider defines the interface for text-generation integrations.
//
// Providers handle API communication only; prompt construction, caching,
// and persistence are orchestrator concerns. This keeps providers reusable
// and testable independently of the pipeline.
type Provider interface {
	// Complete sends messages to the generation service and returns the
	// full response. The context bounds the call; callers are expected to
	// attach a timeout. Failures are reported as *GenerationError.
	Complete(ctx context.Context, messages []*Message) (*Message, error)

	// GetModel returns the model name being used.
	GetModel() string
}

// GenerationError reports a failed generation call: auth, quota, network,
// or a malformed response envelope. It is fatal for the current request's
// stage only; orchestrators must not let it corrupt stored state.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("llm: %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
