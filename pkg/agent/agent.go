package agent

import (
	"context"
	"encoding/json"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role       string // "user", "assistant", "system", "tool"
	Content    string
	ToolCallID string     // set on "tool" messages answering a call
	ToolCalls  []ToolCall // set on "assistant" messages requesting calls
}

// ToolCall is a model-requested tool invocation.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolSchema describes a callable tool to the model. Parameters is a JSON
// Schema object.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// Completion is one model turn: either assistant text, tool call requests,
// or both.
type Completion struct {
	Text      string
	ToolCalls []ToolCall
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Runtime defines the contract for any tool-calling model backend
type Runtime interface {
	// Complete sends the conversation plus available tools to the model and
	// returns its next turn.
	Complete(ctx context.Context, history []Message, tools []ToolSchema, options ...Option) (*Completion, error)
}
