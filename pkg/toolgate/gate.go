package toolgate

import (
	"context"
	"encoding/json"

	"clinic-voice-be/internal/pkg/logger"
	"clinic-voice-be/pkg/agent"
	"clinic-voice-be/pkg/session"
)

const (
	errIdentityRequired = "IDENTITY_REQUIRED"
	errUnknownTool      = "UNKNOWN_TOOL"
	errToolFailed       = "TOOL_FAILED"
)

// Outcome is the record of one gated tool dispatch.
type Outcome struct {
	Tool    string
	Denied  bool
	Payload map[string]interface{}
}

// Gate sits between the model and the tool handlers. Every tool call the
// model requests passes through Dispatch, which enforces the sensitivity
// policy against the session's verification state before any handler runs.
type Gate struct {
	registry *Registry
	logger   logger.ILogger
}

func NewGate(registry *Registry, logger logger.ILogger) *Gate {
	return &Gate{registry: registry, logger: logger}
}

func (g *Gate) Schemas() []agent.ToolSchema {
	return g.registry.Schemas()
}

// Dispatch runs one tool call for the session. The decision is a pure
// function of the tool's sensitivity and the session's verification state:
// a SENSITIVE tool in any state other than VERIFIED is denied before its
// handler executes, so a denied call can never leave a partial side effect.
func (g *Gate) Dispatch(ctx context.Context, sess *session.Session, call agent.ToolCall) Outcome {
	tool, ok := g.registry.Get(call.Name)
	if !ok {
		g.logger.Warn("toolgate", "model requested unregistered tool", map[string]interface{}{
			"session_id": sess.ID,
			"tool":       call.Name,
		})
		return Outcome{Tool: call.Name, Payload: map[string]interface{}{
			"error":   errUnknownTool,
			"message": "no tool named " + call.Name + " is available",
		}}
	}

	if tool.Sensitivity == SensitivitySensitive && sess.Verification.State != session.StateVerified {
		g.logger.Info("toolgate", "sensitive tool denied", map[string]interface{}{
			"session_id": sess.ID,
			"tool":       tool.Name,
			"state":      string(sess.Verification.State),
		})
		return Outcome{Tool: tool.Name, Denied: true, Payload: map[string]interface{}{
			"error":   errIdentityRequired,
			"message": "identity verification is required before this operation; look up the patient, send a verification code, and confirm it first",
		}}
	}

	args := call.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	payload, err := tool.Handler(ctx, sess, args)
	if err != nil {
		g.logger.Error("toolgate", "tool handler failed", map[string]interface{}{
			"session_id": sess.ID,
			"tool":       tool.Name,
			"error":      err.Error(),
		})
		return Outcome{Tool: tool.Name, Payload: map[string]interface{}{
			"error":   errToolFailed,
			"message": "the operation could not be completed, please try again",
		}}
	}
	return Outcome{Tool: tool.Name, Payload: payload}
}
