package toolgate

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"clinic-voice-be/internal/pkg/logger"
	"clinic-voice-be/pkg/agent"
	"clinic-voice-be/pkg/session"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

func sessionInState(state string) *session.Session {
	now := time.Now().UTC()
	return &session.Session{
		ID:           "gate-test",
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    now.Add(time.Hour),
		Verification: session.Verification{State: state},
	}
}

func buildGate(t *testing.T, tools ...*Tool) (*Gate, *Registry) {
	t.Helper()
	registry := NewRegistry()
	for _, tool := range tools {
		registry.Register(tool)
	}
	return NewGate(registry, nopLogger{}), registry
}

func TestSensitiveToolDeniedBeforeVerification(t *testing.T) {
	for _, state := range []string{session.StateUnverified, session.StateOTPSent} {
		t.Run(state, func(t *testing.T) {
			invoked := false
			gate, _ := buildGate(t, &Tool{
				Name:        "book_appointment",
				Sensitivity: SensitivitySensitive,
				Handler: func(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
					invoked = true
					return map[string]interface{}{"ok": true}, nil
				},
			})

			sess := sessionInState(state)
			outcome := gate.Dispatch(context.Background(), sess, agent.ToolCall{Name: "book_appointment"})

			assert.True(t, outcome.Denied)
			assert.Equal(t, "IDENTITY_REQUIRED", outcome.Payload["error"])
			assert.False(t, invoked, "handler must never run for a denied call")
			assert.Equal(t, state, sess.Verification.State, "denial must not mutate the session")
		})
	}
}

func TestSensitiveToolRunsWhenVerified(t *testing.T) {
	gate, _ := buildGate(t, &Tool{
		Name:        "book_appointment",
		Sensitivity: SensitivitySensitive,
		Handler: func(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
			return map[string]interface{}{"appointment_id": "APT-1003"}, nil
		},
	})

	outcome := gate.Dispatch(context.Background(), sessionInState(session.StateVerified), agent.ToolCall{Name: "book_appointment"})
	assert.False(t, outcome.Denied)
	assert.Equal(t, "APT-1003", outcome.Payload["appointment_id"])
}

func TestPublicToolRunsUnverified(t *testing.T) {
	gate, _ := buildGate(t, &Tool{
		Name:        "search_doctors",
		Sensitivity: SensitivityPublic,
		Handler: func(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
			return map[string]interface{}{"count": 2}, nil
		},
	})

	outcome := gate.Dispatch(context.Background(), sessionInState(session.StateUnverified), agent.ToolCall{Name: "search_doctors"})
	assert.False(t, outcome.Denied)
	assert.Equal(t, 2, outcome.Payload["count"])
}

func TestUnknownTool(t *testing.T) {
	gate, _ := buildGate(t)

	outcome := gate.Dispatch(context.Background(), sessionInState(session.StateVerified), agent.ToolCall{Name: "drop_tables"})
	assert.False(t, outcome.Denied)
	assert.Equal(t, "UNKNOWN_TOOL", outcome.Payload["error"])
}

func TestHandlerErrorBecomesToolFailed(t *testing.T) {
	gate, _ := buildGate(t, &Tool{
		Name:        "search_doctors",
		Sensitivity: SensitivityPublic,
		Handler: func(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
			return nil, assert.AnError
		},
	})

	outcome := gate.Dispatch(context.Background(), sessionInState(session.StateUnverified), agent.ToolCall{Name: "search_doctors"})
	assert.Equal(t, "TOOL_FAILED", outcome.Payload["error"])
}

func TestEmptyArgumentsDefaultToEmptyObject(t *testing.T) {
	var seen json.RawMessage
	gate, _ := buildGate(t, &Tool{
		Name:        "get_queue_status",
		Sensitivity: SensitivityPublic,
		Handler: func(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
			seen = args
			return map[string]interface{}{}, nil
		},
	})

	gate.Dispatch(context.Background(), sessionInState(session.StateUnverified), agent.ToolCall{Name: "get_queue_status"})
	assert.JSONEq(t, "{}", string(seen))
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	registry := NewRegistry()
	tool := &Tool{Name: "search_doctors", Sensitivity: SensitivityPublic}
	registry.Register(tool)
	assert.Panics(t, func() { registry.Register(tool) })
}

func TestSchemasPreserveRegistrationOrder(t *testing.T) {
	_, registry := buildGate(t,
		&Tool{Name: "lookup_patient", Sensitivity: SensitivityIdentity},
		&Tool{Name: "send_otp", Sensitivity: SensitivityIdentity},
		&Tool{Name: "verify_otp", Sensitivity: SensitivityIdentity},
	)
	assert.Equal(t, []string{"lookup_patient", "send_otp", "verify_otp"}, registry.Names())
}
