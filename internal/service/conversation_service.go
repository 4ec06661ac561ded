package service

import (
	"context"
	"encoding/json"
	"fmt"

	"clinic-voice-be/internal/config"
	"clinic-voice-be/internal/dto"
	"clinic-voice-be/internal/pkg/logger"
	"clinic-voice-be/pkg/agent"
	"clinic-voice-be/pkg/session"
	"clinic-voice-be/pkg/toolgate"
)

const loopExceededReply = "I'm sorry, I wasn't able to finish that request. " +
	"Could you rephrase it, or I can transfer you to a human agent?"

type IConversationService interface {
	HandleMessage(ctx context.Context, sessionID, text string) (*dto.SendMessageResponse, error)
	SessionState(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error)
	History(ctx context.Context, sessionID string) ([]*dto.HistoryTurnResponse, error)
	EndSession(ctx context.Context, sessionID string) error
}

// conversationService coordinates one caller turn: it serializes access to
// the session, runs the model's tool-call loop through the gate, and persists
// the updated session only once the turn has a final reply.
type conversationService struct {
	sessions *session.Manager
	runtime  agent.Runtime
	gate     *toolgate.Gate
	cfg      config.AgentConfig
	logger   logger.ILogger
}

func NewConversationService(
	sessions *session.Manager,
	runtime agent.Runtime,
	gate *toolgate.Gate,
	cfg config.AgentConfig,
	logger logger.ILogger,
) IConversationService {
	return &conversationService{
		sessions: sessions,
		runtime:  runtime,
		gate:     gate,
		cfg:      cfg,
		logger:   logger,
	}
}

func (c *conversationService) HandleMessage(ctx context.Context, sessionID, text string) (*dto.SendMessageResponse, error) {
	// First-contact turns get a fresh id inside GetOrCreate; nothing else can
	// reference that id until this turn returns it, so locking would only
	// serialize unrelated new callers on the shared empty key.
	if sessionID != "" {
		unlock := c.sessions.Lock(sessionID)
		defer unlock()
	}

	sess, err := c.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	messages := c.buildMessages(sess, text)

	var toolsUsed []string
	var reply string
	errorCode := ""

	for iteration := 0; ; iteration++ {
		if iteration >= c.cfg.MaxToolIterations {
			c.logger.Warn("conversation", "tool loop budget exhausted", map[string]interface{}{
				"session_id": sess.ID,
				"iterations": iteration,
			})
			reply = loopExceededReply
			errorCode = "TOOL_LOOP_EXCEEDED"
			break
		}

		completion, err := c.runtime.Complete(ctx, messages, c.gate.Schemas())
		if err != nil {
			// The session is deliberately not saved: a failed turn must not
			// leave a half-written conversation behind.
			c.logger.Error("conversation", "model backend failed", map[string]interface{}{
				"session_id": sess.ID,
				"error":      err.Error(),
			})
			return nil, fmt.Errorf("%w: %v", ErrAgentUnavailable, err)
		}

		if len(completion.ToolCalls) == 0 {
			reply = completion.Text
			break
		}

		messages = append(messages, agent.Message{
			Role:      agent.RoleAssistant,
			Content:   completion.Text,
			ToolCalls: completion.ToolCalls,
		})

		for _, call := range completion.ToolCalls {
			outcome := c.gate.Dispatch(ctx, sess, call)
			toolsUsed = append(toolsUsed, outcome.Tool)

			payload, err := json.Marshal(outcome.Payload)
			if err != nil {
				payload = []byte(`{"error":"TOOL_FAILED"}`)
			}
			messages = append(messages, agent.Message{
				Role:       agent.RoleTool,
				Content:    string(payload),
				ToolCallID: call.ID,
			})
		}
	}

	sess.AppendTurn(session.RoleUser, text, nil)
	sess.AppendTurn(session.RoleAssistant, reply, toolsUsed)

	if err := c.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	return &dto.SendMessageResponse{
		SessionId:         sess.ID,
		Reply:             reply,
		VerificationState: string(sess.Verification.State),
		ToolsUsed:         toolsUsed,
		ErrorCode:         errorCode,
	}, nil
}

// buildMessages assembles the model context: system prompt, the most recent
// history window, then the new user message. Older turns stay in the session
// record but fall out of the model context.
func (c *conversationService) buildMessages(sess *session.Session, text string) []agent.Message {
	history := sess.History
	if c.cfg.HistoryWindow > 0 && len(history) > c.cfg.HistoryWindow {
		history = history[len(history)-c.cfg.HistoryWindow:]
	}

	messages := make([]agent.Message, 0, len(history)+2)
	messages = append(messages, agent.Message{Role: agent.RoleSystem, Content: agent.SystemPrompt})
	for _, turn := range history {
		messages = append(messages, agent.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, agent.Message{Role: agent.RoleUser, Content: text})
	return messages
}

func (c *conversationService) SessionState(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error) {
	sess, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SessionStateResponse{
		SessionId:         sess.ID,
		CreatedAt:         sess.CreatedAt,
		LastActiveAt:      sess.LastActiveAt,
		ExpiresAt:         sess.ExpiresAt,
		VerificationState: string(sess.Verification.State),
		TurnCount:         len(sess.History),
	}
	if sess.PatientContext != nil {
		resp.PatientName = sess.PatientContext.DisplayName
		resp.VerifiedAt = sess.PatientContext.VerifiedAt
	}
	if sess.PendingBooking != nil {
		resp.PendingBooking = &dto.PendingBookingResponse{
			DoctorId: sess.PendingBooking.DoctorID,
			Date:     sess.PendingBooking.Date,
			TimeSlot: sess.PendingBooking.TimeSlot,
		}
	}
	return resp, nil
}

func (c *conversationService) History(ctx context.Context, sessionID string) ([]*dto.HistoryTurnResponse, error) {
	sess, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	turns := make([]*dto.HistoryTurnResponse, 0, len(sess.History))
	for _, turn := range sess.History {
		turns = append(turns, &dto.HistoryTurnResponse{
			Role:        turn.Role,
			Content:     turn.Content,
			Timestamp:   turn.Timestamp,
			ToolsCalled: turn.ToolsCalled,
		})
	}
	return turns, nil
}

func (c *conversationService) EndSession(ctx context.Context, sessionID string) error {
	unlock := c.sessions.Lock(sessionID)
	defer unlock()
	return c.sessions.Delete(ctx, sessionID)
}
