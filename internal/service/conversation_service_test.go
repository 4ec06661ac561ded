package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"clinic-voice-be/internal/dto"
	"clinic-voice-be/pkg/agent"
	"clinic-voice-be/pkg/events"
	"clinic-voice-be/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolCallStep(name, args string) *agent.Completion {
	return &agent.Completion{ToolCalls: []agent.ToolCall{{
		ID:        "call-" + name,
		Name:      name,
		Arguments: json.RawMessage(args),
	}}}
}

func textStep(text string) *agent.Completion {
	return &agent.Completion{Text: text}
}

func TestPlainReplyPersistsSession(t *testing.T) {
	f := newTestFixture()
	f.runtime.steps = []*agent.Completion{textStep("Hello! How can I help you today?")}
	svc := f.conversation()
	ctx := context.Background()

	resp, err := svc.HandleMessage(ctx, "", "hi")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionId)
	assert.Equal(t, "Hello! How can I help you today?", resp.Reply)
	assert.Equal(t, session.StateUnverified, resp.VerificationState)
	assert.Empty(t, resp.ToolsUsed)

	turns, err := svc.History(ctx, resp.SessionId)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, session.RoleUser, turns[0].Role)
	assert.Equal(t, "hi", turns[0].Content)
	assert.Equal(t, session.RoleAssistant, turns[1].Role)
}

func TestSensitiveToolDeniedUntilVerified(t *testing.T) {
	f := newTestFixture()
	f.runtime.steps = []*agent.Completion{
		toolCallStep("book_appointment", `{"doctor_id":"DR002","date":"2026-03-01","time":"09:00"}`),
		textStep("I need to verify your identity before booking. What's your MRN?"),
	}
	svc := f.conversation()

	resp, err := svc.HandleMessage(context.Background(), "", "book me with Dr. Khalil tomorrow at 9")
	require.NoError(t, err)
	assert.Equal(t, []string{"book_appointment"}, resp.ToolsUsed)
	assert.Equal(t, session.StateUnverified, resp.VerificationState)

	// The denied call must not have reached the scheduler.
	appointments, err := f.appts.FindByPatient(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, appointments)
	assert.Empty(t, f.publisher.types())
}

func TestVerificationAndBookingFlow(t *testing.T) {
	f := newTestFixture()
	svc := f.conversation()
	ctx := context.Background()

	f.runtime.steps = []*agent.Completion{
		toolCallStep("lookup_patient", `{"mrn":"MRN-5050"}`),
		toolCallStep("send_otp", `{"mrn":"MRN-5050"}`),
		textStep("I found your record and sent a code to your phone ending in 805."),
	}
	resp, err := svc.HandleMessage(ctx, "", "I'd like to book an appointment, my MRN is MRN-5050")
	require.NoError(t, err)
	sid := resp.SessionId
	assert.Equal(t, session.StateOTPSent, resp.VerificationState)
	assert.Equal(t, []string{"lookup_patient", "send_otp"}, resp.ToolsUsed)
	require.Len(t, f.sms.codes, 1)

	f.runtime.steps = []*agent.Completion{
		toolCallStep("verify_otp", `{"code":"999999"}`),
		textStep("That code doesn't match, please read it again."),
	}
	resp, err = svc.HandleMessage(ctx, sid, "the code is 999999")
	require.NoError(t, err)
	assert.Equal(t, sid, resp.SessionId)
	assert.Equal(t, session.StateOTPSent, resp.VerificationState, "a wrong code must not verify the session")

	f.runtime.steps = []*agent.Completion{
		toolCallStep("verify_otp", fmt.Sprintf(`{"code":%q}`, f.sms.codes[0])),
		toolCallStep("book_appointment", `{"doctor_id":"DR002","date":"2026-03-01","time":"09:00"}`),
		textStep("You're verified and booked with Dr. Ahmed Khalil on March 1st at 9am."),
	}
	resp, err = svc.HandleMessage(ctx, sid, "sorry, it's 123456")
	require.NoError(t, err)
	assert.Equal(t, session.StateVerified, resp.VerificationState)
	assert.Equal(t, []string{"verify_otp", "book_appointment"}, resp.ToolsUsed)

	// The booking is recorded against the verified MRN, never a model-supplied one.
	appointments, err := f.appts.FindByPatient(ctx, "MRN-5050")
	require.NoError(t, err)
	require.Len(t, appointments, 3)
	assert.Contains(t, f.publisher.types(), events.TypePatientVerified)
	assert.Contains(t, f.publisher.types(), events.TypeAppointmentBooked)

	state, err := svc.SessionState(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "Hamza El-Ghoujdami", state.PatientName)
	require.NotNil(t, state.VerifiedAt)
}

func TestPendingBookingTracksIntentUntilCommit(t *testing.T) {
	f := newTestFixture()
	svc := f.conversation()
	ctx := context.Background()

	f.runtime.steps = []*agent.Completion{
		toolCallStep("check_availability", `{"doctor_id":"DR002","date":"2026-03-01"}`),
		textStep("Dr. Khalil has 09:00 free on March 1st."),
	}
	resp, err := svc.HandleMessage(ctx, "", "what does Dr. Khalil have on March 1st?")
	require.NoError(t, err)
	sid := resp.SessionId

	state, err := svc.SessionState(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, state.PendingBooking)
	assert.Equal(t, "DR002", state.PendingBooking.DoctorId)
	assert.Equal(t, "2026-03-01", state.PendingBooking.Date)
	assert.Empty(t, state.PendingBooking.TimeSlot)

	f.runtime.steps = []*agent.Completion{
		toolCallStep("lookup_patient", `{"mrn":"MRN-5050"}`),
		toolCallStep("send_otp", `{"mrn":"MRN-5050"}`),
		textStep("I've sent a code to your phone."),
	}
	_, err = svc.HandleMessage(ctx, sid, "my MRN is MRN-5050")
	require.NoError(t, err)
	require.Len(t, f.sms.codes, 1)

	f.runtime.steps = []*agent.Completion{
		toolCallStep("verify_otp", fmt.Sprintf(`{"code":%q}`, f.sms.codes[0])),
		toolCallStep("book_appointment", `{"doctor_id":"DR002","date":"2026-03-01","time":"09:00"}`),
		textStep("You're booked for March 1st at 9am."),
	}
	_, err = svc.HandleMessage(ctx, sid, "the code is 123456")
	require.NoError(t, err)

	// A committed booking leaves no pending intent behind.
	state, err = svc.SessionState(ctx, sid)
	require.NoError(t, err)
	assert.Nil(t, state.PendingBooking)
}

// rendezvousRuntime blocks every Complete call until released, so the test
// can observe how many turns are in flight at once.
type rendezvousRuntime struct {
	arrived chan struct{}
	release chan struct{}
}

func (r *rendezvousRuntime) Complete(_ context.Context, _ []agent.Message, _ []agent.ToolSchema, _ ...agent.Option) (*agent.Completion, error) {
	r.arrived <- struct{}{}
	<-r.release
	return &agent.Completion{Text: "hello"}, nil
}

func TestFirstContactTurnsRunConcurrently(t *testing.T) {
	f := newTestFixture()
	rt := &rendezvousRuntime{arrived: make(chan struct{}, 2), release: make(chan struct{})}
	svc := NewConversationService(f.sessions, rt, f.gate, f.cfg.Agent, nopLogger{})
	ctx := context.Background()

	results := make(chan *dto.SendMessageResponse, 2)
	for i := 0; i < 2; i++ {
		go func() {
			resp, err := svc.HandleMessage(ctx, "", "hi")
			assert.NoError(t, err)
			results <- resp
		}()
	}

	// Both fresh callers must reach the model without waiting on each other.
	for i := 0; i < 2; i++ {
		select {
		case <-rt.arrived:
		case <-time.After(2 * time.Second):
			t.Fatal("new sessions serialized on a shared lock; expected concurrent turns")
		}
	}
	close(rt.release)

	first, second := <-results, <-results
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotEmpty(t, first.SessionId)
	assert.NotEqual(t, first.SessionId, second.SessionId)
}

func TestAgentUnavailableLeavesSessionUntouched(t *testing.T) {
	f := newTestFixture()
	svc := f.conversation()
	ctx := context.Background()

	f.runtime.steps = []*agent.Completion{textStep("Hello!")}
	resp, err := svc.HandleMessage(ctx, "", "hi")
	require.NoError(t, err)
	sid := resp.SessionId

	f.runtime.err = assert.AnError
	_, err = svc.HandleMessage(ctx, sid, "are you there?")
	assert.ErrorIs(t, err, ErrAgentUnavailable)

	// The failed turn must not appear in the persisted history.
	turns, err := svc.History(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, turns, 2)
}

func TestToolLoopExceeded(t *testing.T) {
	f := newTestFixture()
	f.cfg.Agent.MaxToolIterations = 2
	svc := f.conversation()
	ctx := context.Background()

	f.runtime.steps = []*agent.Completion{
		toolCallStep("search_doctors", `{"specialty":"Cardiology"}`),
		toolCallStep("search_doctors", `{"specialty":"Cardiology"}`),
		toolCallStep("search_doctors", `{"specialty":"Cardiology"}`),
	}
	resp, err := svc.HandleMessage(ctx, "", "find me a cardiologist")
	require.NoError(t, err)
	assert.Equal(t, "TOOL_LOOP_EXCEEDED", resp.ErrorCode)
	assert.Equal(t, loopExceededReply, resp.Reply)
	assert.Len(t, resp.ToolsUsed, 2)

	// The turn still lands in the session record.
	turns, err := svc.History(ctx, resp.SessionId)
	require.NoError(t, err)
	assert.Len(t, turns, 2)
}

func TestEndSession(t *testing.T) {
	f := newTestFixture()
	svc := f.conversation()
	ctx := context.Background()

	f.runtime.steps = []*agent.Completion{textStep("Goodbye!")}
	resp, err := svc.HandleMessage(ctx, "", "bye")
	require.NoError(t, err)

	require.NoError(t, svc.EndSession(ctx, resp.SessionId))
	_, err = svc.SessionState(ctx, resp.SessionId)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
