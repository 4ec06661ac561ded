package service

import (
	"context"
	"sync"
	"time"

	"clinic-voice-be/internal/config"
	"clinic-voice-be/internal/pkg/logger"
	"clinic-voice-be/internal/repository/memory"
	"clinic-voice-be/internal/websocket"
	"clinic-voice-be/pkg/agent"
	"clinic-voice-be/pkg/embedding"
	"clinic-voice-be/pkg/events"
	"clinic-voice-be/pkg/policy"
	"clinic-voice-be/pkg/session"
	"clinic-voice-be/pkg/toolgate"
	"clinic-voice-be/pkg/verify"
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

// capturePublisher records published events instead of fanning them out.
type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

// captureSMS records outbound messages.
type captureSMS struct {
	mu    sync.Mutex
	codes []string
}

func (s *captureSMS) SendVerificationCode(phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, code)
	return nil
}

func (s *captureSMS) SendBookingConfirmation(phone, doctorName, date, timeSlot string) error {
	return nil
}

// scriptedRuntime replays a fixed sequence of completions, one per turn of
// the tool-call loop.
type scriptedRuntime struct {
	mu    sync.Mutex
	steps []*agent.Completion
	err   error
	calls int
}

func (r *scriptedRuntime) Complete(_ context.Context, _ []agent.Message, _ []agent.ToolSchema, _ ...agent.Option) (*agent.Completion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if len(r.steps) == 0 {
		return &agent.Completion{Text: "Is there anything else I can help with?"}, nil
	}
	step := r.steps[0]
	r.steps = r.steps[1:]
	return step, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Session: config.SessionConfig{TTL: time.Hour},
		OTP:     config.OTPConfig{DemoCode: "123456", MaxAttempts: 3, CodeTTL: 5 * time.Minute},
		Agent:   config.AgentConfig{MaxToolIterations: 10, HistoryWindow: 40},
	}
}

// testFixture wires a full in-memory stack around a scripted model runtime.
type testFixture struct {
	cfg        *config.Config
	sessions   *session.Manager
	runtime    *scriptedRuntime
	gate       *toolgate.Gate
	publisher  *capturePublisher
	sms        *captureSMS
	scheduling ISchedulingService
	handoff    IHandoffService
	appts      *memory.AppointmentBook
}

func newTestFixture() *testFixture {
	cfg := testConfig()
	log := nopLogger{}
	publisher := &capturePublisher{}
	smsSvc := &captureSMS{}

	appointments := memory.NewAppointmentBook()
	scheduling := NewSchedulingService(
		memory.NewDoctorDirectory(),
		appointments,
		memory.NewWaitlistStore(),
		publisher,
		nil,
		log,
	)
	handoff := NewHandoffService(websocket.NewHub(nil, log), nil, log)
	preferences := NewPreferenceService(memory.NewPreferenceStore(), embedding.NewLocalProvider(64), log)

	toolset := NewToolset(
		cfg,
		memory.NewPatientDirectory(),
		verify.NewVerifier(cfg.OTP.MaxAttempts, cfg.OTP.CodeTTL),
		smsSvc,
		scheduling,
		handoff,
		preferences,
		policy.NewCorpus(policy.DefaultDocuments()),
		publisher,
		log,
	)

	return &testFixture{
		cfg:        cfg,
		sessions:   session.NewManager(nil, cfg.Session.TTL, log),
		runtime:    &scriptedRuntime{},
		gate:       toolgate.NewGate(toolset.BuildRegistry(), log),
		publisher:  publisher,
		sms:        smsSvc,
		scheduling: scheduling,
		handoff:    handoff,
		appts:      appointments,
	}
}

func (f *testFixture) conversation() IConversationService {
	return NewConversationService(f.sessions, f.runtime, f.gate, f.cfg.Agent, nopLogger{})
}
