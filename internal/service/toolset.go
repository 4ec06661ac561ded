package service

import (
	"clinic-voice-be/internal/config"
	"clinic-voice-be/internal/pkg/logger"
	"clinic-voice-be/internal/pkg/sms"
	"clinic-voice-be/internal/repository/contract"
	"clinic-voice-be/pkg/policy"
	"clinic-voice-be/pkg/toolgate"
	"clinic-voice-be/pkg/verify"
)

// Toolset wires the domain services into the gated tool registry the model
// calls through. The registry is assembled once at startup.
type Toolset struct {
	cfg         *config.Config
	patientRepo contract.PatientRepository
	verifier    *verify.Verifier
	smsService  sms.ISMSService
	scheduling  ISchedulingService
	handoff     IHandoffService
	preferences IPreferenceService
	policies    *policy.Corpus
	publisher   IPublisherService
	logger      logger.ILogger
}

func NewToolset(
	cfg *config.Config,
	patientRepo contract.PatientRepository,
	verifier *verify.Verifier,
	smsService sms.ISMSService,
	scheduling ISchedulingService,
	handoff IHandoffService,
	preferences IPreferenceService,
	policies *policy.Corpus,
	publisher IPublisherService,
	logger logger.ILogger,
) *Toolset {
	return &Toolset{
		cfg:         cfg,
		patientRepo: patientRepo,
		verifier:    verifier,
		smsService:  smsService,
		scheduling:  scheduling,
		handoff:     handoff,
		preferences: preferences,
		policies:    policies,
		publisher:   publisher,
		logger:      logger,
	}
}

// BuildRegistry registers every tool exposed to the model.
func (t *Toolset) BuildRegistry() *toolgate.Registry {
	registry := toolgate.NewRegistry()

	t.registerIdentityTools(registry)
	t.registerSchedulingTools(registry)
	t.registerPreferenceTools(registry)
	t.registerPolicyTools(registry)
	t.registerHandoffTools(registry)

	return registry
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}
