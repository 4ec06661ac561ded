package toolgate

import (
	"context"
	"encoding/json"
	"fmt"

	"clinic-voice-be/pkg/agent"
	"clinic-voice-be/pkg/session"
)

// Sensitivity classifies how much identity assurance a tool needs before it
// may run.
type Sensitivity string

const (
	// SensitivityPublic tools run in any session state.
	SensitivityPublic Sensitivity = "PUBLIC"
	// SensitivityIdentity tools drive the verification flow itself.
	SensitivityIdentity Sensitivity = "IDENTITY"
	// SensitivitySensitive tools touch patient records and require a
	// VERIFIED session.
	SensitivitySensitive Sensitivity = "SENSITIVE"
)

// Handler executes a tool against the caller's session. The returned payload
// is serialized back to the model verbatim. Handlers signal recoverable
// problems inside the payload (an "error" key) so the model can react;
// returned errors are reserved for infrastructure failures.
type Handler func(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error)

// Tool binds a schema the model sees to the handler that serves it.
type Tool struct {
	Name        string
	Description string
	Sensitivity Sensitivity
	Parameters  map[string]interface{}
	Handler     Handler
}

// Registry is the static tool surface for one deployment. It is built once
// at startup and read-only afterwards.
type Registry struct {
	tools map[string]*Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

func (r *Registry) Register(tool *Tool) {
	if _, exists := r.tools[tool.Name]; exists {
		panic(fmt.Sprintf("toolgate: duplicate tool registration %q", tool.Name))
	}
	r.tools[tool.Name] = tool
	r.order = append(r.order, tool.Name)
}

func (r *Registry) Get(name string) (*Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Schemas returns the tool definitions in registration order, ready for the
// model.
func (r *Registry) Schemas() []agent.ToolSchema {
	schemas := make([]agent.ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		schemas = append(schemas, agent.ToolSchema{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Parameters,
		})
	}
	return schemas
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
