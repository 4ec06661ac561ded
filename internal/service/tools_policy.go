package service

import (
	"context"
	"encoding/json"

	"clinic-voice-be/pkg/session"
	"clinic-voice-be/pkg/toolgate"
)

type searchPoliciesArgs struct {
	Query string `json:"query" validate:"required"`
}

func (t *Toolset) registerPolicyTools(registry *toolgate.Registry) {
	registry.Register(&toolgate.Tool{
		Name:        "search_policies",
		Description: "Search clinic policies: opening hours, cancellation rules, insurance, parking, lab results, emergencies.",
		Sensitivity: toolgate.SensitivityPublic,
		Parameters:  objectSchema(map[string]interface{}{"query": stringProp("The caller's question in a few keywords")}, "query"),
		Handler:     t.searchPolicies,
	})
}

func (t *Toolset) searchPolicies(_ context.Context, _ *session.Session, args json.RawMessage) (map[string]interface{}, error) {
	var req searchPoliciesArgs
	if err := toolgate.DecodeArgs(args, &req); err != nil {
		return toolgate.InvalidArgs(err), nil
	}

	matches := t.policies.Search(req.Query, 3)
	results := make([]map[string]interface{}, 0, len(matches))
	for _, m := range matches {
		results = append(results, map[string]interface{}{
			"topic":   m.Topic,
			"content": m.Content,
		})
	}
	if len(results) == 0 {
		return map[string]interface{}{
			"policies": results,
			"message":  "nothing matched; offer a transfer to the general queue",
		}, nil
	}
	return map[string]interface{}{"policies": results}, nil
}
