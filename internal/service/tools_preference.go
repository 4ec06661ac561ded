package service

import (
	"context"
	"encoding/json"

	"clinic-voice-be/pkg/session"
	"clinic-voice-be/pkg/toolgate"
)

type storePreferenceArgs struct {
	Content  string                 `json:"content" validate:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

type searchPreferencesArgs struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit"`
}

func (t *Toolset) registerPreferenceTools(registry *toolgate.Registry) {
	registry.Register(&toolgate.Tool{
		Name:        "store_preference",
		Description: "Remember a scheduling preference the verified patient expressed, e.g. 'prefers morning appointments'.",
		Sensitivity: toolgate.SensitivitySensitive,
		Parameters: objectSchema(map[string]interface{}{
			"content":  stringProp("The preference, phrased as a short sentence"),
			"metadata": map[string]interface{}{"type": "object", "description": "Optional structured context, e.g. {\"specialty\": \"Cardiology\"}"},
		}, "content"),
		Handler: t.storePreference,
	})

	registry.Register(&toolgate.Tool{
		Name:        "search_preferences",
		Description: "Recall the verified patient's stored preferences relevant to a query.",
		Sensitivity: toolgate.SensitivitySensitive,
		Parameters: objectSchema(map[string]interface{}{
			"query": stringProp("What to look for, e.g. 'preferred appointment times'"),
			"limit": intProp("Maximum results, default 5"),
		}, "query"),
		Handler: t.searchPreferences,
	})
}

func (t *Toolset) storePreference(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
	var req storePreferenceArgs
	if err := toolgate.DecodeArgs(args, &req); err != nil {
		return toolgate.InvalidArgs(err), nil
	}

	pref, err := t.preferences.Store(ctx, sess.Verification.PatientID, req.Content, req.Metadata)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"preference_id": pref.Id,
		"message":       "preference saved",
	}, nil
}

func (t *Toolset) searchPreferences(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
	var req searchPreferencesArgs
	if err := toolgate.DecodeArgs(args, &req); err != nil {
		return toolgate.InvalidArgs(err), nil
	}

	prefs, err := t.preferences.Search(ctx, sess.Verification.PatientID, req.Query, req.Limit)
	if err != nil {
		return nil, err
	}
	results := make([]map[string]interface{}, 0, len(prefs))
	for _, pref := range prefs {
		results = append(results, map[string]interface{}{
			"content":   pref.Content,
			"stored_at": pref.CreatedAt.Format("2006-01-02"),
		})
	}
	return map[string]interface{}{"preferences": results}, nil
}
