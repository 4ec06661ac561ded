package service

import (
	"context"
	"encoding/json"

	"clinic-voice-be/pkg/session"
	"clinic-voice-be/pkg/toolgate"
)

type initiateTransferArgs struct {
	Queue  string `json:"queue" validate:"required,oneof=general scheduling billing emergency"`
	Reason string `json:"reason"`
}

type transferStatusArgs struct {
	TransferId string `json:"transfer_id" validate:"required"`
}

func (t *Toolset) registerHandoffTools(registry *toolgate.Registry) {
	registry.Register(&toolgate.Tool{
		Name:        "get_queue_status",
		Description: "Get current wait times and agent availability for the human support queues.",
		Sensitivity: toolgate.SensitivityPublic,
		Parameters:  objectSchema(map[string]interface{}{}),
		Handler:     t.getQueueStatus,
	})

	registry.Register(&toolgate.Tool{
		Name:        "initiate_human_transfer",
		Description: "Transfer the caller to a human agent queue: general, scheduling, billing or emergency.",
		Sensitivity: toolgate.SensitivityPublic,
		Parameters: objectSchema(map[string]interface{}{
			"queue":  stringProp("Target queue: general, scheduling, billing or emergency"),
			"reason": stringProp("Short reason for the transfer"),
		}, "queue"),
		Handler: t.initiateHumanTransfer,
	})

	registry.Register(&toolgate.Tool{
		Name:        "get_transfer_status",
		Description: "Check the progress of a previously requested human transfer.",
		Sensitivity: toolgate.SensitivityPublic,
		Parameters:  objectSchema(map[string]interface{}{"transfer_id": stringProp("Transfer id, e.g. TRF-1a2b3c4d")}, "transfer_id"),
		Handler:     t.getTransferStatus,
	})
}

func (t *Toolset) getQueueStatus(ctx context.Context, _ *session.Session, _ json.RawMessage) (map[string]interface{}, error) {
	return map[string]interface{}{"queues": t.handoff.QueueStatuses(ctx)}, nil
}

func (t *Toolset) initiateHumanTransfer(ctx context.Context, sess *session.Session, args json.RawMessage) (map[string]interface{}, error) {
	var req initiateTransferArgs
	if err := toolgate.DecodeArgs(args, &req); err != nil {
		return toolgate.InvalidArgs(err), nil
	}

	transfer, err := t.handoff.RequestTransfer(ctx, sess, req.Queue, req.Reason)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"transfer_id": transfer.Id,
		"queue":       transfer.Queue,
		"status":      transfer.Status,
		"position":    transfer.Position,
		"message":     "stay on the line; an agent will pick up shortly",
	}
	// Unverified callers are transferred anonymously.
	payload["patient_context_attached"] = transfer.PatientContext != nil
	return payload, nil
}

func (t *Toolset) getTransferStatus(ctx context.Context, _ *session.Session, args json.RawMessage) (map[string]interface{}, error) {
	var req transferStatusArgs
	if err := toolgate.DecodeArgs(args, &req); err != nil {
		return toolgate.InvalidArgs(err), nil
	}

	transfer, err := t.handoff.TransferStatus(ctx, req.TransferId)
	if err != nil {
		return map[string]interface{}{
			"error":   "TRANSFER_NOT_FOUND",
			"message": "no transfer with that id",
		}, nil
	}
	return map[string]interface{}{
		"transfer_id": transfer.Id,
		"queue":       transfer.Queue,
		"status":      transfer.Status,
		"position":    transfer.Position,
	}, nil
}
