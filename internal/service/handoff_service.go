package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clinic-voice-be/internal/pkg/logger"
	"clinic-voice-be/internal/websocket"
	"clinic-voice-be/pkg/events"
	pkgnats "clinic-voice-be/pkg/nats"
	"clinic-voice-be/pkg/session"

	"github.com/google/uuid"
)

const (
	TransferStatusQueued    = "queued"
	TransferStatusAssigned  = "agent_assigned"
	TransferStatusConnected = "connected"
)

// Queue names a caller can be routed to.
var handoffQueues = map[string]queueProfile{
	"general":    {AgentsAvailable: 4, AvgWaitMinutes: 5},
	"scheduling": {AgentsAvailable: 3, AvgWaitMinutes: 8},
	"billing":    {AgentsAvailable: 2, AvgWaitMinutes: 12},
	"emergency":  {AgentsAvailable: 6, AvgWaitMinutes: 1},
}

type queueProfile struct {
	AgentsAvailable int
	AvgWaitMinutes  int
}

type QueueStatus struct {
	Queue           string `json:"queue"`
	AgentsAvailable int    `json:"agents_available"`
	AvgWaitMinutes  int    `json:"avg_wait_minutes"`
	CallersWaiting  int    `json:"callers_waiting"`
}

// Transfer is one handoff request. PatientContext is only populated when the
// requesting session was verified.
type Transfer struct {
	Id             string                  `json:"transfer_id"`
	SessionId      string                  `json:"session_id"`
	Queue          string                  `json:"queue"`
	Reason         string                  `json:"reason"`
	Status         string                  `json:"status"`
	Position       int                     `json:"position"`
	RequestedAt    time.Time               `json:"requested_at"`
	PatientContext *session.PatientContext `json:"patient_context,omitempty"`
}

type IHandoffService interface {
	QueueStatuses(ctx context.Context) []QueueStatus
	RequestTransfer(ctx context.Context, sess *session.Session, queue, reason string) (*Transfer, error)
	TransferStatus(ctx context.Context, transferId string) (*Transfer, error)
}

type handoffService struct {
	mu            sync.RWMutex
	transfers     map[string]*Transfer
	hub           *websocket.Hub
	natsPublisher *pkgnats.Publisher
	logger        logger.ILogger
	now           func() time.Time
}

func NewHandoffService(hub *websocket.Hub, natsPublisher *pkgnats.Publisher, logger logger.ILogger) IHandoffService {
	return &handoffService{
		transfers:     make(map[string]*Transfer),
		hub:           hub,
		natsPublisher: natsPublisher,
		logger:        logger,
		now:           time.Now,
	}
}

func (h *handoffService) QueueStatuses(_ context.Context) []QueueStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	statuses := make([]QueueStatus, 0, len(handoffQueues))
	for _, name := range []string{"general", "scheduling", "billing", "emergency"} {
		profile := handoffQueues[name]
		waiting := 0
		for _, t := range h.transfers {
			if t.Queue == name && h.progressedStatus(t) != TransferStatusConnected {
				waiting++
			}
		}
		statuses = append(statuses, QueueStatus{
			Queue:           name,
			AgentsAvailable: profile.AgentsAvailable,
			AvgWaitMinutes:  profile.AvgWaitMinutes,
			CallersWaiting:  waiting,
		})
	}
	return statuses
}

func (h *handoffService) RequestTransfer(ctx context.Context, sess *session.Session, queue, reason string) (*Transfer, error) {
	if _, ok := handoffQueues[queue]; !ok {
		return nil, fmt.Errorf("unknown queue %q", queue)
	}

	h.mu.Lock()
	position := 1
	for _, t := range h.transfers {
		if t.Queue == queue && h.progressedStatus(t) == TransferStatusQueued {
			position++
		}
	}
	transfer := &Transfer{
		Id:          "TRF-" + uuid.NewString()[:8],
		SessionId:   sess.ID,
		Queue:       queue,
		Reason:      reason,
		Status:      TransferStatusQueued,
		Position:    position,
		RequestedAt: h.now(),
	}
	// The human agent sees patient details only when the caller proved who
	// they are.
	if sess.Verification.State == session.StateVerified && sess.PatientContext != nil {
		ctxCopy := *sess.PatientContext
		transfer.PatientContext = &ctxCopy
	}
	h.transfers[transfer.Id] = transfer
	h.mu.Unlock()

	h.hub.BroadcastEvent("transfer_requested", map[string]interface{}{
		"transfer_id": transfer.Id,
		"queue":       transfer.Queue,
		"position":    transfer.Position,
	})
	if h.natsPublisher != nil {
		event := events.New(events.TypeTransferRequested, map[string]interface{}{
			"transfer_id": transfer.Id,
			"session_id":  transfer.SessionId,
			"queue":       transfer.Queue,
			"reason":      transfer.Reason,
		})
		if err := h.natsPublisher.Publish(ctx, event); err != nil {
			h.logger.Warn("handoff", "failed to publish transfer event to NATS", map[string]interface{}{
				"transfer_id": transfer.Id,
				"error":       err.Error(),
			})
		}
	}

	h.logger.Info("handoff", "transfer requested", map[string]interface{}{
		"transfer_id": transfer.Id,
		"session_id":  transfer.SessionId,
		"queue":       transfer.Queue,
	})
	cp := *transfer
	return &cp, nil
}

func (h *handoffService) TransferStatus(_ context.Context, transferId string) (*Transfer, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	transfer, ok := h.transfers[transferId]
	if !ok {
		return nil, fmt.Errorf("transfer %s not found", transferId)
	}
	cp := *transfer
	cp.Status = h.progressedStatus(transfer)
	if cp.Status != TransferStatusQueued {
		cp.Position = 0
	}
	return &cp, nil
}

// progressedStatus simulates agent pickup from elapsed time: queued for the
// first 30 seconds, assigned until 90 seconds, then connected.
func (h *handoffService) progressedStatus(t *Transfer) string {
	elapsed := h.now().Sub(t.RequestedAt)
	switch {
	case elapsed < 30*time.Second:
		return TransferStatusQueued
	case elapsed < 90*time.Second:
		return TransferStatusAssigned
	default:
		return TransferStatusConnected
	}
}
