package events

import "time"

// Event type codes published on the bus.
const (
	TypeAppointmentBooked      = "APPOINTMENT_BOOKED"
	TypeAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
	TypeAppointmentCancelled   = "APPOINTMENT_CANCELLED"
	TypeWaitlistJoined         = "WAITLIST_JOINED"
	TypeTransferRequested      = "TRANSFER_REQUESTED"
	TypePatientVerified        = "PATIENT_VERIFIED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "APPOINTMENT_BOOKED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the standard Event implementation used across services.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// New builds an event stamped with the current time.
func New(eventType string, data map[string]interface{}) Event {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}
