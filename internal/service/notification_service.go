package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"clinic-voice-be/internal/pkg/mailer"
	"clinic-voice-be/internal/pkg/sms"
	"clinic-voice-be/internal/repository/contract"
	"clinic-voice-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type INotificationService interface {
	Consume(ctx context.Context) error
}

// notificationService drains booking events off the in-process bus and turns
// them into SMS and email notifications, keeping carrier latency out of the
// conversation turn.
type notificationService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	patientRepo  contract.PatientRepository
	emailService mailer.IEmailService
	smsService   sms.ISMSService
}

func NewNotificationService(
	pubSub *gochannel.GoChannel,
	topicName string,
	patientRepo contract.PatientRepository,
	emailService mailer.IEmailService,
	smsService sms.ISMSService,
) INotificationService {
	return &notificationService{
		pubSub:       pubSub,
		topicName:    topicName,
		patientRepo:  patientRepo,
		emailService: emailService,
		smsService:   smsService,
	}
}

func (ns *notificationService) Consume(ctx context.Context) error {
	messages, err := ns.pubSub.Subscribe(ctx, ns.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ns.processMessage(ctx, msg)
		}
	}()

	return nil
}

type busEnvelope struct {
	EventType  string                 `json:"event_type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func (ns *notificationService) processMessage(ctx context.Context, msg *message.Message) {
	var envelope busEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		log.Printf("[ERROR] Failed to unmarshal bus message: %v", err)
		msg.Ack() // malformed messages would retry forever
		return
	}

	mrn, _ := envelope.Data["patient_mrn"].(string)
	if mrn == "" {
		msg.Ack()
		return
	}

	patient, err := ns.patientRepo.FindByMRN(ctx, mrn)
	if err != nil {
		log.Printf("[ERROR] Failed to load patient %s for notification: %v", mrn, err)
		msg.Nack()
		return
	}
	if patient == nil {
		log.Printf("[WARN] Notification for unknown patient %s dropped", mrn)
		msg.Ack()
		return
	}

	doctorName, _ := envelope.Data["doctor_name"].(string)
	specialty, _ := envelope.Data["specialty"].(string)
	date, _ := envelope.Data["date"].(string)
	timeSlot, _ := envelope.Data["time"].(string)

	switch envelope.EventType {
	case events.TypeAppointmentBooked, events.TypeAppointmentRescheduled:
		if err := ns.smsService.SendBookingConfirmation(patient.Phone, doctorName, date, timeSlot); err != nil {
			log.Printf("[ERROR] SMS confirmation failed for %s: %v", mrn, err)
		}
		if patient.Email != "" {
			if err := ns.emailService.SendAppointmentConfirmation(patient.Email, patient.Name, doctorName, specialty, date, timeSlot); err != nil {
				log.Printf("[ERROR] Email confirmation failed for %s: %v", mrn, err)
			}
		}
	case events.TypeAppointmentCancelled:
		if patient.Email != "" {
			if err := ns.emailService.SendCancellationNotice(patient.Email, patient.Name, doctorName, date, timeSlot); err != nil {
				log.Printf("[ERROR] Cancellation email failed for %s: %v", mrn, err)
			}
		}
	}

	msg.Ack()
}
