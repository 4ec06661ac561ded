package sms

import (
	"clinic-voice-be/internal/pkg/logger"
)

type ISMSService interface {
	SendVerificationCode(phone, code string) error
	SendBookingConfirmation(phone, doctorName, date, timeSlot string) error
}

// logSMSService is the demo gateway: messages are written to the structured
// log instead of a carrier. Swap for a real provider client in production.
type logSMSService struct {
	logger logger.ILogger
}

func NewLogSMSService(logger logger.ILogger) ISMSService {
	return &logSMSService{logger: logger}
}

func (s *logSMSService) SendVerificationCode(phone, code string) error {
	s.logger.Info("sms", "verification code dispatched", map[string]interface{}{
		"to":   phone,
		"body": "Your Horizon Medical Clinic verification code is " + code,
	})
	return nil
}

func (s *logSMSService) SendBookingConfirmation(phone, doctorName, date, timeSlot string) error {
	s.logger.Info("sms", "booking confirmation dispatched", map[string]interface{}{
		"to":   phone,
		"body": "Your appointment with " + doctorName + " on " + date + " at " + timeSlot + " is confirmed.",
	})
	return nil
}
