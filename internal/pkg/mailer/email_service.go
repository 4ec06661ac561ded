package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendAppointmentConfirmation(toEmail, patientName, doctorName, specialty, date, timeSlot string) error
	SendCancellationNotice(toEmail, patientName, doctorName, date, timeSlot string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendAppointmentConfirmation(toEmail, patientName, doctorName, specialty, date, timeSlot string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your Appointment is Confirmed")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Horizon Medical Clinic</h2>
			<p>Dear %s,</p>
			<p>Your appointment is confirmed:</p>
			<ul>
				<li><b>Doctor:</b> %s (%s)</li>
				<li><b>Date:</b> %s</li>
				<li><b>Time:</b> %s</li>
			</ul>
			<p>Please arrive 10 minutes early. Cancellations are free up to 24 hours before the appointment.</p>
		</div>
	`, patientName, doctorName, specialty, date, timeSlot)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send confirmation to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Appointment confirmation sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendCancellationNotice(toEmail, patientName, doctorName, date, timeSlot string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your Appointment Has Been Cancelled")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Horizon Medical Clinic</h2>
			<p>Dear %s,</p>
			<p>Your appointment with %s on %s at %s has been cancelled.</p>
			<p>If this was a mistake, call us or book a new slot at any time.</p>
		</div>
	`, patientName, doctorName, date, timeSlot)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send cancellation notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Cancellation notice sent to %s\n", toEmail)
	return nil
}
