package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/clinicore/ehr-api/internal/config"
)

// Service sends operational notifications. Failures are reported to the
// caller and treated as best-effort there.
type Service interface {
	SendWelcome(to, name string) error
	SendAppointmentConfirmation(to, doctorName, date, timeOfDay string) error
}

type service struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg config.SMTPConfig) Service {
	return &service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *service) SendWelcome(to, name string) error {
	body := fmt.Sprintf("Hello %s,\r\n\r\nYour account has been created. Please log in and complete your registration.", name)
	return s.send(to, "Welcome to your patient portal", body)
}

func (s *service) SendAppointmentConfirmation(to, doctorName, date, timeOfDay string) error {
	body := fmt.Sprintf("Your appointment with %s on %s at %s has been scheduled.", doctorName, date, timeOfDay)
	return s.send(to, "Appointment scheduled", body)
}

func (s *service) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
