package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/go-mail/mail/v2"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
)

const TicketTemplate = "ticket_confirmation.tmpl"

//go:embed "templates"
var templateFS embed.FS

type Mailer interface {
	Send(recipient, templateFile string, data any) error
}

// SMTPMailer renders an embedded template and sends it over SMTP. Each
// template defines a subject, a plainBody and an htmlBody.
type SMTPMailer struct {
	dialer *mail.Dialer
	sender string
}

func NewSMTP(host string, port int, username, password, sender string) *SMTPMailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &SMTPMailer{
		dialer: dialer,
		sender: sender,
	}
}

func (m *SMTPMailer) Send(recipient, templateFile string, data any) error {
	msg, err := m.message(recipient, templateFile, data)
	if err != nil {
		return err
	}

	for i := 1; i <= 3; i++ {
		err = m.dialer.DialAndSend(msg)
		if err == nil {
			return nil
		}

		time.Sleep(500 * time.Millisecond)
	}

	return err
}

func (m *SMTPMailer) message(recipient, templateFile string, data any) (*mail.Message, error) {
	tmpl, err := template.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return nil, err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return nil, err
	}

	plainBody := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(plainBody, "plainBody", data); err != nil {
		return nil, err
	}

	htmlBody := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(htmlBody, "htmlBody", data); err != nil {
		return nil, err
	}

	msg := mail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	return msg, nil
}

// SendTicket emails the ticket of a confirmed booking. Events without an
// email address are skipped.
func SendTicket(m Mailer, event domain.TicketEvent) error {
	if event.Email == "" {
		return nil
	}

	if err := m.Send(event.Email, TicketTemplate, event); err != nil {
		return fmt.Errorf("send ticket for booking %s: %w", event.BookingID, err)
	}

	return nil
}
