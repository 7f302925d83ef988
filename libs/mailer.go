package libs

import (
	"errors"
	"fmt"
	"net/mail"

	"gopkg.in/gomail.v2"
)

var ErrBadHeader = errors.New("invalid email header")

type Email struct {
	From        string
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []string
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass, from string) (*SMTPMailer, error) {
	if host == "" {
		return nil, fmt.Errorf("SMTP configuration missing")
	}
	if port == 0 {
		port = 587
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}, nil
}

// Send returns ErrBadHeader (wrapped) when an address does not parse.
func (s *SMTPMailer) Send(e Email) error {
	from := e.From
	if from == "" {
		from = s.from
	}
	if err := checkAddresses(append([]string{from}, e.To...)); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", e.To...)
	m.SetHeader("Subject", e.Subject)
	m.SetBody("text/html", e.HTMLBody)
	for _, path := range e.Attachments {
		m.Attach(path)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func checkAddresses(addrs []string) error {
	for _, a := range addrs {
		if _, err := mail.ParseAddress(a); err != nil {
			return fmt.Errorf("%w: %q", ErrBadHeader, a)
		}
	}
	return nil
}
