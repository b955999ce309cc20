// Package mail generates confirmation codes and delivers them over SMTP.
package mail

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	gomail "github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templates embed.FS

var confirmationTemplate = template.Must(template.ParseFS(templates, "templates/confirmation.html"))

// ErrDelivery wraps any failure of the outbound transport.
var ErrDelivery = errors.New("confirmation delivery failed")

// Sender delivers confirmation codes to users.
type Sender interface {
	SendConfirmationCode(ctx context.Context, recipient, code string) error
}

// Transport hands finished messages to a mail server. *gomail.Client satisfies it.
type Transport interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// Config describes the outgoing message.
type Config struct {
	From      string
	Subject   string
	PlainText string
}

type smtpSender struct {
	cfg       Config
	transport Transport
}

func NewSender(cfg Config, transport Transport) Sender {
	return &smtpSender{cfg: cfg, transport: transport}
}

func (s *smtpSender) SendConfirmationCode(ctx context.Context, recipient, code string) error {
	msg, err := s.buildMessage(recipient, code)
	if err != nil {
		return err
	}
	if err := s.transport.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

func (s *smtpSender) buildMessage(recipient, code string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(s.cfg.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, s.cfg.PlainText)

	data := struct {
		Subject string
		Code    string
	}{Subject: s.cfg.Subject, Code: code}
	if err := msg.AddAlternativeHTMLTemplate(confirmationTemplate, data); err != nil {
		return nil, fmt.Errorf("render confirmation html: %w", err)
	}
	return msg, nil
}
