// Package mailer delivers mail through an SMTP submission server.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/jask/invoicedesk/internal/config"
)

// Credentials authenticate against the SMTP server. Email is also the sender.
type Credentials struct {
	Email    string
	Password string
}

// Attachment is an in-memory file attached to a Message.
type Attachment struct {
	Filename string
	Data     []byte
}

// Message is a plain-text mail with optional attachments.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// SMTPMailer talks to one configured host.
type SMTPMailer struct {
	Host    string
	Port    int
	Timeout time.Duration
	Logger  *zap.Logger
}

func New(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{Host: cfg.Host, Port: cfg.Port, Timeout: cfg.Timeout, Logger: logger}
}

// Verify logs in and disconnects without sending anything.
func (m *SMTPMailer) Verify(ctx context.Context, creds Credentials) error {
	c, err := m.client(creds)
	if err != nil {
		return err
	}
	if err := c.DialWithContext(ctx); err != nil {
		m.Logger.Debug("smtp verify failed", zap.String("email", creds.Email), zap.Error(err))
		return fmt.Errorf("smtp login %s: %w", creds.Email, err)
	}
	return c.Close()
}

// Send delivers msg from creds.Email.
func (m *SMTPMailer) Send(ctx context.Context, creds Credentials, msg Message) error {
	out, err := BuildMessage(creds.Email, msg)
	if err != nil {
		return err
	}
	c, err := m.client(creds)
	if err != nil {
		return err
	}
	if err := c.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	m.Logger.Info("mail sent",
		zap.String("from", creds.Email),
		zap.String("to", msg.To),
		zap.Int("attachments", len(msg.Attachments)),
	)
	return nil
}

func (m *SMTPMailer) client(creds Credentials) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(m.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(creds.Email),
		mail.WithPassword(creds.Password),
	}
	if m.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(m.Timeout))
	}
	// 465 is implicit TLS; anything else negotiates STARTTLS
	if m.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	c, err := mail.NewClient(m.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return c, nil
}

// BuildMessage assembles the MIME message without sending it.
func BuildMessage(from string, msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("from address %q: %w", from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("to address %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	for _, a := range msg.Attachments {
		m.AttachReadSeeker(a.Filename, bytes.NewReader(a.Data))
	}
	return m, nil
}
