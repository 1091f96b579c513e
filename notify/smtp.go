// Package notify delivers the engine's best-effort user notifications:
// a welcome message on registration and a reset reference on credential
// recovery. Delivery failures are surfaced to the engine, which logs them
// and carries on.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig holds the mail relay parameters. All fields are required.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	SenderEmail string
	SenderName  string
}

func (c SMTPConfig) validate() error {
	switch {
	case c.Host == "":
		return errors.New("smtp host is not configured")
	case c.Port <= 0:
		return errors.New("smtp port is not configured")
	case c.Username == "":
		return errors.New("smtp username is not configured")
	case c.Password == "":
		return errors.New("smtp password is not configured")
	case c.SenderEmail == "":
		return errors.New("smtp sender email is not configured")
	}
	return nil
}

// sendMail is a seam for testing without a relay.
var sendMail = smtp.SendMail

// SMTPSender delivers notifications over an authenticated SMTP relay.
type SMTPSender struct {
	config SMTPConfig
	addr   string
	auth   smtp.Auth
}

// NewSMTPSender validates cfg and returns a sender. Incomplete relay
// configuration fails here rather than on first delivery.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &SMTPSender{
		config: cfg,
		addr:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth:   smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
	}, nil
}

func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := s.config.SenderEmail
	if s.config.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.SenderName, s.config.SenderEmail)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	if err := sendMail(s.addr, s.auth, s.config.SenderEmail, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp delivery to %s: %w", s.addr, err)
	}
	return nil
}

// SendWelcome delivers the post-registration greeting.
func (s *SMTPSender) SendWelcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour account has been created. You can now sign in with your email address.\r\n",
		name)
	return s.send(ctx, email, "Welcome", body)
}

// SendRecovery delivers a credential reset reference. The stated validity
// window matches the recovery token TTL the engine enforces.
func (s *SMTPSender) SendRecovery(ctx context.Context, email, resetReference string) error {
	body := fmt.Sprintf(
		"Hello,\r\n\r\nA password reset was requested for this address. Use the reference below within 15 minutes to choose a new password. If you did not request this, you can ignore this message.\r\n\r\n%s\r\n",
		resetReference)
	return s.send(ctx, email, "Password recovery", body)
}
