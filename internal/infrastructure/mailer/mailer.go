package mailer

import (
	"context"
	"errors"

	"clinic-booking/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// ErrNoRecipient is returned for messages without a To address
var ErrNoRecipient = errors.New("message has no recipient")

// Message is one outbound email with HTML and plain-text parts
type Message struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// New returns an SMTP mailer, or a logging mailer in development or when no
// SMTP host is configured.
func New(cfg config.SMTPConfig, app config.AppConfig, log *logrus.Logger) Mailer {
	if app.IsDevelopment() || cfg.Host == "" {
		log.Info("SMTP disabled, outbound email will only be logged")
		return NewLogMailer(log)
	}
	return NewSMTPMailer(cfg, log)
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *logrus.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, log *logrus.Logger) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

func (m *smtpMailer) Send(ctx context.Context, msg *Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipient
	}
	// gomail has no context support; at least honour cancellation before dialing
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	if msg.TextBody != "" {
		gm.SetBody("text/plain", msg.TextBody)
		gm.AddAlternative("text/html", msg.HTMLBody)
	} else {
		gm.SetBody("text/html", msg.HTMLBody)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		m.log.Warnf("Failed to send email to %v: %+v", msg.To, err)
		return err
	}
	return nil
}

type logMailer struct {
	log *logrus.Logger
}

func NewLogMailer(log *logrus.Logger) Mailer {
	return &logMailer{log: log}
}

func (m *logMailer) Send(ctx context.Context, msg *Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipient
	}
	m.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Email send skipped in development mode")
	return nil
}
