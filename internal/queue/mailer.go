package queue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

// Message is an outgoing plain text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// SMTPMailer sends through an SMTP relay.  STARTTLS is used when the
// server offers it, and PLAIN auth when a user is set.
type SMTPMailer struct {
	Host    string
	Port    string
	User    string
	Pass    string
	From    string
	Timeout time.Duration
}

// Send delivers m.  ctx bounds the whole SMTP conversation.
func (s SMTPMailer) Send(ctx context.Context, m Message) error {
	msg, err := newMsg(s.From, m)
	if err != nil {
		return err
	}
	client, err := s.client()
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.To, err)
	}
	return nil
}

func (s SMTPMailer) client() (*mail.Client, error) {
	port, err := strconv.Atoi(s.Port)
	if err != nil {
		return nil, fmt.Errorf("smtp port %q: %w", s.Port, err)
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(timeout),
	}
	if s.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.User),
			mail.WithPassword(s.Pass),
		)
	}
	client, err := mail.NewClient(s.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return client, nil
}

// newMsg builds a plain text message.  Both addresses are validated.
func newMsg(from string, m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("sender %q: %w", from, err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("recipient %q: %w", m.To, err)
	}
	msg.Subject(m.Subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	return msg, nil
}

// LogMailer writes messages to the log instead of sending them.  It is
// used when no SMTP host is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, m Message) error {
	logrus.WithFields(logrus.Fields{"to": m.To, "subject": m.Subject}).Info("email (not sent, smtp disabled)")
	return nil
}
