// Package mail delivers staff notifications over SMTP.
package mail

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"

	"github.com/nexiot/site-backend/internal/core/domain"
	"github.com/nexiot/site-backend/internal/core/ports"
)

const (
	defaultPort    = 587
	defaultTimeout = 10 * time.Second
)

var contactTemplate = template.Must(template.New("contact").Parse(`A new contact form submission was received.

Submission: #{{.ID}}
Received:   {{.CreatedAt.UTC.Format "2006-01-02 15:04:05 MST"}}

Name:    {{.Name}}
Email:   {{.Email}}
Phone:   {{if .Phone}}{{.Phone}}{{else}}(not provided){{end}}
Subject: {{.Subject}}

{{.Message}}
`))

// Config holds the SMTP relay settings and the staff recipient.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Recipient string
	Timeout   time.Duration
}

// Notifier sends one email per accepted contact submission.
type Notifier struct {
	cfg Config
	log zerolog.Logger
}

func NewNotifier(cfg Config, log zerolog.Logger) *Notifier {
	if cfg.Port <= 0 {
		cfg.Port = defaultPort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.From == "" {
		cfg.From = cfg.Recipient
	}
	return &Notifier{cfg: cfg, log: log}
}

var _ ports.Notifier = (*Notifier)(nil)

// Configured reports whether a relay host and a recipient are set.
func (n *Notifier) Configured() bool {
	return n.cfg.Host != "" && n.cfg.Recipient != ""
}

// Verify opens and closes a session with the relay, authenticating when
// credentials are set.
func (n *Notifier) Verify(ctx context.Context) error {
	client, err := n.client()
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return nil
}

// NotifyContact emails the submission to the staff recipient. Replies go to
// the submitter when the address parses as a mail header.
func (n *Notifier) NotifyContact(ctx context.Context, s domain.ContactSubmission) error {
	msg, err := n.buildMessage(s)
	if err != nil {
		return err
	}
	client, err := n.client()
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (n *Notifier) buildMessage(s domain.ContactSubmission) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(n.cfg.Recipient); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	if err := msg.ReplyTo(s.Email); err != nil {
		n.log.Warn().Err(err).Int64("submission_id", s.ID).Msg("reply-to omitted from contact notification")
	}
	msg.Subject(subjectLine(s))
	if err := msg.SetBodyTextTemplate(contactTemplate, templateData(s)); err != nil {
		return nil, fmt.Errorf("render body: %w", err)
	}
	return msg, nil
}

func (n *Notifier) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(n.cfg.Port),
		gomail.WithTimeout(n.cfg.Timeout),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(n.cfg.Username),
			gomail.WithPassword(n.cfg.Password),
		)
	}
	client, err := gomail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return client, nil
}

type contactData struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	CreatedAt time.Time
}

func templateData(s domain.ContactSubmission) contactData {
	d := contactData{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Subject:   s.Subject,
		Message:   s.Message,
		CreatedAt: s.CreatedAt,
	}
	if s.Phone != nil {
		d.Phone = *s.Phone
	}
	return d
}

func subjectLine(s domain.ContactSubmission) string {
	subject := strings.Join(strings.Fields(s.Subject), " ")
	return fmt.Sprintf("[Contact #%d] %s", s.ID, subject)
}
