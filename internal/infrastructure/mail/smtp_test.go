package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"

	"github.com/nexiot/site-backend/internal/core/domain"
)

func testSubmission(phone *string) domain.ContactSubmission {
	return domain.ContactSubmission{
		ID:        42,
		Name:      "Ana Ruiz",
		Email:     "ana@example.com",
		Phone:     phone,
		Subject:   "Quote\r\nfor sensors",
		Message:   "Need 40 units.",
		CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestNotifier_Configured(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"complete", Config{Host: "smtp.example.com", Recipient: "sales@example.com"}, true},
		{"no host", Config{Recipient: "sales@example.com"}, false},
		{"no recipient", Config{Host: "smtp.example.com"}, false},
	}
	for _, tc := range cases {
		if got := NewNotifier(tc.cfg, zerolog.Nop()).Configured(); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestNewNotifier_Defaults(t *testing.T) {
	n := NewNotifier(Config{Host: "smtp.example.com", Recipient: "sales@example.com"}, zerolog.Nop())

	if n.cfg.Port != defaultPort {
		t.Errorf("expected port %d, got %d", defaultPort, n.cfg.Port)
	}
	if n.cfg.From != "sales@example.com" {
		t.Errorf("expected from to fall back to recipient, got %q", n.cfg.From)
	}
}

func TestTemplate_IncludesEveryField(t *testing.T) {
	phone := "+52 55 1234 5678"
	var b strings.Builder
	if err := contactTemplate.Execute(&b, templateData(testSubmission(&phone))); err != nil {
		t.Fatalf("execute: %v", err)
	}

	body := b.String()
	for _, want := range []string{"#42", "Ana Ruiz", "ana@example.com", phone, "Need 40 units.", "2026-03-01 09:30:00 UTC"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestTemplate_NoPhone(t *testing.T) {
	var b strings.Builder
	if err := contactTemplate.Execute(&b, templateData(testSubmission(nil))); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(b.String(), "(not provided)") {
		t.Errorf("expected placeholder for missing phone:\n%s", b.String())
	}
}

func TestBuildMessage_Headers(t *testing.T) {
	n := NewNotifier(Config{
		Host:      "smtp.example.com",
		From:      "site@example.com",
		Recipient: "sales@example.com",
	}, zerolog.Nop())

	msg, err := n.buildMessage(testSubmission(nil))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	subject := msg.GetGenHeader(gomail.HeaderSubject)
	if len(subject) != 1 || subject[0] != "[Contact #42] Quote for sensors" {
		t.Errorf("unexpected subject: %v", subject)
	}
	rcpts, err := msg.GetRecipients()
	if err != nil {
		t.Fatalf("recipients: %v", err)
	}
	if len(rcpts) != 1 || rcpts[0] != "sales@example.com" {
		t.Errorf("unexpected recipients: %v", rcpts)
	}
}

func TestBuildMessage_UnparsableReplyToStillBuilds(t *testing.T) {
	n := NewNotifier(Config{From: "site@example.com", Recipient: "sales@example.com"}, zerolog.Nop())

	// Each of these has the something@domain.tld shape but is not a valid header address.
	for _, email := range []string{"a<b@c.com", "jo,e@x.com", "a@b.c)"} {
		s := testSubmission(nil)
		s.Email = email

		msg, err := n.buildMessage(s)
		if err != nil {
			t.Errorf("%s: expected message without reply-to, got %v", email, err)
			continue
		}
		if rt := msg.GetGenHeader(gomail.HeaderReplyTo); len(rt) != 0 {
			t.Errorf("%s: expected no reply-to, got %v", email, rt)
		}
		rcpts, err := msg.GetRecipients()
		if err != nil || len(rcpts) != 1 {
			t.Errorf("%s: expected staff recipient, got %v (%v)", email, rcpts, err)
		}
	}
}

func TestBuildMessage_SetsReplyTo(t *testing.T) {
	n := NewNotifier(Config{From: "site@example.com", Recipient: "sales@example.com"}, zerolog.Nop())

	msg, err := n.buildMessage(testSubmission(nil))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	rt := msg.GetGenHeader(gomail.HeaderReplyTo)
	if len(rt) != 1 || !strings.Contains(rt[0], "ana@example.com") {
		t.Errorf("unexpected reply-to: %v", rt)
	}
}
