package notify

import (
	"net/smtp"
	"strings"
	"testing"

	"github.com/candidhq/intake/internal/core/config"
	"github.com/candidhq/intake/internal/core/domain"
)

func testApp() *domain.Application {
	return &domain.Application{
		ID:       "abc-123",
		FullName: "Ana Horvat",
		Email:    "ana@example.com",
		Position: "Backend Engineer",
		Status:   domain.StatusReviewing,
	}
}

func TestApplicationReceived(t *testing.T) {
	var gotTo []string
	var gotMsg string

	m := NewMailer(config.SMTPConfig{
		Host: "smtp.example.com", Port: 587,
		From: "jobs@example.com", AdminTo: "hr@example.com",
	})
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotTo = to
		gotMsg = string(msg)
		return nil
	}

	if err := m.ApplicationReceived(testApp()); err != nil {
		t.Fatalf("ApplicationReceived failed: %v", err)
	}
	if len(gotTo) != 2 || gotTo[0] != "ana@example.com" || gotTo[1] != "hr@example.com" {
		t.Errorf("Unexpected recipients: %v", gotTo)
	}
	if !strings.Contains(gotMsg, "Backend Engineer") {
		t.Errorf("Expected position in mail body, got %q", gotMsg)
	}
	if !strings.Contains(gotMsg, "Subject: Application received: Backend Engineer") {
		t.Errorf("Expected subject header, got %q", gotMsg)
	}
}

func TestStatusChanged(t *testing.T) {
	var gotMsg string

	m := NewMailer(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "jobs@example.com"})
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotMsg = string(msg)
		return nil
	}

	if err := m.StatusChanged(testApp(), domain.StatusReceived); err != nil {
		t.Fatalf("StatusChanged failed: %v", err)
	}
	if !strings.Contains(gotMsg, "received") || !strings.Contains(gotMsg, "reviewing") {
		t.Errorf("Expected both statuses in body, got %q", gotMsg)
	}
}

func TestDeliver_DisabledIsNoOp(t *testing.T) {
	m := NewMailer(config.SMTPConfig{})
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		t.Fatal("send should not be called when SMTP is unconfigured")
		return nil
	}

	if err := m.ApplicationReceived(testApp()); err != nil {
		t.Errorf("Expected no-op, got %v", err)
	}
}
