package notify

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/candidhq/intake/internal/core/config"
	"github.com/candidhq/intake/internal/core/domain"
)

// Notifier sends candidate-facing mail. Failures are logged by callers and
// never fail the triggering request.
type Notifier interface {
	ApplicationReceived(app *domain.Application) error
	StatusChanged(app *domain.Application, previous domain.ApplicationStatus) error
}

// Mailer implements Notifier over SMTP.
type Mailer struct {
	cfg config.SMTPConfig
	log *slog.Logger

	// send is swapped out by tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates an SMTP mailer.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		cfg:  cfg,
		log:  slog.Default().With("component", "notify"),
		send: smtp.SendMail,
	}
}

// Enabled reports whether outbound mail is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

// ApplicationReceived mails the candidate a confirmation and copies the
// admin inbox when one is configured.
func (m *Mailer) ApplicationReceived(app *domain.Application) error {
	body, err := render(receivedTemplate, app, "")
	if err != nil {
		return err
	}

	to := []string{app.Email}
	if m.cfg.AdminTo != "" {
		to = append(to, m.cfg.AdminTo)
	}
	return m.deliver(to, fmt.Sprintf("Application received: %s", app.Position), body)
}

// StatusChanged mails the candidate when their review status moves.
func (m *Mailer) StatusChanged(app *domain.Application, previous domain.ApplicationStatus) error {
	body, err := render(statusTemplate, app, previous)
	if err != nil {
		return err
	}
	return m.deliver([]string{app.Email},
		fmt.Sprintf("Application update: %s", app.Position), body)
}

func (m *Mailer) deliver(to []string, subject, body string) error {
	if !m.Enabled() {
		m.log.Debug("SMTP not configured, skipping mail", "subject", subject)
		return nil
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to[0])
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var a smtp.Auth
	if m.cfg.Username != "" {
		a = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, a, m.cfg.From, to, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
