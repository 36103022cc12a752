package mailer

import (
	"context"
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

// Mailer delivers the two transactional emails the auth flow needs.
// SendVerificationCode failures surface to the caller; welcome-email
// failures are expected to be swallowed by callers.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendWelcomeEmail(ctx context.Context, email string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (m *SMTPMailer) SendVerificationCode(_ context.Context, email, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your ClipVault login code")
	msg.SetBody("text/html", verificationBody(code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) SendWelcomeEmail(_ context.Context, email string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Welcome to ClipVault!")
	msg.SetBody("text/html", welcomeBody())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func verificationBody(code string) string {
	return fmt.Sprintf(`
		<h2>Your login code</h2>
		<p>Use the code below to sign in to ClipVault:</p>
		<div style="font-size: 32px; font-weight: 700; letter-spacing: 8px; font-family: monospace;">%s</div>
		<p>The code expires in 10 minutes. If you didn't request it, you can ignore this email.</p>
	`, code)
}

func welcomeBody() string {
	return `
		<h2>Welcome to ClipVault!</h2>
		<p>Your account is ready. Start saving and tagging videos right away.</p>
		<p>Best regards,<br>The ClipVault Team</p>
	`
}

// ConsoleMailer logs codes instead of sending email. Used in development
// when no SMTP host is configured.
type ConsoleMailer struct{}

func NewConsoleMailer() *ConsoleMailer { return &ConsoleMailer{} }

func (m *ConsoleMailer) SendVerificationCode(_ context.Context, email, code string) error {
	log.Printf("[DEV-EMAIL] verification code email=%s code=%s", email, code)
	return nil
}

func (m *ConsoleMailer) SendWelcomeEmail(_ context.Context, email string) error {
	log.Printf("[DEV-EMAIL] welcome email=%s", email)
	return nil
}
