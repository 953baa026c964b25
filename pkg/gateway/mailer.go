package gateway

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"user-registration/pkg/utils"
)

// WelcomeSubject is the subject line of the confirmation email
const WelcomeSubject = "Welcome to Our App!"

//go:embed templates/welcome.html
var templateFS embed.FS

var welcomeTemplate = template.Must(template.ParseFS(templateFS, "templates/welcome.html"))

// Message is one outgoing email
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers a message and returns a provider message id
type Mailer interface {
	Send(ctx context.Context, userID string, msg Message) (string, error)
	Mode() string
}

// RenderWelcome builds the confirmation email for userID
func RenderWelcome(userID, email string) (Message, error) {
	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, struct{ UserID string }{userID}); err != nil {
		return Message{}, fmt.Errorf("render welcome email: %w", err)
	}
	return Message{To: email, Subject: WelcomeSubject, HTML: buf.String()}, nil
}

// LogMailer simulates delivery for local development
type LogMailer struct {
	Logger *slog.Logger
	Delay  time.Duration
}

func (m *LogMailer) Mode() string { return "local-simulated" }

func (m *LogMailer) Send(ctx context.Context, userID string, msg Message) (string, error) {
	m.Logger.Info("simulating email", "userId", userID, "emailHash", utils.HashEmail(msg.To), "subject", msg.Subject)
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "msg-" + userID, nil
}

// SMTPMailer delivers through a plain SMTP relay
type SMTPMailer struct {
	Addr     string
	From     string
	Username string
	Password string

	// sendMail is smtp.SendMail; replaced in tests
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates a mailer for addr (host:port)
func NewSMTPMailer(addr, from, username, password string) *SMTPMailer {
	return &SMTPMailer{
		Addr:     addr,
		From:     from,
		Username: username,
		Password: password,
		sendMail: smtp.SendMail,
	}
}

func (m *SMTPMailer) Mode() string { return "smtp" }

func (m *SMTPMailer) Send(ctx context.Context, userID string, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var auth smtp.Auth
	if m.Username != "" {
		host := m.Addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.Username, m.Password, host)
	}

	messageID := fmt.Sprintf("msg-%s", userID)
	var body bytes.Buffer
	fmt.Fprintf(&body, "From: %s\r\n", m.From)
	fmt.Fprintf(&body, "To: %s\r\n", msg.To)
	fmt.Fprintf(&body, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&body, "Message-ID: <%s@%s>\r\n", messageID, "user-registration")
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	body.WriteString(msg.HTML)

	if err := m.sendMail(m.Addr, auth, m.From, []string{msg.To}, body.Bytes()); err != nil {
		return "", fmt.Errorf("error sending email: %w", err)
	}
	return messageID, nil
}
