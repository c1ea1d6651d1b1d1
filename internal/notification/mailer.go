package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"go.uber.org/zap"

	"github.com/Shukladev7/escalation-tracker/internal/config"
)

// Message is an outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

// SendResult reports a delivery outcome. Skipped is true when the transport
// is unconfigured; the caller must treat that as a non-error.
type SendResult struct {
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped,omitempty"`
	Message string `json:"message"`
}

// Mailer sends templated email notifications.
type Mailer interface {
	Send(ctx context.Context, msg Message) (SendResult, error)
}

// SMTPMailer delivers mail over SMTP, skipping silently when unconfigured.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPMailer constructs the mailer.
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers one message. When SMTP is not configured the send is reported
// as successful-but-skipped so mutating flows never fail on missing transport.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) (SendResult, error) {
	if !m.cfg.Configured() {
		m.logger.Warn("smtp not configured; skipping email notification",
			zap.String("to", msg.To), zap.String("subject", msg.Subject))
		return SendResult{Success: true, Skipped: true, Message: "email notification skipped - transport not configured"}, nil
	}
	if msg.To == "" {
		return SendResult{}, fmt.Errorf("no recipient specified")
	}

	if err := m.deliver(ctx, msg); err != nil {
		return SendResult{Success: false, Message: err.Error()}, err
	}
	return SendResult{Success: true, Message: "email notification sent successfully"}, nil
}

func (m *SMTPMailer) deliver(ctx context.Context, msg Message) error {
	var message string
	if msg.HTML {
		message = fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
			m.cfg.From, msg.To, msg.Subject, msg.Body)
	} else {
		message = fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
			m.cfg.From, msg.To, msg.Subject, msg.Body)
	}

	addr := m.cfg.Host + ":" + strconv.Itoa(m.cfg.Port)
	dialer := &net.Dialer{Timeout: m.cfg.SendTimeout()}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if m.cfg.UseTLS {
		tlsConfig := &tls.Config{
			ServerName:         m.cfg.Host,
			InsecureSkipVerify: m.cfg.SkipVerify,
		}
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err = client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}

	if m.cfg.User != "" && m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("failed to set recipient %s: %w", msg.To, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to initiate data transfer: %w", err)
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data transfer: %w", err)
	}

	return client.Quit()
}
